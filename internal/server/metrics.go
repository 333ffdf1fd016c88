package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Render outcomes used as the status label.
const (
	statusOK         = "ok"
	statusBadRequest = "bad_request"
	statusError      = "error"
)

// Render kinds used as the kind label.
const (
	kindPage     = "page"
	kindFragment = "fragment"
)

// Metrics records render counts, durations and row counts.
type Metrics struct {
	registry *prometheus.Registry
	renders  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	rows     prometheus.Histogram
}

// NewMetrics registers the render collectors in reg. A nil reg gets a fresh
// registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		registry: reg,
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "treegrid",
			Name:      "renders_total",
			Help:      "Number of renders by kind and status.",
		}, []string{"kind", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "treegrid",
			Name:      "render_duration_seconds",
			Help:      "Histogram of render times in seconds.",
			Buckets:   []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"kind"}),
		rows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "treegrid",
			Name:      "render_rows",
			Help:      "Number of data rows per successful render.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}
	reg.MustRegister(m.renders, m.duration, m.rows)

	for _, kind := range []string{kindPage, kindFragment} {
		for _, status := range []string{statusOK, statusBadRequest, statusError} {
			m.renders.WithLabelValues(kind, status).Add(0)
		}
	}
	return m
}

// observe records one render.
func (m *Metrics) observe(kind, status string, rows int, elapsed time.Duration) {
	m.renders.WithLabelValues(kind, status).Inc()
	m.duration.WithLabelValues(kind).Observe(elapsed.Seconds())
	if status == statusOK {
		m.rows.Observe(float64(rows))
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
