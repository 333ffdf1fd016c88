// Package server serves a treegrid over HTTP and AWS Lambda. A request
// without treegrid_id gets a full page; a request with it gets the HTML
// fragment the client widget splices into the table.
package server

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/mesh-intelligence/treegrid/internal/markup"
	"github.com/mesh-intelligence/treegrid/pkg/grid"
	"github.com/mesh-intelligence/treegrid/pkg/types"
)

// fragmentClass marks the element wrapping a scoped response.
const fragmentClass = "treegrid-fragment"

// Options configures a Server.
type Options struct {
	Title       string
	Lang        string
	Scripts     []string
	Stylesheets []string

	// Metrics collects render counters. Nil creates a private registry.
	Metrics *Metrics
	Logger  *slog.Logger
}

// Server renders one grid per request.
type Server struct {
	grid    *grid.Grid
	opts    Options
	page    *template.Template
	metrics *Metrics
	logger  *slog.Logger
}

// response is a transport-neutral render result.
type response struct {
	status      int
	contentType string
	body        string
}

// New creates a Server for g.
func New(g *grid.Grid, opts Options) (*Server, error) {
	if g == nil {
		return nil, errors.New("server: grid is required")
	}
	if opts.Scripts == nil {
		opts.Scripts = DefaultScripts
	}
	if opts.Stylesheets == nil {
		opts.Stylesheets = DefaultStylesheets
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics(nil)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Server{
		grid:    g,
		opts:    opts,
		page:    newPageTemplate(),
		metrics: opts.Metrics,
		logger:  opts.Logger,
	}, nil
}

// Handler returns the routes of the server: the grid at "/" and the
// Prometheus registry at "/metrics".
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", s.metrics.Handler())
	mux.Handle("GET /", s)
	return mux
}

// ServeHTTP renders the grid for r.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req := grid.RequestFromQuery(r.URL.Query())
	req.Route = r.URL.Path

	resp := s.render(r.Context(), req)
	w.Header().Set("Content-Type", resp.contentType)
	w.WriteHeader(resp.status)
	if _, err := w.Write([]byte(resp.body)); err != nil {
		s.logger.Error("error writing response", "error", err, "remote_addr", r.RemoteAddr)
	}
}

// render runs the grid and wraps the output for the transport.
func (s *Server) render(ctx context.Context, req grid.Request) response {
	start := time.Now()
	kind := kindPage
	if req.Scoped() {
		kind = kindFragment
	}

	out, err := s.grid.Render(ctx, req)
	if err != nil {
		status, label := http.StatusInternalServerError, statusError
		if errors.Is(err, types.ErrInvalidKey) {
			status, label = http.StatusBadRequest, statusBadRequest
		}
		s.metrics.observe(kind, label, 0, time.Since(start))
		s.logger.Warn("render failed", "node", req.NodeID, "status", status, "error", err)
		return response{status: status, contentType: "text/plain; charset=utf-8", body: http.StatusText(status)}
	}

	var body string
	if kind == kindFragment {
		// The client looks the token container up with jQuery's find, which
		// only matches below the top-level elements of the response.
		body = markup.Tag("div", out.HTML, markup.Attrs{"class": fragmentClass})
	} else {
		var buf bytes.Buffer
		p := &page{
			Lang:        s.opts.Lang,
			Title:       s.opts.Title,
			Stylesheets: s.opts.Stylesheets,
			Scripts:     s.opts.Scripts,
			Grid:        template.HTML(out.HTML),
			Script:      template.JS(out.Script),
		}
		if err := p.execute(s.page, &buf); err != nil {
			s.metrics.observe(kind, statusError, 0, time.Since(start))
			s.logger.Error("page template failed", "error", err)
			return response{status: http.StatusInternalServerError, contentType: "text/plain; charset=utf-8", body: http.StatusText(http.StatusInternalServerError)}
		}
		body = buf.String()
	}

	s.metrics.observe(kind, statusOK, out.Rows, time.Since(start))
	s.logger.Debug("served treegrid", "kind", kind, "node", req.NodeID, "rows", out.Rows, "scoped", out.Scoped)
	return response{status: http.StatusOK, contentType: "text/html; charset=utf-8", body: body}
}
