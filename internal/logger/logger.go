// Package logger builds the slog loggers used by the treegrid commands.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Output formats.
const (
	FormatAuto = "auto"
	FormatTint = "tint"
	FormatText = "text"
	FormatJSON = "json"
)

// Options selects the handler of a logger.
type Options struct {
	// Level is one of debug, info, warn or error. Empty means info.
	Level string

	// Format is auto, tint, text or json. Auto picks tint when W is a
	// terminal and text otherwise.
	Format string

	// W defaults to os.Stderr.
	W io.Writer
}

// New creates a logger from opts.
func New(opts Options) (*slog.Logger, error) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	w := opts.W
	if w == nil {
		w = os.Stderr
	}
	format := strings.ToLower(opts.Format)
	if format == "" || format == FormatAuto {
		format = FormatText
		if isTerminal(w) {
			format = FormatTint
		}
	}

	var h slog.Handler
	switch format {
	case FormatTint:
		h = tint.NewHandler(w, &tint.Options{
			Level:      lvl,
			NoColor:    runtime.GOOS == "windows" || !isTerminal(w),
			AddSource:  lvl <= slog.LevelDebug,
			TimeFormat: "15:04:05.000",
		})
	case FormatText:
		h = slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: lvl,
			ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
				if a.Key == slog.LevelKey {
					return slog.String(a.Key, strings.ToLower(a.Value.String()))
				}
				return a
			},
		})
	case FormatJSON:
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	default:
		return nil, fmt.Errorf("unknown log format %q (want auto, tint, text or json)", opts.Format)
	}
	return slog.New(h), nil
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "err", "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
