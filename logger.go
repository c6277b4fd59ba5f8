package pdfview

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/gg"
)

// discard drops every record. Enabled is false, so callers never build
// attributes for a silent logger.
type discard struct{}

func (discard) Enabled(context.Context, slog.Level) bool  { return false }
func (discard) Handle(context.Context, slog.Record) error { return nil }
func (d discard) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discard) WithGroup(string) slog.Handler           { return d }

var silent = slog.New(discard{})

// current is read from the owner and delivery goroutines while SetLogger
// may run on any other.
var current atomic.Pointer[slog.Logger]

// SetLogger sets the logger shared by pdfview and its sub-packages. The
// logger is also handed to gg, which rasterizes pages. Logging is off until
// SetLogger is called; nil turns it off again.
//
// Levels:
//   - [slog.LevelDebug]: cache hits, misses, coalescing and evictions;
//     queue traffic and render timings
//   - [slog.LevelInfo]: owner start and stop, documents opened and closed
//   - [slog.LevelWarn]: render failures and results dropped after close
//
// For example:
//
//	pdfview.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	// gg swaps nil for its own nop logger.
	gg.SetLogger(l)
	if l == nil {
		l = silent
	}
	current.Store(l)
}

// Logger returns the logger set by SetLogger, or a silent one.
func Logger() *slog.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	return silent
}
