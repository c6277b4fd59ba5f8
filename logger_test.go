package pdfview_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/gogpu/gg"
	"github.com/gogpu/pdfview"
	"github.com/gogpu/pdfview/engine"
	"github.com/gogpu/pdfview/pagecache"
)

// captureLogs routes pdfview logging into a buffer for the test.
func captureLogs(t *testing.T, level slog.Level) *syncBuffer {
	t.Helper()
	prev := pdfview.Logger()
	t.Cleanup(func() { pdfview.SetLogger(prev) })

	buf := &syncBuffer{}
	pdfview.SetLogger(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: level})))
	return buf
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestLoggerSilentByDefault(t *testing.T) {
	l := pdfview.Logger()
	if l == nil {
		t.Fatal("Logger() = nil")
	}
	ctx := context.Background()
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if l.Enabled(ctx, level) {
			t.Errorf("default logger enabled at %v", level)
		}
	}
	// Derived loggers stay silent.
	if l.With("k", "v").WithGroup("g").Enabled(ctx, slog.LevelError) {
		t.Error("derived default logger is enabled")
	}
}

func TestSetLogger(t *testing.T) {
	buf := captureLogs(t, slog.LevelInfo)

	pdfview.Logger().Info("document opened", "document", "paper.pdf")
	pdfview.Logger().Debug("below level")

	out := buf.String()
	if !strings.Contains(out, "document=paper.pdf") {
		t.Errorf("log output missing record: %q", out)
	}
	if strings.Contains(out, "below level") {
		t.Errorf("debug record written at info level: %q", out)
	}
}

func TestSetLoggerNil(t *testing.T) {
	captureLogs(t, slog.LevelDebug)
	pdfview.SetLogger(nil)

	if pdfview.Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) did not restore the silent logger")
	}
}

func TestSetLoggerForwardsToGG(t *testing.T) {
	captureLogs(t, slog.LevelDebug)
	if gg.Logger() != pdfview.Logger() {
		t.Error("gg did not receive the logger passed to SetLogger")
	}

	pdfview.SetLogger(nil)
	if gg.Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) left gg logging enabled")
	}
}

func TestSubPackagesLogThroughRoot(t *testing.T) {
	buf := captureLogs(t, slog.LevelDebug)

	c := pagecache.New(func(pagecache.Key) error { return nil })
	key := pagecache.NewKey(1, 0, 1)
	c.GetOrRequest(key)
	c.Complete(key, engine.NewBitmap(1, 1), nil)
	c.GetOrRequest(key)

	out := buf.String()
	for _, want := range []string{"pagecache: miss", "doc 1 page 0 @100%"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestSetLoggerConcurrent(t *testing.T) {
	prev := pdfview.Logger()
	t.Cleanup(func() { pdfview.SetLogger(prev) })

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				pdfview.SetLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
			} else {
				pdfview.SetLogger(nil)
			}
		}()
		go func() {
			defer wg.Done()
			pdfview.Logger().Debug("render", "page", i)
		}()
	}
	wg.Wait()
}
