// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package renderq runs a render engine on a single owner goroutine and
// provides the request queue through which everything else reaches it.
//
// The engine is created by a factory running on the owner goroutine and
// never leaves it. Requests are executed strictly in arrival order with no
// priorities or preemption: a slow page delays everything queued behind
// it, across all documents.
//
// Render results are not delivered on the owner goroutine. A second
// goroutine hands them to their reply functions in completion order, so a
// slow reply cannot stall rendering.
package renderq

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/pdfview"
	"github.com/gogpu/pdfview/engine"
	"github.com/gogpu/pdfview/pagecache"
)

// ErrClosed is returned when submitting to, or waiting on, a closed Owner.
var ErrClosed = errors.New("renderq: owner closed")

// Factory creates the engine. It runs on the owner goroutine.
type Factory func() (engine.Engine, error)

// Request asks for one page rendered at a target size.
type Request struct {
	Key    pagecache.Key
	Doc    engine.Handle
	Page   int
	Width  int
	Height int
}

// Result is the outcome of a Request.
type Result struct {
	Key     pagecache.Key
	Bitmap  *engine.Bitmap
	Err     error
	Elapsed time.Duration
}

// DocumentInfo describes a document opened through the owner.
type DocumentInfo struct {
	Handle engine.Handle
	Name   string
	Pages  []engine.Size
}

// Stats contains owner statistics.
type Stats struct {
	// Queued is the number of jobs waiting for the owner.
	Queued int
	// Rendered is the number of successful renders.
	Rendered uint64
	// Failed is the number of failed renders.
	Failed uint64
	// Aborted is the number of jobs failed with ErrClosed at shutdown.
	Aborted uint64
}

// job is one unit of owner work. Exactly one of run or abort is called.
type job struct {
	run   func(engine.Engine)
	abort func(error)
}

// Owner exclusively owns an engine.
//
// Owner is safe for concurrent use.
type Owner struct {
	opts options

	jobs    *queue[job]
	replies *queue[func()]

	running  atomic.Bool
	done     chan struct{} // closed by Close
	loopDone chan struct{} // closed when the owner goroutine exits
	wg       sync.WaitGroup
	closeErr error

	rendered atomic.Uint64
	failed   atomic.Uint64
	aborted  atomic.Uint64
}

// Start launches the owner goroutine and creates the engine on it. If the
// factory fails, Start returns its error and the owner is not usable.
func Start(factory Factory, opts ...Option) (*Owner, error) {
	o := &Owner{
		opts:     defaultOptions(),
		jobs:     newQueue[job](),
		replies:  newQueue[func()](),
		done:     make(chan struct{}),
		loopDone: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(&o.opts)
	}

	started := make(chan error, 1)
	o.wg.Add(2)
	go o.loop(factory, started)
	go o.deliver()

	if err := <-started; err != nil {
		close(o.done)
		o.wg.Wait()
		return nil, fmt.Errorf("renderq: start engine: %w", err)
	}
	o.running.Store(true)
	pdfview.Logger().Info("renderq: owner started", "owner", o.opts.name, "locked_thread", o.opts.lockThread)
	return o, nil
}

// loop is the owner goroutine: receive, render, reply.
func (o *Owner) loop(factory Factory, started chan<- error) {
	defer o.wg.Done()
	defer close(o.loopDone)

	if o.opts.lockThread {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
	}

	eng, err := newEngine(factory)
	started <- err
	if err != nil {
		return
	}

	for {
		select {
		case <-o.done:
			o.shutdown(eng)
			return
		default:
		}

		j, ok := o.jobs.pop()
		if !ok {
			select {
			case <-o.jobs.signal:
			case <-o.done:
			}
			continue
		}
		o.run(eng, j)
	}
}

func newEngine(factory Factory) (eng engine.Engine, err error) {
	if factory == nil {
		return nil, errors.New("nil factory")
	}
	defer func() {
		if p := recover(); p != nil {
			eng, err = nil, fmt.Errorf("factory panic: %v", p)
		}
	}()
	eng, err = factory()
	if err == nil && eng == nil {
		err = errors.New("factory returned nil engine")
	}
	return eng, err
}

// run executes a job. A panicking job is aborted instead of taking the
// owner down with it, except when the engine reports concurrent use: the
// single-owner guarantee is broken and nothing it returns can be trusted.
func (o *Owner) run(eng engine.Engine, j job) {
	defer func() {
		if p := recover(); p != nil {
			if err, ok := p.(error); ok {
				var cu *engine.ConcurrentUseError
				if errors.As(err, &cu) {
					panic(p)
				}
			}
			pdfview.Logger().Error("renderq: job panicked", "owner", o.opts.name, "panic", p)
			j.abort(fmt.Errorf("renderq: job panicked: %v", p))
		}
	}()
	j.run(eng)
}

// shutdown fails every queued job and closes the engine.
func (o *Owner) shutdown(eng engine.Engine) {
	rest := o.jobs.close()
	for _, j := range rest {
		o.aborted.Add(1)
		j.abort(ErrClosed)
	}
	if c, ok := eng.(io.Closer); ok {
		o.closeErr = c.Close()
	}
	pdfview.Logger().Info("renderq: owner stopped",
		"owner", o.opts.name, "aborted", len(rest), "rendered", o.rendered.Load())
}

// deliver hands results to reply functions in completion order.
func (o *Owner) deliver() {
	defer o.wg.Done()
	for {
		fn, ok := o.replies.pop()
		if ok {
			fn()
			continue
		}
		select {
		case <-o.replies.signal:
		case <-o.loopDone:
			for _, fn := range o.replies.close() {
				fn()
			}
			return
		}
	}
}

func (o *Owner) enqueue(j job) error {
	if !o.running.Load() || !o.jobs.push(j) {
		return ErrClosed
	}
	return nil
}

// Submit queues a render request. It never blocks on rendering. reply is
// called exactly once, on the delivery goroutine, with the result; if the
// owner shuts down first the result carries ErrClosed. Submit returns
// ErrClosed, and reply is not called, if the owner is already closed.
func (o *Owner) Submit(req Request, reply func(Result)) error {
	if reply == nil {
		reply = func(Result) {}
	}
	err := o.enqueue(job{
		run: func(eng engine.Engine) {
			start := time.Now()
			bm, err := eng.Render(req.Doc, req.Page, req.Width, req.Height)
			res := Result{Key: req.Key, Bitmap: bm, Err: err, Elapsed: time.Since(start)}
			if err != nil {
				o.failed.Add(1)
				pdfview.Logger().Warn("renderq: render failed", "key", req.Key, "err", err)
			} else {
				o.rendered.Add(1)
				pdfview.Logger().Debug("renderq: rendered", "key", req.Key, "elapsed", res.Elapsed)
			}
			o.replies.push(func() { reply(res) })
		},
		abort: func(err error) {
			res := Result{Key: req.Key, Err: err}
			o.replies.push(func() { reply(res) })
		},
	})
	if err == nil {
		pdfview.Logger().Debug("renderq: enqueued", "key", req.Key,
			"width", req.Width, "height", req.Height, "queued", o.jobs.len())
	}
	return err
}

// call runs fn on the owner goroutine and waits for it. If ctx ends first,
// call returns ctx.Err() and, should fn later succeed, runs abandoned.
func (o *Owner) call(ctx context.Context, fn func(engine.Engine) error, abandoned func()) error {
	errc := make(chan error, 1)
	err := o.enqueue(job{
		run:   func(eng engine.Engine) { errc <- fn(eng) },
		abort: func(err error) { errc <- err },
	})
	if err != nil {
		return err
	}

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		if abandoned != nil {
			go func() {
				if err := <-errc; err == nil {
					abandoned()
				}
			}()
		}
		return ctx.Err()
	}
}

// Open loads a document on the owner and reads its page sizes in the same
// job.
func (o *Owner) Open(ctx context.Context, src engine.Source) (DocumentInfo, error) {
	var info DocumentInfo
	err := o.call(ctx, func(eng engine.Engine) error {
		h, err := eng.Open(src)
		if err != nil {
			return err
		}
		n, err := eng.PageCount(h)
		if err == nil && n <= 0 {
			err = engine.LoadFailed(errors.New("document has no pages"))
		}
		if err != nil {
			_ = eng.CloseDocument(h)
			return err
		}
		pages := make([]engine.Size, n)
		for i := range pages {
			if pages[i], err = eng.PageDimensions(h, i); err != nil {
				_ = eng.CloseDocument(h)
				return engine.LoadFailed(err)
			}
		}
		info = DocumentInfo{Handle: h, Name: src.DisplayName(), Pages: pages}
		return nil
	}, func() {
		_ = o.Release(info.Handle)
	})
	if err != nil {
		return DocumentInfo{}, err
	}
	pdfview.Logger().Info("renderq: document opened",
		"owner", o.opts.name, "document", info.Name, "pages", len(info.Pages))
	return info, nil
}

// PageCount returns the number of pages of an open document.
func (o *Owner) PageCount(ctx context.Context, h engine.Handle) (int, error) {
	var n int
	err := o.call(ctx, func(eng engine.Engine) (err error) {
		n, err = eng.PageCount(h)
		return err
	}, nil)
	return n, err
}

// PageDimensions returns the native size of one page.
func (o *Owner) PageDimensions(ctx context.Context, h engine.Handle, index int) (engine.Size, error) {
	var size engine.Size
	err := o.call(ctx, func(eng engine.Engine) (err error) {
		size, err = eng.PageDimensions(h, index)
		return err
	}, nil)
	return size, err
}

// Release closes a document on the owner without waiting. Renders queued
// before it still run.
func (o *Owner) Release(h engine.Handle) error {
	return o.enqueue(job{
		run: func(eng engine.Engine) {
			if err := eng.CloseDocument(h); err != nil {
				pdfview.Logger().Warn("renderq: release failed", "handle", uint64(h), "err", err)
			}
		},
		abort: func(error) {},
	})
}

// Close stops the owner. Queued jobs fail with ErrClosed, a render in
// progress finishes first, pending replies are delivered, and the engine
// is closed if it implements io.Closer. Close is safe to call multiple
// times; it returns the engine's Close error. Close must not be called
// from a reply function.
func (o *Owner) Close() error {
	if !o.running.CompareAndSwap(true, false) {
		o.wg.Wait()
		return o.closeErr
	}
	close(o.done)
	o.wg.Wait()
	return o.closeErr
}

// Running reports whether the owner accepts work.
func (o *Owner) Running() bool {
	return o.running.Load()
}

// Name returns the owner's name.
func (o *Owner) Name() string {
	return o.opts.name
}

// Stats returns a snapshot of owner statistics.
func (o *Owner) Stats() Stats {
	return Stats{
		Queued:   o.jobs.len(),
		Rendered: o.rendered.Load(),
		Failed:   o.failed.Load(),
		Aborted:  o.aborted.Load(),
	}
}
