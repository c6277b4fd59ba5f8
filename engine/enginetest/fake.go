// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package enginetest provides a scriptable engine.Engine for tests and a
// builder for small in-memory PDF files.
package enginetest

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/gogpu/pdfview/engine"
)

// RenderCall records one Render invocation.
type RenderCall struct {
	Handle engine.Handle
	Page   int
	Width  int
	Height int
}

// Fake is an in-memory engine. Documents are registered by name with
// AddDocument and opened through Source.Name. Rendered bitmaps are filled
// with the byte value of the page index so tests can tell pages apart.
//
// Like real engines, Fake panics when entered by two goroutines at once.
// Its inspection methods (Renders, RenderCount, ...) are safe to call from
// any goroutine.
type Fake struct {
	busy atomic.Bool

	mu       sync.Mutex
	library  map[string][]engine.Size
	open     map[engine.Handle][]engine.Size
	next     engine.Handle
	renders  []RenderCall
	failures map[int]error
	gate     chan struct{}
	closed   bool
	released []engine.Handle

	started chan RenderCall
}

var _ engine.Engine = (*Fake)(nil)

// NewFake returns an empty fake engine.
func NewFake() *Fake {
	return &Fake{
		library:  make(map[string][]engine.Size),
		open:     make(map[engine.Handle][]engine.Size),
		failures: make(map[int]error),
		started:  make(chan RenderCall, 256),
	}
}

// Pages returns n copies of size.
func Pages(n int, size engine.Size) []engine.Size {
	s := make([]engine.Size, n)
	for i := range s {
		s[i] = size
	}
	return s
}

// AddDocument registers a document that Open will load for a Source named
// name.
func (f *Fake) AddDocument(name string, sizes ...engine.Size) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.library[name] = sizes
}

// FailRender makes every render of page index fail with err until
// cleared with a nil err. err is wrapped as a RenderFailed error.
func (f *Fake) FailRender(index int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.failures, index)
		return
	}
	f.failures[index] = err
}

// Hold makes subsequent renders block after they have been recorded until
// Release is called.
func (f *Fake) Hold() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gate == nil {
		f.gate = make(chan struct{})
	}
}

// Release unblocks held renders.
func (f *Fake) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gate != nil {
		close(f.gate)
		f.gate = nil
	}
}

// Started delivers every render as it starts.
func (f *Fake) Started() <-chan RenderCall {
	return f.started
}

// Renders returns the renders performed so far, in order.
func (f *Fake) Renders() []RenderCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RenderCall(nil), f.renders...)
}

// RenderCount returns the number of renders performed so far.
func (f *Fake) RenderCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.renders)
}

// Released returns the handles passed to CloseDocument.
func (f *Fake) Released() []engine.Handle {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]engine.Handle(nil), f.released...)
}

// Closed reports whether Close was called.
func (f *Fake) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *Fake) enter() {
	if !f.busy.CompareAndSwap(false, true) {
		panic(&engine.ConcurrentUseError{Engine: "enginetest: Fake"})
	}
}

func (f *Fake) leave() {
	f.busy.Store(false)
}

// Open implements engine.Engine.
func (f *Fake) Open(src engine.Source) (engine.Handle, error) {
	f.enter()
	defer f.leave()

	f.mu.Lock()
	defer f.mu.Unlock()
	sizes, ok := f.library[src.Name]
	if !ok {
		return 0, engine.LoadFailed(errors.New("no such document: " + src.Name))
	}
	if len(sizes) == 0 {
		return 0, engine.LoadFailed(errors.New("document has no pages"))
	}
	f.next++
	f.open[f.next] = sizes
	return f.next, nil
}

func (f *Fake) lookup(h engine.Handle) ([]engine.Size, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sizes, ok := f.open[h]
	if !ok {
		return nil, engine.ErrUnknownDocument
	}
	return sizes, nil
}

// PageCount implements engine.Engine.
func (f *Fake) PageCount(h engine.Handle) (int, error) {
	f.enter()
	defer f.leave()

	sizes, err := f.lookup(h)
	return len(sizes), err
}

// PageDimensions implements engine.Engine.
func (f *Fake) PageDimensions(h engine.Handle, index int) (engine.Size, error) {
	f.enter()
	defer f.leave()

	sizes, err := f.lookup(h)
	if err != nil {
		return engine.Size{}, err
	}
	if index < 0 || index >= len(sizes) {
		return engine.Size{}, engine.InvalidPage(index, len(sizes))
	}
	return sizes[index], nil
}

// Render implements engine.Engine.
func (f *Fake) Render(h engine.Handle, index, width, height int) (*engine.Bitmap, error) {
	f.enter()
	defer f.leave()

	sizes, err := f.lookup(h)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(sizes) {
		return nil, engine.InvalidPage(index, len(sizes))
	}

	call := RenderCall{Handle: h, Page: index, Width: width, Height: height}
	f.mu.Lock()
	f.renders = append(f.renders, call)
	gate := f.gate
	failure := f.failures[index]
	f.mu.Unlock()

	select {
	case f.started <- call:
	default:
	}
	if gate != nil {
		<-gate
	}

	if failure != nil {
		return nil, engine.RenderFailed(index, failure)
	}
	bm := engine.NewBitmap(width, height)
	for i := range bm.Pix {
		bm.Pix[i] = byte(index)
	}
	return bm, nil
}

// CloseDocument implements engine.Engine.
func (f *Fake) CloseDocument(h engine.Handle) error {
	f.enter()
	defer f.leave()

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.open[h]; !ok {
		return engine.ErrUnknownDocument
	}
	delete(f.open, h)
	f.released = append(f.released, h)
	return nil
}

// Close marks the engine closed.
func (f *Fake) Close() error {
	f.enter()
	defer f.leave()

	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}
