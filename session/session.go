// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package session ties one open document to its page cache and to the
// render owner.
//
// A Session turns viewport state into cache keys, sends cache misses to
// the owner and stores what comes back. Closing a session never waits for
// rendering: renders already queued still run, but their results are
// discarded instead of being cached or reported.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/gogpu/pdfview"
	"github.com/gogpu/pdfview/engine"
	"github.com/gogpu/pdfview/pagecache"
	"github.com/gogpu/pdfview/renderq"
	"github.com/gogpu/pdfview/viewport"
)

// ErrClosed is returned by requests on a closed Session.
var ErrClosed = errors.New("session: closed")

// Resolution reports the outcome of a render requested through a Session.
// Exactly one of Bitmap and Err is set.
type Resolution struct {
	Key    pagecache.Key
	Page   int
	Bitmap *engine.Bitmap
	Err    error
}

// Stats contains session statistics.
type Stats struct {
	pagecache.Stats

	// Notified is the number of resolutions reported to the notify
	// function.
	Notified uint64
	// Discarded is the number of results that arrived after Close.
	Discarded uint64
}

// Session is one open document.
//
// Session is safe for concurrent use.
type Session struct {
	id     pagecache.DocumentID
	owner  *renderq.Owner
	info   renderq.DocumentInfo
	name   string
	cache  *pagecache.Cache
	notify func(Resolution)

	closed    atomic.Bool
	notified  atomic.Uint64
	discarded atomic.Uint64
}

// Open loads src through owner and returns a session for it. It blocks
// until the owner has loaded the document or ctx ends.
func Open(ctx context.Context, owner *renderq.Owner, src engine.Source, opts ...Option) (*Session, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	info, err := owner.Open(ctx, src)
	if err != nil {
		return nil, err
	}

	s := &Session{
		id:     pagecache.DocumentID(info.Handle),
		owner:  owner,
		info:   info,
		name:   info.Name,
		notify: o.notify,
	}
	if o.name != "" {
		s.name = o.name
	}
	s.cache = pagecache.New(s.dispatch, pagecache.WithCapacity(o.capacity))

	pdfview.Logger().Info("session: opened",
		"document", s.name, "doc", uint64(s.id), "pages", len(info.Pages))
	return s, nil
}

// dispatch submits a cache miss to the owner.
func (s *Session) dispatch(key pagecache.Key) error {
	page := int(key.Page)
	w, h := s.info.Pages[page].Scaled(float64(key.Zoom) / 100)
	return s.owner.Submit(renderq.Request{
		Key:    key,
		Doc:    s.info.Handle,
		Page:   page,
		Width:  w,
		Height: h,
	}, s.complete)
}

// complete receives a render result on the owner's delivery goroutine.
func (s *Session) complete(res renderq.Result) {
	if s.closed.Load() {
		s.discarded.Add(1)
		// A Request racing Close can put a key in flight after Close
		// invalidated the document; resolve it here so its Pending does
		// not wait forever.
		s.cache.Complete(res.Key, nil, pagecache.ErrDiscarded)
		pdfview.Logger().Warn("session: result for closed document discarded",
			"document", s.name, "key", res.Key)
		return
	}
	if !s.cache.Complete(res.Key, res.Bitmap, res.Err) {
		s.discarded.Add(1)
		return
	}
	if s.notify == nil || s.closed.Load() {
		return
	}
	s.notified.Add(1)
	r := Resolution{Key: res.Key, Page: int(res.Key.Page), Err: res.Err}
	if res.Err == nil {
		r.Bitmap = res.Bitmap
	}
	s.notify(r)
}

// RequestPage returns the page shown by v, either cached or as a Pending
// render. A page index outside the document is an InvalidPage error.
func (s *Session) RequestPage(v viewport.Viewport) (pagecache.Result, error) {
	return s.Request(v.Page(), v.Zoom())
}

// Request returns page at zoom factor zoom, either cached or as a Pending
// render.
func (s *Session) Request(page int, zoom float64) (pagecache.Result, error) {
	if s.closed.Load() {
		return pagecache.Result{}, ErrClosed
	}
	if page < 0 || page >= len(s.info.Pages) {
		return pagecache.Result{}, engine.InvalidPage(page, len(s.info.Pages))
	}
	if pagecache.ZoomBucket(zoom) == 0 {
		return pagecache.Result{}, engine.RenderFailed(page, fmt.Errorf("zoom %g out of range", zoom))
	}

	res := s.cache.GetOrRequest(pagecache.NewKey(s.id, page, zoom))
	if s.closed.Load() {
		// Close ran after the check above.
		s.cache.InvalidateDocument(s.id)
		return pagecache.Result{}, ErrClosed
	}
	if p := res.Pending; p != nil {
		// A submission the owner refused resolves before GetOrRequest
		// returns.
		select {
		case <-p.Done():
			if _, err := p.Result(); errors.Is(err, renderq.ErrClosed) {
				return pagecache.Result{}, err
			}
		default:
		}
	}
	return res, nil
}

// Close discards the session's cached pages and releases the document.
// It does not wait for renders in flight; their results are dropped and
// their Pendings resolve with pagecache.ErrDiscarded. A notification
// already running when Close is called may still complete. Close is safe
// to call multiple times.
func (s *Session) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	n := s.cache.InvalidateDocument(s.id)
	err := s.owner.Release(s.info.Handle)
	if errors.Is(err, renderq.ErrClosed) {
		// The engine, and every document in it, is already gone.
		err = nil
	}
	pdfview.Logger().Info("session: closed", "document", s.name, "doc", uint64(s.id), "dropped_pages", n)
	return err
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	return s.closed.Load()
}

// ID returns the document ID used in cache keys.
func (s *Session) ID() pagecache.DocumentID {
	return s.id
}

// Handle returns the engine handle of the document.
func (s *Session) Handle() engine.Handle {
	return s.info.Handle
}

// Name returns the display name of the document.
func (s *Session) Name() string {
	return s.name
}

// PageCount returns the number of pages.
func (s *Session) PageCount() int {
	return len(s.info.Pages)
}

// PageSize returns the native size of page index.
func (s *Session) PageSize(index int) (engine.Size, error) {
	if index < 0 || index >= len(s.info.Pages) {
		return engine.Size{}, engine.InvalidPage(index, len(s.info.Pages))
	}
	return s.info.Pages[index], nil
}

// NewViewport returns a viewport on the first page of the document at the
// default zoom.
func (s *Session) NewViewport() viewport.Viewport {
	return viewport.New(len(s.info.Pages))
}

// ClearCache drops every cached page. Renders in flight are kept.
func (s *Session) ClearCache() {
	s.cache.Clear()
}

// Cached returns the cached bitmap for page at zoom without affecting
// eviction order.
func (s *Session) Cached(page int, zoom float64) (*engine.Bitmap, bool) {
	return s.cache.Peek(pagecache.NewKey(s.id, page, zoom))
}

// Stats returns a snapshot of session statistics.
func (s *Session) Stats() Stats {
	return Stats{
		Stats:     s.cache.Stats(),
		Notified:  s.notified.Load(),
		Discarded: s.discarded.Load(),
	}
}
