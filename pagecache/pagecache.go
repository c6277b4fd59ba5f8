// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package pagecache caches rendered pages by (document, page, zoom bucket)
// and coalesces concurrent requests for the same page into one render.
//
// A lookup either hits and returns the bitmap, or returns a [Pending]
// handle. The first miss for a key hands the key to the cache's
// [Dispatcher], which arranges for a render and eventually reports the
// outcome with [Cache.Complete]. Misses for a key that is already in
// flight attach to the existing Pending; no second render is dispatched.
//
// Eviction is strict least-recently-used: hits and completed renders both
// count as uses, and entries that were never touched again leave in
// insertion order.
//
// All methods are safe for concurrent use and are serialized by one mutex.
package pagecache

import (
	"errors"
	"sync"

	"github.com/gogpu/pdfview"
	"github.com/gogpu/pdfview/engine"
	"github.com/gogpu/pdfview/internal/cache"
)

// DefaultCapacity is the number of pages a cache holds by default.
const DefaultCapacity = 10

var (
	// ErrDiscarded resolves renders whose document was invalidated while
	// they were in flight.
	ErrDiscarded = errors.New("pagecache: render discarded")

	// ErrNotReady is returned by Pending.Result before the outcome is known.
	ErrNotReady = errors.New("pagecache: result not ready")

	// errNoBitmap replaces a completion that carries neither bitmap nor error.
	errNoBitmap = errors.New("pagecache: render returned no bitmap")
)

// Dispatcher starts the render for a key. It is called exactly once per
// miss, outside the cache's lock, and must not block on the render. A
// non-nil error completes the key with that error immediately.
type Dispatcher func(Key) error

// Result is the outcome of a lookup: Bitmap on a hit, Pending on a miss.
type Result struct {
	Bitmap  *engine.Bitmap
	Pending *Pending
}

// Hit reports whether the lookup was served from the cache.
func (r Result) Hit() bool {
	return r.Bitmap != nil
}

// Stats contains cache statistics.
type Stats struct {
	// Len is the current number of cached pages.
	Len int
	// Capacity is the maximum number of cached pages.
	Capacity int
	// InFlight is the number of keys currently being rendered.
	InFlight int
	// Hits is the number of lookups served from the cache.
	Hits uint64
	// Misses is the number of lookups that dispatched a render.
	Misses uint64
	// Coalesced is the number of lookups attached to a render in flight.
	Coalesced uint64
	// Evictions is the number of pages evicted to make room.
	Evictions uint64
	// Failures is the number of renders that completed with an error.
	Failures uint64
	// Dropped is the number of completions ignored because their key was
	// no longer in flight.
	Dropped uint64
}

// Cache is a bounded page cache with request coalescing.
type Cache struct {
	mu       sync.Mutex
	entries  *cache.LRU[Key, *engine.Bitmap]
	inflight map[Key]*Pending
	dispatch Dispatcher
	stats    Stats
}

// New creates a cache that dispatches misses to dispatch.
func New(dispatch Dispatcher, opts ...Option) *Cache {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	c := &Cache{
		entries:  cache.NewLRU[Key, *engine.Bitmap](o.capacity),
		inflight: make(map[Key]*Pending),
		dispatch: dispatch,
	}
	c.entries.OnEvict(func(k Key, _ *engine.Bitmap) {
		c.stats.Evictions++
		pdfview.Logger().Debug("pagecache: evicted", "key", k)
	})
	return c
}

// GetOrRequest returns the cached bitmap for key, or a Pending for its
// render. Only the first miss for a key dispatches a render.
func (c *Cache) GetOrRequest(key Key) Result {
	c.mu.Lock()
	if bm, ok := c.entries.Get(key); ok {
		c.stats.Hits++
		c.mu.Unlock()
		return Result{Bitmap: bm}
	}
	if p, ok := c.inflight[key]; ok {
		c.stats.Coalesced++
		c.mu.Unlock()
		pdfview.Logger().Debug("pagecache: coalesced", "key", key)
		return Result{Pending: p}
	}
	p := newPending(key)
	c.inflight[key] = p
	c.stats.Misses++
	c.mu.Unlock()

	pdfview.Logger().Debug("pagecache: miss", "key", key)
	if c.dispatch == nil {
		c.Complete(key, nil, errors.New("pagecache: no dispatcher"))
	} else if err := c.dispatch(key); err != nil {
		c.Complete(key, nil, err)
	}
	return Result{Pending: p}
}

// Complete records the outcome of the render for key and resolves its
// Pending. On success the bitmap is cached, evicting the least recently
// used page if the cache is full. On failure nothing is cached, so the next
// request for key renders again.
//
// Complete reports whether key was in flight; outcomes for keys that are
// not (for example after InvalidateDocument) are dropped.
func (c *Cache) Complete(key Key, bm *engine.Bitmap, err error) bool {
	if err == nil && bm == nil {
		err = errNoBitmap
	}

	c.mu.Lock()
	p, ok := c.inflight[key]
	if !ok {
		c.stats.Dropped++
		c.mu.Unlock()
		pdfview.Logger().Debug("pagecache: dropped completion", "key", key)
		return false
	}
	delete(c.inflight, key)
	if err == nil {
		c.entries.Add(key, bm)
	} else {
		c.stats.Failures++
		bm = nil
	}
	c.mu.Unlock()

	p.resolve(bm, err)
	return true
}

// Invalidate removes the cached page for key and reports whether it was
// present. A render in flight for key is not affected.
func (c *Cache) Invalidate(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Remove(key)
}

// InvalidateDocument removes every cached page of doc and abandons its
// renders in flight: their Pendings resolve with ErrDiscarded and their
// eventual completions are dropped. It returns the number of cached pages
// removed.
func (c *Cache) InvalidateDocument(doc DocumentID) int {
	c.mu.Lock()
	n := c.entries.RemoveFunc(func(k Key) bool { return k.Doc == doc })
	var abandoned []*Pending
	for k, p := range c.inflight {
		if k.Doc == doc {
			abandoned = append(abandoned, p)
			delete(c.inflight, k)
		}
	}
	c.mu.Unlock()

	for _, p := range abandoned {
		p.resolve(nil, ErrDiscarded)
	}
	if n > 0 || len(abandoned) > 0 {
		pdfview.Logger().Debug("pagecache: document invalidated",
			"doc", uint64(doc), "removed", n, "abandoned", len(abandoned))
	}
	return n
}

// Clear removes every cached page. Renders in flight are kept.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Clear()
}

// Peek returns the cached bitmap for key without affecting LRU order.
func (c *Cache) Peek(key Key) (*engine.Bitmap, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Peek(key)
}

// InFlight reports whether a render for key is outstanding.
func (c *Cache) InFlight(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.inflight[key]
	return ok
}

// Keys returns the cached keys from least to most recently used.
func (c *Cache) Keys() []Key {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Keys()
}

// Len returns the number of cached pages.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}

// Capacity returns the maximum number of cached pages.
func (c *Cache) Capacity() int {
	return c.entries.Capacity()
}

// Stats returns a snapshot of the cache statistics.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Len = c.entries.Len()
	s.Capacity = c.entries.Capacity()
	s.InFlight = len(c.inflight)
	return s
}
