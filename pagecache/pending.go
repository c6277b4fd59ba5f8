// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pagecache

import (
	"context"

	"github.com/gogpu/pdfview/engine"
)

// Pending is a render in flight. Every caller that asks for the same key
// while it is in flight receives the same Pending and observes the same
// outcome.
type Pending struct {
	key  Key
	done chan struct{}

	// Written once before done is closed.
	bitmap *engine.Bitmap
	err    error
}

func newPending(key Key) *Pending {
	return &Pending{key: key, done: make(chan struct{})}
}

// Key returns the key being rendered.
func (p *Pending) Key() Key {
	return p.key
}

// Done returns a channel closed once the outcome is known.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Result returns the outcome. Before Done is closed it returns
// ErrNotReady.
func (p *Pending) Result() (*engine.Bitmap, error) {
	select {
	case <-p.done:
		return p.bitmap, p.err
	default:
		return nil, ErrNotReady
	}
}

// Wait blocks until the outcome is known or ctx is done.
func (p *Pending) Wait(ctx context.Context) (*engine.Bitmap, error) {
	select {
	case <-p.done:
		return p.bitmap, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *Pending) resolve(bm *engine.Bitmap, err error) {
	p.bitmap = bm
	p.err = err
	close(p.done)
}
