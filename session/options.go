// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package session

import "github.com/gogpu/pdfview/pagecache"

// Option configures a Session.
type Option func(*options)

type options struct {
	capacity int
	notify   func(Resolution)
	name     string
}

func defaultOptions() options {
	return options{capacity: pagecache.DefaultCapacity}
}

// WithCacheCapacity sets how many rendered pages the session keeps.
// Values below 1 are ignored.
func WithCacheCapacity(n int) Option {
	return func(o *options) {
		if n >= 1 {
			o.capacity = n
		}
	}
}

// WithNotify registers fn to be called whenever a render requested through
// the session resolves. fn runs on the owner's delivery goroutine and
// should return quickly.
func WithNotify(fn func(Resolution)) Option {
	return func(o *options) {
		o.notify = fn
	}
}

// WithName overrides the display name derived from the document source.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}
