// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pagecache

// Option configures a Cache.
type Option func(*options)

type options struct {
	capacity int
}

func defaultOptions() options {
	return options{capacity: DefaultCapacity}
}

// WithCapacity sets the maximum number of cached pages. Values below 1 are
// ignored.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n >= 1 {
			o.capacity = n
		}
	}
}
