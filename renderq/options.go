// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package renderq

// Option configures an Owner.
type Option func(*options)

type options struct {
	name       string
	lockThread bool
}

func defaultOptions() options {
	return options{
		name:       "render",
		lockThread: true,
	}
}

// WithName sets the name used in log records.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithLockOSThread controls whether the owner goroutine is wired to one
// OS thread for its lifetime (the default). Engines backed by thread-bound
// native libraries need this; pure Go engines do not.
func WithLockOSThread(lock bool) Option {
	return func(o *options) {
		o.lockThread = lock
	}
}
