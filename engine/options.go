// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package engine

import (
	"image/color"

	"golang.org/x/image/font/gofont/goregular"
)

// DefaultMaxPixels is the largest bitmap, in pixels, Raster agrees to
// allocate. A US Letter page at 400% is about 8 Mpx.
const DefaultMaxPixels = 64 << 20

// Option configures a Raster engine.
type Option func(*options)

type options struct {
	maxPixels  int64
	background color.Color
	ink        color.Color
	text       bool
	fontData   []byte
}

func defaultOptions() options {
	return options{
		maxPixels:  DefaultMaxPixels,
		background: color.White,
		ink:        color.Black,
		text:       true,
		fontData:   goregular.TTF,
	}
}

// WithMaxPixels limits the size of rendered bitmaps. Requests above the
// limit fail with ErrRenderFailed. Non-positive values are ignored.
func WithMaxPixels(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxPixels = n
		}
	}
}

// WithBackground sets the page background color (white by default).
func WithBackground(c color.Color) Option {
	return func(o *options) {
		if c != nil {
			o.background = c
		}
	}
}

// WithInk sets the color used for page text and rules (black by default).
func WithInk(c color.Color) Option {
	return func(o *options) {
		if c != nil {
			o.ink = c
		}
	}
}

// WithText enables or disables drawing of page text. Disabling text
// leaves only page geometry, which is considerably faster.
func WithText(enabled bool) Option {
	return func(o *options) {
		o.text = enabled
	}
}

// WithFont sets the TrueType/OpenType font used for page text. The Go
// Regular font is used by default.
func WithFont(ttf []byte) Option {
	return func(o *options) {
		if len(ttf) > 0 {
			o.fontData = ttf
		}
	}
}
