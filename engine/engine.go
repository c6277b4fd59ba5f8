// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package engine defines the page rasterization engine contract and a
// software implementation built on rsc.io/pdf and gogpu/gg.
//
// An Engine is not safe for concurrent use. It must be created, used and
// closed by one goroutine for its entire lifetime; the renderq package
// provides that goroutine. Touching an engine from a second goroutine is a
// fatal programming error, and [Raster] panics when it detects it.
package engine

import (
	"fmt"
	"image"
	"path/filepath"
)

// Handle identifies a document opened by an Engine. The zero Handle is
// never returned by Open.
type Handle uint64

// Size is a page size in PDF user-space units (1/72 inch).
type Size struct {
	Width  float64
	Height float64
}

// Scaled returns the pixel dimensions of a page of this size rendered at
// zoom factor z. Each axis is truncated and is at least 1 pixel.
func (s Size) Scaled(z float64) (width, height int) {
	width = max(1, int(s.Width*z))
	height = max(1, int(s.Height*z))
	return width, height
}

func (s Size) String() string {
	return fmt.Sprintf("%gx%g", s.Width, s.Height)
}

// Source is where a document is loaded from: a file path or an in-memory
// byte slice. If Data is non-nil it takes precedence over Path.
type Source struct {
	Name string
	Path string
	Data []byte
}

// FromPath returns a Source reading the file at path.
func FromPath(path string) Source {
	return Source{Name: filepath.Base(path), Path: path}
}

// FromBytes returns a Source for an in-memory document.
func FromBytes(name string, data []byte) Source {
	return Source{Name: name, Data: data}
}

// DisplayName returns the name shown for the document, "Untitled" if the
// source has none.
func (s Source) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	if s.Path != "" {
		return filepath.Base(s.Path)
	}
	return "Untitled"
}

// Bitmap is a rendered page: Width*Height pixels, RGBA, 4 bytes per pixel,
// row-major with stride Width*4.
//
// Bitmaps handed out by the page cache are shared between all callers that
// asked for the same page. They must be treated as read-only.
type Bitmap struct {
	Width  int
	Height int
	Pix    []byte
}

// NewBitmap allocates a zeroed (transparent) bitmap.
func NewBitmap(width, height int) *Bitmap {
	return &Bitmap{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*4),
	}
}

// Stride returns the number of bytes per row.
func (b *Bitmap) Stride() int {
	return b.Width * 4
}

// Image returns an *image.RGBA sharing the bitmap's pixels. Writing to the
// image writes to the bitmap.
func (b *Bitmap) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    b.Pix,
		Stride: b.Stride(),
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// Engine rasterizes pages of loaded documents.
//
// All methods are synchronous and must be called from the goroutine that
// owns the engine. Implementations do no caching of rendered pages.
type Engine interface {
	// Open loads a document. Malformed or unreadable input returns an error
	// matching ErrLoadFailed.
	Open(src Source) (Handle, error)

	// PageCount returns the number of pages of an open document.
	PageCount(h Handle) (int, error)

	// PageDimensions returns the native size of page index (zero-based).
	// An out of range index returns an error matching ErrInvalidPage.
	PageDimensions(h Handle, index int) (Size, error)

	// Render rasterizes page index into a width x height bitmap. Failures
	// match ErrInvalidPage or ErrRenderFailed.
	Render(h Handle, index, width, height int) (*Bitmap, error)

	// CloseDocument releases an open document.
	CloseDocument(h Handle) error
}
