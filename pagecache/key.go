// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pagecache

import (
	"fmt"
	"math"

	"github.com/gogpu/pdfview/viewport"
)

// DocumentID identifies an open document. IDs are never reused while a
// process runs, so a closed document's keys cannot collide with a new one.
type DocumentID uint64

// Key identifies one renderable image: a page of a document at a zoom
// bucket.
type Key struct {
	Doc  DocumentID
	Page uint32
	// Zoom is the zoom factor as an integer percentage (100 for 1.0).
	Zoom uint32
}

// NewKey builds the key for page at zoom factor zoom.
func NewKey(doc DocumentID, page int, zoom float64) Key {
	return Key{Doc: doc, Page: uint32(max(page, 0)), Zoom: ZoomBucket(zoom)}
}

// MaxZoomBucket is the largest zoom bucket, matching viewport.MaxZoom.
const MaxZoomBucket = uint32(viewport.MaxZoom * 100)

// ZoomBucket quantizes a zoom factor to an integer percentage so that
// nearly equal factors share a cache slot. Factors that are not positive
// and finite, or that round above MaxZoomBucket, map to 0, which no
// renderable key uses.
func ZoomBucket(zoom float64) uint32 {
	if !(zoom > 0) || math.IsInf(zoom, 1) {
		return 0
	}
	b := math.Round(zoom * 100)
	if b > float64(MaxZoomBucket) {
		return 0
	}
	return uint32(b)
}

func (k Key) String() string {
	return fmt.Sprintf("doc %d page %d @%d%%", k.Doc, k.Page, k.Zoom)
}
