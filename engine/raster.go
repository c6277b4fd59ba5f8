// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package engine

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"math"
	"os"
	"sync/atomic"
	"time"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"rsc.io/pdf"

	"github.com/gogpu/pdfview"
)

// defaultPageSize is US Letter, used when a page has no usable MediaBox.
var defaultPageSize = Size{Width: 612, Height: 792}

// maxTreeDepth bounds the walk up /Parent links looking for an inherited
// MediaBox, so a cyclic page tree cannot hang the owner.
const maxTreeDepth = 64

// Raster is a software Engine. Document structure is read with rsc.io/pdf;
// pages are rasterized with gogpu/gg: the page background, rectangles from
// the content stream as hairline rules, and text runs in a substitute font.
//
// Raster is not safe for concurrent use and panics if two goroutines are
// inside it at the same time.
type Raster struct {
	opts options

	busy atomic.Bool
	next Handle
	docs map[Handle]*rasterDoc

	font    *text.FontSource
	fontErr error
	faces   map[int]text.Face
}

type rasterDoc struct {
	name   string
	reader *pdf.Reader
	boxes  []pageBox
}

// pageBox is a page's MediaBox: lower-left origin and size.
type pageBox struct {
	x0, y0 float64
	size   Size
}

var _ Engine = (*Raster)(nil)

// NewRaster creates a software raster engine.
func NewRaster(opts ...Option) *Raster {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Raster{
		opts:  o,
		docs:  make(map[Handle]*rasterDoc),
		faces: make(map[int]text.Face),
	}
}

// enter marks the engine busy. A second concurrent caller means the engine
// escaped its owner, which is unrecoverable.
func (r *Raster) enter() {
	if !r.busy.CompareAndSwap(false, true) {
		panic(&ConcurrentUseError{Engine: "engine: Raster"})
	}
}

func (r *Raster) leave() {
	r.busy.Store(false)
}

// Open implements Engine.
func (r *Raster) Open(src Source) (h Handle, err error) {
	r.enter()
	defer r.leave()

	data := src.Data
	if data == nil {
		if src.Path == "" {
			return 0, LoadFailed(errors.New("empty source"))
		}
		data, err = os.ReadFile(src.Path)
		if err != nil {
			return 0, LoadFailed(err)
		}
	}

	doc, err := parseDocument(src.DisplayName(), data)
	if err != nil {
		return 0, err
	}

	r.next++
	h = r.next
	r.docs[h] = doc
	pdfview.Logger().Debug("engine: document opened",
		"document", doc.name, "handle", uint64(h), "pages", len(doc.boxes))
	return h, nil
}

// parseDocument reads the page tree. rsc.io/pdf panics on some malformed
// inputs; those become load failures.
func parseDocument(name string, data []byte) (doc *rasterDoc, err error) {
	defer func() {
		if p := recover(); p != nil {
			doc = nil
			err = LoadFailed(fmt.Errorf("malformed document: %v", p))
		}
	}()

	rd, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, LoadFailed(err)
	}
	n := rd.NumPage()
	if n <= 0 {
		return nil, LoadFailed(errors.New("document has no pages"))
	}

	boxes := make([]pageBox, n)
	for i := range boxes {
		boxes[i] = mediaBox(rd.Page(i + 1))
	}
	return &rasterDoc{name: name, reader: rd, boxes: boxes}, nil
}

// mediaBox returns the page's MediaBox, inherited through the page tree
// if needed.
func mediaBox(p pdf.Page) pageBox {
	v := p.V
	for range maxTreeDepth {
		if v.Kind() != pdf.Dict {
			break
		}
		if box := v.Key("MediaBox"); box.Kind() == pdf.Array && box.Len() == 4 {
			x0, y0 := box.Index(0).Float64(), box.Index(1).Float64()
			x1, y1 := box.Index(2).Float64(), box.Index(3).Float64()
			w, h := math.Abs(x1-x0), math.Abs(y1-y0)
			if w > 0 && h > 0 {
				return pageBox{
					x0:   math.Min(x0, x1),
					y0:   math.Min(y0, y1),
					size: Size{Width: w, Height: h},
				}
			}
		}
		v = v.Key("Parent")
	}
	return pageBox{size: defaultPageSize}
}

func (r *Raster) lookup(h Handle) (*rasterDoc, error) {
	doc, ok := r.docs[h]
	if !ok {
		return nil, fmt.Errorf("%w: handle %d", ErrUnknownDocument, uint64(h))
	}
	return doc, nil
}

// PageCount implements Engine.
func (r *Raster) PageCount(h Handle) (int, error) {
	r.enter()
	defer r.leave()

	doc, err := r.lookup(h)
	if err != nil {
		return 0, err
	}
	return len(doc.boxes), nil
}

// PageDimensions implements Engine.
func (r *Raster) PageDimensions(h Handle, index int) (Size, error) {
	r.enter()
	defer r.leave()

	doc, err := r.lookup(h)
	if err != nil {
		return Size{}, err
	}
	if index < 0 || index >= len(doc.boxes) {
		return Size{}, InvalidPage(index, len(doc.boxes))
	}
	return doc.boxes[index].size, nil
}

// Render implements Engine.
func (r *Raster) Render(h Handle, index, width, height int) (*Bitmap, error) {
	r.enter()
	defer r.leave()

	doc, err := r.lookup(h)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(doc.boxes) {
		return nil, InvalidPage(index, len(doc.boxes))
	}
	if width <= 0 || height <= 0 {
		return nil, RenderFailed(index, fmt.Errorf("invalid target size %dx%d", width, height))
	}
	if px := int64(width) * int64(height); px > r.opts.maxPixels {
		return nil, RenderFailed(index, fmt.Errorf("target %dx%d exceeds %d pixels", width, height, r.opts.maxPixels))
	}

	start := time.Now()
	bm, err := r.rasterize(doc, index, width, height)
	if err != nil {
		return nil, err
	}
	pdfview.Logger().Debug("engine: page rendered",
		"document", doc.name, "page", index,
		"width", width, "height", height, "elapsed", time.Since(start))
	return bm, nil
}

func (r *Raster) rasterize(doc *rasterDoc, index, width, height int) (bm *Bitmap, err error) {
	defer func() {
		if p := recover(); p != nil {
			bm = nil
			err = RenderFailed(index, fmt.Errorf("content stream: %v", p))
		}
	}()

	box := doc.boxes[index]
	sx := float64(width) / box.size.Width
	sy := float64(height) / box.size.Height

	dc := gg.NewContext(width, height)
	defer dc.Close()
	dc.ClearWithColor(gg.FromColor(r.opts.background))

	content := doc.reader.Page(index + 1).Content()

	// PDF space has its origin at the bottom left; device space at the top left.
	toDevice := func(x, y float64) (float64, float64) {
		return (x - box.x0) * sx, (box.size.Height - (y - box.y0)) * sy
	}

	dc.SetColor(r.opts.ink)
	dc.SetLineWidth(math.Max(1, 0.5*sy))
	for _, rect := range content.Rect {
		x0, y0 := toDevice(rect.Min.X, rect.Min.Y)
		x1, y1 := toDevice(rect.Max.X, rect.Max.Y)
		dc.DrawRectangle(math.Min(x0, x1), math.Min(y0, y1), math.Abs(x1-x0), math.Abs(y1-y0))
		if err := dc.Stroke(); err != nil {
			return nil, RenderFailed(index, err)
		}
	}

	if r.opts.text && len(content.Text) > 0 {
		for _, t := range content.Text {
			face := r.face(t.FontSize * sy)
			if face == nil {
				continue
			}
			dc.SetFont(face)
			x, y := toDevice(t.X, t.Y)
			dc.DrawString(t.S, x, y)
		}
	}

	return toBitmap(dc.Image()), nil
}

// face returns a cached face for a pixel size, nil if text cannot be drawn.
func (r *Raster) face(px float64) text.Face {
	if px < 1 || math.IsNaN(px) || math.IsInf(px, 0) {
		return nil
	}
	if r.font == nil && r.fontErr == nil {
		r.font, r.fontErr = text.NewFontSource(r.opts.fontData)
		if r.fontErr != nil {
			pdfview.Logger().Warn("engine: font unavailable, text disabled", "err", r.fontErr)
		}
	}
	if r.fontErr != nil {
		return nil
	}
	// Quarter-pixel buckets keep the face cache small.
	bucket := int(math.Round(px * 4))
	f, ok := r.faces[bucket]
	if !ok {
		f = r.font.Face(float64(bucket) / 4)
		r.faces[bucket] = f
	}
	return f
}

func toBitmap(img image.Image) *Bitmap {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == rgba.Rect.Dx()*4 && rgba.Rect.Min == (image.Point{}) {
		return &Bitmap{Width: rgba.Rect.Dx(), Height: rgba.Rect.Dy(), Pix: rgba.Pix}
	}
	b := img.Bounds()
	bm := NewBitmap(b.Dx(), b.Dy())
	draw.Draw(bm.Image(), bm.Image().Rect, img, b.Min, draw.Src)
	return bm
}

// CloseDocument implements Engine.
func (r *Raster) CloseDocument(h Handle) error {
	r.enter()
	defer r.leave()

	doc, err := r.lookup(h)
	if err != nil {
		return err
	}
	delete(r.docs, h)
	pdfview.Logger().Debug("engine: document closed", "document", doc.name, "handle", uint64(h))
	return nil
}

// Close releases every open document and the font.
func (r *Raster) Close() error {
	r.enter()
	defer r.leave()

	clear(r.docs)
	clear(r.faces)
	if r.font != nil {
		err := r.font.Close()
		r.font = nil
		return err
	}
	return nil
}
