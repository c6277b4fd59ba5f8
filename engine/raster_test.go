// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package engine_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/pdfview/engine"
	"github.com/gogpu/pdfview/engine/enginetest"
)

// testDocument has a 200x100 page with a framed box and a line of text,
// and a second page inheriting the Letter MediaBox of the page tree.
func testDocument() []byte {
	return enginetest.PDF(
		enginetest.Page{
			MediaBox: [4]float64{0, 0, 200, 100},
			Content:  "1 w 20 20 100 50 re S BT /F1 12 Tf 30 40 Td (Hi) Tj ET",
		},
		enginetest.Page{},
	)
}

func openTest(t *testing.T, r *engine.Raster) engine.Handle {
	t.Helper()
	h, err := r.Open(engine.FromBytes("test.pdf", testDocument()))
	if err != nil {
		t.Fatalf("Open() = %v", err)
	}
	return h
}

func TestRasterOpen(t *testing.T) {
	r := engine.NewRaster()
	defer r.Close()

	h := openTest(t, r)
	if h == 0 {
		t.Fatal("Open() returned the zero handle")
	}

	n, err := r.PageCount(h)
	if err != nil || n != 2 {
		t.Fatalf("PageCount() = %d, %v; want 2, nil", n, err)
	}
}

func TestRasterOpenFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.pdf")
	if err := os.WriteFile(path, testDocument(), 0o600); err != nil {
		t.Fatal(err)
	}

	r := engine.NewRaster()
	defer r.Close()
	h, err := r.Open(engine.FromPath(path))
	if err != nil {
		t.Fatalf("Open() = %v", err)
	}
	if n, _ := r.PageCount(h); n != 2 {
		t.Errorf("PageCount() = %d, want 2", n)
	}
}

func TestRasterOpenFailures(t *testing.T) {
	tests := []struct {
		name string
		src  engine.Source
	}{
		{"garbage", engine.FromBytes("x", []byte("definitely not a pdf"))},
		{"empty bytes", engine.FromBytes("x", []byte{})},
		{"missing file", engine.FromPath(filepath.Join(t.TempDir(), "nope.pdf"))},
		{"empty source", engine.Source{}},
	}
	r := engine.NewRaster()
	defer r.Close()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Open(tt.src)
			if !errors.Is(err, engine.ErrLoadFailed) {
				t.Errorf("Open() = %v, want ErrLoadFailed", err)
			}
		})
	}
}

func TestRasterPageDimensions(t *testing.T) {
	r := engine.NewRaster()
	defer r.Close()
	h := openTest(t, r)

	tests := []struct {
		page int
		want engine.Size
	}{
		{0, engine.Size{Width: 200, Height: 100}},
		{1, engine.Size{Width: 612, Height: 792}},
	}
	for _, tt := range tests {
		got, err := r.PageDimensions(h, tt.page)
		if err != nil {
			t.Fatalf("PageDimensions(%d) = %v", tt.page, err)
		}
		if got != tt.want {
			t.Errorf("PageDimensions(%d) = %v, want %v", tt.page, got, tt.want)
		}
	}

	for _, bad := range []int{-1, 2, 100} {
		if _, err := r.PageDimensions(h, bad); !errors.Is(err, engine.ErrInvalidPage) {
			t.Errorf("PageDimensions(%d) = %v, want ErrInvalidPage", bad, err)
		}
	}
}

func TestRasterRender(t *testing.T) {
	r := engine.NewRaster()
	defer r.Close()
	h := openTest(t, r)

	bm, err := r.Render(h, 0, 200, 100)
	if err != nil {
		t.Fatalf("Render() = %v", err)
	}
	if bm.Width != 200 || bm.Height != 100 {
		t.Fatalf("bitmap is %dx%d, want 200x100", bm.Width, bm.Height)
	}
	if len(bm.Pix) != 200*100*4 {
		t.Fatalf("len(Pix) = %d, want %d", len(bm.Pix), 200*100*4)
	}

	img := bm.Image()
	if c := img.RGBAAt(2, 2); c.R != 255 || c.G != 255 || c.B != 255 || c.A != 255 {
		t.Errorf("background pixel = %v, want opaque white", c)
	}

	// The box's left edge runs along x=20 from y=30 to y=80 in device space.
	inked := false
	for x := 18; x <= 22; x++ {
		if c := img.RGBAAt(x, 55); c.R < 200 {
			inked = true
		}
	}
	if !inked {
		t.Error("no ink found along the rectangle's left edge")
	}
}

func TestRasterRenderScaled(t *testing.T) {
	r := engine.NewRaster(engine.WithText(false))
	defer r.Close()
	h := openTest(t, r)

	size, _ := r.PageDimensions(h, 1)
	w, hgt := size.Scaled(0.5)
	bm, err := r.Render(h, 1, w, hgt)
	if err != nil {
		t.Fatalf("Render() = %v", err)
	}
	if bm.Width != 306 || bm.Height != 396 {
		t.Errorf("bitmap is %dx%d, want 306x396", bm.Width, bm.Height)
	}
}

func TestRasterRenderErrors(t *testing.T) {
	r := engine.NewRaster(engine.WithMaxPixels(1000))
	defer r.Close()
	h := openTest(t, r)

	if _, err := r.Render(h, 5, 10, 10); !errors.Is(err, engine.ErrInvalidPage) {
		t.Errorf("Render(page 5) = %v, want ErrInvalidPage", err)
	}
	if _, err := r.Render(h, 0, 0, 10); !errors.Is(err, engine.ErrRenderFailed) {
		t.Errorf("Render(0 width) = %v, want ErrRenderFailed", err)
	}
	if _, err := r.Render(h, 0, 100, 100); !errors.Is(err, engine.ErrRenderFailed) {
		t.Errorf("Render(oversized) = %v, want ErrRenderFailed", err)
	}
	if _, err := r.Render(h+99, 0, 10, 10); !errors.Is(err, engine.ErrUnknownDocument) {
		t.Errorf("Render(unknown handle) = %v, want ErrUnknownDocument", err)
	}
}

func TestRasterCloseDocument(t *testing.T) {
	r := engine.NewRaster()
	defer r.Close()
	h := openTest(t, r)

	if err := r.CloseDocument(h); err != nil {
		t.Fatalf("CloseDocument() = %v", err)
	}
	if _, err := r.PageCount(h); !errors.Is(err, engine.ErrUnknownDocument) {
		t.Errorf("PageCount after close = %v, want ErrUnknownDocument", err)
	}
	if err := r.CloseDocument(h); !errors.Is(err, engine.ErrUnknownDocument) {
		t.Errorf("second CloseDocument() = %v, want ErrUnknownDocument", err)
	}
}

func TestRasterHandlesAreDistinct(t *testing.T) {
	r := engine.NewRaster()
	defer r.Close()
	a := openTest(t, r)
	b := openTest(t, r)
	if a == b {
		t.Errorf("two opens returned the same handle %d", a)
	}
}
