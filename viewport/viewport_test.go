package viewport

import (
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	v := New(10)
	if v.Page() != 0 {
		t.Errorf("Page() = %d, want 0", v.Page())
	}
	if v.PageCount() != 10 {
		t.Errorf("PageCount() = %d, want 10", v.PageCount())
	}
	if v.Zoom() != DefaultZoom {
		t.Errorf("Zoom() = %v, want %v", v.Zoom(), DefaultZoom)
	}
	if x, y := v.PanOffset(); x != 0 || y != 0 {
		t.Errorf("PanOffset() = (%v, %v), want (0, 0)", x, y)
	}
}

// =============================================================================
// Page navigation
// =============================================================================

func TestGoToPageResetsPan(t *testing.T) {
	v := New(10)
	v.Pan(5, 5)

	v.GoToPage(1)
	if v.Page() != 1 {
		t.Fatalf("Page() = %d, want 1", v.Page())
	}
	if x, y := v.PanOffset(); x != 0 || y != 0 {
		t.Errorf("pan after page change = (%v, %v), want (0, 0)", x, y)
	}
}

func TestGoToSamePageKeepsPan(t *testing.T) {
	v := New(10)
	v.Pan(5, 5)

	v.GoToPage(0)
	if x, y := v.PanOffset(); x != 5 || y != 5 {
		t.Errorf("pan after no-op GoToPage = (%v, %v), want (5, 5)", x, y)
	}
}

func TestGoToPageClamps(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want int
	}{
		{"negative", -3, 0},
		{"in range", 4, 4},
		{"last", 9, 9},
		{"past end", 10, 9},
		{"far past end", 1 << 20, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New(10)
			v.GoToPage(tt.n)
			if v.Page() != tt.want {
				t.Errorf("GoToPage(%d) -> %d, want %d", tt.n, v.Page(), tt.want)
			}
		})
	}
}

func TestGoToPageClampToCurrentKeepsPan(t *testing.T) {
	v := New(3)
	v.GoToPage(2)
	v.Pan(1, 2)
	v.GoToPage(99)
	if x, y := v.PanOffset(); x != 1 || y != 2 {
		t.Errorf("pan = (%v, %v), want (1, 2)", x, y)
	}
}

func TestGoToPageEmptyDocument(t *testing.T) {
	v := New(0)
	v.GoToPage(3)
	if v.Page() != 0 {
		t.Errorf("Page() = %d, want 0", v.Page())
	}
}

func TestNextPreviousPage(t *testing.T) {
	v := New(2)
	if v.PreviousPage() {
		t.Error("PreviousPage() on first page reported a change")
	}
	if !v.NextPage() {
		t.Error("NextPage() from page 0 reported no change")
	}
	if v.NextPage() {
		t.Error("NextPage() on last page reported a change")
	}
	if !v.PreviousPage() || v.Page() != 0 {
		t.Errorf("PreviousPage() -> page %d, want 0", v.Page())
	}
}

// =============================================================================
// Zoom
// =============================================================================

func TestZoomInSaturates(t *testing.T) {
	v := New(1)
	for range 100 {
		v.ZoomIn()
	}
	if v.Zoom() != MaxZoom {
		t.Errorf("Zoom() = %v, want %v", v.Zoom(), MaxZoom)
	}
}

func TestZoomOutSaturates(t *testing.T) {
	v := New(1)
	for range 100 {
		v.ZoomOut()
	}
	if v.Zoom() != MinZoom {
		t.Errorf("Zoom() = %v, want %v", v.Zoom(), MinZoom)
	}
}

func TestZoomStepsAreExact(t *testing.T) {
	v := New(1)
	for range 20 {
		v.ZoomOut()
	}
	seen := map[float64]bool{}
	for range ZoomSteps {
		z := v.Zoom()
		if q := z / ZoomStep; q != math.Trunc(q) {
			t.Fatalf("zoom %v is not a multiple of %v", z, ZoomStep)
		}
		seen[z] = true
		v.ZoomIn()
	}
	if len(seen) != ZoomSteps {
		t.Errorf("visited %d distinct zoom levels, want %d", len(seen), ZoomSteps)
	}
}

func TestZoomNoDriftUnderCycles(t *testing.T) {
	v := New(1)
	for i := range 10_000 {
		if i%3 == 0 {
			v.ZoomOut()
		} else {
			v.ZoomIn()
		}
		v.ZoomOut()
	}
	z := v.Zoom()
	if z != Snap(z) {
		t.Errorf("zoom drifted to %v", z)
	}
}

func TestZoomInFromOffStepValue(t *testing.T) {
	v := New(1)
	v.SetZoom(0.27)
	v.ZoomIn()
	if v.Zoom() != 0.5 {
		t.Errorf("Zoom() = %v, want 0.5", v.Zoom())
	}
	v.ZoomOut()
	v.ZoomIn()
	if v.Zoom() != 0.5 {
		t.Errorf("Zoom() after out/in = %v, want 0.5", v.Zoom())
	}
}

func TestZoomResetKeepsPageAndPan(t *testing.T) {
	v := New(5)
	v.GoToPage(2)
	v.ZoomIn()
	v.ZoomIn()
	v.Pan(3, -4)

	v.ZoomReset()

	if v.Zoom() != DefaultZoom {
		t.Errorf("Zoom() = %v, want %v", v.Zoom(), DefaultZoom)
	}
	if v.Page() != 2 {
		t.Errorf("Page() = %d, want 2", v.Page())
	}
	if x, y := v.PanOffset(); x != 3 || y != -4 {
		t.Errorf("PanOffset() = (%v, %v), want (3, -4)", x, y)
	}
}

func TestSetZoom(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.0, 1.0},
		{1.1, 1.0},
		{1.13, 1.25},
		{0.1, MinZoom},
		{-2, MinZoom},
		{9, MaxZoom},
		{math.Inf(1), MaxZoom},
		{math.Inf(-1), MinZoom},
		{math.NaN(), DefaultZoom},
	}
	for _, tt := range tests {
		v := New(1)
		v.SetZoom(tt.in)
		if v.Zoom() != tt.want {
			t.Errorf("SetZoom(%v) -> %v, want %v", tt.in, v.Zoom(), tt.want)
		}
	}
}

func TestZoomPercent(t *testing.T) {
	v := New(1)
	if v.ZoomPercent() != 100 {
		t.Errorf("ZoomPercent() = %d, want 100", v.ZoomPercent())
	}
	v.ZoomOut()
	if v.ZoomPercent() != 75 {
		t.Errorf("ZoomPercent() = %d, want 75", v.ZoomPercent())
	}
	for range 20 {
		v.ZoomIn()
	}
	if v.ZoomPercent() != 400 {
		t.Errorf("ZoomPercent() = %d, want 400", v.ZoomPercent())
	}
}

// =============================================================================
// Pan
// =============================================================================

func TestPanAccumulatesUnbounded(t *testing.T) {
	v := New(1)
	v.Pan(1e6, -1e6)
	v.Pan(0.5, 0.25)
	x, y := v.PanOffset()
	if x != 1e6+0.5 || y != -1e6+0.25 {
		t.Errorf("PanOffset() = (%v, %v)", x, y)
	}
}

func TestViewportIsValue(t *testing.T) {
	a := New(4)
	b := a
	b.GoToPage(3)
	b.ZoomIn()
	if a.Page() != 0 || a.Zoom() != DefaultZoom {
		t.Error("mutating a copy changed the original")
	}
}
