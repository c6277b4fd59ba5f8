// Package viewport tracks which page of a document is shown, at which zoom
// and with which pan offset.
//
// Viewport is a plain value: copying it copies the state, and its methods
// perform no I/O. Zoom is stored as an index into a fixed table of steps, so
// any sequence of ZoomIn/ZoomOut calls lands exactly on one of
// 0.25, 0.50, ..., 4.00 and never drifts.
package viewport

import "math"

// Zoom limits. Every reachable zoom is a multiple of ZoomStep in
// [MinZoom, MaxZoom].
const (
	MinZoom     = 0.25
	MaxZoom     = 4.0
	ZoomStep    = 0.25
	DefaultZoom = 1.0

	// ZoomSteps is the number of discrete zoom levels.
	ZoomSteps = 16
)

// step indices: step k means zoom (k+1)*ZoomStep.
const (
	minStep     = 0
	maxStep     = ZoomSteps - 1
	defaultStep = 3
)

// Viewport is the view state of one document.
type Viewport struct {
	page      int
	pageCount int
	step      int
	panX      float64
	panY      float64
}

// New returns a viewport on page 0 at 100% zoom for a document with
// pageCount pages.
func New(pageCount int) Viewport {
	if pageCount < 0 {
		pageCount = 0
	}
	return Viewport{pageCount: pageCount, step: defaultStep}
}

// Page returns the zero-based current page.
func (v Viewport) Page() int { return v.page }

// PageCount returns the number of pages in the document.
func (v Viewport) PageCount() int { return v.pageCount }

// Zoom returns the zoom factor, always one of the ZoomSteps levels.
func (v Viewport) Zoom() float64 {
	return float64(v.step+1) * ZoomStep
}

// ZoomPercent returns the zoom factor as an integer percentage (100 for 1.0).
func (v Viewport) ZoomPercent() int {
	return (v.step + 1) * 25
}

// PanOffset returns the accumulated pan.
func (v Viewport) PanOffset() (x, y float64) {
	return v.panX, v.panY
}

// GoToPage moves to page n, clamped to [0, PageCount). The pan is reset
// only when the page actually changes.
func (v *Viewport) GoToPage(n int) {
	if v.pageCount == 0 {
		return
	}
	n = max(0, min(n, v.pageCount-1))
	if n == v.page {
		return
	}
	v.page = n
	v.panX, v.panY = 0, 0
}

// NextPage advances one page and reports whether the page changed.
func (v *Viewport) NextPage() bool {
	before := v.page
	v.GoToPage(v.page + 1)
	return v.page != before
}

// PreviousPage goes back one page and reports whether the page changed.
func (v *Viewport) PreviousPage() bool {
	before := v.page
	v.GoToPage(v.page - 1)
	return v.page != before
}

// ZoomIn moves to the next zoom step, saturating at MaxZoom.
func (v *Viewport) ZoomIn() {
	v.step = min(v.step+1, maxStep)
}

// ZoomOut moves to the previous zoom step, saturating at MinZoom.
func (v *Viewport) ZoomOut() {
	v.step = max(v.step-1, minStep)
}

// ZoomReset sets the zoom to DefaultZoom. Page and pan are kept.
func (v *Viewport) ZoomReset() {
	v.step = defaultStep
}

// SetZoom clamps z into [MinZoom, MaxZoom] and snaps it to the nearest
// step. NaN is treated as DefaultZoom.
func (v *Viewport) SetZoom(z float64) {
	v.step = StepFor(z)
}

// Pan adds (dx, dy) to the pan offset. The offset is unbounded.
func (v *Viewport) Pan(dx, dy float64) {
	v.panX += dx
	v.panY += dy
}

// StepFor returns the step index nearest to zoom z, clamped to the valid
// range. Ties round away from zero.
func StepFor(z float64) int {
	if math.IsNaN(z) {
		return defaultStep
	}
	z = math.Max(MinZoom, math.Min(z, MaxZoom))
	return int(math.Round(z/ZoomStep)) - 1
}

// Snap returns z snapped to the nearest valid zoom level.
func Snap(z float64) float64 {
	return float64(StepFor(z)+1) * ZoomStep
}
