// Package viewport tracks which visual rows of the text pane are on screen.
package viewport

// Viewport is a vertical window over wrapped rows. The text pane wraps, so
// there is no horizontal scrolling.
type Viewport struct {
	top    int // First visible row
	height int
	rows   int // Total rows in the content

	// Scroll margins (keep the caret this far from the edges)
	marginTop    int
	marginBottom int
}

// NewViewport creates a viewport of the given height.
func NewViewport(height int) *Viewport {
	return &Viewport{height: max(height, 1), marginTop: 2, marginBottom: 2}
}

// TopRow returns the first visible row.
func (v *Viewport) TopRow() int {
	return v.top
}

// Height returns the number of visible rows.
func (v *Viewport) Height() int {
	return v.height
}

// BottomRow returns the last visible row.
func (v *Viewport) BottomRow() int {
	return v.top + v.height - 1
}

// Resize changes the visible height.
func (v *Viewport) Resize(height int) {
	v.height = max(height, 1)
	v.clamp()
}

// SetRows updates the content size, keeping the top row valid.
func (v *Viewport) SetRows(rows int) {
	v.rows = max(rows, 0)
	v.clamp()
}

// SetMargins sets the scroll margins. They are limited so both fit on screen.
func (v *Viewport) SetMargins(top, bottom int) {
	v.marginTop = max(top, 0)
	v.marginBottom = max(bottom, 0)
}

// Margins returns the effective margins for the current height.
func (v *Viewport) Margins() (top, bottom int) {
	top, bottom = v.marginTop, v.marginBottom
	if top+bottom >= v.height {
		half := (v.height - 1) / 2
		top, bottom = min(top, half), min(bottom, half)
	}
	return top, bottom
}

// IsRowVisible reports whether row is on screen.
func (v *Viewport) IsRowVisible(row int) bool {
	return row >= v.top && row <= v.BottomRow()
}

// RowToScreen converts a content row to a screen row.
func (v *Viewport) RowToScreen(row int) int {
	return row - v.top
}

// ScreenToRow converts a screen row to a content row.
func (v *Viewport) ScreenToRow(y int) int {
	return y + v.top
}

// ScrollTo shows row at the top.
func (v *Viewport) ScrollTo(row int) {
	v.top = row
	v.clamp()
}

// ScrollBy scrolls by delta rows.
func (v *Viewport) ScrollBy(delta int) {
	v.ScrollTo(v.top + delta)
}

// PageUp scrolls up by one screen.
func (v *Viewport) PageUp() {
	v.ScrollBy(-v.height)
}

// PageDown scrolls down by one screen.
func (v *Viewport) PageDown() {
	v.ScrollBy(v.height)
}

// ScrollToReveal scrolls minimally so row sits outside the margins.
// Returns true if scrolling occurred.
func (v *Viewport) ScrollToReveal(row int) bool {
	mt, mb := v.Margins()
	old := v.top
	switch {
	case row < v.top+mt:
		v.top = row - mt
	case row > v.BottomRow()-mb:
		v.top = row - v.height + mb + 1
	}
	v.clamp()
	return v.top != old
}

// clamp keeps the top row within the content; the last screen may be
// partially empty only when the content is shorter than the screen.
func (v *Viewport) clamp() {
	maxTop := max(v.rows-v.height, 0)
	v.top = min(max(v.top, 0), maxTop)
}
