package segment

import (
	"slices"

	"github.com/dshills/proofmark/internal/engine/ranges"
)

// Shape describes how a new segmentation relates to the previous one.
type Shape uint8

const (
	// ShapeSame means text and covering sets are unchanged.
	ShapeSame Shape = iota
	// ShapeText means only segment texts changed; nodes can be patched in place.
	ShapeText
	// ShapeRebuild means the sequence of covering sets changed.
	ShapeRebuild
)

// String returns the string representation of the shape.
func (s Shape) String() string {
	switch s {
	case ShapeSame:
		return "same"
	case ShapeText:
		return "text"
	case ShapeRebuild:
		return "rebuild"
	default:
		return "unknown"
	}
}

// Segmenter memoizes the last segmentation.
// It is not safe for concurrent use.
type Segmenter struct {
	text  string
	segs  []Segment
	valid bool
}

// Next segments text and compares the result with the previous call.
// When neither the text nor the sequence of covering sets changed the
// previous slice itself is returned.
func (m *Segmenter) Next(text string, rs []ranges.Range) ([]Segment, Shape) {
	segs := Split(text, rs)
	if !m.valid {
		m.text, m.segs, m.valid = text, segs, true
		return segs, ShapeRebuild
	}

	shape := ShapeRebuild
	if sameIDs(m.segs, segs) {
		shape = ShapeText
		if text == m.text {
			return m.segs, ShapeSame
		}
	}
	m.text, m.segs = text, segs
	return segs, shape
}

// Last returns the most recent segmentation.
func (m *Segmenter) Last() []Segment {
	return m.segs
}

// Reset drops the memoized segmentation.
func (m *Segmenter) Reset() {
	*m = Segmenter{}
}

func sameIDs(a, b []Segment) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !slices.Equal(a[i].RangeIDs, b[i].RangeIDs) {
			return false
		}
	}
	return true
}
