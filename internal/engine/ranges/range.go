package ranges

import (
	"fmt"

	"github.com/dshills/proofmark/internal/renderer/core"
)

// Range is a highlighted interval [Start, End) of rune offsets.
type Range struct {
	ID     int
	Start  int // Inclusive start offset
	End    int // Exclusive end offset
	Color  core.Color
	Active bool // Transient hover/caret-containment flag
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("#%d[%d:%d)", r.ID, r.Start, r.End)
}

// Len returns the length of the range in runes.
func (r Range) Len() int {
	return r.End - r.Start
}

// IsEmpty returns true if the range has zero length.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Contains returns true if the given offset is within the range.
func (r Range) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

// Valid reports whether 0 <= Start <= End <= textLen.
func (r Range) Valid(textLen int) bool {
	return r.Start >= 0 && r.Start <= r.End && r.End <= textLen
}

// Clamp returns the range forced into [0, textLen] with Start <= End.
func (r Range) Clamp(textLen int) Range {
	if textLen < 0 {
		textLen = 0
	}
	r.Start = clamp(r.Start, 0, textLen)
	r.End = clamp(r.End, 0, textLen)
	if r.End < r.Start {
		r.End = r.Start
	}
	return r
}

// Suggestion is a range produced by the generation pipeline.
type Suggestion struct {
	Range
	Title   string
	Content string
}

// String returns a human-readable representation of the suggestion.
func (s Suggestion) String() string {
	return fmt.Sprintf("%s %q", s.Range, s.Title)
}

// Finding is an unnumbered suggestion as resolved from a model reply.
type Finding struct {
	Start   int
	End     int
	Title   string
	Content string
}

// NextID returns the first ID of the block following every existing ID.
func NextID(items []Suggestion) int {
	next := 0
	for _, s := range items {
		if s.ID >= next {
			next = s.ID + 1
		}
	}
	return next
}

// Number turns findings into suggestions with IDs continuing from the
// largest existing ID as one contiguous block.
func Number(existing []Suggestion, findings []Finding, color core.Color) []Suggestion {
	first := NextID(existing)
	out := make([]Suggestion, len(findings))
	for i, f := range findings {
		out[i] = Suggestion{
			Range: Range{
				ID:    first + i,
				Start: f.Start,
				End:   f.End,
				Color: color,
			},
			Title:   f.Title,
			Content: f.Content,
		}
	}
	return out
}

// RangesOf extracts the ranges of the given suggestions, in order.
func RangesOf(items []Suggestion) []Range {
	out := make([]Range, len(items))
	for i, s := range items {
		out[i] = s.Range
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
