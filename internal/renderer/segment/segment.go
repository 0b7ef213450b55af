// Package segment splits text into maximal runs covered by the same set of
// highlighted ranges.
package segment

import (
	"slices"
	"sort"

	"github.com/dshills/proofmark/internal/engine/ranges"
)

// Segment is a maximal run of text covered by exactly one set of ranges.
type Segment struct {
	Text     string
	Start    int   // Rune offset of the first character
	End      int   // Rune offset past the last character
	RangeIDs []int // Covering range IDs, in range list order
}

// Prioritized returns the ID of the covering range that wins styling and
// activation: the one latest in the range list.
func (s Segment) Prioritized() (int, bool) {
	if len(s.RangeIDs) == 0 {
		return 0, false
	}
	return s.RangeIDs[len(s.RangeIDs)-1], true
}

// Covered reports whether any range covers the segment.
func (s Segment) Covered() bool {
	return len(s.RangeIDs) > 0
}

// Split segments text by the covering ranges.
//
// The concatenation of the returned segments' texts equals text, and a
// boundary exists exactly where the covering set changes. Ranges are clamped
// to the text first; a zero-length range covers no character.
func Split(text string, rs []ranges.Range) []Segment {
	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return nil
	}

	clamped := make([]ranges.Range, 0, len(rs))
	cuts := []int{0, n}
	for _, r := range rs {
		r = r.Clamp(n)
		if r.IsEmpty() {
			continue
		}
		clamped = append(clamped, r)
		cuts = append(cuts, r.Start, r.End)
	}
	sort.Ints(cuts)
	cuts = slices.Compact(cuts)

	segs := make([]Segment, 0, len(cuts)-1)
	for i := 0; i+1 < len(cuts); i++ {
		start, end := cuts[i], cuts[i+1]
		ids := covering(clamped, start)
		if k := len(segs) - 1; k >= 0 && slices.Equal(segs[k].RangeIDs, ids) {
			segs[k].End = end
			segs[k].Text += string(runes[start:end])
			continue
		}
		segs = append(segs, Segment{
			Text:     string(runes[start:end]),
			Start:    start,
			End:      end,
			RangeIDs: ids,
		})
	}
	return segs
}

// covering returns the IDs of ranges containing offset, in list order.
func covering(rs []ranges.Range, offset int) []int {
	var ids []int
	for _, r := range rs {
		if r.Contains(offset) {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// Text concatenates the segments' texts.
func Text(segs []Segment) string {
	var n int
	for _, s := range segs {
		n += len(s.Text)
	}
	buf := make([]byte, 0, n)
	for _, s := range segs {
		buf = append(buf, s.Text...)
	}
	return string(buf)
}

// AtRune returns the segment holding the character at offset.
func AtRune(segs []Segment, offset int) (Segment, bool) {
	i := sort.Search(len(segs), func(i int) bool { return segs[i].End > offset })
	if i < len(segs) && segs[i].Start <= offset {
		return segs[i], true
	}
	return Segment{}, false
}

// AtCaret returns the segment a caret at offset sits in. A caret on a
// boundary belongs to the segment before it, except at the start of the text.
func AtCaret(segs []Segment, caret int) (Segment, bool) {
	if caret <= 0 {
		if len(segs) > 0 {
			return segs[0], true
		}
		return Segment{}, false
	}
	return AtRune(segs, caret-1)
}
