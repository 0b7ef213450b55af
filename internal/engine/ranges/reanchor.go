package ranges

import "unicode/utf8"

// Edit describes one discrete edit for re-anchoring purposes.
type Edit struct {
	OldLen   int // Rune length of the text before the edit
	NewLen   int // Rune length of the text after the edit
	OldCaret int // Caret offset immediately before the edit
	NewCaret int // Caret offset immediately after the edit
}

// EditFromTexts builds an Edit from the texts around it.
func EditFromTexts(oldText, newText string, oldCaret, newCaret int) Edit {
	return Edit{
		OldLen:   utf8.RuneCountInString(oldText),
		NewLen:   utf8.RuneCountInString(newText),
		OldCaret: oldCaret,
		NewCaret: newCaret,
	}
}

// Delta returns the change in text length.
func (e Edit) Delta() int {
	return e.NewLen - e.OldLen
}

// normalize clamps the carets into their texts. A caret pair that cannot
// describe the length change becomes a zero-length edit at NewCaret.
func (e Edit) normalize() Edit {
	if e.OldLen < 0 {
		e.OldLen = 0
	}
	if e.NewLen < 0 {
		e.NewLen = 0
	}
	e.OldCaret = clamp(e.OldCaret, 0, e.OldLen)
	e.NewCaret = clamp(e.NewCaret, 0, e.NewLen)

	d := e.Delta()
	switch {
	case d > 0 && e.NewCaret < e.OldCaret,
		d < 0 && e.NewCaret > e.OldCaret,
		d == 0 && e.NewCaret != e.OldCaret:
		e.OldCaret = e.NewCaret
	}
	return e
}

// Reanchor recomputes ranges after the edit that turned oldText into newText.
func Reanchor(oldText, newText string, oldCaret, newCaret int, old []Range) []Range {
	return ReanchorEdit(EditFromTexts(oldText, newText, oldCaret, newCaret), old)
}

// ReanchorEdit recomputes ranges after e. Dropped ranges are omitted; the
// relative order of the survivors is preserved.
func ReanchorEdit(e Edit, old []Range) []Range {
	e = e.normalize()
	out := make([]Range, 0, len(old))
	for _, r := range old {
		if nr, ok := reanchorOne(e, r); ok {
			out = append(out, nr)
		}
	}
	return out
}

// reanchorOne applies the edit to a single range.
//
//   - deletion swallowing the whole range drops it, or collapses it to an
//     empty range when the deletion ends exactly at its start
//   - an edit crossing the start snaps the start to the caret
//   - an edit crossing the end truncates the end to the caret
//   - otherwise each bound at or after the edit shifts by the delta, except
//     that an empty range at the edit point keeps its start
func reanchorOne(e Edit, r Range) (Range, bool) {
	oc, nc, d := e.OldCaret, e.NewCaret, e.Delta()
	start := r.Start
	end := min(r.End, e.NewLen)

	switch {
	case nc <= start && oc >= end:
		if nc != start {
			return Range{}, false
		}
		end = nc
	case nc < start && oc > start:
		start = nc
		end += d
	case nc < end && oc > end:
		end = nc
	default:
		if oc <= start && !(start == end && oc == start) {
			start += d
		}
		if oc <= end {
			end += d
		}
	}

	r.Start, r.End = start, end
	return r.Clamp(e.NewLen), true
}
