// Package ranges provides the highlighted range model and its re-anchoring
// through text edits.
//
// The ranges package handles:
//
//   - Highlighted ranges ([Range]) over rune offsets of a logical text
//   - Suggestions ([Suggestion]), ranges carrying a title and advisory content
//   - Re-anchoring ranges after a discrete edit ([Reanchor])
//   - Message-style state updates ([Reduce]) over the range list
//
// Edit Model:
//
// An edit is described by the text length before and after it, plus the
// caret offset immediately before and after. The length delta is attributed
// entirely to the span between the two carets:
//
//	typing "x" at 4:      OldCaret=4, NewCaret=5, Delta=+1
//	backspace at 4:       OldCaret=4, NewCaret=3, Delta=-1
//	deleting [5,10):      OldCaret=10, NewCaret=5, Delta=-5
//
// Ranges may overlap arbitrarily. Re-anchoring never inverts a range and
// never leaves it outside the new text.
//
// Basic usage:
//
//	m := ranges.NewModel()
//	m.Dispatch(ranges.ReplaceSuggestions{Suggestions: found})
//	m.Dispatch(ranges.ApplyEdit{Edit: ranges.EditFromTexts(old, new, 4, 5)})
//	m.Dispatch(ranges.SetActive{ID: 3, Active: true})
package ranges
