package editor

import (
	"unicode/utf8"

	"github.com/dshills/proofmark/internal/engine/buffer"
	"github.com/dshills/proofmark/internal/engine/ranges"
)

// InsertText inserts typed text at the caret, replacing any selection.
func (s *Surface) InsertText(text string) error {
	if err := s.begin(); err != nil {
		return err
	}
	s.goalCol = -1
	text = buffer.Normalize(text)
	if lo, hi := s.span(); text == "" && lo == hi {
		s.reconcile(lo, lo, false, false)
		return nil
	}
	c := s.replaceSelection(text)
	s.reconcile(c, c, true, s.model.Len() > 0)
	return nil
}

// Paste inserts clipboard text, normalizing its line endings and Unicode
// form, replacing any selection.
func (s *Surface) Paste(text string) error {
	return s.InsertText(text)
}

// Newline inserts a line break.
func (s *Surface) Newline() error {
	return s.InsertText("\n")
}

// DeleteBackward deletes the selection, or the character before the caret.
func (s *Surface) DeleteBackward() error {
	return s.delete(-1)
}

// DeleteForward deletes the selection, or the character after the caret.
func (s *Surface) DeleteForward() error {
	return s.delete(1)
}

func (s *Surface) delete(dir int) error {
	if err := s.begin(); err != nil {
		return err
	}
	s.goalCol = -1

	lo, hi := s.span()
	if lo == hi {
		if dir < 0 {
			lo = max(hi-1, 0)
		} else {
			hi = min(lo+1, s.buf.Len())
		}
	}
	if lo == hi {
		s.reconcile(lo, lo, false, false)
		return nil
	}

	s.apply(buffer.NewDelete(lo, hi))
	s.ensureNonEmpty()
	s.reconcile(lo, lo, true, s.model.Len() > 0)
	return nil
}

// SetText replaces the whole text and places the caret at its end.
func (s *Surface) SetText(text string) error {
	if err := s.begin(); err != nil {
		return err
	}
	s.goalCol = -1
	if text == "" {
		text = Placeholder
	}
	res := s.buf.SetText(text)
	s.model.Dispatch(ranges.ApplyEdit{Edit: ranges.Edit{
		OldLen:   res.OldLen,
		NewLen:   res.NewLen,
		OldCaret: res.OldCaret,
		NewCaret: res.NewCaret,
	}})
	s.reconcile(res.NewLen, res.NewLen, true, s.model.Len() > 0)
	return nil
}

// ReplaceRanges replaces the ranges, keeping annotations by ID.
func (s *Surface) ReplaceRanges(rs []ranges.Range) error {
	return s.dispatch(ranges.ReplaceRanges{Ranges: clampAll(rs, s.buf.Len())})
}

// ReplaceSuggestions replaces all suggestions.
func (s *Surface) ReplaceSuggestions(items []ranges.Suggestion) error {
	n := s.buf.Len()
	out := make([]ranges.Suggestion, len(items))
	for i, it := range items {
		it.Range = it.Range.Clamp(n)
		it.Active = false
		out[i] = it
	}
	return s.dispatch(ranges.ReplaceSuggestions{Suggestions: out})
}

// ClearRanges removes all ranges.
func (s *Surface) ClearRanges() error {
	return s.dispatch(ranges.Clear{})
}

func (s *Surface) dispatch(msg ranges.Msg) error {
	if err := s.begin(); err != nil {
		return err
	}
	a, f := s.Selection()
	s.model.Dispatch(msg)
	s.reconcile(a, f, false, true)
	return nil
}

// replaceSelection deletes a non-empty selection and inserts text at its
// start, re-anchoring once per discrete edit. It returns the new caret.
func (s *Surface) replaceSelection(text string) int {
	lo, hi := s.span()
	if lo != hi {
		s.apply(buffer.NewDelete(lo, hi))
	}
	if text == "" {
		s.ensureNonEmpty()
		return lo
	}
	s.apply(buffer.NewInsert(lo, text))
	return lo + utf8.RuneCountInString(text)
}

// apply performs one discrete edit and re-anchors ranges through it.
func (s *Surface) apply(e buffer.Edit) {
	res, err := s.buf.ApplyEdit(e)
	if err != nil {
		// Offsets come from the clamped selection; nothing to re-anchor.
		return
	}
	s.model.Dispatch(ranges.ApplyEdit{Edit: ranges.Edit{
		OldLen:   res.OldLen,
		NewLen:   res.NewLen,
		OldCaret: res.OldCaret,
		NewCaret: res.NewCaret,
	}})
}

// ensureNonEmpty turns an empty text into the placeholder without moving
// any range. Every range of an empty text is [0,0), and an edit with both
// carets at 0 collapses such a range onto 0 again.
func (s *Surface) ensureNonEmpty() {
	if s.buf.Len() > 0 {
		return
	}
	if _, err := s.buf.Insert(0, Placeholder); err != nil {
		return
	}
	s.model.Dispatch(ranges.ApplyEdit{Edit: ranges.Edit{OldLen: 0, NewLen: 1}})
}

func clampAll(rs []ranges.Range, n int) []ranges.Range {
	out := make([]ranges.Range, len(rs))
	for i, r := range rs {
		out[i] = r.Clamp(n)
	}
	return out
}
