package editor

import "github.com/dshills/proofmark/internal/engine/buffer"

// Direction is a caret movement.
type Direction uint8

const (
	Left Direction = iota
	Right
	Up
	Down
	LineStart
	LineEnd
	DocStart
	DocEnd
)

// String returns the string representation of the direction.
func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	case LineStart:
		return "line-start"
	case LineEnd:
		return "line-end"
	case DocStart:
		return "doc-start"
	case DocEnd:
		return "doc-end"
	default:
		return "unknown"
	}
}

// MoveCaret moves the caret. With extend the selection's anchor stays
// put; otherwise the selection collapses. A plain Left or Right with a
// selection collapses to the selection's edge.
func (s *Surface) MoveCaret(d Direction, extend bool) error {
	if err := s.begin(); err != nil {
		return err
	}

	anchor, focus := s.Selection()
	lo, hi := min(anchor, focus), max(anchor, focus)
	var target int
	switch {
	case !extend && lo != hi && d == Left:
		target = lo
	case !extend && lo != hi && d == Right:
		target = hi
	default:
		target = s.target(focus, d)
	}
	if d != Up && d != Down {
		s.goalCol = -1
	}

	if !extend {
		anchor = target
	}
	s.reconcile(anchor, target, false, false)
	return nil
}

func (s *Surface) target(from int, d Direction) int {
	n := s.buf.Len()
	switch d {
	case Left:
		return max(from-1, 0)
	case Right:
		return min(from+1, n)
	case LineStart:
		p := s.buf.OffsetToPoint(from)
		return s.buf.LineStartOffset(p.Line)
	case LineEnd:
		p := s.buf.OffsetToPoint(from)
		return s.buf.LineEndOffset(p.Line)
	case DocStart:
		return 0
	case DocEnd:
		return n
	case Up, Down:
		p := s.buf.OffsetToPoint(from)
		if s.goalCol < 0 {
			s.goalCol = p.Column
		}
		line := p.Line - 1
		if d == Down {
			line = p.Line + 1
		}
		if line < 0 {
			return 0
		}
		if line >= s.buf.LineCount() {
			return n
		}
		return s.buf.PointToOffset(buffer.Point{Line: line, Column: s.goalCol})
	}
	return from
}

// SetCaret collapses the selection at offset.
func (s *Surface) SetCaret(offset int) error {
	return s.Select(offset, offset)
}

// Select sets the selection from anchor to focus.
func (s *Surface) Select(anchor, focus int) error {
	if err := s.begin(); err != nil {
		return err
	}
	s.goalCol = -1
	s.reconcile(anchor, focus, false, false)
	return nil
}

// SelectAll selects the whole text.
func (s *Surface) SelectAll() error {
	return s.Select(0, s.buf.Len())
}

// Hover marks the character at offset as hovered.
func (s *Surface) Hover(offset int) error {
	if err := s.begin(); err != nil {
		return err
	}
	s.hover = max(offset, 0)
	a, f := s.Selection()
	s.reconcile(a, f, false, false)
	return nil
}

// HoverEnd clears the hover.
func (s *Surface) HoverEnd() error {
	if err := s.begin(); err != nil {
		return err
	}
	s.hover = -1
	a, f := s.Selection()
	s.reconcile(a, f, false, false)
	return nil
}
