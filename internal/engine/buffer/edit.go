package buffer

import "fmt"

// Edit replaces the runes in [Start, End) with NewText.
type Edit struct {
	Start   int
	End     int
	NewText string
}

// NewInsert creates an Edit that inserts text at an offset.
func NewInsert(offset int, text string) Edit {
	return Edit{Start: offset, End: offset, NewText: text}
}

// NewDelete creates an Edit that deletes [start, end).
func NewDelete(start, end int) Edit {
	return Edit{Start: start, End: end}
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	switch {
	case e.Start == e.End:
		return fmt.Sprintf("Insert(%d, %q)", e.Start, e.NewText)
	case e.NewText == "":
		return fmt.Sprintf("Delete[%d:%d)", e.Start, e.End)
	default:
		return fmt.Sprintf("Replace[%d:%d) with %q", e.Start, e.End, e.NewText)
	}
}

// IsNoOp returns true if this edit does nothing.
func (e Edit) IsNoOp() bool {
	return e.Start == e.End && e.NewText == ""
}

// EditResult describes an applied edit.
//
// OldCaret and NewCaret are the caret positions immediately before and
// after the edit as the range re-anchorer expects them: for an insertion the
// caret moves from Start to the end of the inserted text, for a deletion it
// moves from End back to Start.
type EditResult struct {
	OldLen   int
	NewLen   int
	OldCaret int
	NewCaret int
	OldText  string // Text that was replaced
	Revision RevisionID
}

// Delta returns the change in buffer length.
func (r EditResult) Delta() int {
	return r.NewLen - r.OldLen
}
