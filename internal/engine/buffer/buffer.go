package buffer

import (
	"errors"
	"sync"
	"unicode/utf8"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
)

// Buffer holds the logical text as runes.
// All methods are thread-safe.
type Buffer struct {
	mu         sync.RWMutex
	runes      []rune
	revisionID RevisionID
}

// NewBuffer creates a new empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{revisionID: NewRevisionID()}
}

// NewBufferFromString creates a buffer with normalized initial content.
func NewBufferFromString(s string) *Buffer {
	b := NewBuffer()
	b.runes = []rune(Normalize(s))
	return b
}

// Read Operations

// Text returns the full buffer content as a string.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return string(b.runes)
}

// Len returns the buffer length in runes.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.runes)
}

// IsEmpty returns true if the buffer has no content.
func (b *Buffer) IsEmpty() bool {
	return b.Len() == 0
}

// Slice returns the text in [start, end), clamped to the buffer.
func (b *Buffer) Slice(start, end int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	start, end = clampSpan(start, end, len(b.runes))
	return string(b.runes[start:end])
}

// RuneAt returns the rune at offset.
// Returns utf8.RuneError and false if offset is out of range.
func (b *Buffer) RuneAt(offset int) (rune, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if offset < 0 || offset >= len(b.runes) {
		return utf8.RuneError, false
	}
	return b.runes[offset], true
}

// RevisionID returns the current revision.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID
}

// Line Operations

// LineCount returns the number of lines. An empty buffer has one line.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 1
	for _, r := range b.runes {
		if r == '\n' {
			n++
		}
	}
	return n
}

// LineStartOffset returns the offset of the first rune of line.
// Lines past the end map to the buffer length.
func (b *Buffer) LineStartOffset(line int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineStart(line)
}

// LineEndOffset returns the offset of the end of line, before its newline.
func (b *Buffer) LineEndOffset(line int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnd(b.lineStart(line))
}

// LineLen returns the length of line in runes, excluding its newline.
func (b *Buffer) LineLen(line int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	start := b.lineStart(line)
	return b.lineEnd(start) - start
}

func (b *Buffer) lineStart(line int) int {
	if line <= 0 {
		return 0
	}
	for i, r := range b.runes {
		if r == '\n' {
			line--
			if line == 0 {
				return i + 1
			}
		}
	}
	return len(b.runes)
}

func (b *Buffer) lineEnd(start int) int {
	for i := start; i < len(b.runes); i++ {
		if b.runes[i] == '\n' {
			return i
		}
	}
	return len(b.runes)
}

// Coordinate Conversion

// OffsetToPoint converts a rune offset to line/column, clamping offset
// into the buffer.
func (b *Buffer) OffsetToPoint(offset int) Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	offset = clamp(offset, 0, len(b.runes))
	var p Point
	for _, r := range b.runes[:offset] {
		if r == '\n' {
			p.Line++
			p.Column = 0
		} else {
			p.Column++
		}
	}
	return p
}

// PointToOffset converts line/column to a rune offset. Columns past the
// end of the line clamp to the line end.
func (b *Buffer) PointToOffset(p Point) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if p.Line < 0 {
		return 0
	}
	start := b.lineStart(p.Line)
	end := b.lineEnd(start)
	return start + clamp(p.Column, 0, end-start)
}

// Write Operations

// Insert inserts text at offset.
func (b *Buffer) Insert(offset int, text string) (EditResult, error) {
	return b.ApplyEdit(NewInsert(offset, text))
}

// Delete removes [start, end).
func (b *Buffer) Delete(start, end int) (EditResult, error) {
	return b.ApplyEdit(NewDelete(start, end))
}

// Replace replaces [start, end) with text.
func (b *Buffer) Replace(start, end int, text string) (EditResult, error) {
	return b.ApplyEdit(Edit{Start: start, End: end, NewText: text})
}

// ApplyEdit applies a single edit. Inserted text is not normalized; callers
// pass text through Normalize at the input boundary.
func (b *Buffer) ApplyEdit(e Edit) (EditResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(b.runes)
	if e.Start < 0 || e.End > n {
		return EditResult{}, ErrOffsetOutOfRange
	}
	if e.Start > e.End {
		return EditResult{}, ErrRangeInvalid
	}

	ins := []rune(e.NewText)
	res := EditResult{
		OldLen:  n,
		OldText: string(b.runes[e.Start:e.End]),
	}
	if len(ins) == 0 {
		res.OldCaret, res.NewCaret = e.End, e.Start
	} else {
		res.OldCaret, res.NewCaret = e.Start, e.Start+len(ins)
	}

	out := make([]rune, 0, n-(e.End-e.Start)+len(ins))
	out = append(out, b.runes[:e.Start]...)
	out = append(out, ins...)
	out = append(out, b.runes[e.End:]...)
	b.runes = out

	b.revisionID = NewRevisionID()
	res.NewLen = len(b.runes)
	res.Revision = b.revisionID
	return res, nil
}

// SetText replaces the whole content with normalized s.
func (b *Buffer) SetText(s string) EditResult {
	b.mu.Lock()
	defer b.mu.Unlock()
	res := EditResult{OldLen: len(b.runes), OldText: string(b.runes)}
	b.runes = []rune(Normalize(s))
	b.revisionID = NewRevisionID()
	res.NewLen = len(b.runes)
	res.NewCaret = res.NewLen
	res.OldCaret = res.OldLen
	res.Revision = b.revisionID
	return res
}

// Snapshot returns a read-only copy of the current content.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return &Snapshot{text: string(b.runes), length: len(b.runes), revisionID: b.revisionID}
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

func clampSpan(start, end, n int) (int, int) {
	start = clamp(start, 0, n)
	end = clamp(end, start, n)
	return start, end
}
