package editor

import (
	"slices"

	"github.com/dshills/proofmark/internal/engine/buffer"
	"github.com/dshills/proofmark/internal/engine/ranges"
	"github.com/dshills/proofmark/internal/renderer/caret"
	"github.com/dshills/proofmark/internal/renderer/segment"
	"github.com/dshills/proofmark/internal/renderer/vtree"
)

// State is the surface's processing state.
type State uint8

const (
	StateIdle State = iota
	StateEditing
	StateReconciling
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEditing:
		return "editing"
	case StateReconciling:
		return "reconciling"
	default:
		return "unknown"
	}
}

// Placeholder is the text of an otherwise empty surface.
const Placeholder = "\n"

// Callbacks receive the surface's outputs after each reconcile.
type Callbacks struct {
	OnChangeText   func(text string)
	OnChangeRanges func(items []ranges.Suggestion)
	OnLayout       func(segs []segment.Segment)
}

// Surface is the editing surface.
// It is not safe for concurrent use; all input comes from one event loop.
type Surface struct {
	buf   *buffer.Buffer
	model *ranges.Model
	seg   segment.Segmenter
	tree  *vtree.Tree
	segs  []segment.Segment
	state State
	cb    Callbacks

	hover   int // Hovered rune offset, -1 when none
	goalCol int // Column kept across vertical moves, -1 when unset

	patches []vtree.Patch
}

// New creates a surface holding text.
func New(text string, cb Callbacks) *Surface {
	if text == "" {
		text = Placeholder
	}
	s := &Surface{
		buf:     buffer.NewBufferFromString(text),
		model:   ranges.NewModel(),
		tree:    vtree.New(),
		cb:      cb,
		hover:   -1,
		goalCol: -1,
	}
	s.reconcile(0, 0, false, false)
	return s
}

// SetCallbacks replaces the surface's callbacks.
func (s *Surface) SetCallbacks(cb Callbacks) {
	s.cb = cb
}

// Text returns the logical text.
func (s *Surface) Text() string {
	return s.buf.Text()
}

// Len returns the text length in runes.
func (s *Surface) Len() int {
	return s.buf.Len()
}

// Buffer returns the underlying buffer for read access.
func (s *Surface) Buffer() *buffer.Buffer {
	return s.buf
}

// State returns the current processing state.
func (s *Surface) State() State {
	return s.state
}

// Suggestions returns a copy of the current suggestions.
func (s *Surface) Suggestions() []ranges.Suggestion {
	return s.model.Suggestions()
}

// Ranges returns the current ranges.
func (s *Surface) Ranges() []ranges.Range {
	return s.model.Ranges()
}

// Segments returns the current segmentation.
func (s *Surface) Segments() []segment.Segment {
	return s.segs
}

// Tree returns the rendered tree.
func (s *Surface) Tree() *vtree.Tree {
	return s.tree
}

// LastPatches returns the patches applied by the most recent reconcile.
func (s *Surface) LastPatches() []vtree.Patch {
	return s.patches
}

// Caret returns the caret offset: the later end of the selection.
func (s *Surface) Caret() int {
	return caret.GetOffset(s.tree)
}

// Selection returns the selection's anchor and focus offsets.
func (s *Surface) Selection() (anchor, focus int) {
	return caret.SelectionOffsets(s.tree)
}

// SelectedText returns the selected text.
func (s *Surface) SelectedText() string {
	lo, hi := s.span()
	return s.buf.Slice(lo, hi)
}

// Active returns the IDs of active ranges.
func (s *Surface) Active() []int {
	var ids []int
	for _, r := range s.model.Ranges() {
		if r.Active {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// span returns the selection ordered low to high.
func (s *Surface) span() (lo, hi int) {
	a, f := s.Selection()
	return min(a, f), max(a, f)
}

// begin moves the surface out of Idle.
func (s *Surface) begin() error {
	if s.state != StateIdle {
		return ErrBusy
	}
	s.state = StateEditing
	return nil
}

// reconcile brings segments, tree, caret and activation in line with the
// buffer and model, then fires callbacks and returns to Idle.
func (s *Surface) reconcile(anchor, focus int, textChanged, rangesChanged bool) {
	s.state = StateReconciling
	defer func() { s.state = StateIdle }()

	text := s.buf.Text()
	n := s.buf.Len()
	anchor = clamp(anchor, 0, n)
	focus = clamp(focus, 0, n)

	segs, shape := s.seg.Next(text, s.model.Ranges())
	s.segs = segs
	if s.updateActive(focus) {
		rangesChanged = true
	}

	s.patches = nil
	if shape != segment.ShapeSame || rangesChanged || len(s.tree.RootNode().Kids) != len(segs) {
		s.patches = s.tree.Render(segs, vtree.RangeStyler(s.model.Ranges()))
	}
	caret.SetRange(s.tree, anchor, focus)

	if textChanged && s.cb.OnChangeText != nil {
		s.cb.OnChangeText(text)
	}
	if rangesChanged && s.cb.OnChangeRanges != nil {
		s.cb.OnChangeRanges(s.model.Suggestions())
	}
	if s.cb.OnLayout != nil {
		s.cb.OnLayout(segs)
	}
}

// updateActive activates the prioritized range of the segment holding the
// caret and of the hovered segment, deactivating all others. It reports
// whether any flag changed.
func (s *Surface) updateActive(caretOffset int) bool {
	var want []int
	if seg, ok := segment.AtCaret(s.segs, caretOffset); ok {
		if id, ok := seg.Prioritized(); ok {
			want = append(want, id)
		}
	}
	if s.hover >= 0 {
		if seg, ok := segment.AtRune(s.segs, s.hover); ok {
			if id, ok := seg.Prioritized(); ok {
				want = append(want, id)
			}
		}
	}

	changed := false
	for _, r := range s.model.Ranges() {
		active := slices.Contains(want, r.ID)
		if r.Active != active {
			s.model.Dispatch(ranges.SetActive{ID: r.ID, Active: active})
			changed = true
		}
	}
	return changed
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
