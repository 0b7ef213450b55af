package vtree

import (
	"fmt"
	"slices"

	"github.com/dshills/proofmark/internal/renderer/caret"
	"github.com/dshills/proofmark/internal/renderer/core"
	"github.com/dshills/proofmark/internal/renderer/segment"
)

// PatchOp is the kind of change Render applied to a child of the root.
type PatchOp uint8

const (
	PatchUpdateText PatchOp = iota
	PatchUpdateStyle
	PatchReplace
	PatchInsert
	PatchRemove
)

// String returns the string representation of the operation.
func (op PatchOp) String() string {
	switch op {
	case PatchUpdateText:
		return "update-text"
	case PatchUpdateStyle:
		return "update-style"
	case PatchReplace:
		return "replace"
	case PatchInsert:
		return "insert"
	case PatchRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Patch records one change to the root's children.
type Patch struct {
	Op    PatchOp
	Index int
	Node  *Node // The node now at Index; nil for removals
}

// String returns a human-readable representation of the patch.
func (p Patch) String() string {
	return fmt.Sprintf("%s@%d", p.Op, p.Index)
}

// Styler returns the style of a span covered by ids.
type Styler func(ids []int) core.Style

// Tree is the rendered surface.
// It is not safe for concurrent use.
type Tree struct {
	root *Node
	sel  caret.Selection
}

// New creates an empty tree.
func New() *Tree {
	root := &Node{Kind: KindElement}
	return &Tree{root: root, sel: caret.Collapsed(caret.Point{Node: root})}
}

// Root implements caret.Surface.
func (t *Tree) Root() caret.Node {
	return t.root
}

// RootNode returns the root element.
func (t *Tree) RootNode() *Node {
	return t.root
}

// Selection implements caret.Surface.
func (t *Tree) Selection() caret.Selection {
	return t.sel
}

// SetSelection implements caret.Surface.
func (t *Tree) SetSelection(s caret.Selection) {
	t.sel = s
}

// Text returns the text of the whole tree.
func (t *Tree) Text() string {
	return t.root.Content()
}

// Render reconciles the root's children with segs and returns the patches
// it applied, in child order. Nodes whose kind and covering set are
// unchanged are kept and updated in place, so selection points into them
// stay valid.
func (t *Tree) Render(segs []segment.Segment, style Styler) []Patch {
	var patches []Patch
	old := t.root.Kids
	kids := make([]*Node, len(segs))

	for i, seg := range segs {
		want := core.DefaultStyle()
		if seg.Covered() && style != nil {
			want = style(seg.RangeIDs)
		}

		if i >= len(old) {
			kids[i] = build(seg, want)
			patches = append(patches, Patch{Op: PatchInsert, Index: i, Node: kids[i]})
			continue
		}

		n := old[i]
		if !matches(n, seg) {
			kids[i] = build(seg, want)
			patches = append(patches, Patch{Op: PatchReplace, Index: i, Node: kids[i]})
			continue
		}

		kids[i] = n
		textNode := n
		if n.Kind == KindElement {
			textNode = n.textChild()
		}
		if textNode.Value != seg.Text {
			textNode.Value = seg.Text
			patches = append(patches, Patch{Op: PatchUpdateText, Index: i, Node: n})
		}
		if n.Kind == KindElement && !n.Style.Equals(want) {
			n.Style = want
			patches = append(patches, Patch{Op: PatchUpdateStyle, Index: i, Node: n})
		}
	}

	for i := len(old) - 1; i >= len(segs); i-- {
		patches = append(patches, Patch{Op: PatchRemove, Index: i})
	}

	t.root.Kids = kids
	return patches
}

// matches reports whether n can be reused for seg.
func matches(n *Node, seg segment.Segment) bool {
	if !seg.Covered() {
		return n.Kind == KindText
	}
	return n.Kind == KindElement && n.textChild() != nil && slices.Equal(n.RangeIDs, seg.RangeIDs)
}

func build(seg segment.Segment, style core.Style) *Node {
	if !seg.Covered() {
		return NewText(seg.Text)
	}
	return NewSpan(seg.Text, seg.RangeIDs, style)
}

// Run is a styled stretch of text in document order.
type Run struct {
	Text     string
	Start    int // Rune offset
	RangeIDs []int
	Style    core.Style
}

// Runs flattens the tree into styled runs.
func (t *Tree) Runs() []Run {
	runs := make([]Run, 0, len(t.root.Kids))
	off := 0
	for _, k := range t.root.Kids {
		r := Run{Text: k.Content(), Start: off, Style: core.DefaultStyle()}
		if k.Kind == KindElement {
			r.RangeIDs = k.RangeIDs
			r.Style = k.Style
		}
		runs = append(runs, r)
		off += caret.TextLen(k)
	}
	return runs
}
