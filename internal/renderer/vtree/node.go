// Package vtree holds the rendered form of the annotated text: a root
// element whose children are plain text nodes and span elements, one per
// segment.
//
// A Tree is rendered from segments with Render. Rendering reconciles the
// new children against the existing ones, reusing nodes whose covering set
// is unchanged, and reports the patches it applied. The tree is also the
// caret.Surface the editor translates selections on.
package vtree

import (
	"slices"

	"github.com/dshills/proofmark/internal/renderer/caret"
	"github.com/dshills/proofmark/internal/renderer/core"
)

// Kind distinguishes element nodes from text nodes.
type Kind uint8

const (
	KindElement Kind = iota
	KindText
)

// Node is a node of the tree.
type Node struct {
	Kind     Kind
	Value    string     // Text nodes only
	RangeIDs []int      // Span elements only
	Style    core.Style // Span elements only
	Kids     []*Node
}

// NewText creates a text node.
func NewText(s string) *Node {
	return &Node{Kind: KindText, Value: s}
}

// NewSpan creates a span element wrapping a text node.
func NewSpan(s string, ids []int, style core.Style) *Node {
	return &Node{
		Kind:     KindElement,
		RangeIDs: slices.Clone(ids),
		Style:    style,
		Kids:     []*Node{NewText(s)},
	}
}

// IsText implements caret.Node.
func (n *Node) IsText() bool {
	return n.Kind == KindText
}

// Text implements caret.Node.
func (n *Node) Text() string {
	return n.Value
}

// Children implements caret.Node.
func (n *Node) Children() []caret.Node {
	out := make([]caret.Node, len(n.Kids))
	for i, k := range n.Kids {
		out[i] = k
	}
	return out
}

// IsSpan reports whether n is a span element.
func (n *Node) IsSpan() bool {
	return n.Kind == KindElement && len(n.RangeIDs) > 0
}

// Content returns the text under n.
func (n *Node) Content() string {
	if n.IsText() {
		return n.Value
	}
	var s string
	for _, k := range n.Kids {
		s += k.Content()
	}
	return s
}

// textChild returns the span's text node.
func (n *Node) textChild() *Node {
	if len(n.Kids) == 0 {
		return nil
	}
	return n.Kids[0]
}
