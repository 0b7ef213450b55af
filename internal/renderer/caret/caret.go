// Package caret translates between a surface's native selection and
// logical text offsets.
//
// A surface is a tree of nodes. Text nodes carry text; element nodes carry
// children. A selection point names a node and an offset inside it: for a
// text node the offset counts runes of its text, for an element node it
// counts children.
package caret

import "unicode/utf8"

// Node is a node of a rendered surface.
type Node interface {
	IsText() bool
	Text() string // Text of a text node; empty for elements
	Children() []Node
}

// Point is a position inside the surface.
type Point struct {
	Node   Node
	Offset int
}

// Selection is the surface's native selection.
type Selection struct {
	Anchor Point
	Focus  Point
}

// Collapsed returns a selection with anchor and focus both at p.
func Collapsed(p Point) Selection {
	return Selection{Anchor: p, Focus: p}
}

// IsCollapsed reports whether anchor and focus coincide.
func (s Selection) IsCollapsed() bool {
	return s.Anchor == s.Focus
}

// Surface exposes a rendered tree and its selection.
type Surface interface {
	Root() Node
	Selection() Selection
	SetSelection(Selection)
}

// GetOffset returns the logical offset of the later of the selection's
// anchor and focus. Points that are not in the tree resolve to 0.
func GetOffset(s Surface) int {
	sel := s.Selection()
	root := s.Root()
	return max(PointOffset(root, sel.Anchor), PointOffset(root, sel.Focus))
}

// SelectionOffsets returns the logical offsets of anchor and focus.
func SelectionOffsets(s Surface) (anchor, focus int) {
	sel := s.Selection()
	root := s.Root()
	return PointOffset(root, sel.Anchor), PointOffset(root, sel.Focus)
}

// PointOffset resolves p to a logical offset within the tree at root.
func PointOffset(root Node, p Point) int {
	if root == nil || p.Node == nil {
		return 0
	}
	acc := 0
	if off, ok := resolve(root, p, &acc); ok {
		return off
	}
	return 0
}

func resolve(n Node, p Point, acc *int) (int, bool) {
	if n == p.Node {
		if n.IsText() {
			return *acc + clamp(p.Offset, 0, textLen(n)), true
		}
		children := n.Children()
		k := clamp(p.Offset, 0, len(children))
		sum := *acc
		for _, c := range children[:k] {
			sum += TextLen(c)
		}
		return sum, true
	}
	if n.IsText() {
		*acc += textLen(n)
		return 0, false
	}
	for _, c := range n.Children() {
		if off, ok := resolve(c, p, acc); ok {
			return off, true
		}
	}
	return 0, false
}

// SetOffset collapses the selection at the logical offset.
// Offsets below zero collapse at the start, offsets past the text at the
// end, and a surface without text nodes collapses at (root, 0).
func SetOffset(s Surface, offset int) {
	s.SetSelection(Collapsed(Locate(s.Root(), offset)))
}

// SetRange selects from anchor to focus.
func SetRange(s Surface, anchor, focus int) {
	root := s.Root()
	s.SetSelection(Selection{Anchor: Locate(root, anchor), Focus: Locate(root, focus)})
}

// Locate returns the point for a logical offset: the first text node, in
// document order, whose cumulative length reaches the offset.
func Locate(root Node, offset int) Point {
	if root == nil {
		return Point{}
	}
	offset = max(offset, 0)
	var last Node
	acc := 0
	var found *Point
	walkText(root, func(n Node) bool {
		l := textLen(n)
		if acc+l >= offset {
			found = &Point{Node: n, Offset: offset - acc}
			return false
		}
		acc += l
		last = n
		return true
	})
	switch {
	case found != nil:
		return *found
	case last != nil:
		return Point{Node: last, Offset: textLen(last)}
	default:
		return Point{Node: root, Offset: 0}
	}
}

// TextLen returns the rune length of all text under n.
func TextLen(n Node) int {
	total := 0
	walkText(n, func(t Node) bool {
		total += textLen(t)
		return true
	})
	return total
}

// walkText visits text nodes in document order until fn returns false.
func walkText(n Node, fn func(Node) bool) bool {
	if n.IsText() {
		return fn(n)
	}
	for _, c := range n.Children() {
		if !walkText(c, fn) {
			return false
		}
	}
	return true
}

func textLen(n Node) int {
	return utf8.RuneCountInString(n.Text())
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
