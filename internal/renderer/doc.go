// Package renderer paints the editor onto a terminal backend.
//
// The screen is split into three areas:
//
//	┌──────────────────────────────┬──────────────┐
//	│  text pane                   │  annotation  │
//	│  (wrapped styled runs)       │  cards       │
//	├──────────────────────────────┴──────────────┤
//	│  status line                                │
//	└─────────────────────────────────────────────┘
//
// The text pane lays out the runs of the editor's node tree with the layout
// engine and scrolls with the viewport. Each suggestion gets a card in the
// sidebar placed next to the first row of its range; cards are stacked so
// they never overlap. The active suggestion's card also shows its content.
//
// Usage:
//
//	be, _ := backend.NewTerminal()
//	r := renderer.New(be, renderer.DefaultOptions())
//	r.Render(renderer.Frame{Runs: tree.Runs(), Suggestions: items, Focus: caret})
package renderer
