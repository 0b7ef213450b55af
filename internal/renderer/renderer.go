package renderer

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/dshills/proofmark/internal/engine/ranges"
	"github.com/dshills/proofmark/internal/renderer/backend"
	"github.com/dshills/proofmark/internal/renderer/core"
	"github.com/dshills/proofmark/internal/renderer/layout"
	"github.com/dshills/proofmark/internal/renderer/statusline"
	"github.com/dshills/proofmark/internal/renderer/viewport"
	"github.com/dshills/proofmark/internal/renderer/vtree"
)

// Options configures the renderer.
type Options struct {
	TabWidth     int
	SidebarWidth int // Columns for annotation cards; 0 hides them
	CardSpacing  int // Minimum blank rows between cards
	MinPane      int // Narrowest text pane before the sidebar is hidden
}

// DefaultOptions returns the default options.
func DefaultOptions() Options {
	return Options{TabWidth: 4, SidebarWidth: 36, CardSpacing: 1, MinPane: 20}
}

// Frame is everything one paint needs.
type Frame struct {
	Runs        []vtree.Run
	Suggestions []ranges.Suggestion

	// Selection as rune offsets; the caret is at Focus.
	Anchor, Focus int

	// Logical caret position, 0-indexed, for the status line.
	Line, Col int
}

// CardBox is a painted annotation card in screen coordinates.
type CardBox struct {
	ID     int
	X, Y   int
	Width  int
	Height int
	Active bool
}

// Styles.
var (
	separatorStyle = core.DefaultStyle().WithForeground(core.ColorGray)
	contentStyle   = core.DefaultStyle()
	titleStyle     = core.DefaultStyle().Bold()
)

// Renderer paints frames onto a backend.
type Renderer struct {
	be     backend.Backend
	opts   Options
	eng    *layout.Engine
	vp     *viewport.Viewport
	status *statusline.StatusLine

	width, height int
	paneWidth     int
	sidebarX      int // 0 when the sidebar is hidden

	rows      []layout.Row
	cards     []CardBox
	lastFocus int
}

// New creates a renderer drawing to be.
func New(be backend.Backend, opts Options) *Renderer {
	r := &Renderer{
		be:        be,
		opts:      opts,
		eng:       layout.NewEngine(opts.TabWidth, 0),
		vp:        viewport.NewViewport(1),
		status:    statusline.New(),
		lastFocus: -1,
	}
	r.Resize(be.Size())
	return r
}

// Status returns the status line.
func (r *Renderer) Status() *statusline.StatusLine {
	return r.status
}

// Resize recomputes the screen split.
func (r *Renderer) Resize(width, height int) {
	r.width, r.height = max(width, 1), max(height, 2)
	r.paneWidth, r.sidebarX = r.width, 0
	if sw := r.opts.SidebarWidth; sw > 0 && r.width-sw-1 >= r.opts.MinPane {
		r.paneWidth = r.width - sw - 1
		r.sidebarX = r.paneWidth + 1
	}
	r.eng.SetWrap(max(r.paneWidth-1, 1), true)
	r.vp.Resize(r.height - 1)
	r.status.Resize(r.width)
	r.lastFocus = -1
}

// PaneWidth returns the width of the text pane.
func (r *Renderer) PaneWidth() int {
	return r.paneWidth
}

// SidebarVisible reports whether annotation cards are shown.
func (r *Renderer) SidebarVisible() bool {
	return r.sidebarX > 0
}

// Rows returns the rows of the last frame.
func (r *Renderer) Rows() []layout.Row {
	return r.rows
}

// Cards returns the cards of the last frame.
func (r *Renderer) Cards() []CardBox {
	return r.cards
}

// Scroll scrolls the text pane by delta rows. The caret is revealed again on
// its next move.
func (r *Renderer) Scroll(delta int) {
	r.vp.ScrollBy(delta)
}

// VisualMove returns the offset one visual row up (delta < 0) or down from
// the caret at offset, keeping the column.
func (r *Renderer) VisualMove(offset, delta int) int {
	row, col := layout.CaretPosition(r.rows, offset)
	return layout.OffsetAt(r.rows, row+delta, col)
}

// PageSize returns the number of text rows on screen.
func (r *Renderer) PageSize() int {
	return r.vp.Height()
}

// Render paints f and flushes the backend.
func (r *Renderer) Render(f Frame) {
	r.rows = r.eng.Layout(f.Runs)
	r.vp.SetRows(len(r.rows))

	caretRow, caretCol := layout.CaretPosition(r.rows, f.Focus)
	if f.Focus != r.lastFocus {
		r.vp.ScrollToReveal(caretRow)
		r.lastFocus = f.Focus
	}

	r.be.Clear()
	r.paintText(f)
	r.paintCards(f.Suggestions)

	r.status.SetPosition(f.Line+1, f.Col+1)
	r.status.SetSuggestionCount(len(f.Suggestions))
	r.status.Render(r.be, r.height-1)

	if !r.status.Prompting() {
		if r.vp.IsRowVisible(caretRow) {
			r.be.ShowCursor(caretCol, r.vp.RowToScreen(caretRow))
		} else {
			r.be.HideCursor()
		}
	}
	r.be.Show()
}

func (r *Renderer) paintText(f Frame) {
	lo, hi := min(f.Anchor, f.Focus), max(f.Anchor, f.Focus)
	for y := 0; y < r.vp.Height(); y++ {
		row := r.vp.ScreenToRow(y)
		if row >= len(r.rows) {
			break
		}
		for _, c := range r.rows[row].Cells {
			if c.Col >= r.paneWidth {
				break
			}
			cell := c.Cell
			if c.Offset >= lo && c.Offset < hi {
				cell.Style = cell.Style.Reverse()
			}
			r.be.SetCell(c.Col, y, cell)
		}
	}

	if r.sidebarX > 0 {
		for y := 0; y < r.vp.Height(); y++ {
			r.be.SetCell(r.paneWidth, y, core.NewStyledCell('│', separatorStyle))
		}
	}
}

// cardLines returns the wrapped text of a card.
func cardLines(s ranges.Suggestion, width int) []string {
	title := s.Title
	if title == "" {
		title = "(untitled)"
	}
	lines := wrap(title, width)
	if s.Active && s.Content != "" {
		lines = append(lines, wrap(s.Content, width)...)
	}
	return lines
}

func wrap(text string, width int) []string {
	if width < 1 {
		return nil
	}
	var out []string
	for _, line := range strings.Split(wordwrap.String(text, width), "\n") {
		out = append(out, truncate(strings.TrimRight(line, " "), width))
	}
	return out
}

// truncate cuts s to at most width cells.
func truncate(s string, width int) string {
	if core.StringWidth(s) <= width {
		return s
	}
	var b strings.Builder
	w := 0
	for _, r := range s {
		rw := core.RuneWidth(r)
		if w+rw > width {
			break
		}
		b.WriteRune(r)
		w += rw
	}
	return b.String()
}

func (r *Renderer) paintCards(items []ranges.Suggestion) {
	r.cards = r.cards[:0]
	if r.sidebarX == 0 || len(items) == 0 {
		return
	}

	textWidth := r.opts.SidebarWidth - 2 // bar and a space
	lines := make(map[int][]string, len(items))
	byID := make(map[int]ranges.Suggestion, len(items))
	cards := make([]layout.Card, 0, len(items))
	for _, s := range items {
		l := cardLines(s, textWidth)
		lines[s.ID], byID[s.ID] = l, s
		cards = append(cards, layout.Card{ID: s.ID, Height: len(l)})
	}

	tops := layout.Tops(r.rows, ranges.RangesOf(items))
	for _, p := range layout.Stack(cards, tops, r.opts.CardSpacing) {
		s := byID[p.ID]
		y := r.vp.RowToScreen(p.Top)
		box := CardBox{ID: p.ID, X: r.sidebarX, Y: y, Width: r.opts.SidebarWidth, Height: p.Height, Active: s.Active}
		r.cards = append(r.cards, box)

		bar := core.NewStyledCell('▎', core.DefaultStyle().WithForeground(s.Color))
		title := titleStyle
		if s.Active {
			title = title.WithForeground(s.Color)
		}
		titleLines := len(wrap(orUntitled(s.Title), textWidth))
		for i, line := range lines[p.ID] {
			sy := y + i
			if sy < 0 || sy >= r.vp.Height() {
				continue
			}
			r.be.SetCell(r.sidebarX, sy, bar)
			st := contentStyle
			if i < titleLines {
				st = title
			}
			r.put(r.sidebarX+2, sy, line, st)
		}
	}
}

func orUntitled(title string) string {
	if title == "" {
		return "(untitled)"
	}
	return title
}

func (r *Renderer) put(x, y int, text string, st core.Style) {
	for _, ch := range text {
		w := core.RuneWidth(ch)
		if w == 0 {
			continue
		}
		r.be.SetCell(x, y, core.Cell{Rune: ch, Width: w, Style: st})
		x += w
	}
}

// HitText maps a screen cell in the text pane to a caret offset.
func (r *Renderer) HitText(x, y int) (int, bool) {
	if x < 0 || x >= r.paneWidth || y < 0 || y >= r.vp.Height() {
		return 0, false
	}
	return layout.OffsetAt(r.rows, r.vp.ScreenToRow(y), x), true
}

// HitCard returns the suggestion whose card covers a screen cell.
func (r *Renderer) HitCard(x, y int) (int, bool) {
	for _, c := range r.cards {
		if x >= c.X && x < c.X+c.Width && y >= c.Y && y < c.Y+c.Height {
			return c.ID, true
		}
	}
	return 0, false
}
