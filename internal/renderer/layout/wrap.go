// Package layout computes the visual rows of the text pane and the
// positions of annotation cards beside them.
package layout

import (
	"sort"

	"github.com/dshills/proofmark/internal/renderer/core"
	"github.com/dshills/proofmark/internal/renderer/vtree"
)

// Cell is a visual cell tied to the rune offset it renders.
type Cell struct {
	core.Cell
	Offset int
	Col    int // Visual column within the row
}

// Row is one visual row of the text pane.
type Row struct {
	Start int // Rune offset of the first character on the row
	End   int // Rune offset past the last character, excluding a newline
	Cells []Cell
	Width int // Total visual width in columns
}

// Engine wraps styled runs into rows.
type Engine struct {
	tabWidth   int
	wrapWidth  int  // 0 = no wrap
	wrapAtWord bool // Try to wrap at word boundaries
}

// NewEngine creates a layout engine.
func NewEngine(tabWidth, wrapWidth int) *Engine {
	if tabWidth < 1 {
		tabWidth = 4
	}
	if wrapWidth < 0 {
		wrapWidth = 0
	}
	return &Engine{tabWidth: tabWidth, wrapWidth: wrapWidth, wrapAtWord: true}
}

// SetWrap configures wrapping. A width of 0 disables it.
func (e *Engine) SetWrap(width int, atWord bool) {
	if width < 0 {
		width = 0
	}
	e.wrapWidth = width
	e.wrapAtWord = atWord
}

// WrapWidth returns the current wrap width (0 = no wrap).
func (e *Engine) WrapWidth() int {
	return e.wrapWidth
}

// Layout lays out runs. There is always at least one row.
func (e *Engine) Layout(runs []vtree.Run) []Row {
	rows := []Row{{}}
	cur := &rows[0]
	offset := 0

	newRow := func(start int) {
		rows = append(rows, Row{Start: start, End: start})
		cur = &rows[len(rows)-1]
	}

	for _, run := range runs {
		for _, r := range run.Text {
			if r == '\n' {
				cur.End = offset
				offset++
				newRow(offset)
				continue
			}

			width := core.RuneWidth(r)
			ch := r
			if r == '\t' {
				width = e.tabWidth - (cur.Width % e.tabWidth)
				ch = ' '
			}

			// Spaces hang past the wrap width so rows never start with one.
			if r != ' ' && e.wrapWidth > 0 && cur.Width+width > e.wrapWidth && len(cur.Cells) > 0 {
				carry := e.splitAt(cur)
				newRow(offset)
				if len(carry) > 0 {
					cur.Start = carry[0].Offset
					for _, c := range carry {
						appendCell(cur, c.Cell, c.Offset)
					}
				}
			}

			appendCell(cur, core.Cell{Rune: ch, Width: width, Style: run.Style}, offset)
			offset++
			cur.End = offset
		}
	}
	return rows
}

// splitAt trims row after its last space when wrapping at words and
// returns the cells that move to the next row.
func (e *Engine) splitAt(row *Row) []Cell {
	if !e.wrapAtWord {
		return nil
	}
	for i := len(row.Cells) - 1; i > 0; i-- {
		if row.Cells[i].Rune == ' ' {
			carry := append([]Cell(nil), row.Cells[i+1:]...)
			row.Cells = row.Cells[:i+1]
			row.End = row.Cells[i].Offset + 1
			row.Width = row.Cells[i].Col + row.Cells[i].Width
			return carry
		}
	}
	return nil
}

func appendCell(row *Row, c core.Cell, offset int) {
	row.Cells = append(row.Cells, Cell{Cell: c, Offset: offset, Col: row.Width})
	row.Width += c.Width
}

// RowOf returns the index of the row holding offset: the last row starting
// at or before it.
func RowOf(rows []Row, offset int) int {
	i := sort.Search(len(rows), func(i int) bool { return rows[i].Start > offset })
	if i == 0 {
		return 0
	}
	return i - 1
}

// CaretPosition returns the row and column of a caret at offset.
func CaretPosition(rows []Row, offset int) (row, col int) {
	if len(rows) == 0 {
		return 0, 0
	}
	row = RowOf(rows, offset)
	for _, c := range rows[row].Cells {
		if c.Offset >= offset {
			return row, c.Col
		}
	}
	return row, rows[row].Width
}

// OffsetAt returns the caret offset closest to a row and column.
func OffsetAt(rows []Row, row, col int) int {
	if len(rows) == 0 {
		return 0
	}
	if row < 0 {
		return 0
	}
	if row >= len(rows) {
		return rows[len(rows)-1].End
	}
	r := rows[row]
	for _, c := range r.Cells {
		if col < c.Col+c.Width {
			return c.Offset
		}
	}
	return r.End
}
