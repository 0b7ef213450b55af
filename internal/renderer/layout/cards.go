package layout

import (
	"sort"

	"github.com/dshills/proofmark/internal/engine/ranges"
)

// Tops returns the first row of each range, keyed by range ID.
func Tops(rows []Row, rs []ranges.Range) map[int]int {
	tops := make(map[int]int, len(rs))
	for _, r := range rs {
		tops[r.ID] = RowOf(rows, r.Start)
	}
	return tops
}

// Card is an annotation card awaiting placement.
type Card struct {
	ID     int
	Height int
}

// Placement is a card's final position.
type Placement struct {
	ID     int
	Top    int
	Height int
}

// Bottom returns the row past the card.
func (p Placement) Bottom() int {
	return p.Top + p.Height
}

// Stack places cards as close as possible to their range's top row without
// overlapping, keeping at least spacing rows between neighbours. Cards are
// ordered by desired top; ties keep their input order. Cards without a top
// are left out.
func Stack(cards []Card, tops map[int]int, spacing int) []Placement {
	if spacing < 0 {
		spacing = 0
	}
	out := make([]Placement, 0, len(cards))
	for _, c := range cards {
		top, ok := tops[c.ID]
		if !ok {
			continue
		}
		out = append(out, Placement{ID: c.ID, Top: top, Height: max(c.Height, 0)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Top < out[j].Top })

	for i := 1; i < len(out); i++ {
		floor := out[i-1].Bottom() + spacing
		if out[i].Top < floor {
			out[i].Top = floor
		}
	}
	return out
}
