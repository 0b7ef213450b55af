package vtree

import (
	"github.com/dshills/proofmark/internal/engine/ranges"
	"github.com/dshills/proofmark/internal/renderer/core"
)

// RangeStyler styles spans from the colors and active flags of rs.
//
// A span is underlined in the blend of its covering colors (only the active
// ones when any is active) and filled with the tinted blend of its active
// colors.
func RangeStyler(rs []ranges.Range) Styler {
	byID := make(map[int]ranges.Range, len(rs))
	for _, r := range rs {
		byID[r.ID] = r
	}
	return func(ids []int) core.Style {
		colors := make([]core.Color, 0, len(ids))
		active := make([]bool, 0, len(ids))
		for _, id := range ids {
			r, ok := byID[id]
			if !ok {
				continue
			}
			colors = append(colors, r.Color)
			active = append(active, r.Active)
		}
		if len(colors) == 0 {
			return core.DefaultStyle()
		}
		s := core.DefaultStyle().WithUnderline(core.Underline(colors, active))
		s.Background = core.Fill(colors, active)
		return s
	}
}
