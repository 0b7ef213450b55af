package core

import "math"

// Highlight tint factors. An active fill is the blended range color at
// ActiveTint against white at 1-ActiveTint.
const (
	ActiveTint = 0.375
	WhiteTint  = 0.625
)

// Weighted pairs a color with its blend weight.
type Weighted struct {
	Color  Color
	Weight float64
}

// W returns c with weight 1.
func W(c Color) Weighted {
	return Weighted{Color: c, Weight: 1}
}

// Blend returns the per-channel weighted average of colors, rounded to the
// nearest integer. Entries with a non-positive weight are ignored. With no
// usable entries the result is white.
func Blend(colors ...Weighted) Color {
	var r, g, b, total float64
	for _, wc := range colors {
		if wc.Weight <= 0 || math.IsNaN(wc.Weight) {
			continue
		}
		c := wc.Color
		if c.Default {
			c = ColorWhite
		}
		r += float64(c.R) * wc.Weight
		g += float64(c.G) * wc.Weight
		b += float64(c.B) * wc.Weight
		total += wc.Weight
	}
	if total == 0 {
		return ColorWhite
	}
	return Color{
		R: channel(r / total),
		G: channel(g / total),
		B: channel(b / total),
	}
}

// BlendEqual blends colors with equal weight.
func BlendEqual(colors ...Color) Color {
	ws := make([]Weighted, len(colors))
	for i, c := range colors {
		ws[i] = W(c)
	}
	return Blend(ws...)
}

// Underline returns the underline color for a run covered by ranges with
// the given colors. When any of them is active only the active colors
// contribute.
func Underline(colors []Color, active []bool) Color {
	var picked []Color
	for i, c := range colors {
		if i < len(active) && active[i] {
			picked = append(picked, c)
		}
	}
	if len(picked) == 0 {
		picked = colors
	}
	return BlendEqual(picked...)
}

// Fill returns the background tint for a run. Without any active range the
// run keeps the surface's default background.
func Fill(colors []Color, active []bool) Color {
	var picked []Color
	for i, c := range colors {
		if i < len(active) && active[i] {
			picked = append(picked, c)
		}
	}
	if len(picked) == 0 {
		return ColorDefault
	}
	return Blend(
		Weighted{Color: BlendEqual(picked...), Weight: ActiveTint},
		Weighted{Color: ColorWhite, Weight: WhiteTint},
	)
}

// channel rounds half away from zero, matching integer RGB math.
func channel(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
