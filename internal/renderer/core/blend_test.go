package core

import "testing"

func TestBlendSingleColorIdentity(t *testing.T) {
	colors := []Color{ColorRed, MustHex("#EA1437"), ColorFromRGB(1, 2, 3), ColorBlack}
	for _, c := range colors {
		got := Blend(Weighted{Color: c, Weight: 1})
		if !got.Equals(c) {
			t.Errorf("Blend(%s) = %s, want identity", c, got)
		}
	}
}

func TestBlendRedBlue(t *testing.T) {
	got := BlendEqual(MustHex("#FF0000"), MustHex("#0000FF"))
	if got.Hex() != "#800080" {
		t.Errorf("expected #800080, got %s", got.Hex())
	}
}

func TestBlendWeights(t *testing.T) {
	tests := []struct {
		name   string
		colors []Weighted
		want   string
	}{
		{
			name:   "tint red against white",
			colors: []Weighted{{ColorRed, ActiveTint}, {ColorWhite, WhiteTint}},
			want:   "#FF9F9F",
		},
		{
			name:   "zero weight ignored",
			colors: []Weighted{{ColorRed, 1}, {ColorBlue, 0}},
			want:   "#FF0000",
		},
		{
			name:   "three to one",
			colors: []Weighted{{ColorBlack, 3}, {ColorWhite, 1}},
			want:   "#404040",
		},
		{
			name:   "empty is white",
			colors: nil,
			want:   "#FFFFFF",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Blend(tt.colors...)
			if got.Hex() != tt.want {
				t.Errorf("got %s, want %s", got.Hex(), tt.want)
			}
		})
	}
}

func TestUnderlinePrefersActive(t *testing.T) {
	colors := []Color{ColorRed, ColorBlue}

	if got := Underline(colors, []bool{false, false}); got.Hex() != "#800080" {
		t.Errorf("inactive underline: got %s, want #800080", got.Hex())
	}
	if got := Underline(colors, []bool{false, true}); !got.Equals(ColorBlue) {
		t.Errorf("active underline: got %s, want blue", got)
	}
}

func TestFill(t *testing.T) {
	colors := []Color{ColorRed}

	if got := Fill(colors, []bool{false}); !got.IsDefault() {
		t.Errorf("inactive fill should be default, got %s", got)
	}
	if got := Fill(colors, []bool{true}); got.Hex() != "#FF9F9F" {
		t.Errorf("active fill: got %s, want #FF9F9F", got.Hex())
	}
}
