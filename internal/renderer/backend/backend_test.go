package backend

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/proofmark/internal/renderer/core"
)

func TestNullBackendInit(t *testing.T) {
	b := NewNullBackend(80, 24)
	if err := b.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	w, h := b.Size()
	if w != 80 || h != 24 {
		t.Errorf("expected size (80, 24), got (%d, %d)", w, h)
	}
}

func TestNullBackendSetGetCell(t *testing.T) {
	b := NewNullBackend(80, 24)
	_ = b.Init()

	cell := core.NewStyledCell('X', core.DefaultStyle().WithForeground(core.ColorRed))
	b.SetCell(10, 5, cell)

	if got := b.GetCell(10, 5); got != cell {
		t.Errorf("cell mismatch: expected %+v, got %+v", cell, got)
	}

	// Out of bounds should be ignored/return empty
	b.SetCell(-1, 0, cell)
	b.SetCell(100, 0, cell)
	if got := b.GetCell(-1, 0); got != core.EmptyCell() {
		t.Error("out of bounds should return empty cell")
	}
}

func TestNullBackendFillAndRow(t *testing.T) {
	b := NewNullBackend(10, 3)
	_ = b.Init()

	b.Fill(core.RectFromSize(1, 2, 1, 3), core.NewStyledCell('.', core.DefaultStyle()))
	if got := b.Row(1); got != "  ...     " {
		t.Errorf("row 1 = %q", got)
	}
	b.Clear()
	if got := b.Row(1); got != "          " {
		t.Errorf("row 1 after Clear = %q", got)
	}
}

func TestNullBackendEvents(t *testing.T) {
	b := NewNullBackend(10, 3)
	_ = b.Init()

	called := false
	_ = b.PostFunc(func() { called = true })
	b.Inject(Event{Type: EventKey, Key: KeyRune, Rune: 'a'})

	ev := b.PollEvent()
	if ev.Type != EventInterrupt || ev.Func == nil {
		t.Fatalf("first event = %+v, want interrupt", ev)
	}
	ev.Func()
	if !called {
		t.Error("posted func not delivered")
	}
	if ev := b.PollEvent(); ev.Rune != 'a' {
		t.Errorf("second event = %+v", ev)
	}

	b.Close()
	if ev := b.PollEvent(); ev.Type != EventNone {
		t.Errorf("event after Close = %+v", ev)
	}
}

func TestConvertStyleColors(t *testing.T) {
	s := core.DefaultStyle().
		WithForeground(core.ColorFromRGB(10, 20, 30)).
		WithBackground(core.MustHex("#FF9F9F")).
		Bold()

	fg, bg, attrs := convertStyle(s).Decompose()
	if r, g, b := fg.RGB(); r != 10 || g != 20 || b != 30 {
		t.Errorf("fg = %d,%d,%d", r, g, b)
	}
	if r, g, b := bg.RGB(); r != 0xFF || g != 0x9F || b != 0x9F {
		t.Errorf("bg = %d,%d,%d", r, g, b)
	}
	if attrs&tcell.AttrBold == 0 {
		t.Error("bold lost")
	}

	back := convertTcellStyle(convertStyle(s))
	if !back.Foreground.Equals(s.Foreground) || !back.Background.Equals(s.Background) {
		t.Errorf("round trip = %+v", back)
	}
}

func TestConvertStyleDefault(t *testing.T) {
	if convertStyle(core.DefaultStyle()) != tcell.StyleDefault {
		t.Error("default style should map to tcell.StyleDefault")
	}
}

func TestConvertKey(t *testing.T) {
	tests := []struct {
		in   tcell.Key
		want Key
	}{
		{tcell.KeyRune, KeyRune},
		{tcell.KeyBackspace, KeyBackspace},
		{tcell.KeyBackspace2, KeyBackspace},
		{tcell.KeyCtrlQ, KeyCtrlQ},
		{tcell.KeyF7, KeyNone},
	}
	for _, tt := range tests {
		if got := convertKey(tt.in); got != tt.want {
			t.Errorf("convertKey(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConvertEvent(t *testing.T) {
	ev := convertEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModAlt))
	if ev.Type != EventKey || ev.Rune != 'q' || !ev.Mod.Has(ModAlt) {
		t.Errorf("key event = %+v", ev)
	}

	ev = convertEvent(tcell.NewEventMouse(3, 4, tcell.Button1, tcell.ModNone))
	if ev.Type != EventMouse || ev.MouseX != 3 || ev.MouseY != 4 || ev.MouseButton != MouseLeft {
		t.Errorf("mouse event = %+v", ev)
	}

	ev = convertEvent(tcell.NewEventResize(100, 40))
	if ev.Type != EventResize || ev.Width != 100 || ev.Height != 40 {
		t.Errorf("resize event = %+v", ev)
	}
}

func TestPasteText(t *testing.T) {
	if got := pasteText(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)); got != "\n" {
		t.Errorf("enter = %q", got)
	}
	if got := pasteText(tcell.NewEventKey(tcell.KeyRune, 'ü', tcell.ModNone)); got != "ü" {
		t.Errorf("rune = %q", got)
	}
}
