package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/proofmark/internal/engine/ranges"
	"github.com/dshills/proofmark/internal/renderer/core"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state"), "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func TestLoadFirstRun(t *testing.T) {
	s := openTemp(t)
	st, found, err := s.Load()
	if err != nil || found {
		t.Fatalf("Load = found %v, %v; want first run", found, err)
	}
	if len(st.StyleGuides) != 2 || st.Text != "" {
		t.Errorf("default state = %+v", st)
	}
	if s.Key() != "AppState" {
		t.Errorf("Key = %q", s.Key())
	}
}

func TestSaveLoad(t *testing.T) {
	s := openTemp(t)
	red := core.MustHex("#EA1437")
	want := State{
		Text:            "Hello. World.",
		StyleGuideIndex: 1,
		StyleGuides:     DefaultState().StyleGuides,
		Suggestions: []Suggestion{
			{ID: 4, Start: 0, End: 6, Title: "T", Content: "C", Color: red},
		},
	}
	if err := s.Save(want); err != nil {
		t.Fatal(err)
	}

	got, found, err := s.Load()
	if err != nil || !found {
		t.Fatalf("Load = %v, %v", found, err)
	}
	if got.Text != want.Text || got.StyleGuideIndex != 1 {
		t.Errorf("Load = %+v", got)
	}
	if len(got.Suggestions) != 1 || got.Suggestions[0] != want.Suggestions[0] {
		t.Errorf("suggestions = %+v", got.Suggestions)
	}

	color, err := s.Get("suggestions.0.color")
	if err != nil || color.String() != "#EA1437" {
		t.Errorf("suggestions.0.color = %q, %v", color.String(), err)
	}
}

func TestSetSingleField(t *testing.T) {
	s := openTemp(t)
	if err := s.Save(State{Text: "old", StyleGuideIndex: 1}); err != nil {
		t.Fatal(err)
	}
	if err := s.SetText("new"); err != nil {
		t.Fatal(err)
	}

	st, _, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if st.Text != "new" || st.StyleGuideIndex != 1 {
		t.Errorf("after SetText: %+v", st)
	}

	items := []ranges.Suggestion{{Range: ranges.Range{ID: 1, Start: 2, End: 3, Active: true}, Title: "x"}}
	if err := s.SetSuggestions(items); err != nil {
		t.Fatal(err)
	}
	st, _, _ = s.Load()
	back := ToSuggestions(st.Suggestions)
	if len(back) != 1 || back[0].ID != 1 || back[0].Active || back[0].Title != "x" {
		t.Errorf("suggestions = %+v", back)
	}
}

func TestAPIKey(t *testing.T) {
	s := openTemp(t)
	if _, ok := s.APIKey(); ok {
		t.Error("no key should be set initially")
	}
	if err := s.SetAPIKey("sk-1"); err != nil {
		t.Fatal(err)
	}
	if k, ok := s.APIKey(); !ok || k != "sk-1" {
		t.Errorf("APIKey = %q, %v", k, ok)
	}
	if err := s.SetAPIKey(""); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.APIKey(); ok {
		t.Error("key should be cleared")
	}
}

func TestInvalidBlob(t *testing.T) {
	s := openTemp(t)
	if err := os.WriteFile(filepath.Join(s.Path(), s.Key()), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, _, err := s.Load()
	if !errors.Is(err, ErrInvalidBlob) {
		t.Errorf("Load error = %v, want ErrInvalidBlob", err)
	}
	if err := s.Reset(); err != nil {
		t.Fatal(err)
	}
	if _, found, err := s.Load(); found || err != nil {
		t.Errorf("after Reset: found %v, %v", found, err)
	}
}

func TestInstancesSeeEachOthersWrites(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	a, err := Open(dir, "")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Open(dir, "")
	if err != nil {
		t.Fatal(err)
	}

	if err := a.SetText("one"); err != nil {
		t.Fatal(err)
	}
	if err := a.SetAPIKey("sk-1"); err != nil {
		t.Fatal(err)
	}
	if r, _ := b.Get("text"); r.String() != "one" {
		t.Fatalf("b text = %q, want one", r.String())
	}

	if err := a.SetText("two"); err != nil {
		t.Fatal(err)
	}
	if r, _ := b.Get("text"); r.String() != "two" {
		t.Errorf("b text = %q after a wrote two", r.String())
	}

	// A key cleared elsewhere must not come back when this instance
	// writes another field.
	if err := b.SetAPIKey(""); err != nil {
		t.Fatal(err)
	}
	if err := a.SetText("three"); err != nil {
		t.Fatal(err)
	}
	if key, ok := a.APIKey(); ok {
		t.Errorf("cleared key resurrected as %q", key)
	}
	if r, _ := b.Get("text"); r.String() != "three" {
		t.Errorf("b text = %q, want three", r.String())
	}
}
