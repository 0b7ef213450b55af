package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dshills/proofmark/internal/config"
	"github.com/dshills/proofmark/internal/engine/ranges"
	"github.com/dshills/proofmark/internal/llm"
	"github.com/dshills/proofmark/internal/renderer/backend"
	"github.com/dshills/proofmark/internal/store"
	"github.com/dshills/proofmark/internal/suggest"
)

const waitFor = 3 * time.Second

type harness struct {
	t    *testing.T
	app  *Application
	be   *backend.NullBackend
	done chan error
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Editor.Debounce = config.Duration(20 * time.Millisecond)
	cfg.StyleGuides.File = filepath.Join(t.TempDir(), "styleguides.yaml")
	cfg.AI.APIKey = ""
	return cfg
}

func oneRuleGuide(t *testing.T, cfg *config.Config) {
	t.Helper()
	data := "- name: Short\n  rules:\n    - Keep sentences short.\n"
	if err := os.WriteFile(cfg.StyleGuides.File, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

func start(t *testing.T, opts Options) *harness {
	t.Helper()
	be := backend.NewNullBackend(80, 12)
	opts.Backend = be
	app, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h := &harness{t: t, app: app, be: be, done: make(chan error, 1)}
	go func() { h.done <- app.Run(context.Background()) }()
	return h
}

func (h *harness) key(k backend.Key, mod backend.ModMask) {
	h.be.Inject(backend.Event{Type: backend.EventKey, Key: k, Mod: mod})
}

func (h *harness) typeText(s string) {
	for _, r := range s {
		h.be.Inject(backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: r})
	}
}

// onLoop runs fn on the event loop and waits for it.
func (h *harness) onLoop(fn func()) {
	h.t.Helper()
	ran := make(chan struct{})
	h.be.Inject(backend.Event{Type: backend.EventInterrupt, Func: func() {
		fn()
		close(ran)
	}})
	select {
	case <-ran:
	case <-time.After(waitFor):
		h.t.Fatal("event loop did not run the function")
	}
}

func (h *harness) eventually(what string, cond func() bool) {
	h.t.Helper()
	deadline := time.Now().Add(waitFor)
	for time.Now().Before(deadline) {
		var ok bool
		h.onLoop(func() { ok = cond() })
		if ok {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	h.t.Fatalf("timed out waiting for %s", what)
}

func (h *harness) quit() {
	h.t.Helper()
	h.key(backend.KeyCtrlQ, backend.ModNone)
	select {
	case err := <-h.done:
		if err != nil {
			h.t.Fatalf("Run: %v", err)
		}
	case <-time.After(waitFor):
		h.t.Fatal("Run did not return after Ctrl-Q")
	}
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(t.TempDir(), "")
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestRunWithoutBackend(t *testing.T) {
	app, err := New(Options{Config: testConfig(t)})
	if err != nil {
		t.Fatal(err)
	}
	if err := app.Run(context.Background()); !errors.Is(err, ErrNoBackend) {
		t.Errorf("Run = %v, want ErrNoBackend", err)
	}
}

func TestTypingPersistsText(t *testing.T) {
	st := openStore(t)
	h := start(t, Options{Config: testConfig(t), Store: st})

	h.typeText("Hi")
	h.eventually("typed text", func() bool { return strings.HasPrefix(h.app.Surface().Text(), "Hi") })
	h.quit()

	got, err := st.Get("text")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got.String(), "Hi") {
		t.Errorf("stored text = %q", got.String())
	}
}

func TestGenerationAppliesSuggestions(t *testing.T) {
	cfg := testConfig(t)
	oneRuleGuide(t, cfg)
	mock := llm.NewMock("Sentence range: 0-0\nTitle: Wordy\nContent: Cut it.")

	h := start(t, Options{Config: cfg, Client: mock, Text: "Hello. World."})

	var items []ranges.Suggestion
	h.eventually("suggestions", func() bool {
		items = h.app.Surface().Suggestions()
		return len(items) > 0
	})
	h.quit()

	if len(items) != 1 {
		t.Fatalf("got %d suggestions", len(items))
	}
	s := items[0]
	if s.ID != 0 || s.Start != 0 || s.End != 7 || s.Title != "Wordy" || s.Content != "Cut it." {
		t.Errorf("suggestion = %+v", s)
	}
	if !s.Color.Equals(cfg.Editor.SuggestionColor) {
		t.Errorf("color = %v", s.Color)
	}

	prompts := mock.Prompts()
	if len(prompts) == 0 || !strings.Contains(prompts[0], "<rule>\nKeep sentences short.\n</rule>") {
		t.Errorf("prompts = %q", prompts)
	}
	if !strings.Contains(prompts[0], "【0】 Hello. 【1】 World.") {
		t.Errorf("prompt text not marked: %q", prompts[0])
	}
	if m := h.app.Metrics().Snapshot(); m.Cycles != 1 || m.Findings != 1 {
		t.Errorf("metrics = %+v", m)
	}
}

func TestNoCredentialSkipsGeneration(t *testing.T) {
	h := start(t, Options{Config: testConfig(t), Text: "Hello."})

	h.eventually("skipped cycle", func() bool { return h.app.Metrics().Snapshot().SkippedCycles > 0 })
	h.onLoop(func() {
		if h.app.HasCredential() {
			t.Error("HasCredential = true")
		}
		if n := len(h.app.Surface().Suggestions()); n != 0 {
			t.Errorf("got %d suggestions", n)
		}
		if !strings.Contains(h.be.Row(11), "no API key") {
			t.Errorf("status = %q", h.be.Row(11))
		}
	})
	h.quit()
}

func TestRuleFailureKeepsExistingRanges(t *testing.T) {
	cfg := testConfig(t)
	oneRuleGuide(t, cfg)
	st := openStore(t)
	existing := store.DefaultState()
	existing.Text = "Hello. World."
	existing.Suggestions = []store.Suggestion{{ID: 4, Start: 7, End: 13, Title: "Old", Color: cfg.Editor.SuggestionColor}}
	if err := st.Save(existing); err != nil {
		t.Fatal(err)
	}

	mock := &llm.Mock{Respond: func(context.Context, string) (string, error) {
		return "", &llm.ProviderError{Provider: llm.ProviderAnthropic, Op: "send", Status: 401, Err: errors.New("bad key")}
	}}
	h := start(t, Options{Config: cfg, Store: st, Client: mock})

	h.key(backend.KeyCtrlL, backend.ModNone)
	h.eventually("failure notice", func() bool { return h.app.view.Status().HasNotice() })
	h.onLoop(func() {
		msg, _ := h.app.view.Status().Message()
		if !strings.Contains(msg, "rule 1 failed: API key rejected") {
			t.Errorf("notice = %q", msg)
		}
		items := h.app.Surface().Suggestions()
		if len(items) != 1 || items[0].ID != 4 {
			t.Errorf("existing suggestions replaced: %+v", items)
		}
	})

	h.key(backend.KeyEscape, backend.ModNone)
	h.eventually("dismissed notice", func() bool { return !h.app.view.Status().HasNotice() })
	h.quit()
}

func TestNextCycleContinuesIDs(t *testing.T) {
	cfg := testConfig(t)
	oneRuleGuide(t, cfg)
	st := openStore(t)
	existing := store.DefaultState()
	existing.Text = "Hello. World."
	existing.Suggestions = []store.Suggestion{{ID: 4, Start: 7, End: 13, Title: "Old", Color: cfg.Editor.SuggestionColor}}
	if err := st.Save(existing); err != nil {
		t.Fatal(err)
	}

	mock := llm.NewMock("Sentence range: 1-1\nTitle: New\nContent: c")
	h := start(t, Options{Config: cfg, Store: st, Client: mock})

	h.key(backend.KeyCtrlL, backend.ModNone)
	h.eventually("replaced suggestions", func() bool {
		items := h.app.Surface().Suggestions()
		return len(items) == 1 && items[0].Title == "New"
	})
	h.quit()

	state, _, err := st.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(state.Suggestions) != 1 || state.Suggestions[0].ID != 5 {
		t.Errorf("stored suggestions = %+v", state.Suggestions)
	}
}

func TestCycleGuidePersistsIndex(t *testing.T) {
	st := openStore(t)
	h := start(t, Options{Config: testConfig(t), Store: st})

	h.key(backend.KeyCtrlG, backend.ModNone)
	h.eventually("guide switch", func() bool {
		g, ok := h.app.Guide()
		return ok && g.Name == "Economist"
	})
	h.quit()

	idx, err := st.Get("styleguideIndex")
	if err != nil {
		t.Fatal(err)
	}
	if idx.Int() != 1 {
		t.Errorf("stored index = %d", idx.Int())
	}
}

func TestAPIKeyPrompt(t *testing.T) {
	st := openStore(t)
	cfg := testConfig(t)
	cfg.Editor.Debounce = config.Duration(time.Hour) // no request with the fake key
	h := start(t, Options{Config: cfg, Store: st})

	h.key(backend.KeyCtrlK, backend.ModNone)
	h.typeText("sk-1")
	h.key(backend.KeyEnter, backend.ModNone)
	h.eventually("credential", h.app.HasCredential)
	h.onLoop(func() {
		if txt := h.app.Surface().Text(); strings.Contains(txt, "sk-1") {
			t.Errorf("key typed into the text: %q", txt)
		}
	})
	h.quit()

	if key, ok := st.APIKey(); !ok || key != "sk-1" {
		t.Errorf("stored key = %q, %v", key, ok)
	}
}

func TestMouseClickMovesCaret(t *testing.T) {
	h := start(t, Options{Config: testConfig(t), Text: "Hello. World."})

	h.be.Inject(backend.Event{Type: backend.EventMouse, MouseX: 3, MouseY: 0, MouseButton: backend.MouseLeft})
	h.be.Inject(backend.Event{Type: backend.EventMouse, MouseX: 5, MouseY: 0, MouseButton: backend.MouseLeft})
	h.be.Inject(backend.Event{Type: backend.EventMouse, MouseX: 5, MouseY: 0, MouseButton: backend.MouseNone})
	h.eventually("drag selection", func() bool {
		a, f := h.app.Surface().Selection()
		return a == 3 && f == 5
	})
	h.quit()
}

func TestSaveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.txt")
	h := start(t, Options{Config: testConfig(t), Text: "abc", File: path})

	h.key(backend.KeyEnd, backend.ModCtrl)
	h.typeText("d")
	h.key(backend.KeyCtrlS, backend.ModNone)
	h.eventually("saved file", func() bool {
		data, err := os.ReadFile(path)
		return err == nil && string(data) == "abcd"
	})
	h.quit()
}

func TestGeneratorCoalescesTouches(t *testing.T) {
	var fired atomic.Int32
	g := newGenerator(30*time.Millisecond, func() { fired.Add(1) })

	for range 5 {
		g.Touch()
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(120 * time.Millisecond)
	if n := fired.Load(); n != 1 {
		t.Errorf("fired %d times, want 1", n)
	}

	g.Touch()
	if !g.Cancel() {
		t.Error("Cancel reported nothing pending")
	}
	g.Stop()
	g.Touch()
	time.Sleep(60 * time.Millisecond)
	if n := fired.Load(); n != 1 {
		t.Errorf("fired after Stop: %d", n)
	}
}

func TestDescribeFailure(t *testing.T) {
	tests := []struct {
		name string
		errs []*suggest.RuleError
		want string
	}{
		{
			name: "unauthorized",
			errs: []*suggest.RuleError{{Rule: 0, Err: llm.ErrUnauthorized}},
			want: "rule 1 failed: API key rejected",
		},
		{
			name: "several",
			errs: []*suggest.RuleError{
				{Rule: 2, Err: llm.ErrRateLimited},
				{Rule: 3, Err: errors.New("boom")},
			},
			want: "rule 3 failed: rate limited (+1 more)",
		},
		{
			name: "timeout",
			errs: []*suggest.RuleError{{Rule: 1, Err: context.DeadlineExceeded}},
			want: "rule 2 failed: timed out",
		},
		{
			name: "other",
			errs: []*suggest.RuleError{{Rule: 0, Err: errors.New("connection reset")}},
			want: "rule 1 failed: connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describeFailure(tt.errs); got != tt.want {
				t.Errorf("describeFailure = %q, want %q", got, tt.want)
			}
		})
	}
}
