package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/proofmark/internal/commands/options"
	"github.com/dshills/proofmark/internal/config"
	"github.com/dshills/proofmark/internal/llm"
	"github.com/dshills/proofmark/internal/store"
)

const twoGuides = `- name: House
  rules:
    - Prefer short sentences.
    - Avoid jargon.
- name: Terse
  rules:
    - Cut filler words.
`

// run executes the root command in an isolated environment.
func run(t *testing.T, dir, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))

	base := []string{
		"--no-env",
		"--log-file", "off",
		"--store", filepath.Join(dir, "store"),
		"--styleguides", filepath.Join(dir, "guides.yaml"),
	}
	cmd := New()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(base, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeGuides(t *testing.T, dir string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "guides.yaml"), []byte(twoGuides), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRules(t *testing.T) {
	dir := t.TempDir()
	writeGuides(t, dir)

	out, err := run(t, dir, "", "rules")
	if err != nil {
		t.Fatalf("rules: %v", err)
	}
	for _, want := range []string{"House", "Terse", "Avoid jargon.", "*"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out, err = run(t, dir, "", "rules", "--names")
	if err != nil {
		t.Fatalf("rules --names: %v", err)
	}
	if strings.Contains(out, "Avoid jargon.") {
		t.Errorf("--names listed rules:\n%s", out)
	}
}

func TestRules_JSON(t *testing.T) {
	dir := t.TempDir()
	writeGuides(t, dir)

	out, err := run(t, dir, "", "rules", "--json")
	if err != nil {
		t.Fatalf("rules --json: %v", err)
	}
	var got struct {
		Selected int                 `json:"selected"`
		Guides   []config.StyleGuide `json:"guides"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if got.Selected != 0 || len(got.Guides) != 2 || got.Guides[1].Name != "Terse" {
		t.Errorf("got %+v", got)
	}
}

func TestRules_YAMLDefaults(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "", "rules", "--yaml")
	if err != nil {
		t.Fatalf("rules --yaml: %v", err)
	}
	guides, err := config.ParseStyleGuides("out", []byte(out))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(guides) != len(config.DefaultStyleGuides()) {
		t.Errorf("got %d guides, want the %d built-in ones", len(guides), len(config.DefaultStyleGuides()))
	}
}

func TestKey(t *testing.T) {
	dir := t.TempDir()

	if out, err := run(t, dir, "", "key"); err != nil || !strings.Contains(out, "no API key stored") {
		t.Fatalf("empty store: %q, %v", out, err)
	}
	if _, err := run(t, dir, "", "key", "sk-abcdefgh1234"); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := run(t, dir, "", "key")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if strings.TrimSpace(out) != "sk-a*******1234" {
		t.Errorf("show = %q", out)
	}

	st, err := store.Open(filepath.Join(dir, "store"), "")
	if err != nil {
		t.Fatal(err)
	}
	if key, ok := st.APIKey(); !ok || key != "sk-abcdefgh1234" {
		t.Errorf("stored key = %q, %v", key, ok)
	}

	if _, err := run(t, dir, "", "key", "--clear"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok := st.APIKey(); ok {
		t.Error("key still stored after --clear")
	}
}

func TestKey_Stdin(t *testing.T) {
	dir := t.TempDir()

	if _, err := run(t, dir, "  sk-from-stdin\n", "key", "-"); err != nil {
		t.Fatalf("save: %v", err)
	}
	st, err := store.Open(filepath.Join(dir, "store"), "")
	if err != nil {
		t.Fatal(err)
	}
	if key, _ := st.APIKey(); key != "sk-from-stdin" {
		t.Errorf("stored key = %q", key)
	}

	if _, err := run(t, dir, "\n", "key", "-"); err == nil {
		t.Error("blank key should fail")
	}
}

func TestCheck_MockProvider(t *testing.T) {
	dir := t.TempDir()
	writeGuides(t, dir)

	out, err := run(t, dir, "Hello. World.", "--provider", "mock", "check", "--json", "-")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	var got struct {
		Source      string `json:"source"`
		Guide       string `json:"guide"`
		Suggestions []any  `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if got.Source != "<stdin>" || got.Guide != "House" || len(got.Suggestions) != 0 {
		t.Errorf("got %+v", got)
	}
}

func TestCheck_NoCredential(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "draft.txt")
	if err := os.WriteFile(file, []byte("Hello."), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := run(t, dir, "", "--provider", "openai", "check", file)
	if !errors.Is(err, llm.ErrNoAPIKey) {
		t.Errorf("err = %v, want ErrNoAPIKey", err)
	}
}

func TestChecker_Check(t *testing.T) {
	cfg := config.Default()
	cfg.StyleGuides.File = ""
	mock := llm.NewMock("Sentence range: 1-1\nTitle: Wordy\nContent: Cut it.", "N/A")

	c := &checker{
		cfg:    cfg,
		guide:  &options.GuideOptions{Rules: []string{"one", "two"}},
		client: mock,
	}
	rep, err := c.Check(context.Background(), "draft", "Hello. World.\nAgain.")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if rep.Guide != options.AdHocGuide || len(rep.Errors) != 0 {
		t.Errorf("guide = %q, errors = %v", rep.Guide, rep.Errors)
	}
	if len(rep.Suggestions) != 1 {
		t.Fatalf("got %d suggestions, want 1", len(rep.Suggestions))
	}
	s := rep.Suggestions[0]
	if s.ID != 0 || s.Start != 7 || s.Title != "Wordy" || s.Color != cfg.Editor.SuggestionColor {
		t.Errorf("suggestion = %+v", s)
	}
	if e := rep.Entries()[0]; e.Line != 1 || e.Column != 8 {
		t.Errorf("entry at %d:%d, want 1:8", e.Line, e.Column)
	}
	if len(mock.Prompts()) != 2 {
		t.Errorf("sent %d prompts, want one per rule", len(mock.Prompts()))
	}
}

func TestChecker_RuleFailures(t *testing.T) {
	cfg := config.Default()
	cfg.StyleGuides.File = ""
	mock := &llm.Mock{Respond: func(ctx context.Context, prompt string) (string, error) {
		return "", &llm.ProviderError{Provider: "mock", Op: "send", Status: 401, Err: llm.ErrUnauthorized}
	}}

	c := &checker{cfg: cfg, guide: &options.GuideOptions{Rules: []string{"a", "b"}}, client: mock}
	rep, err := c.Check(context.Background(), "draft", "Hello.")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(rep.Errors) != 2 || c.rules != 2 {
		t.Fatalf("errors = %d, rules = %d", len(rep.Errors), c.rules)
	}
	if !errors.Is(rep.Errors[0], llm.ErrUnauthorized) {
		t.Errorf("error = %v", rep.Errors[0])
	}
}

func TestChecker_NoRules(t *testing.T) {
	c := &checker{cfg: config.Default(), guide: &options.GuideOptions{Guide: "missing"}, client: llm.NewMock()}
	c.cfg.StyleGuides.File = ""
	if _, err := c.Check(context.Background(), "draft", "Hello."); !errors.Is(err, ErrNoRules) {
		t.Errorf("err = %v, want ErrNoRules", err)
	}
}

func TestMask(t *testing.T) {
	tests := []struct {
		key, want string
	}{
		{"", ""},
		{"short", "*****"},
		{"12345678", "********"},
		{"sk-abcdefgh1234", "sk-a*******1234"},
	}
	for _, tt := range tests {
		if got := mask(tt.key); got != tt.want {
			t.Errorf("mask(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, t.TempDir(), "", "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "dev") {
		t.Errorf("version output = %q", out)
	}
}

func TestConfig_MasksKey(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(cfgFile, []byte("[ai]\napi_key = \"sk-secret\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, dir, "", "--config", cfgFile, "config")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if strings.Contains(out, "sk-secret") || !strings.Contains(out, "********") {
		t.Errorf("key not masked:\n%s", out)
	}
}
