package loader

import (
	"errors"
	"testing"
	"testing/fstest"
)

func getByPath(m map[string]any, path ...string) (any, bool) {
	var cur any = m
	for _, p := range path {
		mm, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = mm[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func TestEnvLoader_Load(t *testing.T) {
	t.Setenv("PROOFMARK_LOG_LEVEL", "debug")
	t.Setenv("PROOFMARK_DEBOUNCE", "500ms")
	t.Setenv("PROOFMARK_EDITOR_SIDEBAR_WIDTH", "40")
	t.Setenv("PROOFMARK_AI_TEMPERATURE", "0.5")
	t.Setenv("PROOFMARK_NOSECTION", "x")

	config, err := NewEnvLoader("PROOFMARK_").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tests := []struct {
		path []string
		want any
	}{
		{[]string{"logging", "level"}, "debug"},
		{[]string{"editor", "debounce"}, "500ms"},
		{[]string{"editor", "sidebar_width"}, int64(40)},
		{[]string{"ai", "temperature"}, 0.5},
	}
	for _, tt := range tests {
		if val, ok := getByPath(config, tt.path...); !ok || val != tt.want {
			t.Errorf("%v = %v (%T), want %v", tt.path, val, val, tt.want)
		}
	}
	if _, ok := config["nosection"]; ok {
		t.Error("variable without a setting part should be ignored")
	}
}

func TestEnvLoader_envToPath(t *testing.T) {
	l := NewEnvLoader("PROOFMARK_")
	tests := []struct {
		env  string
		want string
	}{
		{"PROOFMARK_EDITOR_SIDEBAR_WIDTH", "editor.sidebar_width"},
		{"PROOFMARK_AI_MODEL", "ai.model"},
		{"PROOFMARK_SIMPLE", ""},
	}
	for _, tt := range tests {
		if got := l.envToPath(tt.env); got != tt.want {
			t.Errorf("envToPath(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"true", true},
		{"off", false},
		{"1", int64(1)},
		{"0", int64(0)},
		{"1.5", 1.5},
		{"2s", "2s"},
		{"", ""},
		{"#EA1437", "#EA1437"},
	}
	for _, tt := range tests {
		if got := parseValue(tt.in); got != tt.want {
			t.Errorf("parseValue(%q) = %v (%T), want %v", tt.in, got, got, tt.want)
		}
	}
}

func TestTOMLLoader(t *testing.T) {
	fsys := fstest.MapFS{
		"config.toml": {Data: []byte("[editor]\ndebounce = \"1s\"\nannotation_spacing = 2\n")},
		"bad.toml":    {Data: []byte("[editor\n")},
	}

	config, err := NewTOMLLoaderWithFS(fsys, "config.toml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if v, _ := getByPath(config, "editor", "annotation_spacing"); v != int64(2) {
		t.Errorf("annotation_spacing = %v (%T)", v, v)
	}

	missing, err := NewTOMLLoaderWithFS(fsys, "nope.toml").Load()
	if err != nil || missing != nil {
		t.Errorf("missing file = %v, %v; want nil, nil", missing, err)
	}

	_, err = NewTOMLLoaderWithFS(fsys, "bad.toml").Load()
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if perr.Path != "bad.toml" || perr.Line == 0 {
		t.Errorf("ParseError = %+v", perr)
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"editor": map[string]any{"debounce": "2s", "annotation_spacing": int64(1)},
		"ai":     map[string]any{"provider": "anthropic"},
	}
	src := map[string]any{
		"editor": map[string]any{"debounce": "1s"},
		"store":  map[string]any{"path": "/tmp/x"},
	}
	out := DeepMerge(Clone(dst), src)

	if v, _ := getByPath(out, "editor", "debounce"); v != "1s" {
		t.Errorf("debounce = %v", v)
	}
	if v, _ := getByPath(out, "editor", "annotation_spacing"); v != int64(1) {
		t.Errorf("annotation_spacing = %v", v)
	}
	if v, _ := getByPath(out, "store", "path"); v != "/tmp/x" {
		t.Errorf("store.path = %v", v)
	}
	if v, _ := getByPath(dst, "editor", "debounce"); v != "2s" {
		t.Error("Clone should protect the original map")
	}
}

func TestDecode(t *testing.T) {
	type section struct {
		Name  string `toml:"name"`
		Count int    `toml:"count"`
	}
	var v struct {
		S section `toml:"s"`
	}
	if err := Decode(map[string]any{"s": map[string]any{"name": "x", "count": int64(3)}}, &v); err != nil {
		t.Fatal(err)
	}
	if v.S.Name != "x" || v.S.Count != 3 {
		t.Errorf("decoded %+v", v)
	}

	err := Decode(map[string]any{"s": map[string]any{"bogus": true}}, &v)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Errorf("unknown field error = %v, want *ParseError", err)
	}
}
