package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/proofmark/internal/config/loader"
	"github.com/dshills/proofmark/internal/renderer/core"
)

// AppName names the config, data and state directories.
const AppName = "proofmark"

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "PROOFMARK_"

// DefaultSuggestionColor is the highlight color of new suggestions.
var DefaultSuggestionColor = core.MustHex("#EA1437")

// Config holds every setting.
type Config struct {
	Logging     LoggingConfig    `toml:"logging"`
	Editor      EditorConfig     `toml:"editor"`
	AI          AIConfig         `toml:"ai"`
	Store       StoreConfig      `toml:"store"`
	StyleGuides StyleGuideConfig `toml:"styleguides"`
}

// LoggingConfig configures the application log.
type LoggingConfig struct {
	Level string `toml:"level"`
	// File receives log output. "-" logs to stderr and "off" discards.
	File string `toml:"file"`
}

// EditorConfig configures the editing surface and annotation column.
type EditorConfig struct {
	Debounce          Duration   `toml:"debounce"`
	AnnotationSpacing int        `toml:"annotation_spacing"`
	SuggestionColor   core.Color `toml:"suggestion_color"`
	SidebarWidth      int        `toml:"sidebar_width"`
	TabWidth          int        `toml:"tab_width"`
}

// AIConfig configures the language-model provider.
type AIConfig struct {
	Provider    string   `toml:"provider"`
	Model       string   `toml:"model"`
	APIKey      string   `toml:"api_key"`
	MaxTokens   int      `toml:"max_tokens"`
	Temperature float64  `toml:"temperature"`
	Concurrency int      `toml:"concurrency"`
	Timeout     Duration `toml:"timeout"`
}

// StoreConfig locates persisted state.
type StoreConfig struct {
	Path    string `toml:"path"`
	AppName string `toml:"app_name"`
}

// StyleGuideConfig locates the style guides.
type StyleGuideConfig struct {
	File     string `toml:"file"`
	Selected int    `toml:"selected"`
}

// Duration is a time.Duration written as a string such as "2s".
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Options locates the configuration layers.
type Options struct {
	// UserFile defaults to $XDG_CONFIG_HOME/proofmark/config.toml.
	UserFile string
	// ProjectFile defaults to ./.proofmark.toml.
	ProjectFile string
	// Overrides is the flag layer, keyed like the TOML files.
	Overrides map[string]any
	// FS reads the files; the OS file system when nil.
	FS loader.FileSystem
	// NoEnv skips the environment layer.
	NoEnv bool
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	if err := loader.Decode(defaultConfig(), cfg); err != nil {
		panic(err)
	}
	cfg.expandPaths()
	return cfg
}

// defaultConfig returns the default configuration values.
func defaultConfig() map[string]any {
	return map[string]any{
		"logging": map[string]any{
			"level": "info",
			"file":  filepath.Join(defaultStateDir(), "proofmark.log"),
		},
		"editor": map[string]any{
			"debounce":           "2s",
			"annotation_spacing": 1,
			"suggestion_color":   DefaultSuggestionColor.Hex(),
			"sidebar_width":      36,
			"tab_width":          4,
		},
		"ai": map[string]any{
			"provider":    "anthropic",
			"model":       "",
			"api_key":     "",
			"max_tokens":  8192,
			"temperature": 0.0,
			"concurrency": 0,
			"timeout":     "2m",
		},
		"store": map[string]any{
			"path":     defaultDataDir(),
			"app_name": "AppState",
		},
		"styleguides": map[string]any{
			"file":     filepath.Join(defaultUserConfigDir(), "styleguides.yaml"),
			"selected": 0,
		},
	}
}

// Load merges every layer and validates the result.
func Load(opts Options) (*Config, error) {
	fsys := opts.FS
	if fsys == nil {
		fsys = loader.DefaultFS()
	}
	userFile := opts.UserFile
	if userFile == "" {
		userFile = filepath.Join(defaultUserConfigDir(), "config.toml")
	}
	projectFile := opts.ProjectFile
	if projectFile == "" {
		projectFile = ".proofmark.toml"
	}

	layers := []loader.Loader{
		loader.NewTOMLLoaderWithFS(fsys, userFile),
		loader.NewTOMLLoaderWithFS(fsys, projectFile),
	}
	if !opts.NoEnv {
		layers = append(layers, loader.NewEnvLoader(EnvPrefix))
	}

	merged := defaultConfig()
	for _, l := range layers {
		m, err := l.Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, m)
	}
	merged = loader.DeepMerge(merged, opts.Overrides)

	cfg := &Config{}
	if err := loader.Decode(merged, cfg); err != nil {
		return nil, err
	}
	cfg.expandPaths()
	if !opts.NoEnv {
		cfg.applyCredentialFallback()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// credentialEnv lists the provider-specific key variables.
var credentialEnv = map[string][]string{
	"anthropic": {"ANTHROPIC_API_KEY"},
	"openai":    {"OPENAI_API_KEY"},
	"gemini":    {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
}

func (c *Config) applyCredentialFallback() {
	if c.AI.APIKey != "" {
		return
	}
	if v, ok := loader.LookupFirst(credentialEnv[c.AI.Provider]...); ok {
		c.AI.APIKey = v
	}
}

func (c *Config) expandPaths() {
	for _, p := range []*string{&c.Logging.File, &c.Store.Path, &c.StyleGuides.File} {
		if expanded, err := homedir.Expand(*p); err == nil {
			*p = expanded
		}
	}
}

// HasCredential reports whether suggestion requests can be sent.
func (c *Config) HasCredential() bool {
	return c.AI.APIKey != "" || c.AI.Provider == "mock"
}

var (
	validLevels    = []string{"debug", "info", "warn", "error"}
	validProviders = []string{"anthropic", "openai", "gemini", "mock"}
)

// Validate checks every setting and returns the first problem found.
func (c *Config) Validate() error {
	checks := []struct {
		ok    bool
		path  string
		msg   string
		value any
	}{
		{contains(validLevels, c.Logging.Level), "logging.level", "must be one of " + strings.Join(validLevels, ", "), c.Logging.Level},
		{c.Editor.Debounce > 0, "editor.debounce", "must be positive", c.Editor.Debounce.Std()},
		{c.Editor.AnnotationSpacing >= 0, "editor.annotation_spacing", "must not be negative", c.Editor.AnnotationSpacing},
		{!c.Editor.SuggestionColor.IsDefault(), "editor.suggestion_color", "must be a hex color", c.Editor.SuggestionColor},
		{c.Editor.SidebarWidth >= 12, "editor.sidebar_width", "must be at least 12", c.Editor.SidebarWidth},
		{c.Editor.TabWidth >= 1 && c.Editor.TabWidth <= 16, "editor.tab_width", "must be between 1 and 16", c.Editor.TabWidth},
		{contains(validProviders, c.AI.Provider), "ai.provider", "must be one of " + strings.Join(validProviders, ", "), c.AI.Provider},
		{c.AI.MaxTokens > 0, "ai.max_tokens", "must be positive", c.AI.MaxTokens},
		{c.AI.Temperature >= 0 && c.AI.Temperature <= 2, "ai.temperature", "must be between 0 and 2", c.AI.Temperature},
		{c.AI.Concurrency >= 0, "ai.concurrency", "must not be negative", c.AI.Concurrency},
		{c.AI.Timeout >= 0, "ai.timeout", "must not be negative", c.AI.Timeout.Std()},
		{c.Store.AppName != "", "store.app_name", "is required", c.Store.AppName},
		{c.StyleGuides.Selected >= 0, "styleguides.selected", "must not be negative", c.StyleGuides.Selected},
	}
	for _, ch := range checks {
		if !ch.ok {
			return &ValidationError{Path: ch.path, Message: ch.msg, Value: ch.value}
		}
	}
	return nil
}

// String renders the configuration as TOML with the API key masked.
func (c *Config) String() string {
	masked := *c
	if masked.AI.APIKey != "" {
		masked.AI.APIKey = "********"
	}
	data, err := toml.Marshal(masked)
	if err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return string(data)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func defaultUserConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	return filepath.Join(home(), ".config", AppName)
}

func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	return filepath.Join(home(), ".local", "share", AppName)
}

func defaultStateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	return filepath.Join(home(), ".local", "state", AppName)
}

func home() string {
	dir, err := homedir.Dir()
	if err != nil {
		return "."
	}
	return dir
}
