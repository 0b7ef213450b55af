// Package options defines shared flag helpers for CLI commands.
package options

import (
	"github.com/spf13/cobra"

	"github.com/dshills/proofmark/internal/app"
	"github.com/dshills/proofmark/internal/config"
	"github.com/dshills/proofmark/internal/store"
)

// GlobalOptions holds the persistent flags of the root command.
type GlobalOptions struct {
	ConfigFile  string
	Provider    string
	Model       string
	LogLevel    string
	LogFile     string
	StorePath   string
	StyleGuides string
	NoEnv       bool
}

// AddGlobalArgs registers the persistent flags on the root command.
func AddGlobalArgs(cmd *cobra.Command, o *GlobalOptions) {
	f := cmd.PersistentFlags()
	f.StringVar(&o.ConfigFile, "config", "",
		"Config file (default $XDG_CONFIG_HOME/proofmark/config.toml).")
	f.StringVar(&o.Provider, "provider", "",
		"Language model provider: anthropic, openai, gemini or mock.")
	f.StringVar(&o.Model, "model", "",
		"Model name; the provider's default when empty.")
	f.StringVar(&o.LogLevel, "log-level", "",
		"Log level: debug, info, warn or error.")
	f.StringVar(&o.LogFile, "log-file", "",
		`Log file; "-" logs to stderr and "off" discards.`)
	f.StringVar(&o.StorePath, "store", "",
		"Directory holding the persisted editor state.")
	f.StringVar(&o.StyleGuides, "styleguides", "",
		"YAML file with the style guides.")
	f.BoolVar(&o.NoEnv, "no-env", false,
		"Ignore PROOFMARK_* and provider key environment variables.")
}

// Overrides returns the flag layer of the configuration. Only flags set on
// the command line are included.
func (o *GlobalOptions) Overrides(cmd *cobra.Command) map[string]any {
	out := map[string]any{}
	set := func(flag, section, key, value string) {
		if !cmd.Flags().Changed(flag) {
			return
		}
		m, ok := out[section].(map[string]any)
		if !ok {
			m = map[string]any{}
			out[section] = m
		}
		m[key] = value
	}
	set("provider", "ai", "provider", o.Provider)
	set("model", "ai", "model", o.Model)
	set("log-level", "logging", "level", o.LogLevel)
	set("log-file", "logging", "file", o.LogFile)
	set("store", "store", "path", o.StorePath)
	set("styleguides", "styleguides", "file", o.StyleGuides)
	return out
}

// Config loads the configuration with the flag layer on top.
func (o *GlobalOptions) Config(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(config.Options{
		UserFile:  o.ConfigFile,
		Overrides: o.Overrides(cmd),
		NoEnv:     o.NoEnv,
	})
}

// Store opens the persisted state the configuration points at.
func Store(cfg *config.Config) (*store.Store, error) {
	s, err := store.Open(cfg.Store.Path, cfg.Store.AppName)
	if err != nil {
		return nil, app.NewOperationError("open store", cfg.Store.Path, err)
	}
	return s, nil
}

// Credential returns the configured API key, falling back to the one saved
// in the store.
func Credential(cfg *config.Config, s *store.Store) string {
	if cfg.AI.APIKey != "" || s == nil {
		return cfg.AI.APIKey
	}
	key, _ := s.APIKey()
	return key
}
