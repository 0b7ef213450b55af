// Package config loads proofmark's settings and style guides.
//
// Settings are layered, higher layers overriding lower ones:
//
//	┌──────────────────────────────┐
//	│  5. Command line flags       │  ← Highest priority
//	├──────────────────────────────┤
//	│  4. Environment variables    │  ← PROOFMARK_*
//	├──────────────────────────────┤
//	│  3. Project file             │  ← ./.proofmark.toml
//	├──────────────────────────────┤
//	│  2. User file                │  ← ~/.config/proofmark/config.toml
//	├──────────────────────────────┤
//	│  1. Built-in defaults        │  ← Lowest priority
//	└──────────────────────────────┘
//
// When no API key is set, ANTHROPIC_API_KEY, OPENAI_API_KEY or
// GEMINI_API_KEY is used depending on the provider.
//
// Style guides live in a separate YAML file so they can be edited while the
// editor runs; WatchStyleGuides reloads them on change.
//
// # Sub-packages
//
//   - loader: TOML and environment layers, merging and decoding
//   - watcher: file watching for live reload
package config
