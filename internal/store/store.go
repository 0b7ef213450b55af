// Package store persists application state as one JSON blob.
//
// The blob lives in a diskv directory under a single key, the application
// name. Whole-state reads and writes go through Load and Save; single fields
// are read and updated in place with gjson and sjson paths such as "text" or
// "styleguideIndex".
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/peterbourgon/diskv/v3"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/proofmark/internal/config"
	"github.com/dshills/proofmark/internal/engine/ranges"
	"github.com/dshills/proofmark/internal/renderer/core"
)

// DefaultKey is the key the state blob is stored under.
const DefaultKey = "AppState"

// ErrInvalidBlob is returned when the stored blob is not valid JSON.
var ErrInvalidBlob = errors.New("store: invalid state blob")

// State is everything persisted between sessions.
type State struct {
	Text            string              `json:"text"`
	StyleGuideIndex int                 `json:"styleguideIndex"`
	StyleGuides     []config.StyleGuide `json:"styleguides"`
	APIKey          string              `json:"apiKey,omitempty"`
	APIKeySet       bool                `json:"apiKeySet"`
	Suggestions     []Suggestion        `json:"suggestions"`
}

// Suggestion is the stored form of a suggestion. Activation is not kept.
type Suggestion struct {
	ID      int        `json:"id"`
	Start   int        `json:"start"`
	End     int        `json:"end"`
	Title   string     `json:"title"`
	Content string     `json:"content"`
	Color   core.Color `json:"color"`
}

// FromSuggestions converts live suggestions to their stored form.
func FromSuggestions(items []ranges.Suggestion) []Suggestion {
	out := make([]Suggestion, len(items))
	for i, s := range items {
		out[i] = Suggestion{
			ID:      s.ID,
			Start:   s.Start,
			End:     s.End,
			Title:   s.Title,
			Content: s.Content,
			Color:   s.Color,
		}
	}
	return out
}

// ToSuggestions converts stored suggestions back to live ones.
func ToSuggestions(items []Suggestion) []ranges.Suggestion {
	out := make([]ranges.Suggestion, len(items))
	for i, s := range items {
		out[i] = ranges.Suggestion{
			Range:   ranges.Range{ID: s.ID, Start: s.Start, End: s.End, Color: s.Color},
			Title:   s.Title,
			Content: s.Content,
		}
	}
	return out
}

// DefaultState returns the state of a first run.
func DefaultState() State {
	return State{StyleGuides: config.DefaultStyleGuides()}
}

// Store reads and writes the state blob.
type Store struct {
	d        *diskv.Diskv
	basePath string
	key      string
}

// Open opens the store rooted at path, creating the directory if needed.
// An empty key uses DefaultKey.
func Open(path, key string) (*Store, error) {
	base, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("store: expand %s: %w", path, err)
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	if key == "" {
		key = DefaultKey
	}
	return &Store{
		d: diskv.New(diskv.Options{
			BasePath:     base,
			Transform:    func(string) []string { return []string{} },
			// Uncached: the editor and CLI commands write the same blob.
			CacheSizeMax: 0,
			FilePerm:     0o600,
		}),
		basePath: base,
		key:      key,
	}, nil
}

// Path returns the store's directory.
func (s *Store) Path() string {
	return s.basePath
}

// Key returns the key the blob is stored under.
func (s *Store) Key() string {
	return s.key
}

// blob returns the raw state, or nil when nothing is stored yet.
func (s *Store) blob() ([]byte, error) {
	if !s.d.Has(s.key) {
		return nil, nil
	}
	data, err := s.d.Read(s.key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: read %s: %w", s.key, err)
	}
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidBlob
	}
	return data, nil
}

// Load returns the stored state. found is false on a first run, in which
// case the default state is returned.
func (s *Store) Load() (st State, found bool, err error) {
	data, err := s.blob()
	if err != nil || data == nil {
		return DefaultState(), false, err
	}
	st = DefaultState()
	if err := json.Unmarshal(data, &st); err != nil {
		return DefaultState(), false, fmt.Errorf("%w: %v", ErrInvalidBlob, err)
	}
	if len(st.StyleGuides) == 0 {
		st.StyleGuides = config.DefaultStyleGuides()
	}
	return st, true, nil
}

// Save replaces the stored state.
func (s *Store) Save(st State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("store: encode: %w", err)
	}
	return s.write(data)
}

// Get reads a single field by gjson path. The result does not exist when
// nothing is stored.
func (s *Store) Get(path string) (gjson.Result, error) {
	data, err := s.blob()
	if err != nil || data == nil {
		return gjson.Result{}, err
	}
	return gjson.GetBytes(data, path), nil
}

// Set updates a single field by sjson path, leaving the rest of the blob
// untouched.
func (s *Store) Set(path string, value any) error {
	data, err := s.blob()
	if err != nil {
		return err
	}
	if data == nil {
		data = []byte("{}")
	}
	data, err = sjson.SetBytes(data, path, value)
	if err != nil {
		return fmt.Errorf("store: set %s: %w", path, err)
	}
	return s.write(data)
}

// Delete removes a single field by sjson path.
func (s *Store) Delete(path string) error {
	data, err := s.blob()
	if err != nil || data == nil {
		return err
	}
	data, err = sjson.DeleteBytes(data, path)
	if err != nil {
		return fmt.Errorf("store: delete %s: %w", path, err)
	}
	return s.write(data)
}

// Reset erases the stored state.
func (s *Store) Reset() error {
	if !s.d.Has(s.key) {
		return nil
	}
	return s.d.Erase(s.key)
}

func (s *Store) write(data []byte) error {
	if err := s.d.Write(s.key, data); err != nil {
		return fmt.Errorf("store: write %s: %w", s.key, err)
	}
	return nil
}

// SetText stores the document text.
func (s *Store) SetText(text string) error {
	return s.Set("text", text)
}

// SetStyleGuideIndex stores the selected style guide.
func (s *Store) SetStyleGuideIndex(i int) error {
	return s.Set("styleguideIndex", i)
}

// SetSuggestions stores the current suggestions.
func (s *Store) SetSuggestions(items []ranges.Suggestion) error {
	return s.Set("suggestions", FromSuggestions(items))
}

// SetAPIKey stores a credential and marks it set. An empty key clears it.
func (s *Store) SetAPIKey(key string) error {
	if key == "" {
		if err := s.Delete("apiKey"); err != nil {
			return err
		}
		return s.Set("apiKeySet", false)
	}
	if err := s.Set("apiKey", key); err != nil {
		return err
	}
	return s.Set("apiKeySet", true)
}

// APIKey returns the stored credential when one is set.
func (s *Store) APIKey() (string, bool) {
	set, err := s.Get("apiKeySet")
	if err != nil || !set.Bool() {
		return "", false
	}
	key, err := s.Get("apiKey")
	if err != nil || key.String() == "" {
		return "", false
	}
	return key.String(), true
}
