package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed styleguides.yaml
var builtinStyleGuides []byte

// StyleGuide is a named list of rules.
type StyleGuide struct {
	Name  string   `yaml:"name" json:"name"`
	Rules []string `yaml:"rules" json:"rules"`
}

// DefaultStyleGuides returns the built-in style guides.
func DefaultStyleGuides() []StyleGuide {
	guides, err := ParseStyleGuides("<builtin>", builtinStyleGuides)
	if err != nil {
		panic(err)
	}
	return guides
}

// ParseStyleGuides decodes a YAML list of style guides. Rules are trimmed and
// blank rules dropped; every guide needs a name.
func ParseStyleGuides(source string, data []byte) ([]StyleGuide, error) {
	var guides []StyleGuide
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&guides); err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}

	for i := range guides {
		g := &guides[i]
		g.Name = strings.TrimSpace(g.Name)
		if g.Name == "" {
			return nil, &ValidationError{
				Path:    fmt.Sprintf("styleguides[%d].name", i),
				Message: "name is required",
				Value:   g.Name,
			}
		}
		rules := g.Rules[:0]
		for _, r := range g.Rules {
			if r = strings.TrimSpace(r); r != "" {
				rules = append(rules, r)
			}
		}
		g.Rules = rules
	}
	return guides, nil
}

// LoadStyleGuides reads style guides from path. An empty path or a missing
// file yields the built-in guides.
func LoadStyleGuides(path string) ([]StyleGuide, error) {
	if path == "" {
		return DefaultStyleGuides(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultStyleGuides(), nil
		}
		return nil, fmt.Errorf("reading style guides %s: %w", path, err)
	}
	return ParseStyleGuides(path, data)
}

// MarshalStyleGuides encodes guides in the format LoadStyleGuides reads.
func MarshalStyleGuides(guides []StyleGuide) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(guides); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SelectGuide returns the guide at index, clamped into range, and the index
// actually used. It returns false when there are no guides.
func SelectGuide(guides []StyleGuide, index int) (StyleGuide, int, bool) {
	if len(guides) == 0 {
		return StyleGuide{}, 0, false
	}
	index = min(max(index, 0), len(guides)-1)
	return guides[index], index, true
}
