package config

import (
	"errors"
	"fmt"

	"github.com/dshills/proofmark/internal/config/loader"
)

// Errors returned by configuration operations.
var (
	// ErrValidationFailed matches every *ValidationError.
	ErrValidationFailed = errors.New("validation failed")

	// ErrNoStyleGuides indicates a style-guide file without any guide.
	ErrNoStyleGuides = errors.New("no style guides defined")
)

// ParseError represents an error while parsing a configuration file.
type ParseError = loader.ParseError

// ValidationError describes a setting with an unusable value.
type ValidationError struct {
	Path    string // Setting path, e.g. "ai.provider"
	Message string
	Value   any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (value: %v)", e.Path, e.Message, e.Value)
}

// Is reports whether target is ErrValidationFailed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}
