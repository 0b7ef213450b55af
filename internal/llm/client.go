// Package llm provides the language-model clients the suggestion pipeline
// sends its prompts to.
//
// A Client sends one prompt as a single user message and returns the text of
// the reply. Providers are selected by name through New.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Client sends a prompt and returns the model's text reply.
type Client interface {
	Send(ctx context.Context, prompt string) (string, error)
}

// Provider names.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderMock      = "mock"
)

// Default request parameters.
const (
	DefaultAnthropicModel = "claude-3-5-sonnet-20240620"
	DefaultOpenAIModel    = "gpt-4o"
	DefaultGeminiModel    = "gemini-1.5-pro"
	DefaultMaxTokens      = 8192
)

// Errors returned by clients.
var (
	ErrNoAPIKey         = errors.New("no api key configured")
	ErrUnknownProvider  = errors.New("unknown provider")
	ErrRateLimited      = errors.New("rate limited")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrResponseInvalid  = errors.New("response invalid")
	ErrNoScriptedAnswer = errors.New("mock has no scripted reply")
)

// Options configures a provider client.
type Options struct {
	Provider    string
	Model       string
	APIKey      string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration // Per-request timeout; 0 leaves the SDK default
}

// DefaultModel returns the default model for a provider.
func DefaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return DefaultOpenAIModel
	case ProviderGemini:
		return DefaultGeminiModel
	case ProviderMock:
		return "mock"
	default:
		return DefaultAnthropicModel
	}
}

func (o Options) withDefaults() Options {
	if o.Provider == "" {
		o.Provider = ProviderAnthropic
	}
	if o.Model == "" {
		o.Model = DefaultModel(o.Provider)
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = DefaultMaxTokens
	}
	return o
}

// New creates the client for opts.Provider.
func New(opts Options) (Client, error) {
	opts = opts.withDefaults()
	if opts.Provider != ProviderMock && opts.APIKey == "" {
		return nil, &ProviderError{Provider: opts.Provider, Op: "new", Err: ErrNoAPIKey}
	}

	switch opts.Provider {
	case ProviderAnthropic:
		return NewAnthropic(opts), nil
	case ProviderOpenAI:
		return NewOpenAI(opts), nil
	case ProviderGemini:
		return NewGemini(opts), nil
	case ProviderMock:
		return NewMock("N/A"), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, opts.Provider)
	}
}

// ProviderError wraps a failure reported by a provider.
type ProviderError struct {
	Provider string
	Op       string
	Status   int // HTTP status when known
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Provider, e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Is maps HTTP statuses onto the package's sentinel errors.
func (e *ProviderError) Is(target error) bool {
	switch target {
	case ErrRateLimited:
		return e.Status == 429
	case ErrUnauthorized:
		return e.Status == 401 || e.Status == 403
	}
	return false
}

// wrap builds a ProviderError for a send failure.
func wrap(provider string, status int, err error) error {
	if err == nil {
		return nil
	}
	return &ProviderError{Provider: provider, Op: "send", Status: status, Err: err}
}
