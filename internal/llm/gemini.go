package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Gemini sends prompts to the Gemini API.
// A genai client is opened per request since it is bound to a context.
type Gemini struct {
	opts Options
}

// NewGemini creates a Gemini client.
func NewGemini(opts Options) *Gemini {
	return &Gemini{opts: opts.withDefaults()}
}

// Send implements Client.
func (g *Gemini) Send(ctx context.Context, prompt string) (string, error) {
	if g.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.opts.Timeout)
		defer cancel()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.opts.APIKey))
	if err != nil {
		return "", &ProviderError{Provider: ProviderGemini, Op: "new", Err: err}
	}
	defer client.Close()

	model := client.GenerativeModel(g.opts.Model)
	model.SetTemperature(float32(g.opts.Temperature))
	model.SetMaxOutputTokens(int32(g.opts.MaxTokens))

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", wrapGemini(err)
	}

	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
		break
	}
	return b.String(), nil
}

// wrapGemini carries the HTTP status of a Google API error.
func wrapGemini(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return wrap(ProviderGemini, apiErr.Code, err)
	}
	return wrap(ProviderGemini, 0, err)
}
