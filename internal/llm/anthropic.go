package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Anthropic sends prompts to the Anthropic Messages API.
type Anthropic struct {
	client anthropic.Client
	opts   Options
}

// NewAnthropic creates an Anthropic client.
func NewAnthropic(opts Options) *Anthropic {
	opts = opts.withDefaults()
	reqOpts := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if opts.Timeout > 0 {
		reqOpts = append(reqOpts, option.WithRequestTimeout(opts.Timeout))
	}
	return &Anthropic{client: anthropic.NewClient(reqOpts...), opts: opts}
}

// Send implements Client.
func (a *Anthropic) Send(ctx context.Context, prompt string) (string, error) {
	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.opts.Model),
		MaxTokens:   int64(a.opts.MaxTokens),
		Temperature: anthropic.Float(a.opts.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", wrap(ProviderAnthropic, apiErr.StatusCode, err)
		}
		return "", wrap(ProviderAnthropic, 0, err)
	}

	// Only the first block counts; anything but text is an empty reply.
	if len(msg.Content) == 0 || msg.Content[0].Type != "text" {
		return "", nil
	}
	return strings.TrimRight(msg.Content[0].Text, "\n"), nil
}
