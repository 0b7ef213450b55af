package llm

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAI sends prompts to the OpenAI Chat Completions API.
type OpenAI struct {
	client openai.Client
	opts   Options
}

// NewOpenAI creates an OpenAI client.
func NewOpenAI(opts Options) *OpenAI {
	opts = opts.withDefaults()
	reqOpts := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if opts.Timeout > 0 {
		reqOpts = append(reqOpts, option.WithRequestTimeout(opts.Timeout))
	}
	return &OpenAI{client: openai.NewClient(reqOpts...), opts: opts}
}

// Send implements Client.
func (o *OpenAI) Send(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(o.opts.Model),
		Temperature:         openai.Float(o.opts.Temperature),
		MaxCompletionTokens: openai.Int(int64(o.opts.MaxTokens)),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", wrap(ProviderOpenAI, apiErr.StatusCode, err)
		}
		return "", wrap(ProviderOpenAI, 0, err)
	}
	if len(resp.Choices) == 0 {
		return "", wrap(ProviderOpenAI, 0, ErrResponseInvalid)
	}
	return resp.Choices[0].Message.Content, nil
}
