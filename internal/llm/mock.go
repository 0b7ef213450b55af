package llm

import (
	"context"
	"sync"
)

// Mock is an offline Client with scripted replies.
//
// Respond, when set, computes each reply. Otherwise Replies are returned in
// order and the last one repeats.
type Mock struct {
	Respond func(ctx context.Context, prompt string) (string, error)
	Replies []string

	mu      sync.Mutex
	prompts []string
}

// NewMock creates a mock returning replies in order.
func NewMock(replies ...string) *Mock {
	return &Mock{Replies: replies}
}

// Send implements Client.
func (m *Mock) Send(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	n := len(m.prompts)
	m.prompts = append(m.prompts, prompt)
	respond, replies := m.Respond, m.Replies
	m.mu.Unlock()

	if respond != nil {
		return respond(ctx, prompt)
	}
	if len(replies) == 0 {
		return "", wrap(ProviderMock, 0, ErrNoScriptedAnswer)
	}
	return replies[min(n, len(replies)-1)], nil
}

// Prompts returns the prompts received so far.
func (m *Mock) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}
