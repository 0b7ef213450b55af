package llm

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"google.golang.org/api/googleapi"
)

func TestNewRequiresKey(t *testing.T) {
	for _, p := range []string{ProviderAnthropic, ProviderOpenAI, ProviderGemini} {
		_, err := New(Options{Provider: p})
		if !errors.Is(err, ErrNoAPIKey) {
			t.Errorf("New(%s) error = %v, want ErrNoAPIKey", p, err)
		}
	}
}

func TestNewProviders(t *testing.T) {
	tests := []struct {
		provider string
		want     string
	}{
		{ProviderAnthropic, "*llm.Anthropic"},
		{"", "*llm.Anthropic"},
		{ProviderOpenAI, "*llm.OpenAI"},
		{ProviderGemini, "*llm.Gemini"},
		{ProviderMock, "*llm.Mock"},
	}

	for _, tt := range tests {
		c, err := New(Options{Provider: tt.provider, APIKey: "k"})
		if err != nil {
			t.Fatalf("New(%q): %v", tt.provider, err)
		}
		var got string
		switch c.(type) {
		case *Anthropic:
			got = "*llm.Anthropic"
		case *OpenAI:
			got = "*llm.OpenAI"
		case *Gemini:
			got = "*llm.Gemini"
		case *Mock:
			got = "*llm.Mock"
		}
		if got != tt.want {
			t.Errorf("New(%q) = %s, want %s", tt.provider, got, tt.want)
		}
	}
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New(Options{Provider: "cohere", APIKey: "k"})
	if !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("error = %v, want ErrUnknownProvider", err)
	}
}

func TestDefaults(t *testing.T) {
	o := Options{}.withDefaults()
	if o.Provider != ProviderAnthropic || o.Model != DefaultAnthropicModel || o.MaxTokens != 8192 {
		t.Errorf("defaults = %+v", o)
	}
	if o.Temperature != 0 {
		t.Errorf("Temperature = %v, want 0", o.Temperature)
	}
	if got := DefaultModel(ProviderOpenAI); got != "gpt-4o" {
		t.Errorf("DefaultModel(openai) = %q", got)
	}
}

func TestProviderErrorIs(t *testing.T) {
	tests := []struct {
		status int
		target error
		want   bool
	}{
		{429, ErrRateLimited, true},
		{500, ErrRateLimited, false},
		{401, ErrUnauthorized, true},
		{403, ErrUnauthorized, true},
		{0, ErrUnauthorized, false},
	}

	for _, tt := range tests {
		err := wrap("x", tt.status, errors.New("boom"))
		if got := errors.Is(err, tt.target); got != tt.want {
			t.Errorf("Is(status %d, %v) = %v, want %v", tt.status, tt.target, got, tt.want)
		}
	}

	inner := errors.New("inner")
	if !errors.Is(wrap("x", 0, inner), inner) {
		t.Error("ProviderError should unwrap to its cause")
	}
	if wrap("x", 0, nil) != nil {
		t.Error("wrap(nil) should be nil")
	}
}

func TestWrapGemini(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"unauthorized", &googleapi.Error{Code: 401}, ErrUnauthorized, true},
		{"forbidden", &googleapi.Error{Code: 403}, ErrUnauthorized, true},
		{"rate limited", fmt.Errorf("generate: %w", &googleapi.Error{Code: 429}), ErrRateLimited, true},
		{"server error", &googleapi.Error{Code: 500}, ErrUnauthorized, false},
		{"transport", errors.New("dial tcp: refused"), ErrRateLimited, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := wrapGemini(tt.err)
			if got := errors.Is(err, tt.target); got != tt.want {
				t.Errorf("Is(%v, %v) = %v, want %v", err, tt.target, got, tt.want)
			}
			var pe *ProviderError
			if !errors.As(err, &pe) || pe.Provider != ProviderGemini {
				t.Errorf("err = %#v, want a gemini ProviderError", err)
			}
		})
	}
}

func TestMockReplies(t *testing.T) {
	m := NewMock("a", "b")
	ctx := context.Background()

	for _, want := range []string{"a", "b", "b"} {
		got, err := m.Send(ctx, "p")
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("Send = %q, want %q", got, want)
		}
	}
	if n := len(m.Prompts()); n != 3 {
		t.Errorf("recorded %d prompts, want 3", n)
	}
}

func TestMockRespond(t *testing.T) {
	m := &Mock{Respond: func(_ context.Context, p string) (string, error) {
		if p == "fail" {
			return "", ErrRateLimited
		}
		return "echo " + p, nil
	}}

	got, err := m.Send(context.Background(), "x")
	if err != nil || got != "echo x" {
		t.Errorf("Send(x) = %q, %v", got, err)
	}
	if _, err := m.Send(context.Background(), "fail"); !errors.Is(err, ErrRateLimited) {
		t.Errorf("Send(fail) error = %v", err)
	}
}

func TestMockEmptyAndCancelled(t *testing.T) {
	m := NewMock()
	if _, err := m.Send(context.Background(), "p"); !errors.Is(err, ErrNoScriptedAnswer) {
		t.Errorf("error = %v, want ErrNoScriptedAnswer", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewMock("x").Send(ctx, "p"); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestMockConcurrent(t *testing.T) {
	m := NewMock("ok")
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = m.Send(context.Background(), "p")
		}()
	}
	wg.Wait()
	if n := len(m.Prompts()); n != 20 {
		t.Errorf("recorded %d prompts, want 20", n)
	}
}
