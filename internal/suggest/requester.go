package suggest

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/proofmark/internal/engine/ranges"
	"github.com/dshills/proofmark/internal/llm"
)

// RuleError records a rule whose request failed.
type RuleError struct {
	Rule int // Index into the rule list
	Text string
	Err  error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %d: %v", e.Rule, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}

// Result is the outcome of one generation.
type Result struct {
	// Findings in rule order, then in reply order.
	Findings []ranges.Finding

	// Errors holds one entry per failed rule, in rule order.
	Errors []*RuleError
}

// Err joins the rule errors, or returns nil when every rule succeeded.
func (r Result) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// Requester checks text against rules with one model request per rule.
type Requester struct {
	client      llm.Client
	concurrency int
	onReply     func(rule int, reply string)
}

// Option configures a Requester.
type Option func(*Requester)

// WithConcurrency bounds the number of requests in flight. Zero or less means
// no bound.
func WithConcurrency(n int) Option {
	return func(r *Requester) { r.concurrency = n }
}

// WithReplyHook registers a function called with each raw reply.
// It may be called from several goroutines at once.
func WithReplyHook(fn func(rule int, reply string)) Option {
	return func(r *Requester) { r.onReply = fn }
}

// NewRequester creates a requester sending through client.
func NewRequester(client llm.Client, opts ...Option) *Requester {
	r := &Requester{client: client}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Generate requests suggestions for every rule concurrently and waits for
// all of them. A failed rule contributes no findings; its error is reported
// in Result.Errors and the returned error while the other rules' findings are
// still returned. Blank text or an empty rule list yields an empty result.
func (r *Requester) Generate(ctx context.Context, text string, rules []string) (Result, error) {
	if IsBlank(text) || len(rules) == 0 {
		return Result{}, nil
	}

	marked, offsets := MarkSentences(text)
	textLen := utf8.RuneCountInString(text)

	found := make([][]ranges.Finding, len(rules))
	failed := make([]*RuleError, len(rules))

	var g errgroup.Group
	if r.concurrency > 0 {
		g.SetLimit(r.concurrency)
	}
	for i, rule := range rules {
		g.Go(func() error {
			reply, err := r.client.Send(ctx, BuildPrompt(rules, marked, rule))
			if err != nil {
				failed[i] = &RuleError{Rule: i, Text: rule, Err: err}
				return nil
			}
			if r.onReply != nil {
				r.onReply(i, reply)
			}
			found[i] = Resolve(ParseReply(reply), offsets, textLen)
			return nil
		})
	}
	_ = g.Wait()

	var res Result
	for i := range rules {
		res.Findings = append(res.Findings, found[i]...)
		if failed[i] != nil {
			res.Errors = append(res.Errors, failed[i])
		}
	}
	return res, res.Err()
}
