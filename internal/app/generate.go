package app

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/proofmark/internal/engine/ranges"
	"github.com/dshills/proofmark/internal/llm"
	"github.com/dshills/proofmark/internal/renderer/statusline"
	"github.com/dshills/proofmark/internal/suggest"
)

// generator calls fire once the text has been quiet for delay.
type generator struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	fire    func()
	stopped bool
}

func newGenerator(delay time.Duration, fire func()) *generator {
	return &generator{delay: delay, fire: fire}
}

// Touch restarts the quiet period.
func (g *generator) Touch() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.stopped {
		return
	}
	if g.timer != nil {
		g.timer.Stop()
	}
	g.timer = time.AfterFunc(g.delay, g.fire)
}

// Cancel drops a pending fire and reports whether one was pending.
func (g *generator) Cancel() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.timer == nil {
		return false
	}
	pending := g.timer.Stop()
	g.timer = nil
	return pending
}

// Stop cancels any pending fire and ignores later touches.
func (g *generator) Stop() {
	g.Cancel()
	g.mu.Lock()
	g.stopped = true
	g.mu.Unlock()
}

// cycle is one snapshot of text and rules sent for checking.
type cycle struct {
	id      string
	guide   string
	text    string
	rules   []string
	started time.Time
}

// debounceFired runs on the timer goroutine.
func (app *Application) debounceFired() {
	app.post(app.startCycle)
}

// checkNow starts a cycle immediately, replacing a pending one.
func (app *Application) checkNow() {
	app.gen.Cancel()
	app.startCycle()
}

func (app *Application) startCycle() {
	log := app.log.WithComponent("generate")
	if app.ctx != nil && app.ctx.Err() != nil {
		return
	}
	if !app.HasCredential() {
		app.metrics.RecordSkippedCycle()
		log.Debug("skipped: no API key")
		app.refreshStatus()
		return
	}
	guide, ok := app.Guide()
	if !ok || len(guide.Rules) == 0 {
		app.metrics.RecordSkippedCycle()
		log.Debug("skipped: no rules")
		return
	}
	client, err := app.llmClient()
	if err != nil {
		log.Error("client: %v", err)
		app.view.Status().SetNotice("cannot check: " + err.Error())
		return
	}

	c := cycle{
		id:      uuid.NewString(),
		guide:   guide.Name,
		text:    app.surface.Text(),
		rules:   slices.Clone(guide.Rules),
		started: time.Now(),
	}
	clog := log.WithField("cycle", c.id)
	req := suggest.NewRequester(client,
		suggest.WithConcurrency(app.cfg.AI.Concurrency),
		suggest.WithReplyHook(func(rule int, reply string) {
			clog.WithField("rule", rule).Debug("reply of %d bytes", len(reply))
		}),
	)

	app.inflight++
	app.refreshStatus()
	clog.Info("checking %d rules of %q", len(c.rules), c.guide)

	ctx := app.ctx
	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		res, crash := runCycle(ctx, req, c)
		app.post(func() { app.finishCycle(c, res, crash) })
	}()
}

// runCycle generates suggestions, turning a panic into an error.
func runCycle(ctx context.Context, req *suggest.Requester, c cycle) (res suggest.Result, crash error) {
	defer func() {
		if r := recover(); r != nil {
			crash = NewRecoveredPanicError(r, string(debug.Stack()))
		}
	}()
	res, _ = req.Generate(ctx, c.text, c.rules)
	return res, nil
}

// finishCycle applies a cycle's results on the event loop. Results are
// applied in arrival order, even when a newer cycle has already finished.
func (app *Application) finishCycle(c cycle, res suggest.Result, crash error) {
	app.inflight--
	defer app.refreshStatus()

	clog := app.log.WithComponent("generate").WithField("cycle", c.id)
	app.metrics.RecordCycle(time.Since(c.started), len(res.Findings), len(res.Errors))

	if crash != nil {
		clog.Error("%v", crash)
		var p *RecoveredPanicError
		if errors.As(crash, &p) {
			app.view.Status().SetNotice(fmt.Sprintf("check failed: %v", p.Value))
		}
		return
	}
	for _, e := range res.Errors {
		clog.WithField("rule", e.Rule).Warn("rule failed: %v", e.Err)
	}
	if app.ctx.Err() != nil {
		return
	}
	if len(res.Errors) > 0 {
		app.view.Status().SetNotice(describeFailure(res.Errors))
	}
	if len(res.Errors) == len(c.rules) {
		return
	}

	items := ranges.Number(app.surface.Suggestions(), res.Findings, app.cfg.Editor.SuggestionColor)
	if err := app.surface.ReplaceSuggestions(items); err != nil {
		clog.Warn("apply: %v", err)
		return
	}
	clog.Info("%d suggestions in %s", len(items), time.Since(c.started).Round(time.Millisecond))
}

// describeFailure summarizes failed rules for the status line.
func describeFailure(errs []*suggest.RuleError) string {
	first := errs[0]
	var reason string
	switch {
	case errors.Is(first.Err, llm.ErrUnauthorized):
		reason = "API key rejected"
	case errors.Is(first.Err, llm.ErrRateLimited):
		reason = "rate limited"
	case errors.Is(first.Err, context.DeadlineExceeded):
		reason = "timed out"
	default:
		reason = first.Err.Error()
	}
	msg := fmt.Sprintf("rule %d failed: %s", first.Rule+1, reason)
	if len(errs) > 1 {
		msg += fmt.Sprintf(" (+%d more)", len(errs)-1)
	}
	return msg
}

// llmClient returns the provider client, building it on first use.
func (app *Application) llmClient() (llm.Client, error) {
	if app.client != nil {
		return app.client, nil
	}
	c, err := llm.New(llm.Options{
		Provider:    app.cfg.AI.Provider,
		Model:       app.cfg.AI.Model,
		APIKey:      app.apiKey,
		MaxTokens:   app.cfg.AI.MaxTokens,
		Temperature: app.cfg.AI.Temperature,
		Timeout:     app.cfg.AI.Timeout.Std(),
	})
	if err != nil {
		return nil, err
	}
	app.client = c
	return c, nil
}

// setAPIKey replaces the credential and checks the text with it.
func (app *Application) setAPIKey(key string) {
	app.apiKey = key
	if !app.fixed {
		app.client = nil
	}
	if app.store != nil {
		if err := app.store.SetAPIKey(key); err != nil {
			app.log.WithComponent("store").Warn("save API key: %v", err)
		}
	}
	app.refreshStatus()
	if key == "" {
		app.view.Status().SetMessage("API key cleared", statusline.MessageInfo)
		return
	}
	app.view.Status().SetMessage("API key saved", statusline.MessageInfo)
	app.gen.Touch()
}
