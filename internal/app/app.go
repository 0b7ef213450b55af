// Package app wires the proofmark editor together: the editing surface, the
// terminal view, persisted state, style guides and the debounced suggestion
// cycles, all driven from one event loop.
package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/proofmark/internal/config"
	"github.com/dshills/proofmark/internal/config/watcher"
	"github.com/dshills/proofmark/internal/editor"
	"github.com/dshills/proofmark/internal/engine/ranges"
	"github.com/dshills/proofmark/internal/llm"
	"github.com/dshills/proofmark/internal/renderer"
	"github.com/dshills/proofmark/internal/renderer/backend"
	"github.com/dshills/proofmark/internal/renderer/statusline"
	"github.com/dshills/proofmark/internal/store"
)

// spinnerInterval paces the status line spinner while a cycle runs.
const spinnerInterval = 120 * time.Millisecond

// reloadDebounce coalesces editor save bursts on the style-guide file.
const reloadDebounce = 200 * time.Millisecond

// Options configures the application.
type Options struct {
	// Config is required.
	Config *config.Config

	// Backend is the terminal; Run fails without one.
	Backend backend.Backend

	// Store persists text, suggestions and the selected guide. Nil disables
	// persistence.
	Store *store.Store

	// Client overrides the provider built from Config.AI.
	Client llm.Client

	// Logger defaults to a null logger.
	Logger *Logger

	// File is the file the text was read from; Ctrl-S writes it back.
	File string

	// Text, when non-empty, replaces the persisted text.
	Text string
}

// Application is the central coordinator.
type Application struct {
	cfg     *config.Config
	be      backend.Backend
	store   *store.Store
	log     *Logger
	metrics *Metrics

	surface *editor.Surface
	view    *renderer.Renderer

	guides   []config.StyleGuide
	guideIdx int
	apiKey   string
	client   llm.Client
	fixed    bool // client supplied by Options

	gen      *generator
	inflight int
	watch    *watcher.Watcher

	file     string
	prompt   bool
	dragging bool
	dragFrom int

	events  chan backend.Event
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running atomic.Bool
}

// New creates the application and restores persisted state.
func New(opts Options) (*Application, error) {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Logger == nil {
		opts.Logger = NewNullLogger()
	}

	app := &Application{
		cfg:     opts.Config,
		be:      opts.Backend,
		store:   opts.Store,
		log:     opts.Logger,
		metrics: NewMetrics(),
		client:  opts.Client,
		fixed:   opts.Client != nil,
		file:    opts.File,
		apiKey:  opts.Config.AI.APIKey,
		events:  make(chan backend.Event, 64),
	}
	app.gen = newGenerator(app.cfg.Editor.Debounce.Std(), app.debounceFired)

	guides, err := config.LoadStyleGuides(app.cfg.StyleGuides.File)
	if err != nil {
		app.log.WithComponent("styleguides").Warn("using built-in guides: %v", err)
		guides = config.DefaultStyleGuides()
	}
	app.guides = guides
	app.guideIdx = app.cfg.StyleGuides.Selected

	state := store.DefaultState()
	if app.store != nil {
		st, found, err := app.store.Load()
		switch {
		case err != nil:
			app.log.WithComponent("store").Warn("ignoring stored state: %v", err)
		case found:
			state = st
			app.guideIdx = st.StyleGuideIndex
		}
		if app.apiKey == "" {
			if key, ok := app.store.APIKey(); ok {
				app.apiKey = key
			}
		}
	}
	if _, i, ok := config.SelectGuide(app.guides, app.guideIdx); ok {
		app.guideIdx = i
	}

	text := state.Text
	if opts.Text != "" {
		text = opts.Text
	}
	app.surface = editor.New(text, editor.Callbacks{})
	if opts.Text == "" && len(state.Suggestions) > 0 {
		if err := app.surface.ReplaceSuggestions(store.ToSuggestions(state.Suggestions)); err != nil {
			return nil, err
		}
	}
	app.surface.SetCallbacks(editor.Callbacks{
		OnChangeText:   app.textChanged,
		OnChangeRanges: app.rangesChanged,
	})
	if opts.Text != "" {
		app.persistText(app.surface.Text())
	}
	return app, nil
}

// Surface returns the editing surface.
func (app *Application) Surface() *editor.Surface {
	return app.surface
}

// Metrics returns the application's metrics.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}

// Guide returns the selected style guide.
func (app *Application) Guide() (config.StyleGuide, bool) {
	g, _, ok := config.SelectGuide(app.guides, app.guideIdx)
	return g, ok
}

// HasCredential reports whether suggestion requests can be sent.
func (app *Application) HasCredential() bool {
	return app.fixed || app.apiKey != "" || app.cfg.AI.Provider == llm.ProviderMock
}

// Run initializes the backend and runs the event loop until the user quits
// or ctx is cancelled.
func (app *Application) Run(ctx context.Context) error {
	if app.be == nil {
		return ErrNoBackend
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if err := app.be.Init(); err != nil {
		return NewComponentError("backend", "init", err)
	}

	app.ctx, app.cancel = context.WithCancel(ctx)
	defer app.shutdown()

	opts := renderer.DefaultOptions()
	opts.TabWidth = app.cfg.Editor.TabWidth
	opts.SidebarWidth = app.cfg.Editor.SidebarWidth
	opts.CardSpacing = app.cfg.Editor.AnnotationSpacing
	app.view = renderer.New(app.be, opts)
	app.refreshStatus()

	app.startWatcher()
	go app.poll()

	app.log.Info("started")
	app.draw()
	if !app.surface.Buffer().IsEmpty() && len(app.surface.Suggestions()) == 0 {
		app.gen.Touch()
	}
	return app.loop()
}

// loop is the only goroutine that touches the surface and the view.
func (app *Application) loop() error {
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-app.ctx.Done():
			return nil

		case ev, ok := <-app.events:
			if !ok {
				return nil
			}
			if err := app.handleEvent(ev); err != nil {
				if errors.Is(err, ErrQuit) {
					return nil
				}
				return err
			}
			app.draw()

		case <-ticker.C:
			if app.view.Status().Generating() {
				app.view.Status().Tick()
				app.draw()
			}
		}
	}
}

// poll forwards backend events to the loop. It ends when the backend
// shuts down.
func (app *Application) poll() {
	for {
		ev := app.be.PollEvent()
		if ev.Type == backend.EventNone {
			close(app.events)
			return
		}
		select {
		case app.events <- ev:
		case <-app.ctx.Done():
			return
		}
	}
}

func (app *Application) shutdown() {
	app.gen.Stop()
	if app.watch != nil {
		app.watch.Stop()
	}
	app.cancel()
	app.wg.Wait()
	app.be.Shutdown()
	app.log.WithFields(app.metrics.Snapshot().Fields()).Info("stopped")
}

// post runs fn on the event loop.
func (app *Application) post(fn func()) {
	if err := app.be.PostFunc(fn); err != nil {
		app.log.Debug("post: %v", err)
	}
}

func (app *Application) draw() {
	timer := StartTimer()
	anchor, focus := app.surface.Selection()
	p := app.surface.Buffer().OffsetToPoint(focus)
	app.view.Render(renderer.Frame{
		Runs:        app.surface.Tree().Runs(),
		Suggestions: app.surface.Suggestions(),
		Anchor:      anchor,
		Focus:       focus,
		Line:        p.Line,
		Col:         p.Column,
	})
	app.metrics.RecordRender(timer.Elapsed())
}

func (app *Application) refreshStatus() {
	if app.view == nil {
		return
	}
	st := app.view.Status()
	if g, ok := app.Guide(); ok {
		st.SetGuide(g.Name)
	} else {
		st.SetGuide("")
	}
	st.SetNoCredential(!app.HasCredential())
	st.SetGenerating(app.inflight > 0)
}

func (app *Application) textChanged(text string) {
	app.persistText(text)
	app.gen.Touch()
}

func (app *Application) persistText(text string) {
	if app.store == nil {
		return
	}
	if err := app.store.SetText(text); err != nil {
		app.log.WithComponent("store").Warn("save text: %v", err)
	}
}

func (app *Application) rangesChanged(items []ranges.Suggestion) {
	if app.store == nil {
		return
	}
	if err := app.store.SetSuggestions(items); err != nil {
		app.log.WithComponent("store").Warn("save suggestions: %v", err)
	}
}

// startWatcher reloads style guides when their file changes.
func (app *Application) startWatcher() {
	path := app.cfg.StyleGuides.File
	if path == "" {
		return
	}
	w, err := config.WatchStyleGuides(app.ctx, path, reloadDebounce, func(guides []config.StyleGuide, err error) {
		app.post(func() { app.guidesReloaded(guides, err) })
	})
	if err != nil {
		app.log.WithComponent("styleguides").Debug("not watching %s: %v", path, err)
		return
	}
	app.watch = w
}

func (app *Application) guidesReloaded(guides []config.StyleGuide, err error) {
	log := app.log.WithComponent("styleguides")
	if err != nil {
		log.Warn("reload: %v", err)
		app.view.Status().SetNotice("style guides: " + err.Error())
		return
	}
	app.guides = guides
	if _, i, ok := config.SelectGuide(app.guides, app.guideIdx); ok {
		app.guideIdx = i
	}
	log.Info("reloaded %d guides", len(guides))
	app.refreshStatus()
	app.view.Status().SetMessage("style guides reloaded", statusline.MessageInfo)
}
