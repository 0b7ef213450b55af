package config

import (
	"context"
	"time"

	"github.com/dshills/proofmark/internal/config/watcher"
)

// WatchStyleGuides reloads the style-guide file at path whenever it changes
// and passes the result to onReload. A removed file reloads the built-in
// guides. The returned watcher runs until ctx is done or it is stopped.
func WatchStyleGuides(ctx context.Context, path string, debounce time.Duration, onReload func([]StyleGuide, error)) (*watcher.Watcher, error) {
	w := watcher.New(
		watcher.WithDebounce(debounce),
		watcher.WithErrorHandler(func(err error) { onReload(nil, err) }),
	)
	if err := w.Watch(path); err != nil {
		return nil, err
	}
	w.OnChange(func(watcher.Event) {
		guides, err := LoadStyleGuides(path)
		if err == nil && len(guides) == 0 {
			err = ErrNoStyleGuides
		}
		onReload(guides, err)
	})
	if err := w.Start(ctx); err != nil {
		return nil, err
	}
	return w, nil
}
