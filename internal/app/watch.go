package app

import (
	"context"
	"fmt"

	"go.trai.ch/rig/internal/adapters/watcher"
)

// Watch builds once, then rebuilds whenever files in the workspace change.
// Build failures are logged and do not stop watching. It returns when ctx is done.
func (a *App) Watch(ctx context.Context, targets []string, opts BuildOptions) error {
	root, err := a.configLoader.DiscoverRoot(a.workDir)
	if err != nil {
		return err
	}

	w, err := a.newWatcher()
	if err != nil {
		return err
	}
	defer func() {
		_ = w.Stop()
	}()
	if err := w.Start(ctx, root); err != nil {
		return err
	}

	trigger := make(chan struct{}, 1)
	debouncer := watcher.NewDebouncer(a.debounceWindow, func(paths []string) {
		a.logger.Info(fmt.Sprintf("%d file(s) changed, rebuilding", len(paths)))
		select {
		case trigger <- struct{}{}:
		default:
		}
	})
	defer debouncer.Stop()

	go func() {
		for event := range w.Events() {
			debouncer.Add(event.Path)
		}
	}()

	a.rebuild(ctx, targets, opts)
	a.logger.Info("watching " + root + " for changes")

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-trigger:
			a.rebuild(ctx, targets, opts)
		}
	}
}

func (a *App) rebuild(ctx context.Context, targets []string, opts BuildOptions) {
	if err := a.Build(ctx, targets, opts); err != nil && ctx.Err() == nil {
		a.logger.Error(err)
	}
}
