package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/elevendx/internal/diagnosis"
)

// Start loads the diagnostic model and brings up the optional health server
// and file watcher. It returns once the first load has finished.
func (a *App) Start(ctx context.Context) error {
	a.logger.Debug("App.Start method started.")

	a.loader.Start(a.ctx)
	a.healthCheckServer()

	brain, err := a.loader.Wait(ctx)
	if err != nil {
		return fmt.Errorf("failed to load diagnostic model: %w", err)
	}
	a.logger.Info("🧠 Diagnostic model loaded.",
		"network", brain.Network().Name,
		"nodes", brain.Graph().Len(),
		"targets", len(brain.Targets()),
	)

	if a.config.Watch {
		if err := a.startWatcher(); err != nil {
			return err
		}
	}
	a.logger.Debug("App.Start method finished.")
	return nil
}

func (a *App) startWatcher() error {
	w, err := diagnosis.Watch(a.ctx, a.loader, a.config.NetworkPaths, ".hcl", diagnosis.DefaultDebounce)
	if err != nil {
		return fmt.Errorf("failed to watch network files: %w", err)
	}
	a.watcher = w
	a.logger.Info("👀 Watching network files for changes.", "paths", a.config.NetworkPaths)
	return nil
}

// Serve blocks until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	a.logger.Info("🚀 Serving. Press Ctrl+C to stop.")
	<-ctx.Done()
	a.logger.Info("🏁 Shutdown requested.")
	if errors.Is(ctx.Err(), context.Canceled) {
		return nil
	}
	return ctx.Err()
}

// Close stops the watcher and health server and releases the model.
func (a *App) Close() error {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	err := a.closeHealthCheckServer()
	a.loader.Close()
	return err
}
