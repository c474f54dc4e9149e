// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package daemon

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/videosvc/internal/config"
	xglog "github.com/ManuGH/videosvc/internal/log"
)

// App runs the Manager alongside the config watcher and the reload signal
// handler. The first failure of the manager stops everything.
type App struct {
	logger       zerolog.Logger
	manager      Manager
	cfgHolder    *config.ConfigHolder
	reloadSignal os.Signal
}

// NewApp returns an App reloading on SIGHUP. cfgHolder may be nil, which
// disables both watching and reloading.
func NewApp(logger zerolog.Logger, manager Manager, cfgHolder *config.ConfigHolder) *App {
	return &App{
		logger:       logger,
		manager:      manager,
		cfgHolder:    cfgHolder,
		reloadSignal: syscall.SIGHUP,
	}
}

// Run blocks until ctx is cancelled or the manager fails.
func (a *App) Run(ctx context.Context) error {
	if a.manager == nil {
		return ErrMissingManager
	}

	g, ctx := errgroup.WithContext(ctx)
	if a.cfgHolder != nil {
		g.Go(func() error { a.watchConfig(ctx); return nil })
		if a.reloadSignal != nil {
			g.Go(func() error { a.reloadOnSignal(ctx); return nil })
		}
	}
	g.Go(func() error {
		err := a.manager.Start(ctx)
		if err != nil {
			_ = a.manager.Shutdown(context.Background())
		}
		return err
	})
	return g.Wait()
}

// watchConfig is best-effort: when the watcher cannot start the process keeps
// the configuration it booted with.
func (a *App) watchConfig(ctx context.Context) {
	if err := a.cfgHolder.Watch(ctx); err != nil {
		a.logger.Warn().
			Err(err).
			Str(xglog.FieldEvent, "config.watcher_start_failed").
			Msg("failed to start config watcher")
	}
}

func (a *App) reloadOnSignal(ctx context.Context) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, a.reloadSignal)
	defer signal.Stop(sig)

	for {
		select {
		case <-ctx.Done():
			return
		case <-sig:
		}

		a.logger.Info().
			Str(xglog.FieldEvent, "config.reload_signal").
			Str("signal", a.reloadSignal.String()).
			Msg("reloading config")
		if err := a.cfgHolder.Reload(ctx); err != nil {
			a.logger.Warn().
				Err(err).
				Str(xglog.FieldEvent, "config.reload_failed").
				Msg("config reload failed")
		}
	}
}
