// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package daemon wires the video service together and owns its process
// lifecycle.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ManuGH/videosvc/internal/config"
	xglog "github.com/ManuGH/videosvc/internal/log"
)

// ShutdownHook releases a resource once the servers have stopped.
type ShutdownHook func(ctx context.Context) error

// Manager owns the HTTP servers of the daemon.
type Manager interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
	RegisterShutdownHook(name string, hook ShutdownHook)
}

type manager struct {
	serverCfg config.ServerConfig
	deps      Deps
	logger    zerolog.Logger

	mu        sync.Mutex
	listeners []listener
	hooks     []namedHook
	started   bool
	stopping  bool
}

// listener is one HTTP server owned by the manager.
type listener struct {
	name string // "api" or "metrics"
	srv  *http.Server
}

type namedHook struct {
	name string
	hook ShutdownHook
}

// NewManager validates deps and returns a Manager that has not started yet.
func NewManager(serverCfg config.ServerConfig, deps Deps) (Manager, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies: %w", err)
	}
	return &manager{
		serverCfg: serverCfg,
		deps:      deps,
		logger:    deps.Logger.With().Str(xglog.FieldComponent, "manager").Logger(),
	}, nil
}

// Start serves until ctx is cancelled or a listener fails, then shuts down.
func (m *manager) Start(ctx context.Context) error {
	if ctx == nil {
		return errors.New("start context is nil")
	}

	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return ErrManagerAlreadyStarted
	}
	m.started = true
	m.listeners = m.buildListeners()
	listeners := slices.Clone(m.listeners)
	m.mu.Unlock()

	m.logger.Info().
		Str("listen", m.serverCfg.ListenAddr).
		Dur("read_timeout", m.serverCfg.ReadTimeout).
		Dur("write_timeout", m.serverCfg.WriteTimeout).
		Dur("shutdown_timeout", m.serverCfg.ShutdownTimeout).
		Msg("starting daemon manager")

	errChan := make(chan error, len(listeners))
	for _, l := range listeners {
		go m.serve(l, errChan)
	}

	select {
	case err := <-errChan:
		m.logger.Error().Err(err).Msg("server error, initiating shutdown")
		if shutdownErr := m.Shutdown(ctx); shutdownErr != nil {
			return fmt.Errorf("server error and shutdown failure: %w", errors.Join(err, shutdownErr))
		}
		return err
	case <-ctx.Done():
		m.logger.Info().Msg("shutdown signal received")
		return m.Shutdown(ctx)
	}
}

// buildListeners returns the metrics server first (when configured) and the
// API server last. Shutdown walks the list in reverse.
func (m *manager) buildListeners() []listener {
	var out []listener
	if m.deps.MetricsHandler != nil && m.deps.MetricsAddr != "" {
		out = append(out, listener{name: "metrics", srv: &http.Server{
			Addr:              m.deps.MetricsAddr,
			Handler:           m.deps.MetricsHandler,
			ReadHeaderTimeout: m.serverCfg.ReadTimeout / 2,
		}})
	}
	out = append(out, listener{name: "api", srv: &http.Server{
		Addr:              m.serverCfg.ListenAddr,
		Handler:           m.deps.APIHandler,
		ReadTimeout:       m.serverCfg.ReadTimeout,
		ReadHeaderTimeout: m.serverCfg.ReadTimeout / 2,
		WriteTimeout:      m.serverCfg.WriteTimeout,
		IdleTimeout:       m.serverCfg.IdleTimeout,
		MaxHeaderBytes:    m.serverCfg.MaxHeaderBytes,
	}})
	return out
}

func (m *manager) serve(l listener, errChan chan<- error) {
	m.logger.Info().Str("server", l.name).Str("addr", l.srv.Addr).Msg("server listening")

	if err := l.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		m.logger.Error().
			Err(err).
			Str(xglog.FieldEvent, l.name+".server.failed").
			Str("server", l.name).
			Msg("server failed")
		errChan <- fmt.Errorf("%w: %s server: %w", ErrServerStartFailed, l.name, err)
	}
}

// Shutdown marks the service as draining, stops the servers and then runs
// the shutdown hooks. It is bounded by the configured shutdown timeout even
// when ctx is already cancelled. Later calls return nil.
func (m *manager) Shutdown(ctx context.Context) error {
	if ctx == nil {
		return errors.New("shutdown context is nil")
	}

	m.mu.Lock()
	if m.stopping {
		m.mu.Unlock()
		return nil
	}
	if !m.started {
		m.mu.Unlock()
		return ErrManagerNotStarted
	}
	m.stopping = true
	listeners := slices.Clone(m.listeners)
	hooks := slices.Clone(m.hooks)
	m.mu.Unlock()

	m.logger.Info().Msg("shutting down daemon manager")
	if m.deps.Drain != nil {
		m.deps.Drain.Drain()
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.serverCfg.ShutdownTimeout)
	defer cancel()

	var errs []error
	for i := len(listeners) - 1; i >= 0; i-- {
		l := listeners[i]
		if err := l.srv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("%s server shutdown: %w", l.name, err))
		}
	}

	for i := len(hooks) - 1; i >= 0; i-- {
		h := hooks[i]
		began := time.Now()
		err := h.hook(shutdownCtx)
		var ev *zerolog.Event
		if err != nil {
			ev = m.logger.Error().Err(err)
			errs = append(errs, fmt.Errorf("hook %s: %w", h.name, err))
		} else {
			ev = m.logger.Debug()
		}
		ev.Str("hook", h.name).Dur("duration", time.Since(began)).Msg("shutdown hook finished")
	}

	if err := errors.Join(errs...); err != nil {
		m.logger.Error().Int("error_count", len(errs)).Msg("shutdown completed with errors")
		return fmt.Errorf("shutdown errors: %w", err)
	}
	m.logger.Info().Msg("daemon manager stopped cleanly")
	return nil
}

// RegisterShutdownHook adds hook under name. Hooks run in reverse
// registration order.
func (m *manager) RegisterShutdownHook(name string, hook ShutdownHook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, namedHook{name: name, hook: hook})
}
