// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	xglog "github.com/ManuGH/videosvc/internal/log"
)

const reloadDebounce = 500 * time.Millisecond

// ConfigHolder holds configuration with atomic reloading capability.
// Only logLevel is applied live; every other key takes effect on restart.
type ConfigHolder struct {
	mu         sync.RWMutex
	current    AppConfig
	loader     *Loader
	configPath string
	logger     zerolog.Logger

	// Reload notifications
	reloadMu        sync.RWMutex
	reloadListeners []chan<- AppConfig
}

// NewConfigHolder creates a new configuration holder with initial config.
func NewConfigHolder(initial AppConfig, loader *Loader) *ConfigHolder {
	return &ConfigHolder{
		current:    initial,
		loader:     loader,
		configPath: loader.Path(),
		logger:     xglog.WithComponent("config"),
	}
}

// Get returns the current configuration (thread-safe read).
func (h *ConfigHolder) Get() AppConfig {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Reload re-reads the configuration. If loading or validation fails the old
// configuration is kept and an error is returned.
func (h *ConfigHolder) Reload(_ context.Context) error {
	h.logger.Info().Str(xglog.FieldEvent, "config.reload_start").Msg("reloading configuration")

	newCfg, err := h.loader.Load()
	if err != nil {
		h.logger.Error().
			Err(err).
			Str(xglog.FieldEvent, "config.reload_failed").
			Msg("failed to load new configuration")
		return fmt.Errorf("reload config: %w", err)
	}

	h.mu.Lock()
	oldCfg := h.current
	h.current = newCfg
	h.mu.Unlock()

	h.applyLive(oldCfg, newCfg)
	h.notifyListeners(newCfg)

	h.logger.Info().
		Str(xglog.FieldEvent, "config.reload_success").
		Msg("configuration reloaded successfully")
	return nil
}

// Watch blocks until ctx is done, reloading whenever the config file changes.
// Without a config file it returns immediately.
func (h *ConfigHolder) Watch(ctx context.Context) error {
	if h.configPath == "" {
		h.logger.Info().
			Str(xglog.FieldEvent, "config.watcher_disabled").
			Msg("config file watcher disabled (using ENV-only configuration)")
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Editors replace files by rename, so watch the directory and filter.
	if err := watcher.Add(filepath.Dir(h.configPath)); err != nil {
		return fmt.Errorf("watch config dir: %w", err)
	}

	h.logger.Info().
		Str(xglog.FieldEvent, "config.watcher_started").
		Str(xglog.FieldPath, h.configPath).
		Msg("watching config file for changes")

	target := filepath.Clean(h.configPath)
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info().Str(xglog.FieldEvent, "config.watcher_stopped").Msg("config watcher stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			h.logger.Debug().
				Str(xglog.FieldEvent, "config.file_changed").
				Str(xglog.FieldOp, event.Op.String()).
				Msg("config file changed")

			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(reloadDebounce, func() {
				if err := h.Reload(ctx); err != nil {
					h.logger.Error().
						Err(err).
						Str(xglog.FieldEvent, "config.auto_reload_failed").
						Msg("automatic config reload failed")
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			h.logger.Error().
				Err(err).
				Str(xglog.FieldEvent, "config.watcher_error").
				Msg("config watcher error")
		}
	}
}

// RegisterListener registers a channel to receive config reload notifications.
// Sends are non-blocking; a full channel misses the update.
func (h *ConfigHolder) RegisterListener(ch chan<- AppConfig) {
	h.reloadMu.Lock()
	defer h.reloadMu.Unlock()
	h.reloadListeners = append(h.reloadListeners, ch)
}

func (h *ConfigHolder) notifyListeners(newCfg AppConfig) {
	h.reloadMu.RLock()
	defer h.reloadMu.RUnlock()

	for _, ch := range h.reloadListeners {
		select {
		case ch <- newCfg:
		default:
			h.logger.Warn().
				Str(xglog.FieldEvent, "config.listener_skip").
				Msg("skipped notifying listener (channel full)")
		}
	}
}

func (h *ConfigHolder) applyLive(old, newCfg AppConfig) {
	if old.LogLevel != newCfg.LogLevel {
		if err := xglog.SetLevel(newCfg.LogLevel); err != nil {
			h.logger.Warn().Err(err).Str("level", newCfg.LogLevel).Msg("could not apply log level")
		} else {
			h.logger.Info().
				Str(xglog.FieldEvent, "log.level_changed").
				Str("old", old.LogLevel).
				Str("new", xglog.Level()).
				Msg("config changed: logLevel")
		}
	}
	if keys := restartKeys(old, newCfg); len(keys) > 0 {
		h.logger.Warn().
			Str(xglog.FieldEvent, "config.restart_required").
			Strs("keys", keys).
			Msg("settings changed that only apply after restart")
	}
}

func restartKeys(old, newCfg AppConfig) []string {
	var keys []string
	if old.API.ListenAddr != newCfg.API.ListenAddr {
		keys = append(keys, "api.listenAddr")
	}
	if old.API.MaxBodyBytes != newCfg.API.MaxBodyBytes {
		keys = append(keys, "api.maxBodyBytes")
	}
	if !slices.Equal(old.API.CORSOrigins, newCfg.API.CORSOrigins) {
		keys = append(keys, "api.corsOrigins")
	}
	if old.API.RateLimit != newCfg.API.RateLimit {
		keys = append(keys, "api.rateLimit")
	}
	if old.Metrics != newCfg.Metrics {
		keys = append(keys, "metrics")
	}
	if old.Telemetry != newCfg.Telemetry {
		keys = append(keys, "telemetry")
	}
	if old.Testing != newCfg.Testing {
		keys = append(keys, "testing")
	}
	if old.Store != newCfg.Store {
		keys = append(keys, "store")
	}
	if old.Server != newCfg.Server {
		keys = append(keys, "server")
	}
	return keys
}
