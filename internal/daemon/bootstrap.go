// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package daemon

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ManuGH/videosvc/internal/api"
	"github.com/ManuGH/videosvc/internal/config"
	"github.com/ManuGH/videosvc/internal/health"
	xglog "github.com/ManuGH/videosvc/internal/log"
	"github.com/ManuGH/videosvc/internal/metrics"
	"github.com/ManuGH/videosvc/internal/telemetry"
	"github.com/ManuGH/videosvc/internal/video"
)

// ServiceName identifies the process in logs and traces.
const ServiceName = "videosvc"

// Replaced in tests.
var (
	newTelemetryProvider = telemetry.NewProvider
	newManager           = NewManager
)

// Components is the wired object graph of one daemon process.
type Components struct {
	Store     *video.Store
	Health    *health.Manager
	Drain     *health.DrainChecker
	API       *api.Server
	Telemetry *telemetry.Provider
	Manager   Manager
}

// Bootstrap builds every component described by cfg. Nothing listens until
// Manager.Start is called; the telemetry provider is flushed by a shutdown
// hook, or right away when a later step fails.
func Bootstrap(ctx context.Context, cfg config.AppConfig) (_ *Components, err error) {
	logger := xglog.WithComponent("daemon")

	tp, err := newTelemetryProvider(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    ServiceName,
		ServiceVersion: cfg.Version,
		ExporterType:   cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		SamplingRate:   cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		if shutdownErr := tp.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			logger.Warn().Err(shutdownErr).Msg("telemetry shutdown after failed bootstrap")
		}
	}()

	opts := []video.Option{video.WithObserver(metrics.VideoObserver{})}
	if cfg.Store.Seed {
		opts = append(opts, video.WithSeed())
	}
	store := video.NewStore(opts...)
	metrics.RecordStoreSize(store.Len())
	metrics.SetBuildInfo(cfg.Version)

	drain := health.NewDrainChecker()
	hm := health.NewManager(cfg.Version)
	hm.RegisterChecker(health.NewStoreChecker(store))
	hm.RegisterChecker(drain)

	srv, err := api.New(cfg, store, hm)
	if err != nil {
		return nil, fmt.Errorf("init api: %w", err)
	}

	deps := Deps{
		Logger:     logger,
		APIHandler: srv.Handler(),
		Drain:      drain,
	}
	if cfg.Metrics.Enabled && cfg.Metrics.ListenAddr != "" {
		deps.MetricsAddr = cfg.Metrics.ListenAddr
		deps.MetricsHandler = promhttp.Handler()
	}

	mgr, err := newManager(config.ParseServerConfig(cfg), deps)
	if err != nil {
		return nil, err
	}
	mgr.RegisterShutdownHook("telemetry", tp.Shutdown)

	logger.Info().
		Str(xglog.FieldEvent, "daemon.bootstrapped").
		Int("videos", store.Len()).
		Bool("telemetry", tp.Enabled()).
		Bool("testing_routes", cfg.Testing.Enabled).
		Msg("components initialised")

	return &Components{
		Store:     store,
		Health:    hm,
		Drain:     drain,
		API:       srv,
		Telemetry: tp,
		Manager:   mgr,
	}, nil
}
