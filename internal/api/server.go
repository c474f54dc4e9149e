// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package api serves the video collection over HTTP.
package api

import (
	"errors"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ManuGH/videosvc/internal/api/middleware"
	"github.com/ManuGH/videosvc/internal/config"
	"github.com/ManuGH/videosvc/internal/health"
	xglog "github.com/ManuGH/videosvc/internal/log"
	"github.com/ManuGH/videosvc/internal/video"
)

// TracingService names the server spans of the API router.
const TracingService = "videosvc-api"

var (
	// ErrMissingStore is returned by New without a video store.
	ErrMissingStore = errors.New("api: video store is required")
	// ErrMissingHealth is returned by New without a health manager.
	ErrMissingHealth = errors.New("api: health manager is required")
)

// Server holds the HTTP handlers of the video API.
type Server struct {
	cfg    config.AppConfig
	store  *video.Store
	health *health.Manager
	logger zerolog.Logger

	once    sync.Once
	handler http.Handler
}

// New creates an API server backed by store. The configuration is captured
// once; changing it requires a new Server.
func New(cfg config.AppConfig, store *video.Store, hm *health.Manager) (*Server, error) {
	if store == nil {
		return nil, ErrMissingStore
	}
	if hm == nil {
		return nil, ErrMissingHealth
	}
	if cfg.API.MaxBodyBytes <= 0 {
		cfg.API.MaxBodyBytes = config.DefaultMaxBodyBytes
	}
	return &Server{
		cfg:    cfg,
		store:  store,
		health: hm,
		logger: xglog.WithComponent("api"),
	}, nil
}

// Handler returns the routed handler with the ingress middleware applied.
// It is built on first use and shared afterwards.
func (s *Server) Handler() http.Handler {
	s.once.Do(func() {
		s.handler = s.routes()
	})
	return s.handler
}

func (s *Server) routes() http.Handler {
	r := s.newRouter()

	r.Get("/", s.handleRoot)
	r.Get("/healthz", s.health.ServeHealth)
	r.Get("/readyz", s.health.ServeReady)
	r.Get("/openapi.yaml", handleOpenAPI)

	// A dedicated listener serves /metrics when one is configured.
	if s.cfg.Metrics.Enabled && s.cfg.Metrics.ListenAddr == "" {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/videos", func(r chi.Router) {
		r.Get("/", s.handleListVideos)
		r.Post("/", s.handleCreateVideo)
		r.Get("/{id}", s.handleGetVideo)
		r.Put("/{id}", s.handleUpdateVideo)
		r.Delete("/{id}", s.handleDeleteVideo)
	})

	if s.cfg.Testing.Enabled {
		r.Delete("/testing/all-data", s.handleClearAllData)
	} else {
		s.logger.Info().Str(xglog.FieldEvent, "api.testing_disabled").Msg("testing routes are not mounted")
	}

	return r
}

func (s *Server) newRouter() chi.Router {
	tracing := ""
	if s.cfg.Telemetry.Enabled {
		tracing = TracingService
	}
	return middleware.NewRouter(middleware.StackConfig{
		EnableCORS:     len(s.cfg.API.CORSOrigins) > 0,
		AllowedOrigins: s.cfg.API.CORSOrigins,

		EnableSecurityHeaders: true,
		CSP:                   middleware.DefaultCSP,

		EnableMetrics:  s.cfg.Metrics.Enabled,
		TracingService: tracing,
		EnableLogging:  true,

		EnableRateLimit:    s.cfg.API.RateLimit.Enabled,
		RateLimitPerMinute: s.cfg.API.RateLimit.PerMinute,
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Hello world!"))
}
