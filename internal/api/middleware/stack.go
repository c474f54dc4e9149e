// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package middleware provides the ingress middleware stack of the API server.
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	xglog "github.com/ManuGH/videosvc/internal/log"
)

// StackConfig selects the optional stages of the ingress stack.
// RequestID and Recoverer are always installed.
type StackConfig struct {
	EnableCORS     bool
	AllowedOrigins []string

	EnableSecurityHeaders bool
	CSP                   string

	EnableMetrics  bool
	TracingService string // empty disables tracing
	EnableLogging  bool

	EnableRateLimit    bool
	RateLimitPerMinute int
}

// Stage is one named middleware of the stack.
type Stage struct {
	Name string
	Wrap func(http.Handler) http.Handler
}

// Stages returns the enabled stages, outermost first:
// request id, recover, cors, security headers, metrics, tracing, access log,
// rate limit. The request id wraps the recoverer so 500 bodies carry it.
func Stages(cfg StackConfig) []Stage {
	stages := []Stage{
		{Name: "request_id", Wrap: RequestID},
		{Name: "recover", Wrap: Recoverer},
	}
	add := func(on bool, name string, wrap func() func(http.Handler) http.Handler) {
		if on {
			stages = append(stages, Stage{Name: name, Wrap: wrap()})
		}
	}

	add(cfg.EnableCORS, "cors", func() func(http.Handler) http.Handler { return CORS(cfg.AllowedOrigins) })
	add(cfg.EnableSecurityHeaders, "security_headers", func() func(http.Handler) http.Handler { return SecurityHeaders(cfg.CSP) })
	add(cfg.EnableMetrics, "metrics", Metrics)
	add(cfg.TracingService != "", "tracing", func() func(http.Handler) http.Handler { return Tracing(cfg.TracingService) })
	// The access log sits inside tracing so its lines carry the trace id.
	add(cfg.EnableLogging, "access_log", xglog.Middleware)
	add(cfg.EnableRateLimit, "rate_limit", func() func(http.Handler) http.Handler { return APIRateLimit(cfg.RateLimitPerMinute) })
	return stages
}

// NewRouter returns a chi router with the stack for cfg installed.
func NewRouter(cfg StackConfig) *chi.Mux {
	r := chi.NewRouter()
	ApplyStack(r, cfg)
	return r
}

// ApplyStack installs the stages for cfg on r.
func ApplyStack(r chi.Router, cfg StackConfig) {
	for _, st := range Stages(cfg) {
		r.Use(st.Wrap)
	}
}
