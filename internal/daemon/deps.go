// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package daemon

import (
	"net/http"

	"github.com/rs/zerolog"
)

// Drainer flips readiness off when shutdown begins.
type Drainer interface {
	Drain()
}

// Deps contains dependencies required by the daemon Manager.
type Deps struct {
	// Logger is the structured logger for the daemon
	Logger zerolog.Logger

	// APIHandler is the HTTP handler for the API server
	APIHandler http.Handler

	// MetricsAddr is the dedicated metrics listen address; empty disables
	// the metrics server.
	MetricsAddr string

	// MetricsHandler serves Prometheus metrics on MetricsAddr
	MetricsHandler http.Handler

	// Drain is told when shutdown starts (optional)
	Drain Drainer
}

// Validate checks if the dependencies are valid.
func (d *Deps) Validate() error {
	if d.Logger.GetLevel() == zerolog.Disabled {
		return ErrMissingLogger
	}
	if d.APIHandler == nil {
		return ErrMissingAPIHandler
	}
	if d.MetricsAddr != "" && d.MetricsHandler == nil {
		return ErrMissingMetricsHandler
	}
	return nil
}
