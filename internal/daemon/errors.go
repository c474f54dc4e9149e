// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package daemon

import "errors"

// Wiring errors, returned before anything listens.
var (
	ErrMissingLogger         = errors.New("daemon: logger is required")
	ErrMissingAPIHandler     = errors.New("daemon: API handler is required")
	ErrMissingMetricsHandler = errors.New("daemon: metrics listen address set without a metrics handler")
	ErrMissingManager        = errors.New("daemon: manager is required")
)

// Lifecycle errors.
var (
	ErrManagerNotStarted     = errors.New("daemon: manager not started")
	ErrManagerAlreadyStarted = errors.New("daemon: manager already started")
	// ErrServerStartFailed wraps listener failures such as a port in use.
	ErrServerStartFailed = errors.New("daemon: server failed to start")
)
