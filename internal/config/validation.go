// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"strings"

	"github.com/ManuGH/videosvc/internal/validate"
)

var telemetryExporters = []string{"grpc", "http"}

// Validate checks the resolved configuration and reports every violation at
// once.
func Validate(cfg AppConfig) error {
	v := validate.New()

	if _, err := validate.ParseLogLevel(strings.ToLower(cfg.LogLevel)); err != nil {
		v.AddError("logLevel", validate.ErrInvalidLogLevel.Message, cfg.LogLevel)
	}

	v.ListenAddr("api.listenAddr", cfg.API.ListenAddr)
	v.Positive("api.maxBodyBytes", cfg.API.MaxBodyBytes)
	for _, origin := range cfg.API.CORSOrigins {
		v.NotEmpty("api.corsOrigins", strings.TrimSpace(origin))
	}
	if cfg.API.RateLimit.Enabled {
		v.Range("api.rateLimit.perMinute", cfg.API.RateLimit.PerMinute, 1, MaxRatePerMin)
	}

	if cfg.Metrics.Enabled && cfg.Metrics.ListenAddr != "" {
		v.ListenAddr("metrics.listenAddr", cfg.Metrics.ListenAddr)
		if cfg.Metrics.ListenAddr == cfg.API.ListenAddr {
			v.AddError("metrics.listenAddr", "must differ from api.listenAddr", cfg.Metrics.ListenAddr)
		}
	}

	if cfg.Telemetry.Enabled {
		v.OneOf("telemetry.exporter", cfg.Telemetry.Exporter, telemetryExporters)
		v.NotEmpty("telemetry.endpoint", cfg.Telemetry.Endpoint)
		v.Ratio("telemetry.samplingRate", cfg.Telemetry.SamplingRate)
	}

	if cfg.Server.ReadTimeout < 0 {
		v.AddError("server.readTimeout", "must not be negative", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout < 0 {
		v.AddError("server.writeTimeout", "must not be negative", cfg.Server.WriteTimeout)
	}
	if cfg.Server.IdleTimeout < 0 {
		v.AddError("server.idleTimeout", "must not be negative", cfg.Server.IdleTimeout)
	}
	v.NonNegative("server.maxHeaderBytes", cfg.Server.MaxHeaderBytes)

	return v.Err()
}
