// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	xglog "github.com/ManuGH/videosvc/internal/log"
)

// Environment keys understood by the loader.
const (
	EnvLogLevel          = "VIDEOSVC_LOG_LEVEL"
	EnvListen            = "VIDEOSVC_LISTEN"
	EnvMaxBodyBytes      = "VIDEOSVC_MAX_BODY_BYTES"
	EnvCORSOrigins       = "VIDEOSVC_CORS_ORIGINS"
	EnvRateLimitEnabled  = "VIDEOSVC_RATELIMIT_ENABLED"
	EnvRateLimitPerMin   = "VIDEOSVC_RATELIMIT_PER_MINUTE"
	EnvMetricsEnabled    = "VIDEOSVC_METRICS_ENABLED"
	EnvMetricsListen     = "VIDEOSVC_METRICS_LISTEN"
	EnvTelemetryEnabled  = "VIDEOSVC_TELEMETRY_ENABLED"
	EnvTelemetryExporter = "VIDEOSVC_TELEMETRY_EXPORTER"
	EnvTelemetryEndpoint = "VIDEOSVC_TELEMETRY_ENDPOINT"
	EnvTelemetrySampling = "VIDEOSVC_TELEMETRY_SAMPLING_RATE"
	EnvTestingEnabled    = "VIDEOSVC_TESTING_ENABLED"
	EnvStoreSeed         = "VIDEOSVC_STORE_SEED"
	EnvReadTimeout       = "VIDEOSVC_SERVER_READ_TIMEOUT"
	EnvWriteTimeout      = "VIDEOSVC_SERVER_WRITE_TIMEOUT"
	EnvIdleTimeout       = "VIDEOSVC_SERVER_IDLE_TIMEOUT"
	EnvMaxHeaderBytes    = "VIDEOSVC_SERVER_MAX_HEADER_BYTES"
	EnvShutdownTimeout   = "VIDEOSVC_SERVER_SHUTDOWN_TIMEOUT"
	EnvConfigPath        = "VIDEOSVC_CONFIG"
)

// parseEnv reads key from the environment and converts it with parse. Unset
// or empty variables and values that fail to parse yield def. Every decision
// is logged with its source.
func parseEnv[T any](key string, def T, parse func(string) (T, error)) T {
	logger := xglog.WithComponent("config")
	v, ok := os.LookupEnv(key)
	if !ok {
		logSource(logger.Debug(), key, def, "default").Msg("using default value")
		return def
	}
	if strings.TrimSpace(v) == "" {
		logSource(logger.Debug(), key, def, "default").Msg("using default value (environment variable is empty)")
		return def
	}
	parsed, err := parse(v)
	if err != nil {
		logger.Warn().
			Err(err).
			Str("key", key).
			Str("value", v).
			Interface("default", def).
			Msg("invalid environment variable, using default")
		return def
	}
	logSource(logger.Debug(), key, parsed, "environment").Msg("using environment variable")
	return parsed
}

func logSource(ev *zerolog.Event, key string, value any, source string) *zerolog.Event {
	return ev.Str("key", key).Interface("value", value).Str("source", source)
}

// ParseString reads a string from environment variable or returns default value.
func ParseString(key, defaultValue string) string {
	return parseEnv(key, defaultValue, func(s string) (string, error) { return s, nil })
}

// ParseInt reads an integer from environment variable or returns default value.
func ParseInt(key string, defaultValue int) int {
	return parseEnv(key, defaultValue, strconv.Atoi)
}

// ParseInt64 is ParseInt for 64-bit values such as byte limits.
func ParseInt64(key string, defaultValue int64) int64 {
	return parseEnv(key, defaultValue, func(s string) (int64, error) {
		return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	})
}

// ParseDuration reads a duration in Go duration format (e.g. "5s").
func ParseDuration(key string, defaultValue time.Duration) time.Duration {
	return parseEnv(key, defaultValue, time.ParseDuration)
}

// ParseFloat reads a float64 from environment variable or returns default value.
func ParseFloat(key string, defaultValue float64) float64 {
	return parseEnv(key, defaultValue, func(s string) (float64, error) {
		return strconv.ParseFloat(strings.TrimSpace(s), 64)
	})
}

// ParseBool reads a boolean from environment variable or returns default value.
// It accepts "true", "false", "1", "0", "yes", "no" (case-insensitive).
func ParseBool(key string, defaultValue bool) bool {
	return parseEnv(key, defaultValue, func(s string) (bool, error) {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "1", "yes":
			return true, nil
		case "false", "0", "no":
			return false, nil
		default:
			return false, fmt.Errorf("invalid boolean %q", s)
		}
	})
}

// ParseStringList reads a comma separated list. Blank items are dropped.
func ParseStringList(key string, defaultValue []string) []string {
	return parseEnv(key, defaultValue, func(s string) ([]string, error) {
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out, nil
	})
}
