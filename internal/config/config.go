// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package config loads the service configuration from defaults, an optional
// YAML file and VIDEOSVC_* environment variables, in increasing precedence.
package config

import "time"

// AppConfig is the fully resolved service configuration.
type AppConfig struct {
	Version  string `yaml:"-"`
	LogLevel string `yaml:"logLevel"`

	API       APIConfig           `yaml:"api"`
	Metrics   MetricsConfig       `yaml:"metrics"`
	Telemetry TelemetryConfig     `yaml:"telemetry"`
	Testing   TestingConfig       `yaml:"testing"`
	Store     StoreConfig         `yaml:"store"`
	Server    ServerRuntimeConfig `yaml:"server"`
}

// APIConfig configures the public HTTP API.
type APIConfig struct {
	ListenAddr   string          `yaml:"listenAddr"`
	MaxBodyBytes int64           `yaml:"maxBodyBytes"`
	CORSOrigins  []string        `yaml:"corsOrigins"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig configures per-IP request limiting.
type RateLimitConfig struct {
	Enabled   bool `yaml:"enabled"`
	PerMinute int  `yaml:"perMinute"`
}

// MetricsConfig configures the Prometheus endpoint. When ListenAddr is empty
// /metrics is served from the API router instead of a dedicated listener.
type MetricsConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ListenAddr string `yaml:"listenAddr"`
}

// TelemetryConfig configures OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"` // "grpc" or "http"
	Endpoint     string  `yaml:"endpoint"`
	SamplingRate float64 `yaml:"samplingRate"`
}

// TestingConfig toggles the test-support routes.
type TestingConfig struct {
	Enabled bool `yaml:"enabled"`
}

// StoreConfig configures the in-memory collection.
type StoreConfig struct {
	Seed bool `yaml:"seed"`
}

// ServerRuntimeConfig holds the http.Server timeouts as read from file.
type ServerRuntimeConfig struct {
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	IdleTimeout     time.Duration `yaml:"idleTimeout"`
	MaxHeaderBytes  int           `yaml:"maxHeaderBytes"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

const (
	DefaultListenAddr   = ":8080"
	DefaultMaxBodyBytes = 1 << 20
	DefaultRatePerMin   = 600
	MaxRatePerMin       = 1_000_000

	defaultLogLevel        = "info"
	defaultTelemetryExport = "grpc"
	defaultTelemetryAddr   = "localhost:4317"
	defaultReadTimeout     = 60 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 120 * time.Second
	defaultMaxHeaderBytes  = 1 << 20
	defaultShutdownTimeout = 15 * time.Second
	minimumShutdownTimeout = 3 * time.Second
)

// Defaults returns the configuration used when neither file nor environment
// override a key.
func Defaults() AppConfig {
	return AppConfig{
		LogLevel: defaultLogLevel,
		API: APIConfig{
			ListenAddr:   DefaultListenAddr,
			MaxBodyBytes: DefaultMaxBodyBytes,
			CORSOrigins:  []string{},
			RateLimit: RateLimitConfig{
				Enabled:   true,
				PerMinute: DefaultRatePerMin,
			},
		},
		Metrics: MetricsConfig{Enabled: true},
		Telemetry: TelemetryConfig{
			Exporter:     defaultTelemetryExport,
			Endpoint:     defaultTelemetryAddr,
			SamplingRate: 1.0,
		},
		Testing: TestingConfig{Enabled: true},
		Server: ServerRuntimeConfig{
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			IdleTimeout:     defaultIdleTimeout,
			MaxHeaderBytes:  defaultMaxHeaderBytes,
			ShutdownTimeout: defaultShutdownTimeout,
		},
	}
}
