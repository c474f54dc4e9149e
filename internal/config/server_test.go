// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseServerConfig_Defaults(t *testing.T) {
	got := ParseServerConfig(Defaults())

	assert.Equal(t, ServerConfig{
		ListenAddr:      ":8080",
		ReadTimeout:     60 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     120 * time.Second,
		MaxHeaderBytes:  1 << 20,
		ShutdownTimeout: 15 * time.Second,
	}, got)
}

func TestParseServerConfig_FileAndEnv(t *testing.T) {
	cfg := Defaults()
	cfg.API.ListenAddr = "127.0.0.1:9000"
	cfg.Server.ReadTimeout = 5 * time.Second
	cfg.Server.IdleTimeout = 0

	t.Setenv(EnvWriteTimeout, "45s")
	t.Setenv(EnvShutdownTimeout, "1s")

	got := ParseServerConfig(cfg)
	assert.Equal(t, "127.0.0.1:9000", got.ListenAddr)
	assert.Equal(t, 5*time.Second, got.ReadTimeout)
	assert.Equal(t, 45*time.Second, got.WriteTimeout)
	assert.Equal(t, 120*time.Second, got.IdleTimeout, "zero keeps the default")
	assert.Equal(t, 3*time.Second, got.ShutdownTimeout, "shutdown timeout has a floor")
}
