// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package daemon

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/ManuGH/videosvc/internal/config"
	"github.com/ManuGH/videosvc/internal/log"
	"github.com/ManuGH/videosvc/internal/telemetry"
)

// stubManager blocks in Start until ctx is done or fails immediately.
type stubManager struct {
	startErr  error
	started   atomic.Bool
	shutdowns atomic.Int32
}

func (m *stubManager) Start(ctx context.Context) error {
	m.started.Store(true)
	if m.startErr != nil {
		return m.startErr
	}
	<-ctx.Done()
	return nil
}

func (m *stubManager) Shutdown(context.Context) error {
	m.shutdowns.Add(1)
	return nil
}

func (m *stubManager) RegisterShutdownHook(string, ShutdownHook) {}

func TestApp_RequiresManager(t *testing.T) {
	app := NewApp(log.WithComponent("test"), nil, nil)
	require.ErrorIs(t, app.Run(context.Background()), ErrMissingManager)
}

func TestApp_RunStopsWithContext(t *testing.T) {
	mgr := &stubManager{}
	app := NewApp(log.WithComponent("test"), mgr, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	require.Eventually(t, mgr.started.Load, time.Second, 10*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
	assert.Zero(t, mgr.shutdowns.Load())
}

func TestApp_ManagerFailureStopsWatcher(t *testing.T) {
	path := writeYAML(t, "logLevel: info\n")
	loader := config.NewLoader(path, "test")
	cfg, err := loader.Load()
	require.NoError(t, err)
	holder := config.NewConfigHolder(cfg, loader)

	boom := errors.New("boom")
	mgr := &stubManager{startErr: boom}
	app := NewApp(log.WithComponent("test"), mgr, holder)
	app.reloadSignal = nil

	select {
	case err := <-runAsync(context.Background(), app):
		require.ErrorIs(t, err, boom)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop after manager failure")
	}
	assert.Equal(t, int32(1), mgr.shutdowns.Load())
}

func TestBootstrap_WiresComponents(t *testing.T) {
	cfg := config.Defaults()
	cfg.Version = "test"
	cfg.Store.Seed = true

	comp, err := Bootstrap(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, comp.Store.Len())
	assert.False(t, comp.Telemetry.Enabled())

	h := comp.API.Handler()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/videos", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"id":1`)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	comp.Drain.Drain()
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "lifecycle")
}

// closeTrackingExporter records whether the tracer provider shut it down.
type closeTrackingExporter struct {
	closed atomic.Bool
}

func (e *closeTrackingExporter) ExportSpans(context.Context, []sdktrace.ReadOnlySpan) error {
	return nil
}

func (e *closeTrackingExporter) Shutdown(context.Context) error {
	e.closed.Store(true)
	return nil
}

func TestBootstrap_ManagerFailureShutsDownTelemetry(t *testing.T) {
	exporter := &closeTrackingExporter{}
	origProvider, origManager := newTelemetryProvider, newManager
	t.Cleanup(func() {
		newTelemetryProvider, newManager = origProvider, origManager
		_, _ = telemetry.NewProvider(context.Background(), telemetry.Config{})
	})
	newTelemetryProvider = func(ctx context.Context, cfg telemetry.Config) (*telemetry.Provider, error) {
		cfg.Enabled = true
		return telemetry.NewProviderWithExporter(ctx, cfg, exporter)
	}
	newManager = func(config.ServerConfig, Deps) (Manager, error) {
		return nil, errors.New("manager unavailable")
	}

	comp, err := Bootstrap(context.Background(), config.Defaults())
	require.Error(t, err)
	assert.Nil(t, comp)
	assert.Contains(t, err.Error(), "manager unavailable")
	assert.True(t, exporter.closed.Load(), "telemetry provider must be shut down")
}

func TestBootstrap_SuccessKeepsTelemetryOpen(t *testing.T) {
	exporter := &closeTrackingExporter{}
	origProvider := newTelemetryProvider
	t.Cleanup(func() {
		newTelemetryProvider = origProvider
		_, _ = telemetry.NewProvider(context.Background(), telemetry.Config{})
	})
	newTelemetryProvider = func(ctx context.Context, cfg telemetry.Config) (*telemetry.Provider, error) {
		cfg.Enabled = true
		return telemetry.NewProviderWithExporter(ctx, cfg, exporter)
	}

	comp, err := Bootstrap(context.Background(), config.Defaults())
	require.NoError(t, err)
	assert.False(t, exporter.closed.Load())

	require.NoError(t, comp.Telemetry.Shutdown(context.Background()))
	assert.True(t, exporter.closed.Load())
}

func TestBootstrap_ServesUntilCancelled(t *testing.T) {
	addr := reserveListenAddr(t)
	cfg := config.Defaults()
	cfg.Version = "test"
	cfg.API.ListenAddr = addr
	cfg.Server.ShutdownTimeout = 3 * time.Second

	comp, err := Bootstrap(context.Background(), cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(ctx, NewApp(log.WithComponent("test"), comp.Manager, nil))
	require.NoError(t, waitForListen(addr, 2*time.Second))

	code, body := get(t, "http://"+addr+"/")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Hello world!", body)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}

func runAsync(ctx context.Context, app *App) <-chan error {
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()
	return done
}

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}
