// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package daemon

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ManuGH/videosvc/internal/config"
	"github.com/ManuGH/videosvc/internal/log"
)

func reserveListenAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve listen addr: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()
	return addr
}

func waitForListen(addr string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", addr, 50*time.Millisecond)
		if err == nil {
			_ = conn.Close()
			return nil
		}
		time.Sleep(10 * time.Millisecond)
	}
	return errors.New("listen timeout")
}

func testServerConfig(addr string) config.ServerConfig {
	return config.ServerConfig{
		ListenAddr:      addr,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    10 * time.Second,
		IdleTimeout:     120 * time.Second,
		MaxHeaderBytes:  1 << 20,
		ShutdownTimeout: 5 * time.Second,
	}
}

// get fetches url without keeping the connection alive, so no client
// goroutines outlive the call.
func get(t *testing.T, url string) (int, string) {
	t.Helper()
	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}, Timeout: 2 * time.Second}
	resp, err := client.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

type fakeDrainer struct{ drained atomic.Bool }

func (d *fakeDrainer) Drain() { d.drained.Store(true) }

func okHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, body)
	})
}

func TestNewManager_Deps(t *testing.T) {
	tests := []struct {
		name    string
		deps    Deps
		wantErr error
	}{
		{
			name: "valid",
			deps: Deps{Logger: log.WithComponent("test"), APIHandler: http.NotFoundHandler()},
		},
		{
			name:    "missing logger",
			deps:    Deps{Logger: zerolog.Nop(), APIHandler: http.NotFoundHandler()},
			wantErr: ErrMissingLogger,
		},
		{
			name:    "missing api handler",
			deps:    Deps{Logger: log.WithComponent("test")},
			wantErr: ErrMissingAPIHandler,
		},
		{
			name:    "metrics addr without handler",
			deps:    Deps{Logger: log.WithComponent("test"), APIHandler: http.NotFoundHandler(), MetricsAddr: ":9090"},
			wantErr: ErrMissingMetricsHandler,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr, err := NewManager(testServerConfig("127.0.0.1:0"), tt.deps)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, mgr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, mgr)
		})
	}
}

func TestManager_ServesAndShutsDown(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	apiAddr := reserveListenAddr(t)
	metricsAddr := reserveListenAddr(t)
	drainer := &fakeDrainer{}

	mgr, err := NewManager(testServerConfig(apiAddr), Deps{
		Logger:         log.WithComponent("test"),
		APIHandler:     okHandler("api"),
		MetricsAddr:    metricsAddr,
		MetricsHandler: okHandler("metrics"),
		Drain:          drainer,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- mgr.Start(ctx) }()

	require.NoError(t, waitForListen(apiAddr, 2*time.Second))
	require.NoError(t, waitForListen(metricsAddr, 2*time.Second))

	code, body := get(t, "http://"+apiAddr+"/")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "api", body)
	code, body = get(t, "http://"+metricsAddr+"/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "metrics", body)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("manager did not stop")
	}
	assert.True(t, drainer.drained.Load())

	_, err = net.DialTimeout("tcp", apiAddr, 100*time.Millisecond)
	assert.Error(t, err, "api listener must be closed")
}

func TestManager_ShutdownHooksRunLIFO(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	addr := reserveListenAddr(t)
	mgr, err := NewManager(testServerConfig(addr), Deps{
		Logger:     log.WithComponent("test"),
		APIHandler: http.NotFoundHandler(),
	})
	require.NoError(t, err)

	var (
		mu    sync.Mutex
		order []string
	)
	errHook := errors.New("hook failed")
	record := func(name string, ret error) ShutdownHook {
		return func(ctx context.Context) error {
			assert.NoError(t, ctx.Err())
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
			return ret
		}
	}
	mgr.RegisterShutdownHook("first", record("first", nil))
	mgr.RegisterShutdownHook("second", record("second", errHook))
	mgr.RegisterShutdownHook("third", record("third", nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- mgr.Start(ctx) }()
	require.NoError(t, waitForListen(addr, 2*time.Second))

	cancel()
	err = <-done
	require.ErrorIs(t, err, errHook)
	assert.Contains(t, err.Error(), "hook second")

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"third", "second", "first"}, order)

	// A second shutdown is a no-op.
	require.NoError(t, mgr.Shutdown(context.Background()))
}

func TestManager_ShutdownBeforeStart(t *testing.T) {
	mgr, err := NewManager(testServerConfig("127.0.0.1:0"), Deps{
		Logger:     log.WithComponent("test"),
		APIHandler: http.NotFoundHandler(),
	})
	require.NoError(t, err)
	require.ErrorIs(t, mgr.Shutdown(context.Background()), ErrManagerNotStarted)
}

func TestManager_StartTwice(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	addr := reserveListenAddr(t)
	mgr, err := NewManager(testServerConfig(addr), Deps{
		Logger:     log.WithComponent("test"),
		APIHandler: http.NotFoundHandler(),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- mgr.Start(ctx) }()
	require.NoError(t, waitForListen(addr, 2*time.Second))

	require.ErrorIs(t, mgr.Start(ctx), ErrManagerAlreadyStarted)

	cancel()
	require.NoError(t, <-done)
}

func TestManager_PortInUse(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = ln.Close() }()

	mgr, err := NewManager(testServerConfig(ln.Addr().String()), Deps{
		Logger:     log.WithComponent("test"),
		APIHandler: http.NotFoundHandler(),
	})
	require.NoError(t, err)

	select {
	case err := <-startAsync(context.Background(), mgr):
		require.ErrorIs(t, err, ErrServerStartFailed)
	case <-time.After(5 * time.Second):
		t.Fatal("manager did not report the bind failure")
	}
}

func startAsync(ctx context.Context, mgr Manager) <-chan error {
	done := make(chan error, 1)
	go func() { done <- mgr.Start(ctx) }()
	return done
}
