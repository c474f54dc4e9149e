// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ManuGH/videosvc/internal/config"
	"github.com/ManuGH/videosvc/internal/health"
	"github.com/ManuGH/videosvc/internal/video"
)

var testNow = time.Date(2025, 3, 14, 9, 26, 53, 589_000_000, time.UTC)

type testEnv struct {
	srv     *Server
	store   *video.Store
	handler http.Handler
}

func newTestEnv(t *testing.T, mutate ...func(*config.AppConfig)) *testEnv {
	t.Helper()

	cfg := config.Defaults()
	cfg.Version = "test"
	for _, m := range mutate {
		m(&cfg)
	}

	store := video.NewStore(video.WithClock(func() time.Time { return testNow }))
	hm := health.NewManager(cfg.Version)
	hm.RegisterChecker(health.NewStoreChecker(store))

	srv, err := New(cfg, store, hm)
	require.NoError(t, err)
	return &testEnv{srv: srv, store: store, handler: srv.Handler()}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	return recordRequest(e, e.request(method, path, body))
}

func recordRequest(e *testEnv, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) request(method, path, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// mustCreate posts a valid payload and returns the created record.
func (e *testEnv) mustCreate(t *testing.T, body string) video.Video {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/videos", body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decodeVideo(t, rr)
}

func decodeVideo(t *testing.T, rr *httptest.ResponseRecorder) video.Video {
	t.Helper()
	var v video.Video
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	return v
}

func decodeErrors(t *testing.T, rr *httptest.ResponseRecorder) ErrorsResponse {
	t.Helper()
	var resp ErrorsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

const testVideoBody = `{"title":"Test video","author":"Test author","availableResolutions":["P240","P360"]}`

// validUpdate returns an update payload accepted by the validators.
func validUpdate() map[string]any {
	return map[string]any{
		"title":                "Super cool video",
		"author":               "Cool artist",
		"canBeDownloaded":      false,
		"minAgeRestriction":    16,
		"publicationDate":      testNow.Add(24 * time.Hour).Format(video.TimestampLayout),
		"availableResolutions": []string{"P720", "P1080", "P240"},
	}
}
