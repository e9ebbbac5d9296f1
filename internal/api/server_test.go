// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/smartimage/internal/api"
	"github.com/taibuivan/smartimage/internal/core/asset"
	"github.com/taibuivan/smartimage/internal/core/imageview"
	"github.com/taibuivan/smartimage/internal/core/loader"
	"github.com/taibuivan/smartimage/internal/platform/config"
)

func newServer(t *testing.T, checks ...api.Check) http.Handler {
	t.Helper()

	var buffer bytes.Buffer
	require.NoError(t, png.Encode(&buffer, image.NewGray(image.Rect(0, 0, 1, 1))))
	catalog := asset.NewDirCatalog(fstest.MapFS{"dot.png": {Data: buffer.Bytes()}})

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	liveness, readiness := api.NewHealthHandlers(checks, logger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	server := api.NewServer(ctx, &config.Config{ServerPort: "0", Environment: "development"}, logger, nil, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Images: imageview.NewHandler(imageview.NewService(
			asset.NewResolver(catalog, nil),
			loader.New(nil, 0, time.Second, logger),
			[]string{"*"},
		)),
		Assets: asset.NewHandler(asset.NewService(nil, catalog, 0, logger), 0),
	})
	return server.Handler()
}

func do(handler http.Handler, method, target string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(method, target, nil))
	return recorder
}

/*
TestServer_Routes verifies that the public routes are mounted behind the middleware stack.
*/
func TestServer_Routes(t *testing.T) {
	handler := newServer(t)

	tests := []struct {
		name   string
		method string
		target string
		status int
	}{
		{"liveness", http.MethodGet, "/health", http.StatusOK},
		{"readiness without checks", http.MethodGet, "/ready", http.StatusOK},
		{"asset image", http.MethodGet, "/api/v1/images?url=asset-catalog://dot", http.StatusOK},
		{"no image", http.MethodGet, "/api/v1/images", http.StatusNoContent},
		{"asset listing", http.MethodGet, "/api/v1/assets", http.StatusOK},
		{"upload needs a token", http.MethodPut, "/api/v1/assets/dot", http.StatusUnauthorized},
		{"unknown route", http.MethodGet, "/api/v2/images", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := do(handler, tt.method, tt.target)
			assert.Equal(t, tt.status, recorder.Code)
			assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))
		})
	}
}

/*
TestServer_TokenWithoutVerifier verifies that a token is refused when no key is configured.
*/
func TestServer_TokenWithoutVerifier(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/api/v1/assets", nil)
	request.Header.Set("Authorization", "Bearer abc")

	recorder := httptest.NewRecorder()
	newServer(t).ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

/*
TestReadiness verifies that a failing dependency degrades readiness.
*/
func TestReadiness(t *testing.T) {
	healthy := api.Check{Name: "postgres", Probe: func(context.Context) error { return nil }}
	failing := api.Check{Name: "redis", Probe: func(context.Context) error { return errors.New("connection refused") }}

	recorder := do(newServer(t, healthy, failing), http.MethodGet, "/ready")

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"status":"degraded"`)
	assert.Contains(t, recorder.Body.String(), `"error":"connection refused"`)

	recorder = do(newServer(t, healthy), http.MethodGet, "/ready")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"status":"ready"`)
}
