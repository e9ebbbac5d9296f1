// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/smartimage/internal/platform/ctxutil"
	"github.com/taibuivan/smartimage/internal/platform/middleware"
	"github.com/taibuivan/smartimage/internal/platform/sec"
)

type fakeVerifier map[string]*sec.AuthClaims

func (verifier fakeVerifier) VerifyToken(token string) (*sec.AuthClaims, error) {
	if claims, ok := verifier[token]; ok {
		return claims, nil
	}
	return nil, errors.New("bad token")
}

type fakeConfig struct {
	dev    bool
	suffix string
}

func (cfg fakeConfig) IsDevelopment() bool  { return cfg.dev }
func (cfg fakeConfig) OriginSuffix() string { return cfg.suffix }

var okHandler = http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
	writer.WriteHeader(http.StatusOK)
})

/*
TestRequestID verifies generation and propagation of correlation IDs.
*/
func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, recorder.Header().Get("X-Request-ID"))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("X-Request-ID", "client-id")
	handler.ServeHTTP(httptest.NewRecorder(), request)
	assert.Equal(t, "client-id", seen)
}

/*
TestAuthorization covers Authenticate followed by RequireRole(admin).
*/
func TestAuthorization(t *testing.T) {
	verifier := fakeVerifier{
		"admin-token":  {UserID: "ops", Role: string(sec.RoleAdmin)},
		"viewer-token": {UserID: "bot", Role: string(sec.RoleViewer)},
	}

	tests := []struct {
		name     string
		verifier middleware.TokenVerifier
		header   string
		status   int
	}{
		{"anonymous", verifier, "", http.StatusUnauthorized},
		{"malformed header", verifier, "Token abc", http.StatusUnauthorized},
		{"invalid token", verifier, "Bearer nope", http.StatusUnauthorized},
		{"viewer", verifier, "Bearer viewer-token", http.StatusForbidden},
		{"admin", verifier, "Bearer admin-token", http.StatusOK},
		{"lowercase scheme", verifier, "bearer admin-token", http.StatusOK},
		{"auth disabled", nil, "Bearer admin-token", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := middleware.Authenticate(tt.verifier)(middleware.RequireRole(sec.RoleAdmin)(okHandler))

			request := httptest.NewRequest(http.MethodPut, "/api/v1/assets/logo", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.status, recorder.Code)
		})
	}
}

/*
TestAuthenticate_AnonymousPassesThrough verifies public routes keep working without a verifier.
*/
func TestAuthenticate_AnonymousPassesThrough(t *testing.T) {
	recorder := httptest.NewRecorder()
	middleware.Authenticate(nil)(okHandler).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
}

/*
TestCORS verifies origin allow-listing and pre-flight handling.
*/
func TestCORS(t *testing.T) {
	tests := []struct {
		name    string
		cfg     fakeConfig
		origin  string
		allowed bool
	}{
		{"development allows all", fakeConfig{dev: true}, "http://localhost:3000", true},
		{"suffix match", fakeConfig{suffix: ".example.com"}, "https://app.example.com", true},
		{"suffix mismatch", fakeConfig{suffix: ".example.com"}, "https://evil.test", false},
		{"no suffix configured", fakeConfig{}, "https://app.example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodOptions, "/api/v1/images", nil)
			request.Header.Set("Origin", tt.origin)
			recorder := httptest.NewRecorder()

			middleware.CORS(tt.cfg)(okHandler).ServeHTTP(recorder, request)

			assert.Equal(t, http.StatusNoContent, recorder.Code)
			if tt.allowed {
				assert.Equal(t, tt.origin, recorder.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

/*
TestRateLimiter verifies that a client is throttled once its burst is spent.
*/
func TestRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.NewRateLimiter(ctx, 1, 2).Handler(okHandler)

	serve := func(ip string) *httptest.ResponseRecorder {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("X-Real-IP", ip)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		return recorder
	}

	assert.Equal(t, http.StatusOK, serve("10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, serve("10.0.0.1").Code)

	limited := serve("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.NotEmpty(t, limited.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, serve("10.0.0.2").Code)
}

/*
TestPanicRecovery verifies that a panic is answered with a JSON 500.
*/
func TestPanicRecovery(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	handler := middleware.StructuredLogger(logger)(middleware.PanicRecovery()(http.HandlerFunc(
		func(http.ResponseWriter, *http.Request) { panic("boom") },
	)))

	recorder := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "INTERNAL_ERROR")
}

/*
TestRealIP verifies proxy header precedence.
*/
func TestRealIP(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", middleware.RealIP(request))

	request.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	assert.Equal(t, "203.0.113.5", middleware.RealIP(request))

	request.Header.Set("X-Real-IP", "198.51.100.7")
	assert.Equal(t, "198.51.100.7", middleware.RealIP(request))
}
