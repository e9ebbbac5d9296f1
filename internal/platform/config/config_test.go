// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/smartimage/internal/platform/config"
)

/*
TestLoad_Defaults verifies the defaults with optional backends disabled.
*/
func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 60*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 24*time.Hour, cfg.ImageCacheTTL)
	assert.False(t, cfg.HasDatabase())
	assert.False(t, cfg.HasCache())
	assert.Equal(t, []string{"*"}, cfg.RedirectAllowedHosts)
}

/*
TestLoad_Overrides verifies parsing of explicit settings.
*/
func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DATABASE_URL", "postgres://localhost/smartimage")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("ALLOWED_ORIGIN_SUFFIX", ".example.com")
	t.Setenv("REDIRECT_ALLOWED_HOSTS", "cdn.example.com,images.test")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.False(t, cfg.IsDevelopment())
	assert.True(t, cfg.HasDatabase())
	assert.True(t, cfg.HasCache())
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, ".example.com", cfg.OriginSuffix())
	assert.Equal(t, []string{"cdn.example.com", "images.test"}, cfg.RedirectAllowedHosts)
}

/*
TestLoad_Invalid verifies that bad values are rejected.
*/
func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unparsable timeout", "FETCH_TIMEOUT", "soon"},
		{"zero timeout", "FETCH_TIMEOUT", "0s"},
		{"bad upload cap", "MAX_UPLOAD_BYTES", "lots"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}
