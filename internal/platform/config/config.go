// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Optional backends are switched on by their settings: an empty DATABASE_URL
disables the PostgreSQL catalog, an empty REDIS_URL disables the image cache
and an empty JWT_PUBLIC_KEY_PATH disables authenticated (admin) routes.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the smartimage server and CLI.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Bundled asset catalog (read-only directory)
	AssetDir string `env:"ASSET_DIR" envDefault:"./assets"`

	// Relational Database (PostgreSQL) for the managed catalog
	DatabaseURL string `env:"DATABASE_URL"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis) for loaded images
	RedisURL      string        `env:"REDIS_URL"`
	ImageCacheTTL time.Duration `env:"IMAGE_CACHE_TTL" envDefault:"24h"`

	// FetchTimeout bounds a single provider load, delay included.
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT" envDefault:"60s"`

	// RedirectAllowedHosts lists the hosts remote smart URLs may redirect to.
	// "*" allows any host; "example.com" also covers its subdomains.
	RedirectAllowedHosts []string `env:"REDIRECT_ALLOWED_HOSTS" envDefault:"*" envSeparator:","`

	// MaxUploadBytes caps images stored through the API.
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" envDefault:"16777216"`

	// Keys for admin token verification (server) and signing (CLI)
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH"`

	// Cross-Origin Resource Sharing
	AllowedOriginSuffix string `env:"ALLOWED_ORIGIN_SUFFIX"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.FetchTimeout <= 0 {
		return nil, fmt.Errorf("config: FETCH_TIMEOUT must be positive")
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// OriginSuffix returns the domain suffix allowed by CORS outside development.
func (c *Config) OriginSuffix() string {
	return c.AllowedOriginSuffix
}

// HasDatabase reports whether the PostgreSQL catalog is configured.
func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}

// HasCache reports whether the Redis image cache is configured.
func (c *Config) HasCache() bool {
	return c.RedisURL != ""
}
