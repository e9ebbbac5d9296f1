// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package app opens the backends named by the configuration and assembles the
catalog from them. The server and the assetctl CLI share it so both see the
same catalog for the same environment.

Catalog precedence: an asset stored in PostgreSQL shadows a bundled file of
the same name in ASSET_DIR.
*/
package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/smartimage/internal/core/asset"
	"github.com/taibuivan/smartimage/internal/core/loader"
	"github.com/taibuivan/smartimage/internal/platform/config"
	"github.com/taibuivan/smartimage/internal/platform/constants"
	"github.com/taibuivan/smartimage/internal/platform/migration"
	"github.com/taibuivan/smartimage/internal/platform/postgres"
	"github.com/taibuivan/smartimage/internal/platform/redis"
)

// NewLogger returns the JSON logger tagged with the application name.
func NewLogger(output io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewJSONHandler(output, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// Backends holds the optional connections and the catalogs built on them.
type Backends struct {
	Pool  *pgxpool.Pool
	Redis *goredis.Client

	// Stored is nil without DATABASE_URL.
	Stored *asset.PostgresCatalog
	// Bundled is nil when ASSET_DIR does not exist.
	Bundled *asset.DirCatalog

	log *slog.Logger
}

// Options selects what [Open] connects to.
type Options struct {
	// Migrate applies pending migrations after connecting to PostgreSQL.
	Migrate bool
	// SkipCache leaves Redis unconnected even when configured.
	SkipCache bool
}

/*
Open connects every configured backend.

Parameters:
  - ctx: context.Context (bounds connection attempts)
  - cfg: *config.Config
  - options: Options
  - log: *slog.Logger

Returns:
  - *Backends: Connected backends; call Close when done
  - error: First connection or migration failure
*/
func Open(ctx context.Context, cfg *config.Config, options Options, log *slog.Logger) (*Backends, error) {
	backends := &Backends{log: log}

	bundled, err := asset.OpenDirCatalog(cfg.AssetDir)
	switch {
	case err == nil:
		backends.Bundled = bundled
	case errors.Is(err, os.ErrNotExist):
		log.Warn("asset_dir_missing", slog.String("path", cfg.AssetDir))
	default:
		return nil, err
	}

	if cfg.HasDatabase() {
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.FetchTimeout, log)
		if err != nil {
			return nil, err
		}
		backends.Pool = pool
		backends.Stored = asset.NewPostgresCatalog(pool)

		if options.Migrate {
			files, dir := migration.Source(cfg.MigrationPath)
			if err := migration.RunUp(cfg.DatabaseURL, files, dir, log); err != nil {
				backends.Close()
				return nil, err
			}
		}
	}

	if cfg.HasCache() && !options.SkipCache {
		client, err := redis.NewClient(ctx, cfg.RedisURL, log)
		if err != nil {
			backends.Close()
			return nil, err
		}
		backends.Redis = client
	}

	return backends, nil
}

// Lookup returns the catalog chain: stored assets first, bundled files second.
func (backends *Backends) Lookup() asset.Lookup {
	chain := make(asset.Chain, 0, 2)
	if backends.Stored != nil {
		chain = append(chain, backends.Stored)
	}
	if backends.Bundled != nil {
		chain = append(chain, backends.Bundled)
	}
	return chain
}

// Store returns the writable catalog, or nil when none is configured.
func (backends *Backends) Store() asset.Store {
	if backends.Stored == nil {
		return nil
	}
	return backends.Stored
}

// Cache returns the image cache, or nil when Redis is not connected.
func (backends *Backends) Cache() loader.Cache {
	if backends.Redis == nil {
		return nil
	}
	return loader.NewRedisCache(backends.Redis)
}

// Close releases every open connection.
func (backends *Backends) Close() {
	if backends.Redis != nil {
		if err := backends.Redis.Close(); err != nil {
			backends.log.Error("redis_close_failed", slog.Any("error", err))
		}
	}
	if backends.Pool != nil {
		backends.Pool.Close()
	}
}
