// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api serves smart image URLs over HTTP.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Open the configured backends (asset directory, PostgreSQL + migrations, Redis).
//  4. Load the token verifier when a public key is configured.
//  5. Wire HTTP handlers.
//  6. Start HTTP server with graceful shutdown.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/smartimage/internal/api"
	"github.com/taibuivan/smartimage/internal/app"
	"github.com/taibuivan/smartimage/internal/core/asset"
	"github.com/taibuivan/smartimage/internal/core/imageview"
	"github.com/taibuivan/smartimage/internal/core/loader"
	"github.com/taibuivan/smartimage/internal/platform/config"
	"github.com/taibuivan/smartimage/internal/platform/constants"
	"github.com/taibuivan/smartimage/internal/platform/middleware"
	"github.com/taibuivan/smartimage/internal/platform/postgres"
	"github.com/taibuivan/smartimage/internal/platform/redis"
	"github.com/taibuivan/smartimage/internal/platform/sec"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := app.NewLogger(os.Stdout, false)
	slog.SetDefault(log)

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = app.NewLogger(os.Stdout, true)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("database", cfg.HasDatabase()),
		slog.Bool("cache", cfg.HasCache()),
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// ── 3. Backends ───────────────────────────────────────────────────────
	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	backends, err := app.Open(startupCtx, cfg, app.Options{Migrate: true}, log)
	startupCancel()
	must(log, err, "open backends")
	defer backends.Close()

	// ── 4. Token verification ─────────────────────────────────────────────
	var verifier middleware.TokenVerifier
	if cfg.JWTPubKeyPath != "" {
		tokenVerifier, err := sec.NewVerifierFromFile(cfg.JWTPubKeyPath, constants.AuthIssuer)
		must(log, err, "load token verifier")
		verifier = tokenVerifier
	} else {
		log.Warn("token_auth_disabled", slog.String("reason", "JWT_PUBLIC_KEY_PATH is empty"))
	}

	// ── 5. Wiring ─────────────────────────────────────────────────────────
	resolver := asset.NewResolver(backends.Lookup(), asset.NetworkSource)
	imageLoader := loader.New(backends.Cache(), cfg.ImageCacheTTL, cfg.FetchTimeout, log)

	assetService := asset.NewService(backends.Store(), backends.Bundled, cfg.MaxUploadBytes, log)

	liveness, readiness := api.NewHealthHandlers(healthChecks(backends), log)

	server := api.NewServer(rootCtx, cfg, log, verifier, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Images:    imageview.NewHandler(imageview.NewService(resolver, imageLoader, cfg.RedirectAllowedHosts)),
		Assets:    asset.NewHandler(assetService, cfg.MaxUploadBytes),
	})

	// ── 6. Serve until signalled ──────────────────────────────────────────
	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-rootCtx.Done():
		log.Info("shutdown_signal_received")
	case err := <-serverErr:
		log.Error("server_failed", slog.Any("error", err))
	}

	log.Info("server_shutting_down", slog.Duration("timeout", constants.ShutdownTimeout))
	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped")
}

// healthChecks returns a probe for each connected backend.
func healthChecks(backends *app.Backends) []api.Check {
	checks := make([]api.Check, 0, 2)

	if backends.Pool != nil {
		checks = append(checks, api.Check{Name: "postgres", Probe: func(ctx context.Context) error {
			return postgres.Ping(ctx, backends.Pool)
		}})
	}

	if backends.Redis != nil {
		checks = append(checks, api.Check{Name: "redis", Probe: func(ctx context.Context) error {
			return redis.Ping(ctx, backends.Redis)
		}})
	}

	return checks
}

// must logs a structured fatal error and exits. Startup wiring only.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
