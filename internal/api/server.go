// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires the chi router, the middleware chain and the handlers
into a runnable [http.Server].

Routes:

  - GET  /health                   liveness
  - GET  /ready                    readiness of the configured backends
  - GET  /api/v1/images?url=       smart URL image delivery
  - GET  /api/v1/images/resolve    smart URL classification
  - GET  /api/v1/assets            catalog listing
  - PUT  /api/v1/assets/{name}     upload (admin)
  - DELETE /api/v1/assets/{name}   removal (admin)
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/smartimage/internal/core/asset"
	"github.com/taibuivan/smartimage/internal/core/imageview"
	"github.com/taibuivan/smartimage/internal/platform/config"
	"github.com/taibuivan/smartimage/internal/platform/constants"
	"github.com/taibuivan/smartimage/internal/platform/middleware"
)

// Server wraps the chi router and the [http.Server].
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// Handlers groups the HTTP handler sets mounted by [NewServer].
type Handlers struct {
	// Liveness answers /health while the process runs.
	Liveness http.HandlerFunc

	// Readiness answers /ready with the state of each backend.
	Readiness http.HandlerFunc

	// Images serves smart URLs.
	Images *imageview.Handler

	// Assets manages the catalog.
	Assets *asset.Handler
}

/*
NewServer builds the router with the full middleware chain.

Parameters:
  - ctx: context.Context (stops background middleware work on cancel)
  - cfg: *config.Config
  - log: *slog.Logger
  - verifier: middleware.TokenVerifier (nil disables token authentication)
  - handlers: Handlers
*/
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, handlers Handlers) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogger(log))
	router.Use(middleware.PanicRecovery())
	router.Use(middleware.NewRateLimiter(ctx, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst).Handler)
	router.Use(middleware.CORS(cfg))
	router.Use(chimw.CleanPath)
	router.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	router.Use(middleware.Authenticate(verifier))

	router.Get("/health", handlers.Liveness)
	router.Get("/ready", handlers.Readiness)

	router.Route("/api/v1", func(api chi.Router) {
		api.Mount("/images", handlers.Images.Routes())
		api.Mount("/assets", handlers.Assets.Routes())
	})

	return &Server{
		router: router,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           router,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks until the server is closed or fails.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
