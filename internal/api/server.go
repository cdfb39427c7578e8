// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package api assembles the chi router, its middleware chain and the domain
// handlers into the process's single http.Server.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hallyulatino/api/internal/platform/apperr"
	"github.com/hallyulatino/api/internal/platform/config"
	"github.com/hallyulatino/api/internal/platform/constants"
	"github.com/hallyulatino/api/internal/platform/middleware"
	"github.com/hallyulatino/api/internal/platform/respond"
	"github.com/hallyulatino/api/internal/users/account"
	"github.com/hallyulatino/api/internal/users/auth"
)

// Server owns the router and the listening http.Server.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	logger     *slog.Logger
}

// Handlers is everything NewServer mounts.
type Handlers struct {
	Liveness  http.HandlerFunc // GET /health
	Readiness http.HandlerFunc // GET /ready

	// Metrics instruments every request; nil leaves requests uninstrumented.
	Metrics *middleware.HTTPMetrics
	// MetricsEndpoint is mounted on GET /metrics when non-nil.
	MetricsEndpoint http.Handler

	Auth    *auth.Handler    // /api/v1/auth
	Account *account.Handler // /api/v1/users and /api/v1/admin/users
}

/*
NewServer builds the router.

Description: Middleware runs outermost first: metrics, request id, access log,
panic recovery, the request deadline, CORS, then path cleaning. Bearer
authentication is mounted only on the protected route groups. Unknown routes
answer with the JSON error envelope.

Parameters:
  - cfg: *config.Config (port and CORS)
  - logger: *slog.Logger
  - verifier: middleware.TokenVerifier
  - accounts: middleware.AccountResolver
  - handlers: Handlers

Returns:
  - *Server
*/
func NewServer(cfg *config.Config, logger *slog.Logger, verifier middleware.TokenVerifier, accounts middleware.AccountResolver, handlers Handlers) *Server {
	router := chi.NewRouter()

	router.Use(
		handlers.Metrics.Handler,
		middleware.RequestID(),
		middleware.StructuredLogger(logger),
		middleware.PanicRecovery(),
		chimw.Timeout(constants.GlobalRequestTimeout),
		middleware.CORS(cfg),
		chimw.CleanPath,
	)

	router.NotFound(func(writer http.ResponseWriter, request *http.Request) {
		respond.Error(writer, request, apperr.NotFound("Route"))
	})

	router.Get("/health", handlers.Liveness)
	router.Get("/ready", handlers.Readiness)
	if handlers.MetricsEndpoint != nil {
		router.Method(http.MethodGet, "/metrics", handlers.MetricsEndpoint)
	}

	authenticate := middleware.Authenticate(verifier, accounts)

	router.Route("/api/v1", func(v1 chi.Router) {
		v1.Mount("/auth", handlers.Auth.Routes(authenticate))
		v1.Mount("/users", handlers.Account.Routes(authenticate))
		v1.Mount("/admin/users", handlers.Account.AdminRoutes(authenticate))
	})

	return &Server{
		router: router,
		logger: logger,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           router,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
			ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		},
	}
}

// Handler returns the router without the listener, for httptest.
func (server *Server) Handler() http.Handler {
	return server.router
}

// ListenAndServe blocks until the listener fails or Shutdown is called.
func (server *Server) ListenAndServe() error {
	server.logger.Info("server_starting", slog.String("addr", server.httpServer.Addr))
	return server.httpServer.ListenAndServe()
}

// Shutdown stops accepting connections and drains in-flight requests for up to timeout.
func (server *Server) Shutdown(timeout time.Duration) error {
	drainContext, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return server.httpServer.Shutdown(drainContext)
}
