// Package api exposes the merge engine and the workbench handler over HTTP
// for a thin in-game plugin shim.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/udisondev/anvilmerge/internal/game/anvil"
	"github.com/udisondev/anvilmerge/internal/metrics"
	"github.com/udisondev/anvilmerge/internal/model"
	"github.com/udisondev/anvilmerge/internal/workbench"
)

// History lists audited merges. Nil when the database is disabled.
type History interface {
	Recent(ctx context.Context, player string, limit int) ([]model.MergeRecord, error)
}

// Pinger reports database health for /readyz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the router serves.
type Deps struct {
	Engine   *anvil.Engine
	Policy   anvil.Policy
	Handler  *workbench.Handler
	History  History
	Database Pinger
}

// Server wraps the HTTP server.
type Server struct {
	httpServer *http.Server
}

// NewServer creates a Server listening on addr.
func NewServer(addr string, readTimeout, writeTimeout time.Duration, deps Deps) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      NewRouter(deps),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
	}
}

// Start blocks serving HTTP until Shutdown. A clean shutdown returns nil.
func (s *Server) Start() error {
	slog.Info("http server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

type router struct {
	deps     Deps
	validate *validator.Validate
}

// NewRouter builds the chi router.
func NewRouter(deps Deps) http.Handler {
	rt := &router{deps: deps, validate: validator.New()}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestSize(1 << 16))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", rt.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/enchantments", rt.handleCatalog)
		r.Post("/merge", rt.handleMerge)

		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", rt.handleGetSession)
			r.Delete("/", rt.handleCloseSession)
			r.Post("/prepare", rt.handlePrepare)
		})

		r.Get("/players/{player}/merges", rt.handleHistory)
	})

	return r
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}

func (rt *router) handleReady(w http.ResponseWriter, r *http.Request) {
	if rt.deps.Database != nil {
		if err := rt.deps.Database.Ping(r.Context()); err != nil {
			slog.Warn("readiness check failed", "err", err)
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
