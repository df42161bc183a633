// Package api provides the REST API server for index settings synchronization.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/stacklok/index-settings-sync/internal/api/common"
	v1 "github.com/stacklok/index-settings-sync/internal/api/v1"
	"github.com/stacklok/index-settings-sync/internal/keys"
	"github.com/stacklok/index-settings-sync/internal/logger"
	pkgsync "github.com/stacklok/index-settings-sync/internal/sync"
	"github.com/stacklok/index-settings-sync/internal/sync/coordinator"
	"github.com/stacklok/index-settings-sync/internal/versions"
)

// ServerOption configures the API server
type ServerOption func(*serverConfig)

// serverConfig holds the server configuration
type serverConfig struct {
	middlewares    []func(http.Handler) http.Handler
	keys           keys.APIKeysRepository
	coordinator    coordinator.Coordinator
	metricsPath    string
	metricsHandler http.Handler
}

// WithMiddlewares adds middleware to the server
func WithMiddlewares(mw ...func(http.Handler) http.Handler) ServerOption {
	return func(cfg *serverConfig) {
		cfg.middlewares = append(cfg.middlewares, mw...)
	}
}

// WithKeys enables the search-key endpoint
func WithKeys(repo keys.APIKeysRepository) ServerOption {
	return func(cfg *serverConfig) {
		cfg.keys = repo
	}
}

// WithCoordinator enables the drift endpoint
func WithCoordinator(c coordinator.Coordinator) ServerOption {
	return func(cfg *serverConfig) {
		cfg.coordinator = c
	}
}

// WithMetricsHandler serves h at path. A nil handler is ignored.
func WithMetricsHandler(path string, h http.Handler) ServerOption {
	return func(cfg *serverConfig) {
		cfg.metricsPath = path
		cfg.metricsHandler = h
	}
}

// NewServer creates and configures the HTTP router with the given synchronizer and options
func NewServer(synchronizer pkgsync.Synchronizer, opts ...ServerOption) *chi.Mux {
	cfg := &serverConfig{
		middlewares: []func(http.Handler) http.Handler{},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	r := chi.NewRouter()
	for _, mw := range cfg.middlewares {
		r.Use(mw)
	}

	r.Get("/health", healthHandler)
	r.Get("/version", versionHandler)

	if cfg.metricsHandler != nil && cfg.metricsPath != "" {
		r.Method(http.MethodGet, cfg.metricsPath, cfg.metricsHandler)
	}

	r.Mount("/v1", v1.Router(synchronizer, cfg.keys, cfg.coordinator))

	return r
}

// LoggingMiddleware logs HTTP requests
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		logger.Debugf("HTTP %s %s %d %s %s",
			r.Method,
			r.URL.Path,
			ww.Status(),
			time.Since(start),
			middleware.GetReqID(r.Context()),
		)
	})
}

// healthHandler handles GET /health
func healthHandler(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSONResponse(w, HealthResponse{Status: "healthy"}, http.StatusOK)
}

// versionHandler handles GET /version
func versionHandler(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSONResponse(w, versions.GetVersionInfo(), http.StatusOK)
}
