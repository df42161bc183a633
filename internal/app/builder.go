package app

import (
	"context"
	"fmt"
	"net/http"
	"net/netip"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/stacklok/index-settings-sync/internal/api"
	"github.com/stacklok/index-settings-sync/internal/config"
	"github.com/stacklok/index-settings-sync/internal/logger"
	"github.com/stacklok/index-settings-sync/internal/sync/coordinator"
	"github.com/stacklok/index-settings-sync/internal/telemetry"
)

const (
	defaultHTTPAddress = ":8080"
	// uploads wait for remote tasks in synchronous mode
	defaultRequestTimeout = 60 * time.Second
	defaultReadTimeout    = 10 * time.Second
	// must exceed the request timeout so the timeout middleware answers first
	defaultWriteTimeout = 65 * time.Second
	defaultIdleTimeout  = 60 * time.Second
)

// SyncAppOption is a function that configures the sync app builder
type SyncAppOption func(*syncAppConfig) error

// syncAppConfig collects the builder settings. Components may be injected
// for testing; otherwise they are built from the configuration.
type syncAppConfig struct {
	config *config.Config

	components  *Components
	coordinator coordinator.Coordinator
	telemetry   *telemetry.Telemetry

	// HTTP server options
	address        string
	middlewares    []func(http.Handler) http.Handler
	requestTimeout time.Duration
	readTimeout    time.Duration
	writeTimeout   time.Duration
	idleTimeout    time.Duration
}

func baseConfig(opts ...SyncAppOption) (*syncAppConfig, error) {
	cfg := &syncAppConfig{
		address:        defaultHTTPAddress,
		requestTimeout: defaultRequestTimeout,
		readTimeout:    defaultReadTimeout,
		writeTimeout:   defaultWriteTimeout,
		idleTimeout:    defaultIdleTimeout,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// NewSyncApp builds the API server, its components and the drift coordinator
func NewSyncApp(
	ctx context.Context,
	opts ...SyncAppOption,
) (*SyncApp, error) {
	cfg, err := baseConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build base configuration: %w", err)
	}
	if cfg.config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	ownsComponents := cfg.components == nil
	if ownsComponents {
		var componentOpts []ComponentOption
		if cfg.telemetry != nil {
			componentOpts = append(componentOpts, WithComponentTelemetry(cfg.telemetry))
		}
		cfg.components, err = BuildComponents(ctx, cfg.config, componentOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to build components: %w", err)
		}
	}

	if cfg.coordinator == nil {
		cfg.coordinator = coordinator.New(cfg.components.Synchronizer, cfg.config,
			coordinator.WithInterval(cfg.config.GetWatchInterval()))
	}

	httpServer, err := buildHTTPServer(cfg)
	if err != nil {
		if ownsComponents {
			cfg.components.Close()
		}
		return nil, fmt.Errorf("failed to build HTTP server: %w", err)
	}

	appCtx, cancel := context.WithCancel(ctx)
	cancelFunc := func() {
		if ownsComponents {
			cfg.components.Close()
		}
		cancel()
	}

	return &SyncApp{
		config:      cfg.config,
		components:  cfg.components,
		coordinator: cfg.coordinator,
		httpServer:  httpServer,
		ctx:         appCtx,
		cancelFunc:  cancelFunc,
	}, nil
}

// WithConfig sets the configuration
func WithConfig(c *config.Config) SyncAppOption {
	return func(cfg *syncAppConfig) error {
		cfg.config = c
		return nil
	}
}

// WithAddress sets the HTTP server address
func WithAddress(addr string) SyncAppOption {
	return func(cfg *syncAppConfig) error {
		if addr == "" {
			return fmt.Errorf("address cannot be empty")
		}

		host, port, found := strings.Cut(addr, ":")
		if !found || port == "" {
			return fmt.Errorf("address is not a valid port: %s", addr)
		}
		if host == "localhost" {
			host = "127.0.0.1"
		}
		if host == "" {
			host = "0.0.0.0"
		}

		if _, err := netip.ParseAddrPort(host + ":" + port); err != nil {
			return fmt.Errorf("address is not a valid port: %w", err)
		}

		cfg.address = addr
		return nil
	}
}

// WithMiddlewares sets custom HTTP middlewares, replacing the defaults
func WithMiddlewares(mw ...func(http.Handler) http.Handler) SyncAppOption {
	return func(cfg *syncAppConfig) error {
		cfg.middlewares = mw
		return nil
	}
}

// WithComponents injects prebuilt components. They stay owned by the caller.
func WithComponents(c *Components) SyncAppOption {
	return func(cfg *syncAppConfig) error {
		cfg.components = c
		return nil
	}
}

// WithCoordinator injects the drift coordinator (for testing)
func WithCoordinator(c coordinator.Coordinator) SyncAppOption {
	return func(cfg *syncAppConfig) error {
		cfg.coordinator = c
		return nil
	}
}

// WithTelemetry enables tracing, sync metrics, HTTP metrics and the metrics endpoint
func WithTelemetry(t *telemetry.Telemetry) SyncAppOption {
	return func(cfg *syncAppConfig) error {
		cfg.telemetry = t
		return nil
	}
}

// buildHTTPServer builds the HTTP server with router and middleware
func buildHTTPServer(b *syncAppConfig) (*http.Server, error) {
	logger.Debugf("Initializing HTTP server")

	if b.middlewares == nil {
		b.middlewares = []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.RealIP,
			middleware.Recoverer,
			middleware.Timeout(b.requestTimeout),
			api.LoggingMiddleware,
		}
	}

	serverOpts := []api.ServerOption{
		api.WithKeys(b.components.Keys),
		api.WithCoordinator(b.coordinator),
	}

	if b.telemetry != nil {
		httpMetrics, err := telemetry.NewHTTPMetrics(b.telemetry.MeterProvider())
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP metrics: %w", err)
		}
		// prepended so that every request is measured and traced
		instrumentation := []func(http.Handler) http.Handler{
			telemetry.TracingMiddleware(b.telemetry.TracerProvider()),
		}
		if httpMetrics != nil {
			instrumentation = append(instrumentation, httpMetrics.Middleware)
		}
		b.middlewares = append(instrumentation, b.middlewares...)
		serverOpts = append(serverOpts, api.WithMetricsHandler(b.telemetry.MetricsPath(), b.telemetry.MetricsHandler()))
	}

	serverOpts = append(serverOpts, api.WithMiddlewares(b.middlewares...))
	router := api.NewServer(b.components.Synchronizer, serverOpts...)

	server := &http.Server{
		Addr:         b.address,
		Handler:      router,
		ReadTimeout:  b.readTimeout,
		WriteTimeout: b.writeTimeout,
		IdleTimeout:  b.idleTimeout,
	}

	logger.Infof("HTTP server configured on %s", b.address)
	return server, nil
}
