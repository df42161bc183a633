// Package app provides application lifecycle management for the
// synchronization API server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/stacklok/index-settings-sync/internal/config"
	"github.com/stacklok/index-settings-sync/internal/logger"
	"github.com/stacklok/index-settings-sync/internal/sync/coordinator"
)

// SyncApp encapsulates all components needed to run the API server and the
// drift coordinator, with graceful shutdown
type SyncApp struct {
	config      *config.Config
	components  *Components
	coordinator coordinator.Coordinator
	httpServer  *http.Server

	// Lifecycle management
	ctx        context.Context
	cancelFunc context.CancelFunc
}

// Start starts the drift coordinator in the background and serves HTTP.
// It blocks until the HTTP server stops or encounters an error.
func (app *SyncApp) Start() error {
	listener, err := net.Listen("tcp", app.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", app.httpServer.Addr, err)
	}
	return app.Serve(listener)
}

// Serve is Start on an existing listener
func (app *SyncApp) Serve(listener net.Listener) error {
	go func() {
		if err := app.coordinator.Start(app.ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Errorf("Drift coordinator failed: %v", err)
		}
	}()

	logger.Infof("Server listening on %s", listener.Addr())
	if err := app.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

// Stop gracefully stops the application with the given timeout.
// It stops the drift coordinator and then shuts down the HTTP server.
func (app *SyncApp) Stop(timeout time.Duration) error {
	logger.Infof("Shutting down server...")

	if err := app.coordinator.Stop(); err != nil {
		logger.Errorf("Failed to stop drift coordinator: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := app.httpServer.Shutdown(shutdownCtx)

	if app.cancelFunc != nil {
		app.cancelFunc()
	}

	if err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Infof("Server shutdown complete")
	return nil
}

// GetConfig returns the application configuration
func (app *SyncApp) GetConfig() *config.Config {
	return app.config
}

// GetHTTPServer returns the HTTP server
func (app *SyncApp) GetHTTPServer() *http.Server {
	return app.httpServer
}

// GetComponents returns the wired components
func (app *SyncApp) GetComponents() *Components {
	return app.components
}
