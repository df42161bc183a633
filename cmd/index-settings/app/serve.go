package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	syncapp "github.com/stacklok/index-settings-sync/internal/app"
	"github.com/stacklok/index-settings-sync/internal/logger"
	"github.com/stacklok/index-settings-sync/internal/telemetry"
	"github.com/stacklok/index-settings-sync/internal/versions"
)

const defaultGracefulTimeout = 30 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the synchronization API server",
		Long: `Start an HTTP server exposing analysis, download, upload and search-key
endpoints. Indices listed under watch.indices are analysed periodically and
their drift is reported at /v1/drift and through the metrics endpoint.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts, opts.v.GetString("address"))
		},
	}
	cmd.Flags().String("address", ":8080", "Address to listen on")
	if err := opts.v.BindPFlag("address", cmd.Flags().Lookup("address")); err != nil {
		logger.Fatalf("Failed to bind address flag: %v", err)
	}
	return cmd
}

func runServe(ctx context.Context, opts *rootOptions, address string) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	telemetryCfg := cfg.Telemetry
	if telemetryCfg != nil && telemetryCfg.ServiceVersion == "" {
		withVersion := *telemetryCfg
		withVersion.ServiceVersion = versions.Version
		telemetryCfg = &withVersion
	}
	tel, err := telemetry.New(telemetry.WithTelemetryConfig(telemetryCfg))
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultGracefulTimeout)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Failed to shut down telemetry: %v", err)
		}
	}()

	app, err := syncapp.NewSyncApp(ctx,
		syncapp.WithConfig(cfg),
		syncapp.WithAddress(address),
		syncapp.WithTelemetry(tel),
	)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- app.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
	case <-ctx.Done():
	case err := <-serveErr:
		if stopErr := app.Stop(defaultGracefulTimeout); stopErr != nil {
			logger.Errorf("Failed to stop application: %v", stopErr)
		}
		return err
	}

	return app.Stop(defaultGracefulTimeout)
}
