package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stacklok/index-settings-sync/internal/config"
	"github.com/stacklok/index-settings-sync/internal/db"
	"github.com/stacklok/index-settings-sync/internal/keys"
	"github.com/stacklok/index-settings-sync/internal/logger"
	"github.com/stacklok/index-settings-sync/internal/searchapi"
	"github.com/stacklok/index-settings-sync/internal/sources"
	"github.com/stacklok/index-settings-sync/internal/status"
	pkgsync "github.com/stacklok/index-settings-sync/internal/sync"
	"github.com/stacklok/index-settings-sync/internal/sync/state"
	"github.com/stacklok/index-settings-sync/internal/telemetry"
)

// Components groups the wired services shared by the CLI commands and the
// API server
type Components struct {
	Config *config.Config

	// Client talks to the hosted search service
	Client searchapi.Client

	// Store persists sync records and cached search keys
	Store state.Store

	// Pool is the database pool, nil unless storage.type is database
	Pool *pgxpool.Pool

	Local        sources.LocalSettingsRepository
	Remote       sources.RemoteSettingsRepository
	UserData     status.UserDataRepository
	Synchronizer pkgsync.Synchronizer
	Keys         keys.APIKeysRepository
}

// ComponentOption customizes BuildComponents
type ComponentOption func(*componentConfig)

type componentConfig struct {
	client    searchapi.Client
	telemetry *telemetry.Telemetry
}

// WithSearchClient replaces the client built from the remote section
func WithSearchClient(client searchapi.Client) ComponentOption {
	return func(c *componentConfig) {
		c.client = client
	}
}

// WithComponentTelemetry traces and measures the synchronizer
func WithComponentTelemetry(t *telemetry.Telemetry) ComponentOption {
	return func(c *componentConfig) {
		c.telemetry = t
	}
}

// BuildComponents wires the search client, the metadata store and the
// repositories on top of cfg. The caller must Close the result.
func BuildComponents(ctx context.Context, cfg *config.Config, opts ...ComponentOption) (_ *Components, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	b := &componentConfig{}
	for _, opt := range opts {
		opt(b)
	}

	c := &Components{Config: cfg, Client: b.client}
	defer func() {
		if err != nil {
			c.Close()
		}
	}()

	if c.Client == nil {
		c.Client, err = newSearchClient(cfg)
		if err != nil {
			return nil, err
		}
	}

	var querier state.Querier
	if cfg.GetStorageType() == config.StorageTypeDatabase {
		c.Pool, err = db.NewPool(ctx, cfg.GetDatabaseConfig())
		if err != nil {
			return nil, err
		}
		querier = c.Pool
	}

	c.Store, err = state.NewStore(cfg, querier)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s metadata store: %w", cfg.GetStorageType(), err)
	}
	logger.Debugf("Metadata store ready (%s)", cfg.GetStorageType())

	c.Remote = sources.NewRemoteSettingsRepository(c.Client, sources.RemoteConfig{
		AppName:     cfg.AppName,
		Synchronous: cfg.Synchronous,
	})
	c.Local = sources.NewLocalSettingsRepository(sources.LocalConfig{
		Dir:       cfg.SettingsPath,
		Separator: cfg.GetNameSeparator(),
	}, c.Remote)
	c.UserData = status.NewUserDataRepository(c.Store)

	var syncOpts []pkgsync.Option
	if b.telemetry != nil {
		metrics, err := telemetry.NewSyncMetrics(b.telemetry.MeterProvider())
		if err != nil {
			return nil, fmt.Errorf("failed to create sync metrics: %w", err)
		}
		syncOpts = append(syncOpts,
			pkgsync.WithTracer(b.telemetry.Tracer(pkgsync.TracerName)),
			pkgsync.WithMetrics(metrics),
		)
	}

	c.Synchronizer = pkgsync.NewSynchronizer(c.Local, c.Remote, c.UserData, syncOpts...)
	c.Keys = keys.NewAPIKeysRepository(c.Client, c.Store, cfg.AppName, keys.WithCacheTTL(cfg.GetSearchKeyTTL()))

	return c, nil
}

func newSearchClient(cfg *config.Config) (searchapi.Client, error) {
	apiKey, err := cfg.Remote.GetAPIKey()
	if err != nil {
		return nil, err
	}
	client, err := searchapi.NewClient(searchapi.Config{
		ApplicationID: cfg.Remote.ApplicationID,
		APIKey:        apiKey,
		Host:          cfg.Remote.Host,
		Timeout:       cfg.Remote.GetTimeout(),
		PollInterval:  cfg.Remote.GetTaskPollInterval(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create search client: %w", err)
	}
	return client, nil
}

// Close releases the store and the database pool
func (c *Components) Close() {
	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			logger.Warnf("Failed to close metadata store: %v", err)
		}
	}
	if c.Pool != nil {
		c.Pool.Close()
	}
}
