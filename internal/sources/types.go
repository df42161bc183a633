package sources

import (
	"context"

	"github.com/stacklok/index-settings-sync/internal/settings"
)

//go:generate mockgen -destination=mocks/mock_repositories.go -package=mocks -source=types.go LocalSettingsRepository,RemoteSettingsRepository,DefaultsProvider

// DefaultsProvider supplies the baseline settings of a brand-new index
type DefaultsProvider interface {
	// Defaults returns the settings the search service assumes when nothing is configured
	Defaults(ctx context.Context) (settings.Settings, error)
}

// LocalSettingsRepository reads settings from the versioned local artifacts
type LocalSettingsRepository interface {
	// Exists reports whether an artifact exists for the index
	Exists(index string) bool

	// Path resolves the artifact path of an index, creating the configured
	// settings directory when missing
	Path(index string) (string, error)

	// Find returns the artifact content merged over the remote defaults.
	// A missing artifact yields the defaults.
	Find(ctx context.Context, index string) (settings.Settings, error)
}

// RemoteSettingsRepository reads and replaces the live settings of an index
type RemoteSettingsRepository interface {
	DefaultsProvider

	// Find returns the live settings of the index
	Find(ctx context.Context, index string) (settings.Settings, error)

	// Save fully replaces the live settings of the index
	Save(ctx context.Context, index string, s settings.Settings) error
}
