package sources

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/stacklok/index-settings-sync/internal/settings"
)

// DefaultSettingsDir is used, relative to the working directory, when no
// settings directory is configured. It is never created.
const DefaultSettingsDir = "config"

// LocalConfig configures the local settings repository
type LocalConfig struct {
	// Dir is the settings directory, created with mode 0755 when missing
	Dir string
	// Separator is the word separator of index names, "_" when empty
	Separator string
}

// localSettingsRepository implements LocalSettingsRepository on the local filesystem
type localSettingsRepository struct {
	cfg      LocalConfig
	defaults DefaultsProvider
}

var _ LocalSettingsRepository = (*localSettingsRepository)(nil)

// NewLocalSettingsRepository creates a file-backed settings repository
func NewLocalSettingsRepository(cfg LocalConfig, defaults DefaultsProvider) LocalSettingsRepository {
	return &localSettingsRepository{
		cfg:      cfg,
		defaults: defaults,
	}
}

// Exists reports whether the artifact of an index is present
func (r *localSettingsRepository) Exists(index string) bool {
	path, err := r.Path(index)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Path resolves the artifact path of an index
func (r *localSettingsRepository) Path(index string) (string, error) {
	dir := r.cfg.Dir
	if dir == "" {
		dir = DefaultSettingsDir
	} else if err := os.MkdirAll(dir, 0755); err != nil {
		return "", &RepositoryError{Index: index, Path: dir, Err: fmt.Errorf("failed to create settings directory: %w", err)}
	}
	return filepath.Join(dir, ArtifactName(index, r.cfg.Separator)), nil
}

// Find returns the artifact content merged over the remote defaults
func (r *localSettingsRepository) Find(ctx context.Context, index string) (settings.Settings, error) {
	path, err := r.Path(index)
	if err != nil {
		return settings.Settings{}, err
	}

	override, err := r.read(index, path)
	if err != nil {
		return settings.Settings{}, err
	}

	defaults, err := r.defaults.Defaults(ctx)
	if err != nil {
		return settings.Settings{}, err
	}

	return settings.Merge(override, defaults), nil
}

func (*localSettingsRepository) read(index, path string) (settings.Settings, error) {
	//nolint:gosec // path is derived from the configured settings directory
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return settings.New(), nil
	}
	if err != nil {
		return settings.Settings{}, &RepositoryError{Index: index, Path: path, Err: err}
	}

	override, err := settings.Decode(data)
	if err != nil {
		return settings.Settings{}, &RepositoryError{Index: index, Path: path, Err: err}
	}
	return override, nil
}
