package sources

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/stacklok/index-settings-sync/internal/httpclient"
	"github.com/stacklok/index-settings-sync/internal/searchapi"
	"github.com/stacklok/index-settings-sync/internal/settings"
)

// RemoteConfig configures the remote settings repository
type RemoteConfig struct {
	// AppName scopes the temporary index used to read defaults
	AppName string
	// Synchronous makes Save wait until the service has applied the change
	Synchronous bool
}

// remoteSettingsRepository implements RemoteSettingsRepository on top of the search API
type remoteSettingsRepository struct {
	client searchapi.Client
	cfg    RemoteConfig

	mu       sync.Mutex
	defaults *settings.Settings
}

var _ RemoteSettingsRepository = (*remoteSettingsRepository)(nil)

// NewRemoteSettingsRepository creates a repository backed by the search service
func NewRemoteSettingsRepository(client searchapi.Client, cfg RemoteConfig) RemoteSettingsRepository {
	return &remoteSettingsRepository{
		client: client,
		cfg:    cfg,
	}
}

// Find fetches the live settings of an index
func (r *remoteSettingsRepository) Find(ctx context.Context, index string) (settings.Settings, error) {
	s, err := r.client.GetSettings(ctx, index)
	if err != nil {
		return settings.Settings{}, remoteError(index, "find", err)
	}
	return s, nil
}

// Save replaces the live settings of an index. It returns once the service
// accepted the change, or once it is published in synchronous mode.
func (r *remoteSettingsRepository) Save(ctx context.Context, index string, s settings.Settings) error {
	task, err := r.client.SetSettings(ctx, index, s)
	if err != nil {
		return remoteError(index, "save", err)
	}
	if !r.cfg.Synchronous {
		return nil
	}
	if err := r.client.WaitForTask(ctx, index, task); err != nil {
		return remoteError(index, "save", err)
	}
	return nil
}

// Defaults returns the settings of a brand-new index. The first call creates
// a temporary index, reads its settings and deletes it; later calls reuse
// the result.
func (r *remoteSettingsRepository) Defaults(ctx context.Context) (settings.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.defaults != nil {
		return r.defaults.Clone(), nil
	}

	defaults, err := r.fetchDefaults(ctx)
	if err != nil {
		return settings.Settings{}, err
	}
	r.defaults = &defaults
	return defaults.Clone(), nil
}

func (r *remoteSettingsRepository) fetchDefaults(ctx context.Context) (s settings.Settings, err error) {
	index := TemporaryIndexName(r.cfg.AppName)

	task, err := r.client.SetSettings(ctx, index, settings.New())
	if err != nil {
		return settings.Settings{}, remoteError(index, "defaults", err)
	}

	defer func() {
		if _, delErr := r.client.DeleteIndex(ctx, index); delErr != nil && err == nil {
			err = remoteError(index, "defaults", fmt.Errorf("failed to delete temporary index: %w", delErr))
		}
	}()

	if err := r.client.WaitForTask(ctx, index, task); err != nil {
		return settings.Settings{}, remoteError(index, "defaults", err)
	}

	s, err = r.client.GetSettings(ctx, index)
	if err != nil {
		return settings.Settings{}, remoteError(index, "defaults", err)
	}
	return s, nil
}

// TemporaryIndexName returns a unique index name scoped to the application
func TemporaryIndexName(appName string) string {
	if appName == "" {
		appName = "index-settings"
	}
	return fmt.Sprintf("%s-defaults-%s", NormalizeName(appName, " "), uuid.NewString())
}

func remoteError(index, op string, err error) error {
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return err
	}
	if httpclient.IsNotFound(err) {
		return &NotFoundError{Index: index}
	}
	return &RemoteUnavailableError{Index: index, Op: op, Err: err}
}
