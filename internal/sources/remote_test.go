package sources_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/index-settings-sync/internal/httpclient"
	"github.com/stacklok/index-settings-sync/internal/searchapi"
	searchmocks "github.com/stacklok/index-settings-sync/internal/searchapi/mocks"
	"github.com/stacklok/index-settings-sync/internal/settings"
	"github.com/stacklok/index-settings-sync/internal/sources"
)

func TestRemoteSettingsRepository_Find(t *testing.T) {
	t.Parallel()

	live := settings.FromMap(map[string]any{"searchableAttributes": []any{"title"}})

	tests := []struct {
		name        string
		clientErr   error
		checkErr    func(t *testing.T, err error)
		expectFound bool
	}{
		{
			name:        "live settings",
			expectFound: true,
		},
		{
			name:      "missing index",
			clientErr: httpclient.NewHTTPError(http.StatusNotFound, "https://x/1/indexes/products/settings", "404 Not Found"),
			checkErr: func(t *testing.T, err error) {
				t.Helper()
				assert.ErrorIs(t, err, sources.ErrIndexNotFound)
				var nf *sources.NotFoundError
				require.ErrorAs(t, err, &nf)
				assert.Equal(t, "products", nf.Index)
			},
		},
		{
			name:      "service fault",
			clientErr: httpclient.NewHTTPError(http.StatusServiceUnavailable, "https://x", "503 Service Unavailable"),
			checkErr: func(t *testing.T, err error) {
				t.Helper()
				var unavailable *sources.RemoteUnavailableError
				require.ErrorAs(t, err, &unavailable)
				assert.Equal(t, "find", unavailable.Op)
				assert.NotErrorIs(t, err, sources.ErrIndexNotFound)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			client := searchmocks.NewMockClient(ctrl)
			client.EXPECT().GetSettings(gomock.Any(), "products").Return(live, tt.clientErr)

			repo := sources.NewRemoteSettingsRepository(client, sources.RemoteConfig{AppName: "shop"})
			s, err := repo.Find(context.Background(), "products")
			if tt.expectFound {
				require.NoError(t, err)
				assert.True(t, settings.Equal(live, s))
				return
			}
			tt.checkErr(t, err)
		})
	}
}

func TestRemoteSettingsRepository_Save(t *testing.T) {
	t.Parallel()

	s := settings.FromMap(map[string]any{"hitsPerPage": 50})

	t.Run("asynchronous returns once accepted", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		client := searchmocks.NewMockClient(ctrl)
		client.EXPECT().SetSettings(gomock.Any(), "products", s).Return(searchapi.TaskID(3), nil)

		repo := sources.NewRemoteSettingsRepository(client, sources.RemoteConfig{})
		require.NoError(t, repo.Save(context.Background(), "products", s))
	})

	t.Run("synchronous waits for the task", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		client := searchmocks.NewMockClient(ctrl)
		gomock.InOrder(
			client.EXPECT().SetSettings(gomock.Any(), "products", s).Return(searchapi.TaskID(3), nil),
			client.EXPECT().WaitForTask(gomock.Any(), "products", searchapi.TaskID(3)).Return(nil),
		)

		repo := sources.NewRemoteSettingsRepository(client, sources.RemoteConfig{Synchronous: true})
		require.NoError(t, repo.Save(context.Background(), "products", s))
	})

	t.Run("wait failure is reported", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		client := searchmocks.NewMockClient(ctrl)
		client.EXPECT().SetSettings(gomock.Any(), "products", s).Return(searchapi.TaskID(3), nil)
		client.EXPECT().WaitForTask(gomock.Any(), "products", searchapi.TaskID(3)).Return(context.Canceled)

		repo := sources.NewRemoteSettingsRepository(client, sources.RemoteConfig{Synchronous: true})
		err := repo.Save(context.Background(), "products", s)
		var unavailable *sources.RemoteUnavailableError
		require.ErrorAs(t, err, &unavailable)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("rejected push", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		client := searchmocks.NewMockClient(ctrl)
		client.EXPECT().SetSettings(gomock.Any(), "products", s).Return(searchapi.TaskID(0), errors.New("connection reset"))

		repo := sources.NewRemoteSettingsRepository(client, sources.RemoteConfig{Synchronous: true})
		err := repo.Save(context.Background(), "products", s)
		var unavailable *sources.RemoteUnavailableError
		require.ErrorAs(t, err, &unavailable)
		assert.Equal(t, "save", unavailable.Op)
	})
}

func TestRemoteSettingsRepository_Defaults(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	client := searchmocks.NewMockClient(ctrl)
	defaults := settings.FromMap(map[string]any{"hitsPerPage": 20, "ranking": []any{"typo"}})

	var tmpIndex string
	client.EXPECT().SetSettings(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, index string, s settings.Settings) (searchapi.TaskID, error) {
			tmpIndex = index
			assert.Equal(t, 0, s.Len())
			return searchapi.TaskID(11), nil
		})
	client.EXPECT().WaitForTask(gomock.Any(), gomock.Any(), searchapi.TaskID(11)).Return(nil)
	client.EXPECT().GetSettings(gomock.Any(), gomock.Any()).Return(defaults, nil)
	client.EXPECT().DeleteIndex(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, index string) (searchapi.TaskID, error) {
			assert.Equal(t, tmpIndex, index)
			return searchapi.TaskID(12), nil
		})

	repo := sources.NewRemoteSettingsRepository(client, sources.RemoteConfig{AppName: "My Shop"})

	first, err := repo.Defaults(context.Background())
	require.NoError(t, err)
	assert.True(t, settings.Equal(defaults, first))
	assert.True(t, strings.HasPrefix(tmpIndex, "my-shop-defaults-"), tmpIndex)

	// memoized: no further remote calls
	first.Set("hitsPerPage", 99)
	second, err := repo.Defaults(context.Background())
	require.NoError(t, err)
	assert.True(t, settings.Equal(defaults, second), "callers must not be able to mutate the cached defaults")
}

func TestRemoteSettingsRepository_Defaults_DeletesTemporaryIndexOnFailure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	client := searchmocks.NewMockClient(ctrl)

	client.EXPECT().SetSettings(gomock.Any(), gomock.Any(), gomock.Any()).Return(searchapi.TaskID(1), nil)
	client.EXPECT().WaitForTask(gomock.Any(), gomock.Any(), searchapi.TaskID(1)).Return(nil)
	client.EXPECT().GetSettings(gomock.Any(), gomock.Any()).Return(settings.Settings{}, errors.New("timeout"))
	client.EXPECT().DeleteIndex(gomock.Any(), gomock.Any()).Return(searchapi.TaskID(2), nil)

	repo := sources.NewRemoteSettingsRepository(client, sources.RemoteConfig{AppName: "shop"})
	_, err := repo.Defaults(context.Background())
	var unavailable *sources.RemoteUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, "defaults", unavailable.Op)
}

func TestTemporaryIndexName(t *testing.T) {
	t.Parallel()

	a := sources.TemporaryIndexName("shop")
	b := sources.TemporaryIndexName("shop")
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "shop-defaults-"))
	assert.True(t, strings.HasPrefix(sources.TemporaryIndexName(""), "index-settings-defaults-"))
}
