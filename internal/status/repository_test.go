package status

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/index-settings-sync/internal/settings"
	"github.com/stacklok/index-settings-sync/internal/sync/state"
	statemocks "github.com/stacklok/index-settings-sync/internal/sync/state/mocks"
)

func TestKeys(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "index-settings.user-data.products", Key("products"))
	assert.Equal(t, "index-settings.search-key.products", SearchKeyCacheKey("products"))
	assert.NotEqual(t, Key("search-key.products"), SearchKeyCacheKey("products"))
}

func TestUserDataRepository_FindMissing(t *testing.T) {
	t.Parallel()

	repo := NewUserDataRepository(state.NewMemoryStore())

	record, err := repo.Find(context.Background(), "products")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "products", record.Index)
	assert.True(t, record.SettingsHash.Empty())
	assert.False(t, record.Synced())
}

func TestUserDataRepository_SaveMerges(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := state.NewMemoryStore()
	repo := NewUserDataRepository(store)

	// a field written by another tool survives
	require.NoError(t, store.Set(ctx, Key("products"), []byte(`{"owner":"search-team"}`), 0))

	syncedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Save(ctx, "products", UserData{
		SettingsHash:  settings.Fingerprint("aaa"),
		LastSyncTime:  &syncedAt,
		LastDirection: DirectionDownload,
	}))

	// partial update keeps the other fields
	require.NoError(t, repo.Save(ctx, "products", UserData{SettingsHash: settings.Fingerprint("bbb")}))

	record, err := repo.Find(ctx, "products")
	require.NoError(t, err)
	assert.Equal(t, settings.Fingerprint("bbb"), record.SettingsHash)
	require.NotNil(t, record.LastSyncTime)
	assert.True(t, syncedAt.Equal(*record.LastSyncTime))
	assert.Equal(t, DirectionDownload, record.LastDirection)
	assert.True(t, record.Synced())

	raw, found, err := store.Get(ctx, Key("products"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Contains(t, string(raw), `"owner":"search-team"`)
}

func TestUserDataRepository_List(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := state.NewMemoryStore()
	repo := NewUserDataRepository(store)

	require.NoError(t, repo.Save(ctx, "products", UserData{SettingsHash: "p"}))
	require.NoError(t, repo.Save(ctx, "articles", UserData{SettingsHash: "a"}))
	require.NoError(t, repo.Save(ctx, "search-key.products", UserData{SettingsHash: "s"}))
	require.NoError(t, store.Set(ctx, SearchKeyCacheKey("products"), []byte("secured"), time.Hour))
	require.NoError(t, store.Set(ctx, "unrelated", []byte("x"), 0))

	records, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "articles", records[0].Index)
	assert.Equal(t, "products", records[1].Index)
	assert.Equal(t, "search-key.products", records[2].Index)
	assert.Equal(t, settings.Fingerprint("s"), records[2].SettingsHash)
}

func TestUserDataRepository_StoreErrors(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	store := statemocks.NewMockStore(ctrl)
	storeErr := errors.New("disk full")

	store.EXPECT().Get(gomock.Any(), Key("products")).Return(nil, false, nil)
	store.EXPECT().Set(gomock.Any(), Key("products"), gomock.Any(), time.Duration(0)).Return(storeErr)
	store.EXPECT().Get(gomock.Any(), Key("orders")).Return([]byte("{corrupt"), true, nil)

	repo := NewUserDataRepository(store)

	err := repo.Save(context.Background(), "products", UserData{SettingsHash: "x"})
	assert.ErrorIs(t, err, storeErr)

	_, err = repo.Find(context.Background(), "orders")
	require.Error(t, err)
}
