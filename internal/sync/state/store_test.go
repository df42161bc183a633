package state

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/index-settings-sync/internal/config"
)

// fakeClock is a manually advanced time source
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type storeFactory func(t *testing.T, clock *fakeClock) Store

func storeBackends() map[string]storeFactory {
	return map[string]storeFactory{
		"memory": func(t *testing.T, clock *fakeClock) Store {
			t.Helper()
			return NewMemoryStore(WithClock(clock.Now))
		},
		"file": func(t *testing.T, clock *fakeClock) Store {
			t.Helper()
			s, err := NewFileStore(filepath.Join(t.TempDir(), "nested", "state.json"), WithClock(clock.Now))
			require.NoError(t, err)
			return s
		},
		"embedded": func(t *testing.T, clock *fakeClock) Store {
			t.Helper()
			s, err := NewEmbeddedStore(filepath.Join(t.TempDir(), "pebble"), WithClock(clock.Now))
			require.NoError(t, err)
			return s
		},
	}
}

func TestStore_Contract(t *testing.T) {
	t.Parallel()

	for name, factory := range storeBackends() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			clock := newFakeClock()
			store := factory(t, clock)
			defer func() {
				require.NoError(t, store.Close())
			}()

			_, found, err := store.Get(ctx, "index-settings.user-data.products")
			require.NoError(t, err)
			assert.False(t, found, "absent keys are not an error")

			require.NoError(t, store.Set(ctx, "index-settings.user-data.products", []byte(`{"settingsHash":"abc"}`), 0))
			require.NoError(t, store.Set(ctx, "index-settings.user-data.orders", []byte(`{}`), 0))
			require.NoError(t, store.Set(ctx, "index-settings.search-key.products", []byte("secured"), time.Hour))
			require.NoError(t, store.Set(ctx, "other", []byte("x"), 0))

			value, found, err := store.Get(ctx, "index-settings.user-data.products")
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, `{"settingsHash":"abc"}`, string(value))

			keys, err := store.Keys(ctx, "index-settings.user-data.")
			require.NoError(t, err)
			assert.Equal(t, []string{
				"index-settings.user-data.orders",
				"index-settings.user-data.products",
			}, keys)

			// overwrite
			require.NoError(t, store.Set(ctx, "index-settings.user-data.products", []byte(`{"settingsHash":"def"}`), 0))
			value, _, err = store.Get(ctx, "index-settings.user-data.products")
			require.NoError(t, err)
			assert.Equal(t, `{"settingsHash":"def"}`, string(value))

			// expiry
			clock.Advance(59 * time.Minute)
			_, found, err = store.Get(ctx, "index-settings.search-key.products")
			require.NoError(t, err)
			assert.True(t, found)

			clock.Advance(time.Minute)
			_, found, err = store.Get(ctx, "index-settings.search-key.products")
			require.NoError(t, err)
			assert.False(t, found, "entries expire once their ttl elapsed")

			keys, err = store.Keys(ctx, "index-settings.search-key.")
			require.NoError(t, err)
			assert.Empty(t, keys)

			// delete
			require.NoError(t, store.Delete(ctx, "index-settings.user-data.orders"))
			require.NoError(t, store.Delete(ctx, "never-written"))
			_, found, err = store.Get(ctx, "index-settings.user-data.orders")
			require.NoError(t, err)
			assert.False(t, found)

			all, err := store.Keys(ctx, "")
			require.NoError(t, err)
			assert.Equal(t, []string{"index-settings.user-data.products", "other"}, all)
		})
	}
}

func TestFileStore_SharedBetweenInstances(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")

	first, err := NewFileStore(path)
	require.NoError(t, err)
	second, err := NewFileStore(path)
	require.NoError(t, err)
	defer func() {
		_ = first.Close()
		_ = second.Close()
	}()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, first.Set(ctx, "a."+string(rune('a'+i)), []byte("1"), 0))
		}(i)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, second.Set(ctx, "b."+string(rune('a'+i)), []byte("2"), 0))
		}(i)
	}
	wg.Wait()

	keys, err := first.Keys(ctx, "")
	require.NoError(t, err)
	assert.Len(t, keys, 20, "no write may be lost between instances")
}

func TestFileStore_CorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, writeFile(path, "{not json"))

	store, err := NewFileStore(path)
	require.NoError(t, err)

	_, _, err = store.Get(context.Background(), "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal state file")
}

func TestStore_ClosedStoreFails(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	require.NoError(t, store.Close())

	_, _, err := store.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, store.Set(context.Background(), "k", nil, 0), ErrClosed)
}

func TestPrefixUpperBound(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []byte("abd"), prefixUpperBound([]byte("abc")))
	assert.Equal(t, []byte{'a', 0x01}, prefixUpperBound([]byte{'a', 0x00}))
	assert.Equal(t, []byte("b"), prefixUpperBound([]byte{'a', 0xff}))
	assert.Nil(t, prefixUpperBound([]byte{0xff, 0xff}))
}

func TestNewStore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     *config.Config
		pool    Querier
		wantErr bool
		check   func(t *testing.T, s Store)
	}{
		{
			name: "file",
			cfg: &config.Config{Storage: &config.StorageConfig{
				Type: config.StorageTypeFile,
				File: &config.FileStorageConfig{Path: filepath.Join(t.TempDir(), "state.json")},
			}},
			check: func(t *testing.T, s Store) {
				t.Helper()
				assert.IsType(t, &fileStore{}, s)
			},
		},
		{
			name: "embedded",
			cfg: &config.Config{Storage: &config.StorageConfig{
				Type:     config.StorageTypeEmbedded,
				Embedded: &config.EmbeddedStorageConfig{Path: filepath.Join(t.TempDir(), "pebble")},
			}},
			check: func(t *testing.T, s Store) {
				t.Helper()
				assert.IsType(t, &embeddedStore{}, s)
			},
		},
		{
			name: "memory",
			cfg:  &config.Config{Storage: &config.StorageConfig{Type: config.StorageTypeMemory}},
			check: func(t *testing.T, s Store) {
				t.Helper()
				assert.IsType(t, &memoryStore{}, s)
			},
		},
		{
			name: "database",
			cfg:  &config.Config{Storage: &config.StorageConfig{Type: config.StorageTypeDatabase}},
			pool: &fakeQuerier{},
			check: func(t *testing.T, s Store) {
				t.Helper()
				assert.IsType(t, &dbStore{}, s)
			},
		},
		{
			name:    "database without pool",
			cfg:     &config.Config{Storage: &config.StorageConfig{Type: config.StorageTypeDatabase}},
			wantErr: true,
		},
		{
			name:    "unknown",
			cfg:     &config.Config{Storage: &config.StorageConfig{Type: "redis"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, err := NewStore(tt.cfg, tt.pool)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer func() {
				_ = s.Close()
			}()
			tt.check(t, s)
		})
	}
}
