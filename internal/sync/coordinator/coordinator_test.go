package coordinator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/index-settings-sync/internal/config"
	"github.com/stacklok/index-settings-sync/internal/settings"
	syncmocks "github.com/stacklok/index-settings-sync/internal/sync/mocks"
)

func watchConfig(indices ...string) *config.Config {
	return &config.Config{Watch: &config.WatchConfig{Indices: indices, Interval: "1h"}}
}

func TestWithJitter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		interval time.Duration
	}{
		{name: "minutes", interval: 5 * time.Minute},
		{name: "seconds", interval: 10 * time.Second},
		{name: "tiny", interval: time.Nanosecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			for range 100 {
				got := withJitter(tt.interval)
				delta := time.Duration(float64(tt.interval) * maxJitterFraction)
				assert.GreaterOrEqual(t, got, tt.interval-delta)
				assert.LessOrEqual(t, got, tt.interval+delta)
			}
		})
	}
}

func TestCoordinator_New(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	c := New(syncmocks.NewMockSynchronizer(ctrl), watchConfig("products")).(*defaultCoordinator)

	assert.Equal(t, []string{"products"}, c.indices)
	assert.Equal(t, time.Hour, c.interval)

	c = New(syncmocks.NewMockSynchronizer(ctrl), &config.Config{}, WithInterval(time.Second)).(*defaultCoordinator)
	assert.Empty(t, c.indices)
	assert.Equal(t, time.Second, c.interval)
}

func TestCoordinator_Stop_BeforeStart(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	c := New(syncmocks.NewMockSynchronizer(ctrl), watchConfig())

	assert.NoError(t, c.Stop())
}

func TestCoordinator_Analyse(t *testing.T) {
	t.Parallel()

	analysedAt := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		result    *settings.Status
		err       error
		wantError string
	}{
		{
			name:   "in sync",
			result: &settings.Status{Index: "products", State: settings.StateInSync, LocalExists: true},
		},
		{
			name:   "diverged",
			result: &settings.Status{Index: "products", State: settings.StateDiverged, ChangedKeys: []string{"ranking"}},
		},
		{
			name:      "failure",
			err:       errors.New("remote unavailable"),
			wantError: "remote unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			synchronizer := syncmocks.NewMockSynchronizer(ctrl)
			synchronizer.EXPECT().Analyse(gomock.Any(), "products").Return(tt.result, tt.err)

			c := New(synchronizer, watchConfig("products"),
				WithClock(func() time.Time { return analysedAt })).(*defaultCoordinator)
			c.analyse(context.Background(), "products")

			snap, ok := c.Snapshot("products")
			require.True(t, ok)
			assert.Equal(t, "products", snap.Index)
			assert.Equal(t, tt.result, snap.Status)
			assert.Equal(t, tt.wantError, snap.Error)
			assert.Equal(t, analysedAt, snap.AnalysedAt)
		})
	}
}

func TestCoordinator_StartAndStop(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	synchronizer := syncmocks.NewMockSynchronizer(ctrl)

	analysed := make(chan string, 10)
	synchronizer.EXPECT().Analyse(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, index string) (*settings.Status, error) {
			analysed <- index
			return &settings.Status{Index: index, State: settings.StateInSync}, nil
		}).AnyTimes()

	c := New(synchronizer, watchConfig("orders", "products"))

	errCh := make(chan error, 1)
	go func() { errCh <- c.Start(context.Background()) }()

	assert.Equal(t, "orders", <-analysed)
	assert.Equal(t, "products", <-analysed)

	require.Eventually(t, func() bool { return len(c.Snapshots()) == 2 }, time.Second, 10*time.Millisecond)
	require.NoError(t, c.Stop())
	require.NoError(t, <-errCh)

	snaps := c.Snapshots()
	assert.Equal(t, "orders", snaps[0].Index)
	assert.Equal(t, "products", snaps[1].Index)
}

func TestCoordinator_IdleWithoutIndices(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	c := New(syncmocks.NewMockSynchronizer(ctrl), watchConfig())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- c.Start(ctx) }()

	cancel()
	require.NoError(t, <-errCh)
	assert.Empty(t, c.Snapshots())
}
