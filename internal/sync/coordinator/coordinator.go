package coordinator

import (
	"context"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/stacklok/index-settings-sync/internal/config"
	"github.com/stacklok/index-settings-sync/internal/logger"
	"github.com/stacklok/index-settings-sync/internal/settings"
	pkgsync "github.com/stacklok/index-settings-sync/internal/sync"
)

// maxJitterFraction bounds the random offset applied to every interval
const maxJitterFraction = 0.1

// Snapshot is the outcome of the latest analysis of one index
type Snapshot struct {
	Index      string           `json:"index"`
	Status     *settings.Status `json:"status,omitempty"`
	Error      string           `json:"error,omitempty"`
	AnalysedAt time.Time        `json:"analysedAt"`
}

// Coordinator periodically analyses the watched indices
//
//go:generate mockgen -destination=mocks/mock_coordinator.go -package=mocks -source=coordinator.go Coordinator
type Coordinator interface {
	// Start analyses every watched index, then keeps doing so at the
	// configured interval. Blocks until ctx is cancelled or Stop is called.
	Start(ctx context.Context) error

	// Stop ends the loop started by Start and waits for it to return
	Stop() error

	// Snapshots returns the latest snapshot of every watched index, sorted by index
	Snapshots() []Snapshot

	// Snapshot returns the latest snapshot of one index
	Snapshot(index string) (Snapshot, bool)
}

type defaultCoordinator struct {
	synchronizer pkgsync.Synchronizer
	indices      []string
	interval     time.Duration
	now          func() time.Time

	mu        sync.RWMutex
	snapshots map[string]Snapshot

	cancelFunc context.CancelFunc
	done       chan struct{}
}

// Option is a function that configures the coordinator
type Option func(*defaultCoordinator)

// WithInterval overrides the interval read from the configuration
func WithInterval(interval time.Duration) Option {
	return func(c *defaultCoordinator) {
		c.interval = interval
	}
}

// WithClock overrides the clock stamping snapshots
func WithClock(now func() time.Time) Option {
	return func(c *defaultCoordinator) {
		c.now = now
	}
}

// New creates a coordinator for the indices listed in cfg.Watch
func New(synchronizer pkgsync.Synchronizer, cfg *config.Config, opts ...Option) Coordinator {
	c := &defaultCoordinator{
		synchronizer: synchronizer,
		indices:      cfg.GetWatchedIndices(),
		interval:     cfg.GetWatchInterval(),
		now:          time.Now,
		snapshots:    map[string]Snapshot{},
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// withJitter spreads instances watching the same indices
func withJitter(interval time.Duration) time.Duration {
	maxJitter := int64(float64(interval) * maxJitterFraction)
	if maxJitter <= 0 {
		return interval
	}
	//nolint:gosec // G404: non-cryptographic randomness is enough for jitter
	return interval + time.Duration(rand.Int64N(2*maxJitter)-maxJitter)
}

func (c *defaultCoordinator) Start(ctx context.Context) error {
	coordCtx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.cancelFunc = cancel
	c.mu.Unlock()
	defer func() {
		cancel()
		close(c.done)
		logger.Infof("Drift coordinator shutting down")
	}()

	if len(c.indices) == 0 {
		logger.Infof("No watched indices, drift coordinator idle")
		<-coordCtx.Done()
		return nil
	}

	logger.Infof("Starting drift coordinator for %d indices every %s", len(c.indices), c.interval)

	c.analyseAll(coordCtx)

	ticker := time.NewTicker(withJitter(c.interval))
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.analyseAll(coordCtx)
			ticker.Reset(withJitter(c.interval))
		case <-coordCtx.Done():
			return nil
		}
	}
}

func (c *defaultCoordinator) Stop() error {
	c.mu.RLock()
	cancel := c.cancelFunc
	c.mu.RUnlock()

	if cancel != nil {
		logger.Infof("Stopping drift coordinator")
		cancel()
		<-c.done
	}
	return nil
}

func (c *defaultCoordinator) Snapshots() []Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Snapshot, 0, len(c.snapshots))
	for _, snap := range c.snapshots {
		out = append(out, snap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

func (c *defaultCoordinator) Snapshot(index string) (Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap, ok := c.snapshots[index]
	return snap, ok
}

// analyseAll analyses the watched indices one after the other
func (c *defaultCoordinator) analyseAll(ctx context.Context) {
	for _, index := range c.indices {
		if ctx.Err() != nil {
			return
		}
		c.analyse(ctx, index)
	}
}

func (c *defaultCoordinator) analyse(ctx context.Context, index string) {
	snap := Snapshot{Index: index}

	st, err := c.synchronizer.Analyse(ctx, index)
	snap.AnalysedAt = c.now().UTC()
	if err != nil {
		snap.Error = err.Error()
		logger.Errorf("Index '%s': drift analysis failed: %v", index, err)
	} else {
		snap.Status = st
		if st.InSync() {
			logger.Debugf("Index '%s': %s", index, st)
		} else {
			logger.Warnf("Index '%s': %s (%s)", index, st, st.State)
		}
	}

	c.mu.Lock()
	c.snapshots[index] = snap
	c.mu.Unlock()
}
