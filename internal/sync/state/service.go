// Package state contains the key-value stores that persist per-index sync
// metadata and cached secured search keys.
package state

import (
	"context"
	"errors"
	"time"
)

// ErrClosed is returned by stores used after Close
var ErrClosed = errors.New("store is closed")

// Store is a small key-value store with optional per-entry expiry.
//
//go:generate mockgen -destination=mocks/mock_store.go -package=mocks github.com/stacklok/index-settings-sync/internal/sync/state Store
type Store interface {
	// Get returns the value stored at key. The boolean is false when the key
	// is absent or its entry has expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value at key. A zero ttl never expires.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys lists the live keys starting with prefix, sorted
	Keys(ctx context.Context, prefix string) ([]string, error)
	// Close releases resources held by the store
	Close() error
}

// Option customizes a store
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the time source used for expiry, mostly for tests
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func newOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// expiry converts a ttl into an absolute deadline, nil meaning no expiry
func expiry(now time.Time, ttl time.Duration) *time.Time {
	if ttl <= 0 {
		return nil
	}
	t := now.Add(ttl).UTC()
	return &t
}

func expired(deadline *time.Time, now time.Time) bool {
	return deadline != nil && !now.Before(*deadline)
}
