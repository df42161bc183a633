package state

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt *time.Time
}

type memoryStore struct {
	opts options

	mu      sync.RWMutex
	entries map[string]memoryEntry
	closed  bool
}

// NewMemoryStore creates a store that lives in process memory
func NewMemoryStore(opts ...Option) Store {
	return &memoryStore{
		opts:    newOptions(opts),
		entries: make(map[string]memoryEntry),
	}
}

func (m *memoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, false, ErrClosed
	}

	e, ok := m.entries[key]
	if !ok || expired(e.expiresAt, m.opts.now()) {
		return nil, false, nil
	}
	return append([]byte(nil), e.value...), true, nil
}

func (m *memoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}

	m.entries[key] = memoryEntry{
		value:     append([]byte(nil), value...),
		expiresAt: expiry(m.opts.now(), ttl),
	}
	return nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}

	delete(m.entries, key)
	return nil
}

func (m *memoryStore) Keys(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}

	now := m.opts.now()
	keys := []string{}
	for k, e := range m.entries {
		if strings.HasPrefix(k, prefix) && !expired(e.expiresAt, now) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *memoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
