package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

const lockRetryDelay = 50 * time.Millisecond

// fileEntry is the on-disk form of a single value
type fileEntry struct {
	Value     string     `json:"value"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// fileState is the on-disk form of the whole store
type fileState struct {
	Entries map[string]fileEntry `json:"entries"`
}

type fileStore struct {
	path string
	lock *flock.Flock
	opts options

	// serializes goroutines of this process; the file lock covers other processes
	mu     sync.Mutex
	closed bool
}

// NewFileStore creates a store kept in a single JSON file. Read-modify-write
// cycles hold an exclusive lock on "<path>.lock" so several processes can
// share the file.
func NewFileStore(path string, opts ...Option) (Store, error) {
	if path == "" {
		return nil, fmt.Errorf("state file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return &fileStore{
		path: path,
		lock: flock.New(path + ".lock"),
		opts: newOptions(opts),
	}, nil
}

func (f *fileStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		value []byte
		found bool
	)
	err := f.withLock(ctx, false, func(st *fileState) (bool, error) {
		e, ok := st.Entries[key]
		if !ok || expired(e.ExpiresAt, f.opts.now()) {
			return false, nil
		}
		value, found = []byte(e.Value), true
		return false, nil
	})
	return value, found, err
}

func (f *fileStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return f.withLock(ctx, true, func(st *fileState) (bool, error) {
		now := f.opts.now()
		pruneExpired(st, now)
		st.Entries[key] = fileEntry{Value: string(value), ExpiresAt: expiry(now, ttl)}
		return true, nil
	})
}

func (f *fileStore) Delete(ctx context.Context, key string) error {
	return f.withLock(ctx, true, func(st *fileState) (bool, error) {
		if _, ok := st.Entries[key]; !ok {
			return false, nil
		}
		delete(st.Entries, key)
		return true, nil
	})
}

func (f *fileStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys := []string{}
	err := f.withLock(ctx, false, func(st *fileState) (bool, error) {
		now := f.opts.now()
		for k, e := range st.Entries {
			if strings.HasPrefix(k, prefix) && !expired(e.ExpiresAt, now) {
				keys = append(keys, k)
			}
		}
		return false, nil
	})
	sort.Strings(keys)
	return keys, err
}

func (f *fileStore) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return f.lock.Close()
}

// withLock loads the state under the file lock, applies fn and persists the
// state when fn reports a change. Readers take a shared lock.
func (f *fileStore) withLock(ctx context.Context, write bool, fn func(st *fileState) (bool, error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}

	var (
		locked bool
		err    error
	)
	if write {
		locked, err = f.lock.TryLockContext(ctx, lockRetryDelay)
	} else {
		locked, err = f.lock.TryRLockContext(ctx, lockRetryDelay)
	}
	if err != nil {
		return fmt.Errorf("failed to lock state file: %w", err)
	}
	if !locked {
		return fmt.Errorf("failed to lock state file %s", f.path)
	}
	defer func() {
		_ = f.lock.Unlock()
	}()

	st, err := f.load()
	if err != nil {
		return err
	}

	changed, err := fn(st)
	if err != nil || !changed {
		return err
	}
	return f.save(st)
}

func (f *fileStore) load() (*fileState, error) {
	st := &fileState{Entries: map[string]fileEntry{}}

	// #nosec G304 -- path comes from configuration
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return st, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}
	if len(data) == 0 {
		return st, nil
	}

	if err := json.Unmarshal(data, st); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state file %s: %w", f.path, err)
	}
	if st.Entries == nil {
		st.Entries = map[string]fileEntry{}
	}
	return st, nil
}

func (f *fileStore) save(st *fileState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	// Write to temporary file first for atomic operation
	tempPath := f.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary state file: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tempPath, f.path); err != nil {
		// Clean up temp file on error
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename state file: %w", err)
	}
	return nil
}

func pruneExpired(st *fileState, now time.Time) {
	for k, e := range st.Entries {
		if expired(e.ExpiresAt, now) {
			delete(st.Entries, k)
		}
	}
}
