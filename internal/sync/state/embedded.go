package state

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
)

// embedded values are prefixed with the expiry as big-endian unix nanoseconds, zero meaning none
const expiryHeaderLen = 8

type embeddedStore struct {
	db   *pebble.DB
	opts options
}

// NewEmbeddedStore opens (or creates) a Pebble store in dir
func NewEmbeddedStore(dir string, opts ...Option) (Store, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded store at %s: %w", dir, err)
	}
	return &embeddedStore{
		db:   db,
		opts: newOptions(opts),
	}, nil
}

func (e *embeddedStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	raw, closer, err := e.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	defer func() {
		_ = closer.Close()
	}()

	value, deadline, err := decodeEmbedded(raw)
	if err != nil {
		return nil, false, fmt.Errorf("key %s: %w", key, err)
	}
	if expired(deadline, e.opts.now()) {
		return nil, false, nil
	}
	// raw is only valid until closer is closed
	return append([]byte(nil), value...), true, nil
}

func (e *embeddedStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if err := e.db.Set([]byte(key), encodeEmbedded(value, expiry(e.opts.now(), ttl)), pebble.Sync); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

func (e *embeddedStore) Delete(_ context.Context, key string) error {
	if err := e.db.Delete([]byte(key), pebble.Sync); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

func (e *embeddedStore) Keys(_ context.Context, prefix string) ([]string, error) {
	iterOpts := &pebble.IterOptions{}
	if prefix != "" {
		iterOpts.LowerBound = []byte(prefix)
		iterOpts.UpperBound = prefixUpperBound([]byte(prefix))
	}

	it, err := e.db.NewIter(iterOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer func() {
		_ = it.Close()
	}()

	now := e.opts.now()
	keys := []string{}
	for it.First(); it.Valid(); it.Next() {
		_, deadline, err := decodeEmbedded(it.Value())
		if err != nil {
			return nil, fmt.Errorf("key %s: %w", it.Key(), err)
		}
		if !expired(deadline, now) {
			keys = append(keys, string(it.Key()))
		}
	}
	return keys, it.Error()
}

func (e *embeddedStore) Close() error {
	return e.db.Close()
}

func encodeEmbedded(value []byte, deadline *time.Time) []byte {
	buf := make([]byte, expiryHeaderLen+len(value))
	if deadline != nil {
		binary.BigEndian.PutUint64(buf, uint64(deadline.UnixNano()))
	}
	copy(buf[expiryHeaderLen:], value)
	return buf
}

func decodeEmbedded(raw []byte) ([]byte, *time.Time, error) {
	if len(raw) < expiryHeaderLen {
		return nil, nil, fmt.Errorf("corrupt entry of %d bytes", len(raw))
	}
	var deadline *time.Time
	if nanos := binary.BigEndian.Uint64(raw); nanos != 0 {
		t := time.Unix(0, int64(nanos)).UTC()
		deadline = &t
	}
	return raw[expiryHeaderLen:], deadline, nil
}

// prefixUpperBound returns the smallest key greater than every key with the prefix
func prefixUpperBound(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
