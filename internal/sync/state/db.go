package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of *pgxpool.Pool used by the database store
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	getEntrySQL = `SELECT value FROM index_settings_kv
WHERE key = $1 AND (expires_at IS NULL OR expires_at > $2)`

	upsertEntrySQL = `INSERT INTO index_settings_kv (key, value, expires_at, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (key) DO UPDATE
SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at, updated_at = EXCLUDED.updated_at`

	deleteEntrySQL = `DELETE FROM index_settings_kv WHERE key = $1`

	listKeysSQL = `SELECT COALESCE(array_agg(key ORDER BY key), '{}'::text[]) FROM index_settings_kv
WHERE starts_with(key, $1) AND (expires_at IS NULL OR expires_at > $2)`
)

type dbStore struct {
	db   Querier
	opts options
}

// NewDBStore creates a store backed by the index_settings_kv table. The
// table is created by the embedded migrations in the database package. The
// pool is owned by the caller.
func NewDBStore(db Querier, opts ...Option) Store {
	return &dbStore{
		db:   db,
		opts: newOptions(opts),
	}
}

func (d *dbStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := d.db.QueryRow(ctx, getEntrySQL, key, d.opts.now().UTC()).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return value, true, nil
}

func (d *dbStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	now := d.opts.now().UTC()
	if _, err := d.db.Exec(ctx, upsertEntrySQL, key, value, expiry(now, ttl), now); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

func (d *dbStore) Delete(ctx context.Context, key string) error {
	if _, err := d.db.Exec(ctx, deleteEntrySQL, key); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

func (d *dbStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	if err := d.db.QueryRow(ctx, listKeysSQL, prefix, d.opts.now().UTC()).Scan(&keys); err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	if keys == nil {
		keys = []string{}
	}
	return keys, nil
}

func (*dbStore) Close() error {
	return nil
}
