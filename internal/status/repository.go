package status

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/stacklok/index-settings-sync/internal/sync/state"
)

//go:generate mockgen -destination=mocks/mock_user_data_repository.go -package=mocks -source=repository.go UserDataRepository

const (
	// Namespace prefixes every key written by the user data repository
	Namespace = "index-settings.user-data"

	// SearchKeyNamespace prefixes cached secured search keys
	SearchKeyNamespace = "index-settings.search-key"
)

// Key returns the store key of an index's record
func Key(index string) string {
	return Namespace + "." + index
}

// SearchKeyCacheKey returns the store key of an index's cached search key
func SearchKeyCacheKey(index string) string {
	return SearchKeyNamespace + "." + index
}

// UserDataRepository persists per-index synchronization records
type UserDataRepository interface {
	// Save merges data into the record of the index, creating it when needed
	Save(ctx context.Context, index string, data UserData) error

	// Find returns the record of the index. A missing record yields an
	// empty SyncRecord, never an error.
	Find(ctx context.Context, index string) (*SyncRecord, error)

	// List returns the records of every index synced so far, sorted by name
	List(ctx context.Context) ([]*SyncRecord, error)
}

type userDataRepository struct {
	store state.Store
}

// NewUserDataRepository creates a repository on top of a key-value store
func NewUserDataRepository(store state.Store) UserDataRepository {
	return &userDataRepository{store: store}
}

// Save merges data into the stored record. Fields unknown to this version
// are preserved.
func (r *userDataRepository) Save(ctx context.Context, index string, data UserData) error {
	key := Key(index)

	record := map[string]any{}
	raw, found, err := r.store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to load user data of index %s: %w", index, err)
	}
	if found {
		if err := json.Unmarshal(raw, &record); err != nil {
			return fmt.Errorf("failed to unmarshal user data of index %s: %w", index, err)
		}
	}

	record["index"] = index
	for k, v := range data.fields() {
		record[k] = v
	}

	encoded, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal user data of index %s: %w", index, err)
	}
	if err := r.store.Set(ctx, key, encoded, 0); err != nil {
		return fmt.Errorf("failed to save user data of index %s: %w", index, err)
	}
	return nil
}

// Find loads the record of an index
func (r *userDataRepository) Find(ctx context.Context, index string) (*SyncRecord, error) {
	raw, found, err := r.store.Get(ctx, Key(index))
	if err != nil {
		return nil, fmt.Errorf("failed to load user data of index %s: %w", index, err)
	}
	if !found {
		return &SyncRecord{Index: index}, nil
	}

	var record SyncRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user data of index %s: %w", index, err)
	}
	record.Index = index
	return &record, nil
}

// List loads every stored record
func (r *userDataRepository) List(ctx context.Context) ([]*SyncRecord, error) {
	prefix := Namespace + "."
	keys, err := r.store.Keys(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list user data: %w", err)
	}

	records := make([]*SyncRecord, 0, len(keys))
	for _, key := range keys {
		record, err := r.Find(ctx, strings.TrimPrefix(key, prefix))
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Index < records[j].Index
	})
	return records, nil
}
