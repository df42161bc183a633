package state

import (
	"fmt"

	"github.com/stacklok/index-settings-sync/internal/config"
)

// NewStore creates a Store based on the configured storage type.
//
// For database storage the pool parameter must not be nil; it stays owned by
// the caller. File storage defaults to a JSON file in the XDG data directory
// and embedded storage to a Pebble directory.
func NewStore(cfg *config.Config, pool Querier, opts ...Option) (Store, error) {
	switch cfg.GetStorageType() {
	case config.StorageTypeDatabase:
		if pool == nil {
			return nil, fmt.Errorf("database pool is required when storage type is database")
		}
		return NewDBStore(pool, opts...), nil
	case config.StorageTypeEmbedded:
		return NewEmbeddedStore(cfg.GetEmbeddedPath(), opts...)
	case config.StorageTypeMemory:
		return NewMemoryStore(opts...), nil
	case config.StorageTypeFile:
		path, err := cfg.GetFileStatePath()
		if err != nil {
			return nil, err
		}
		return NewFileStore(path, opts...)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", cfg.GetStorageType())
	}
}
