// Package keys derives secured search-only API keys scoped to one index.
package keys

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/stacklok/index-settings-sync/internal/logger"
	"github.com/stacklok/index-settings-sync/internal/searchapi"
	"github.com/stacklok/index-settings-sync/internal/status"
	"github.com/stacklok/index-settings-sync/internal/sync/state"
)

const (
	// KeyValidity is how long a secured key is accepted by the search service
	KeyValidity = 25 * time.Hour

	// DefaultCacheTTL is how long a secured key is reused before a new one is derived
	DefaultCacheTTL = 24 * time.Hour

	descriptionSuffix = "::searchKey"
)

//go:generate mockgen -destination=mocks/mock_api_keys_repository.go -package=mocks -source=keys.go APIKeysRepository

// APIKeysRepository hands out secured search keys for front-end use
type APIKeysRepository interface {
	// SearchKey returns a search-only key restricted to index. Keys are
	// cached and reused until the cache entry expires.
	SearchKey(ctx context.Context, index string) (string, error)
}

type apiKeysRepository struct {
	client  searchapi.Client
	cache   state.Store
	appName string
	ttl     time.Duration
	now     func() time.Time
}

// Option configures an APIKeysRepository
type Option func(*apiKeysRepository)

// WithCacheTTL overrides DefaultCacheTTL. The TTL is capped at KeyValidity so
// a cached key never outlives its validUntil restriction.
func WithCacheTTL(ttl time.Duration) Option {
	return func(r *apiKeysRepository) {
		if ttl > 0 {
			r.ttl = min(ttl, KeyValidity)
		}
	}
}

// WithClock overrides the clock used for key validity
func WithClock(now func() time.Time) Option {
	return func(r *apiKeysRepository) {
		r.now = now
	}
}

// NewAPIKeysRepository creates a repository caching derived keys in cache
func NewAPIKeysRepository(client searchapi.Client, cache state.Store, appName string, opts ...Option) APIKeysRepository {
	r := &apiKeysRepository{
		client:  client,
		cache:   cache,
		appName: appName,
		ttl:     DefaultCacheTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Description returns the description identifying the parent search key of an app
func Description(appName string) string {
	return appName + descriptionSuffix
}

func (r *apiKeysRepository) SearchKey(ctx context.Context, index string) (string, error) {
	cacheKey := status.SearchKeyCacheKey(index)

	cached, found, err := r.cache.Get(ctx, cacheKey)
	if err != nil {
		return "", fmt.Errorf("failed to read cached search key of %s: %w", index, err)
	}
	if found {
		return string(cached), nil
	}

	parent, err := r.parentKey(ctx)
	if err != nil {
		return "", err
	}

	secured := SecuredKey(parent, index, r.now().Add(KeyValidity))
	if err := r.cache.Set(ctx, cacheKey, []byte(secured), r.ttl); err != nil {
		return "", fmt.Errorf("failed to cache search key of %s: %w", index, err)
	}

	logger.Debugf("Derived secured search key for index %s", index)
	return secured, nil
}

// parentKey returns the app's search-only key, creating it when missing.
// When several keys carry the description the last one listed wins.
func (r *apiKeysRepository) parentKey(ctx context.Context) (string, error) {
	description := Description(r.appName)

	keys, err := r.client.ListAPIKeys(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list API keys: %w", err)
	}

	var parent string
	for _, k := range keys {
		if k.Description == description {
			parent = k.Value
		}
	}
	if parent != "" {
		return parent, nil
	}

	parent, err = r.client.AddAPIKey(ctx, searchapi.APIKey{
		Description: description,
		ACL:         []string{"search"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create search API key: %w", err)
	}
	logger.Infof("Created search API key %q", description)
	return parent, nil
}

// Restrictions returns the URL-encoded restrictions embedded in a secured key
func Restrictions(index string, validUntil time.Time) string {
	return url.Values{
		"restrictIndices": {index},
		"validUntil":      {strconv.FormatInt(validUntil.Unix(), 10)},
	}.Encode()
}

// SecuredKey derives a key restricted to index and expiring at validUntil:
// base64(hex(HMAC-SHA256(parent, restrictions)) + restrictions)
func SecuredKey(parent, index string, validUntil time.Time) string {
	restrictions := Restrictions(index, validUntil)

	mac := hmac.New(sha256.New, []byte(parent))
	mac.Write([]byte(restrictions))

	content := hex.EncodeToString(mac.Sum(nil)) + restrictions
	return base64.StdEncoding.EncodeToString([]byte(content))
}
