// Package cache provides the TTL key-value store consulted by the POI
// collector for geocode and search lookups. Backends degrade silently: a
// miss and a backend failure both mean "fetch fresh".
package cache

import (
	"context"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Store is a pluggable TTL cache. Implementations must never block a
// request on backend failure.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// GetJSON reads key and unmarshals it into dst. Corrupt entries are
// treated as misses.
func GetJSON(ctx context.Context, s Store, key string, dst interface{}) bool {
	raw, ok := s.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false
	}
	return true
}

// SetJSON marshals value and stores it under key. Marshal failures are
// dropped, the cache is best-effort.
func SetJSON(ctx context.Context, s Store, key string, value interface{}, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	s.Set(ctx, key, raw, ttl)
}

// MemoryStore is the in-process backend used by default and in tests.
type MemoryStore struct {
	inner *gocache.Cache
}

func NewMemoryStore(defaultTTL, cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{inner: gocache.New(defaultTTL, cleanupInterval)}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	v, found := m.inner.Get(key)
	if !found {
		return nil, false
	}
	raw, ok := v.([]byte)
	return raw, ok
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	m.inner.Set(key, value, ttl)
}

// NopStore disables caching entirely.
type NopStore struct{}

func (NopStore) Get(context.Context, string) ([]byte, bool) { return nil, false }

func (NopStore) Set(context.Context, string, []byte, time.Duration) {}
