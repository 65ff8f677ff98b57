package common

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryKeyStore is used when Redis is not configured. Markers are lost on
// restart and are not shared between replicas.
type MemoryKeyStore struct {
	cache *cache.Cache
}

var _ KeyStore = (*MemoryKeyStore)(nil)

// NewMemoryKeyStore sweeps expired markers every cleanupInterval
func NewMemoryKeyStore(cleanupInterval time.Duration) *MemoryKeyStore {
	return &MemoryKeyStore{cache: cache.New(cache.NoExpiration, cleanupInterval)}
}

func (s *MemoryKeyStore) Put(_ context.Context, key string, ttl time.Duration) error {
	s.cache.Set(key, struct{}{}, ttl)
	return nil
}

func (s *MemoryKeyStore) PutIfAbsent(_ context.Context, key string, ttl time.Duration) (bool, error) {
	return s.cache.Add(key, struct{}{}, ttl) == nil, nil
}

func (s *MemoryKeyStore) Exists(_ context.Context, key string) (bool, error) {
	_, found := s.cache.Get(key)
	return found, nil
}

func (s *MemoryKeyStore) Close() error {
	return nil
}
