package common

import (
	"context"
	"fmt"
	"time"

	"gabber/annotator/internal/logging"

	"github.com/redis/go-redis/v9"
)

// RedisKeyStore shares markers between replicas
type RedisKeyStore struct {
	client *redis.Client
}

var _ KeyStore = (*RedisKeyStore)(nil)

// NewRedisKeyStore connects and pings once. A failed ping is returned with
// the store so callers can decide whether to run degraded.
func NewRedisKeyStore(addr, password string) (*RedisKeyStore, error) {
	logging.Info("Initializing Redis client", "addr", addr)

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})
	store := &RedisKeyStore{client: client}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return store, fmt.Errorf("redis ping %s: %w", addr, err)
	}

	logging.Info("Successfully connected to Redis")
	return store, nil
}

// Client exposes the connection for health checks
func (s *RedisKeyStore) Client() *redis.Client {
	return s.client
}

func (s *RedisKeyStore) Put(ctx context.Context, key string, ttl time.Duration) error {
	return s.client.Set(ctx, key, 1, ttl).Err()
}

// PutIfAbsent uses SET NX so concurrent replicas agree on a single winner
func (s *RedisKeyStore) PutIfAbsent(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, key, 1, ttl).Result()
}

func (s *RedisKeyStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisKeyStore) Close() error {
	return s.client.Close()
}
