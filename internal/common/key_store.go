package common

import (
	"context"
	"time"
)

// KeyStore remembers short lived markers such as revoked token ids. Only
// presence and expiry matter; no value is kept.
type KeyStore interface {
	// Put records key until ttl elapses
	Put(ctx context.Context, key string, ttl time.Duration) error

	// PutIfAbsent records key only when it is not already present and
	// reports whether this call created it
	PutIfAbsent(ctx context.Context, key string, ttl time.Duration) (bool, error)

	Exists(ctx context.Context, key string) (bool, error)

	// Close releases the backend connection, if any
	Close() error
}
