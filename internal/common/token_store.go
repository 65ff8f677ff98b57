package common

import (
	"context"
	"time"

	"gabber/annotator/internal/constants"
)

// usedTokenFloor keeps a consumed marker around even for tokens that are
// already past their expiry
const usedTokenFloor = time.Minute

// TokenStore tracks revoked and consumed token ids
type TokenStore struct {
	keys KeyStore
}

func NewTokenStore(keys KeyStore) *TokenStore {
	return &TokenStore{keys: keys}
}

// Revoke blacklists a token id until it would have expired anyway
func (s *TokenStore) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return s.keys.Put(ctx, string(constants.KeyPrefixRevokedToken)+tokenID, ttl)
}

func (s *TokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return s.keys.Exists(ctx, string(constants.KeyPrefixRevokedToken)+tokenID)
}

// MarkUsed consumes a single-use token; false means it was already used
func (s *TokenStore) MarkUsed(ctx context.Context, tokenID string, until time.Time) (bool, error) {
	ttl := time.Until(until)
	if ttl < usedTokenFloor {
		ttl = usedTokenFloor
	}
	return s.keys.PutIfAbsent(ctx, string(constants.KeyPrefixUsedToken)+tokenID, ttl)
}
