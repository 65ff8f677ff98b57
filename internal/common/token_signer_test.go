package common

import (
	"context"
	"testing"
	"time"

	"gabber/annotator/internal/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSigner() *TokenSigner {
	return NewTokenSigner("test-secret", map[constants.TokenPurpose]string{
		constants.TokenPurposeConsent: "consent-salt",
	})
}

func TestTokenSigner_RoundTrip(t *testing.T) {
	signer := newTestSigner()

	token, err := signer.Sign(TokenClaims{
		Purpose:   constants.TokenPurposeConsent,
		UserID:    4,
		ProjectID: 2,
		SessionID: "abc-123",
		ConsentID: 9,
	}, time.Hour)
	require.NoError(t, err)

	claims, err := signer.Parse(constants.TokenPurposeConsent, token)
	require.NoError(t, err)
	assert.Equal(t, uint(4), claims.UserID)
	assert.Equal(t, uint(2), claims.ProjectID)
	assert.Equal(t, "abc-123", claims.SessionID)
	assert.Equal(t, uint(9), claims.ConsentID)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenSigner_Expired(t *testing.T) {
	signer := newTestSigner()
	signer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := signer.Sign(TokenClaims{Purpose: constants.TokenPurposeConsent}, time.Hour)
	require.NoError(t, err)

	signer.now = time.Now
	_, err = signer.Parse(constants.TokenPurposeConsent, token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenSigner_WrongPurposeOrSecret(t *testing.T) {
	signer := newTestSigner()

	token, err := signer.Sign(TokenClaims{Purpose: constants.TokenPurposeAccess, UserID: 1}, time.Hour)
	require.NoError(t, err)

	_, err = signer.Parse(constants.TokenPurposeConsent, token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = signer.Parse(constants.TokenPurposeRefresh, token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	other := NewTokenSigner("another-secret", nil)
	_, err = other.Parse(constants.TokenPurposeAccess, token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = signer.Parse(constants.TokenPurposeAccess, token+"x")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenStore(t *testing.T) {
	ctx := context.Background()
	store := NewTokenStore(NewMemoryKeyStore(time.Minute))
	until := time.Now().Add(time.Hour)

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "jti-1", until))
	revoked, _ = store.IsRevoked(ctx, "jti-1")
	assert.True(t, revoked)

	// already expired tokens need no blacklist entry
	require.NoError(t, store.Revoke(ctx, "jti-2", time.Now().Add(-time.Minute)))
	revoked, _ = store.IsRevoked(ctx, "jti-2")
	assert.False(t, revoked)

	fresh, err := store.MarkUsed(ctx, "jti-3", until)
	require.NoError(t, err)
	assert.True(t, fresh)
	fresh, _ = store.MarkUsed(ctx, "jti-3", until)
	assert.False(t, fresh)
}
