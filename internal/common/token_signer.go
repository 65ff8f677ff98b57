package common

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"gabber/annotator/internal/constants"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// TokenClaims is the payload shared by every signed token. Only the ids relevant
// to the purpose are set.
type TokenClaims struct {
	jwt.RegisteredClaims
	Purpose      constants.TokenPurpose `json:"purpose"`
	UserID       uint                   `json:"uid,omitempty"`
	ProjectID    uint                   `json:"pid,omitempty"`
	SessionID    string                 `json:"sid,omitempty"`
	ConsentID    uint                   `json:"cid,omitempty"`
	MembershipID uint                   `json:"mid,omitempty"`
}

// TokenSigner signs and validates HMAC tokens. Each purpose gets its own key
// derived from the process secret and a per-purpose salt.
type TokenSigner struct {
	secret []byte
	salts  map[constants.TokenPurpose]string
	now    func() time.Time
}

// NewTokenSigner creates a signer; purposes without a salt use the bare secret
func NewTokenSigner(secret string, salts map[constants.TokenPurpose]string) *TokenSigner {
	return &TokenSigner{
		secret: []byte(secret),
		salts:  salts,
		now:    time.Now,
	}
}

func (s *TokenSigner) key(purpose constants.TokenPurpose) []byte {
	salt, ok := s.salts[purpose]
	if !ok {
		salt = string(purpose)
	}
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(salt))
	return mac.Sum(nil)
}

// Sign fills in jti, iat and exp and returns the compact token
func (s *TokenSigner) Sign(claims TokenClaims, ttl time.Duration) (string, error) {
	now := s.now()
	claims.ID = uuid.New().String()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.key(claims.Purpose))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Parse validates signature, expiry and purpose. Failures collapse to
// ErrTokenExpired or ErrTokenInvalid.
func (s *TokenSigner) Parse(purpose constants.TokenPurpose, tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.key(purpose), nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if !token.Valid || claims.Purpose != purpose || claims.ID == "" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
