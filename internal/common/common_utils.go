package common

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/mail"
	"strings"

	"github.com/gosimple/slug"
	"golang.org/x/text/unicode/norm"
)

// Slugify derives the URL-safe project slug. Titles are transliterated so
// non-Latin scripts keep a readable slug; a title with nothing to
// transliterate falls back to a stable hash of its normalised form.
func Slugify(title string) string {
	normalized := strings.TrimSpace(norm.NFKC.String(title))
	if normalized == "" {
		return ""
	}
	if s := slug.Make(normalized); s != "" {
		return s
	}
	sum := sha256.Sum256([]byte(normalized))
	return "project-" + hex.EncodeToString(sum[:4])
}

// NormalizeEmail lower-cases and trims so uniqueness is case-insensitive
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsEmail accepts bare addresses only, not "Name <addr>" forms
func IsEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// RandomSecret returns n random bytes, base64url encoded
func RandomSecret(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// UintSet builds a membership set from ids
func UintSet(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
