package utils

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/google/uuid"
)

// NewClientID returns a fresh identifier for a connection. IDs are never
// reused across connections, even for the same remote address.
func NewClientID() string {
	return uuid.NewString()
}

// NewOpaqueToken returns a URL-safe random token of n bytes of entropy.
func NewOpaqueToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
