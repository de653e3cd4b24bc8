package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// PublicViewTokenBytes is the entropy of a share-link token (64 hex characters).
const PublicViewTokenBytes = 32

// GenerateSecureRandomString generates a cryptographically secure random string of the specified byte length,
// then hex encodes it. For example, lengthInBytes=32 will result in a 64-character hex string.
func GenerateSecureRandomString(lengthInBytes int) (string, error) {
	if lengthInBytes <= 0 {
		return "", fmt.Errorf("lengthInBytes must be positive")
	}
	b := make([]byte, lengthInBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GeneratePublicViewToken returns a new unguessable share-link token.
func GeneratePublicViewToken() (string, error) {
	return GenerateSecureRandomString(PublicViewTokenBytes)
}
