package utils

import (
	"fmt"
	"path"
	"strings"
)

// providerMarkers identify values that are storage URLs rather than opaque keys.
var providerMarkers = []string{
	"://",
	"storage.googleapis.com",
	"storage.cloud.google.com",
	"amazonaws.com",
	"supabase.co",
	"x-goog-signature",
	"x-amz-signature",
}

// ValidateObjectKey rejects anything that is not a relative, opaque object key. Stored keys
// must never be provider URLs, since those would leak bucket locations or stale signatures.
func ValidateObjectKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("object key is empty")
	}
	lower := strings.ToLower(key)
	for _, marker := range providerMarkers {
		if strings.Contains(lower, marker) {
			return fmt.Errorf("object key looks like a provider URL")
		}
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return fmt.Errorf("object key must be relative")
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return fmt.Errorf("object key has an invalid path segment")
		}
	}
	return nil
}

// BuildObjectKey joins segments into an object key and validates the result.
func BuildObjectKey(segments ...string) (string, error) {
	for _, s := range segments {
		if s == "" || strings.Contains(s, "/") {
			return "", fmt.Errorf("invalid object key segment %q", s)
		}
	}
	key := path.Join(segments...)
	if err := ValidateObjectKey(key); err != nil {
		return "", err
	}
	return key, nil
}
