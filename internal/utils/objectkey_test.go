package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateObjectKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"opaque key", "invoices/user-1/inv-1/abc.pdf", false},
		{"empty", "", true},
		{"https url", "https://storage.googleapis.com/bucket/invoices/a.pdf", true},
		{"host without scheme", "storage.googleapis.com/bucket/a.pdf", true},
		{"s3 host", "bucket.s3.amazonaws.com/a.pdf", true},
		{"signed query", "invoices/a.pdf?X-Goog-Signature=abc", true},
		{"absolute", "/invoices/a.pdf", true},
		{"traversal", "invoices/../secrets/a.pdf", true},
		{"double slash", "invoices//a.pdf", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateObjectKey(tt.key)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBuildObjectKey(t *testing.T) {
	key, err := BuildObjectKey("receipts", "org-42", "exp-1", "r.png")
	assert.NoError(t, err)
	assert.Equal(t, "receipts/org-42/exp-1/r.png", key)

	_, err = BuildObjectKey("receipts", "a/b")
	assert.Error(t, err)

	_, err = BuildObjectKey("receipts", "")
	assert.Error(t, err)
}

func TestGeneratePublicViewToken(t *testing.T) {
	a, err := GeneratePublicViewToken()
	assert.NoError(t, err)
	b, err := GeneratePublicViewToken()
	assert.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse")
	assert.NoError(t, err)
	assert.True(t, CheckPasswordHash("correct horse", hash))
	assert.False(t, CheckPasswordHash("wrong horse", hash))
	assert.False(t, RejectPasswordSlowly("anything"))
}

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("user-1", "secret", time.Hour, "finorn-test")
	assert.NoError(t, err)

	claims, err := ParseAndValidateJWT(token, "secret")
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)

	_, err = ParseAndValidateJWT(token, "other-secret")
	assert.Error(t, err)
}
