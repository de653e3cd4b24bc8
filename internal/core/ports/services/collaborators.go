package services

import (
	"context"
	"errors"
	"io"
	"time"
)

// StoredObject describes an object written to file storage. Key is the only value that may be
// persisted or returned to callers; Location is for logs.
type StoredObject struct {
	Key      string
	Location string
}

// FileStorage is the object storage collaborator used for invoice PDFs and expense receipts.
type FileStorage interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (*StoredObject, error)
	// PresignedURL returns a short-lived download URL (attachment disposition).
	PresignedURL(ctx context.Context, key string, ttl time.Duration, filename string) (string, error)
	// StreamingURL returns a short-lived URL that renders inline.
	StreamingURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// EmailMessage is a rendered outbound email.
type EmailMessage struct {
	To       []string
	Subject  string
	Text     string
	Template string
	Data     map[string]any
}

// Mailer dispatches outbound email.
type Mailer interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// ErrLockHeld is returned by Locker.TryLock when another runner holds the lock.
var ErrLockHeld = errors.New("lock is held by another runner")

// Lock is a held distributed lock.
type Lock interface {
	Release(ctx context.Context) error
}

// Locker hands out best-effort distributed locks.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (Lock, error)
}

// CheckoutSession is what the payment provider needs to start a hosted checkout.
type CheckoutSession struct {
	CustomerRef    string
	UserID         string
	OrganizationID *string
	Plan           string
	SuccessURL     string
	CancelURL      string
}

// CheckoutProvider creates hosted checkout sessions.
type CheckoutProvider interface {
	CreateCheckoutURL(ctx context.Context, session CheckoutSession) (string, error)
}

// WebhookVerifier authenticates payment provider webhooks.
type WebhookVerifier interface {
	Verify(payload []byte, signatureHeader string, now time.Time) error
}

// EventTracker records product analytics events.
type EventTracker interface {
	Enqueue(distinctID string, event string, properties map[string]any)
}
