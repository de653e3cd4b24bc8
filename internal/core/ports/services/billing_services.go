package services

import (
	"context"

	"github.com/SscSPs/finorn_backend/internal/core/domain"
)

// BillingSvcFacade exposes the subscription state and processes provider webhooks.
type BillingSvcFacade interface {
	GetSubscription(ctx context.Context, scope domain.Scope) (*domain.Subscription, error)
	// CreateCheckout requires OWNER in organization scope.
	CreateCheckout(ctx context.Context, scope domain.Scope, plan string) (string, error)
	// HandleWebhook verifies and applies an event. It reports false for a re-delivered event.
	HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) (bool, error)
}
