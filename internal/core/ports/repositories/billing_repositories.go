package repositories

import (
	"context"

	"github.com/SscSPs/finorn_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BillingRepositoryFacade persists subscription state and webhook effects.
// Every Apply method records eventID and its effect in one transaction and reports
// false, without applying anything, when eventID was already processed.
type BillingRepositoryFacade interface {
	FindSubscription(ctx context.Context, scope domain.Scope) (*domain.Subscription, error)
	ApplySubscriptionEvent(ctx context.Context, eventID string, subscription domain.Subscription) (bool, error)
	ApplyInvoicePaidEvent(ctx context.Context, eventID, invoiceID, paymentID string, amount decimal.Decimal) (bool, error)
}
