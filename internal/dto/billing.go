package dto

import (
	"encoding/json"
	"time"

	"github.com/SscSPs/finorn_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CheckoutRequest starts a hosted checkout for a plan.
type CheckoutRequest struct {
	Plan string `json:"plan" binding:"required,oneof=starter pro business"`
}

// CheckoutResponse carries the hosted checkout URL.
type CheckoutResponse struct {
	URL string `json:"url"`
}

// SubscriptionResponse defines data returned for a subscription.
type SubscriptionResponse struct {
	Plan             string                    `json:"plan"`
	Status           domain.SubscriptionStatus `json:"status"`
	Features         map[string]bool           `json:"features"`
	CurrentPeriodEnd *time.Time                `json:"currentPeriodEnd,omitempty"`
}

func ToSubscriptionResponse(s *domain.Subscription) SubscriptionResponse {
	features := s.Features
	if features == nil {
		features = map[string]bool{}
	}
	return SubscriptionResponse{
		Plan:             s.Plan,
		Status:           s.Status,
		Features:         features,
		CurrentPeriodEnd: s.CurrentPeriodEnd,
	}
}

// BillingWebhookEvent is the envelope posted by the payment provider.
type BillingWebhookEvent struct {
	ID   string          `json:"id"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// SubscriptionEventData is the payload of subscription.updated.
type SubscriptionEventData struct {
	UserID           string          `json:"userId"`
	OrganizationID   *string         `json:"organizationId"`
	Plan             string          `json:"plan"`
	Status           string          `json:"status"`
	Features         map[string]bool `json:"features"`
	CurrentPeriodEnd *time.Time      `json:"currentPeriodEnd"`
}

// InvoicePaidEventData is the payload of invoice.paid.
type InvoicePaidEventData struct {
	InvoiceID string          `json:"invoiceId"`
	Amount    decimal.Decimal `json:"amount"`
}
