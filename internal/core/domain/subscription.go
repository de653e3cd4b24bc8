package domain

import "time"

// SubscriptionStatus mirrors the payment provider's subscription state.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionTrialing SubscriptionStatus = "trialing"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// IsValid reports whether s is a known status.
func (s SubscriptionStatus) IsValid() bool {
	switch s {
	case SubscriptionActive, SubscriptionTrialing, SubscriptionPastDue, SubscriptionCanceled:
		return true
	}
	return false
}

// Subscription is the billing plan and feature flags of a scope.
type Subscription struct {
	SubscriptionID   string             `json:"subscriptionID"`
	UserID           string             `json:"userId"`
	OrganizationID   *string            `json:"organizationId,omitempty"`
	Plan             string             `json:"plan"`
	Status           SubscriptionStatus `json:"status"`
	Features         map[string]bool    `json:"features"`
	CurrentPeriodEnd *time.Time         `json:"currentPeriodEnd,omitempty"`
	UpdatedAt        time.Time          `json:"updatedAt"`
}

// FreeSubscription is reported for scopes that never subscribed.
func FreeSubscription(scope Scope) Subscription {
	return Subscription{
		UserID:         scope.UserID,
		OrganizationID: scope.OrganizationIDPtr(),
		Plan:           "free",
		Status:         SubscriptionActive,
		Features:       map[string]bool{},
	}
}

// Billing webhook event types.
const (
	BillingEventSubscriptionUpdated = "subscription.updated"
	BillingEventInvoicePaid         = "invoice.paid"
)
