package models

import "time"

// Subscription is a row of the subscriptions table, unique per scope_key.
type Subscription struct {
	SubscriptionID   string     `db:"subscription_id"`
	ScopeKey         string     `db:"scope_key"`
	UserID           string     `db:"user_id"`
	OrganizationID   *string    `db:"organization_id"`
	Plan             string     `db:"plan"`
	Status           string     `db:"status"`
	Features         []byte     `db:"features"`
	CurrentPeriodEnd *time.Time `db:"current_period_end"`
	UpdatedAt        time.Time  `db:"updated_at"`
}
