package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Contract is a row of the contracts table. Metadata and RenewalTerms are jsonb.
type Contract struct {
	ContractID         string          `db:"contract_id"`
	UserID             string          `db:"user_id"`
	OrganizationID     *string         `db:"organization_id"`
	ClientID           *string         `db:"client_id"`
	Title              string          `db:"title"`
	Description        string          `db:"description"`
	ContractType       string          `db:"contract_type"`
	Metadata           []byte          `db:"metadata"`
	Status             string          `db:"status"`
	Value              decimal.Decimal `db:"value"`
	Currency           string          `db:"currency"`
	StartDate          time.Time       `db:"start_date"`
	EndDate            *time.Time      `db:"end_date"`
	AutoRenew          bool            `db:"auto_renew"`
	RenewalTerms       []byte          `db:"renewal_terms"`
	NotificationsSent  []int32         `db:"notifications_sent"`
	ApprovedBy         *string         `db:"approved_by"`
	ApprovedAt         *time.Time      `db:"approved_at"`
	SignedAt           *time.Time      `db:"signed_at"`
	CancelledAt        *time.Time      `db:"cancelled_at"`
	CancellationReason *string         `db:"cancellation_reason"`
	PublicViewToken    *string         `db:"public_view_token"`
	RenewedFromID      *string         `db:"renewed_from_id"`
	RenewedToID        *string         `db:"renewed_to_id"`
	RenewalCount       int             `db:"renewal_count"`
	AuditFields
}
