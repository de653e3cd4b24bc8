package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment records money received against an invoice.
type Payment struct {
	PaymentID      string          `json:"paymentID"`
	InvoiceID      string          `json:"invoiceID"`
	UserID         string          `json:"userId"`
	OrganizationID *string         `json:"organizationId,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Method         string          `json:"method"`
	Reference      string          `json:"reference,omitempty"`
	PaidAt         time.Time       `json:"paidAt"`
	AuditFields
}
