package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a row of the invoices table. Line items are loaded separately.
type Invoice struct {
	InvoiceID          string          `db:"invoice_id"`
	InvoiceNumber      string          `db:"invoice_number"`
	UserID             string          `db:"user_id"`
	OrganizationID     *string         `db:"organization_id"`
	ClientID           string          `db:"client_id"`
	Status             string          `db:"status"`
	IssueDate          time.Time       `db:"issue_date"`
	DueDate            *time.Time      `db:"due_date"`
	Currency           string          `db:"currency"`
	SubTotal           decimal.Decimal `db:"sub_total"`
	TaxRate            decimal.Decimal `db:"tax_rate"`
	TaxAmount          decimal.Decimal `db:"tax_amount"`
	TotalAmount        decimal.Decimal `db:"total_amount"`
	AmountPaid         decimal.Decimal `db:"amount_paid"`
	Notes              string          `db:"notes"`
	PublicViewToken    *string         `db:"public_view_token"`
	PDFKey             *string         `db:"pdf_key"`
	PaymentInformation []byte          `db:"payment_information"`
	EmailSentAt        *time.Time      `db:"email_sent_at"`
	EmailSentTo        *string         `db:"email_sent_to"`
	PaidAt             *time.Time      `db:"paid_at"`
	AuditFields
}

type LineItem struct {
	LineItemID  string          `db:"line_item_id"`
	InvoiceID   string          `db:"invoice_id"`
	Description string          `db:"description"`
	Quantity    decimal.Decimal `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	Amount      decimal.Decimal `db:"amount"`
	Position    int             `db:"position"`
}

type Payment struct {
	PaymentID      string          `db:"payment_id"`
	InvoiceID      string          `db:"invoice_id"`
	UserID         string          `db:"user_id"`
	OrganizationID *string         `db:"organization_id"`
	Amount         decimal.Decimal `db:"amount"`
	Method         string          `db:"method"`
	Reference      string          `db:"reference"`
	PaidAt         time.Time       `db:"paid_at"`
	AuditFields
}
