package domain

import (
	"fmt"
	"slices"
	"time"

	"github.com/SscSPs/finorn_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "DRAFT"
	InvoiceSent      InvoiceStatus = "SENT"
	InvoicePaid      InvoiceStatus = "PAID"
	InvoiceOverdue   InvoiceStatus = "OVERDUE"
	InvoiceCancelled InvoiceStatus = "CANCELLED"
)

var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceDraft:     {InvoiceSent, InvoiceCancelled},
	InvoiceSent:      {InvoicePaid, InvoiceOverdue, InvoiceCancelled},
	InvoiceOverdue:   {InvoicePaid, InvoiceCancelled},
	InvoicePaid:      {},
	InvoiceCancelled: {},
}

// IsValid reports whether s is a known invoice status.
func (s InvoiceStatus) IsValid() bool {
	_, ok := invoiceTransitions[s]
	return ok
}

// CanTransitionInvoice reports whether from -> to is allowed.
func CanTransitionInvoice(from, to InvoiceStatus) bool {
	return slices.Contains(invoiceTransitions[from], to)
}

// ValidateInvoiceTransition returns an InvalidStatusTransition error for disallowed pairs.
func ValidateInvoiceTransition(from, to InvoiceStatus) error {
	if !CanTransitionInvoice(from, to) {
		return apperrors.NewInvalidTransitionError("invoice", string(from), string(to))
	}
	return nil
}

// LineItem is one billable row of an invoice.
type LineItem struct {
	LineItemID  string          `json:"lineItemID"`
	InvoiceID   string          `json:"invoiceID"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Amount      decimal.Decimal `json:"amount"`
	Position    int             `json:"position"`
}

// Invoice is a monetary document addressed to a client.
type Invoice struct {
	InvoiceID          string              `json:"invoiceID"`
	InvoiceNumber      string              `json:"invoiceNumber"`
	UserID             string              `json:"userId"`
	OrganizationID     *string             `json:"organizationId,omitempty"`
	ClientID           string              `json:"clientId"`
	Status             InvoiceStatus       `json:"status"`
	IssueDate          time.Time           `json:"issueDate"`
	DueDate            *time.Time          `json:"dueDate,omitempty"`
	Currency           string              `json:"currency"`
	SubTotal           decimal.Decimal     `json:"subTotal"`
	TaxRate            decimal.Decimal     `json:"taxRate"`
	TaxAmount          decimal.Decimal     `json:"taxAmount"`
	TotalAmount        decimal.Decimal     `json:"totalAmount"`
	AmountPaid         decimal.Decimal     `json:"amountPaid"`
	Notes              string              `json:"notes,omitempty"`
	PublicViewToken    *string             `json:"publicViewToken,omitempty"`
	PDFKey             *string             `json:"pdfUrl,omitempty"`
	PaymentInformation *PaymentInformation `json:"paymentInformation,omitempty"`
	EmailSentAt        *time.Time          `json:"emailSentAt,omitempty"`
	EmailSentTo        *string             `json:"emailSentTo,omitempty"`
	PaidAt             *time.Time          `json:"paidAt,omitempty"`
	LineItems          []LineItem          `json:"lineItems"`
	AuditFields
}

// ValidateAmount rejects negative monetary values.
func ValidateAmount(field string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return apperrors.NewValidationFailedError(fmt.Sprintf("%s must be a non-negative number", field))
	}
	return nil
}

// Recalculate derives line amounts and invoice totals from the line items and tax rate.
func (inv *Invoice) Recalculate() error {
	if err := ValidateAmount("taxRate", inv.TaxRate); err != nil {
		return err
	}
	sub := decimal.Zero
	for i := range inv.LineItems {
		item := &inv.LineItems[i]
		if err := ValidateAmount("quantity", item.Quantity); err != nil {
			return err
		}
		if err := ValidateAmount("unitPrice", item.UnitPrice); err != nil {
			return err
		}
		item.Amount = item.Quantity.Mul(item.UnitPrice).Round(2)
		item.Position = i
		sub = sub.Add(item.Amount)
	}
	inv.SubTotal = sub
	inv.TaxAmount = sub.Mul(inv.TaxRate).Div(decimal.NewFromInt(100)).Round(2)
	inv.TotalAmount = inv.SubTotal.Add(inv.TaxAmount)
	return nil
}

// ValidateTotals enforces that a zero total is only allowed while the invoice is a draft.
func (inv *Invoice) ValidateTotals() error {
	for field, v := range map[string]decimal.Decimal{
		"subTotal":    inv.SubTotal,
		"taxAmount":   inv.TaxAmount,
		"totalAmount": inv.TotalAmount,
	} {
		if err := ValidateAmount(field, v); err != nil {
			return err
		}
	}
	if inv.TotalAmount.IsZero() && inv.Status != InvoiceDraft {
		return apperrors.NewValidationFailedError("Invoice total must be greater than zero once it leaves draft")
	}
	return nil
}

// IsEditable reports whether content fields may still change.
func (inv *Invoice) IsEditable() bool {
	return inv.Status == InvoiceDraft
}

// OutstandingAmount is what remains to be paid.
func (inv *Invoice) OutstandingAmount() decimal.Decimal {
	out := inv.TotalAmount.Sub(inv.AmountPaid)
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}

// OverdueCutoff is the start of today's calendar day (UTC). A SENT invoice is overdue once its
// due date is before the cutoff, so it stays payable for the whole of its due date.
func OverdueCutoff(now time.Time) time.Time {
	n := now.UTC()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}
