package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/finorn_backend/internal/apperrors"
	"github.com/SscSPs/finorn_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestInvoiceRecalculate(t *testing.T) {
	inv := domain.Invoice{
		Status:  domain.InvoiceDraft,
		TaxRate: dec("10"),
		LineItems: []domain.LineItem{
			{Description: "Design", Quantity: dec("2"), UnitPrice: dec("150.50")},
			{Description: "Hosting", Quantity: dec("1"), UnitPrice: dec("49.00")},
		},
	}
	require.NoError(t, inv.Recalculate())
	assert.True(t, dec("301").Equal(inv.LineItems[0].Amount))
	assert.True(t, dec("350").Equal(inv.SubTotal), inv.SubTotal.String())
	assert.True(t, dec("35").Equal(inv.TaxAmount), inv.TaxAmount.String())
	assert.True(t, dec("385").Equal(inv.TotalAmount), inv.TotalAmount.String())
	assert.Equal(t, 1, inv.LineItems[1].Position)
}

func TestInvoiceRecalculate_RejectsNegative(t *testing.T) {
	inv := domain.Invoice{LineItems: []domain.LineItem{{Quantity: dec("1"), UnitPrice: dec("-5")}}}
	assert.ErrorIs(t, inv.Recalculate(), apperrors.ErrValidation)

	inv = domain.Invoice{TaxRate: dec("-1")}
	assert.ErrorIs(t, inv.Recalculate(), apperrors.ErrValidation)
}

func TestInvoiceValidateTotals_ZeroOnlyInDraft(t *testing.T) {
	inv := domain.Invoice{Status: domain.InvoiceDraft}
	assert.NoError(t, inv.ValidateTotals())

	inv.Status = domain.InvoiceSent
	assert.ErrorIs(t, inv.ValidateTotals(), apperrors.ErrValidation)

	inv.TotalAmount = dec("10")
	assert.NoError(t, inv.ValidateTotals())
}

func TestInvoiceTransitions(t *testing.T) {
	tests := []struct {
		from, to domain.InvoiceStatus
		ok       bool
	}{
		{domain.InvoiceDraft, domain.InvoiceSent, true},
		{domain.InvoiceDraft, domain.InvoicePaid, false},
		{domain.InvoiceSent, domain.InvoicePaid, true},
		{domain.InvoiceSent, domain.InvoiceOverdue, true},
		{domain.InvoiceOverdue, domain.InvoicePaid, true},
		{domain.InvoiceOverdue, domain.InvoiceSent, false},
		{domain.InvoicePaid, domain.InvoiceCancelled, false},
		{domain.InvoiceCancelled, domain.InvoiceDraft, false},
	}
	for _, tt := range tests {
		err := domain.ValidateInvoiceTransition(tt.from, tt.to)
		if tt.ok {
			assert.NoError(t, err, "%s -> %s", tt.from, tt.to)
		} else {
			assert.ErrorIs(t, err, apperrors.ErrInvalidStatusTransition, "%s -> %s", tt.from, tt.to)
		}
	}
}

func TestOverdueCutoff(t *testing.T) {
	due := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	plus5 := time.FixedZone("UTC+5", 5*60*60)

	tests := []struct {
		name    string
		now     time.Time
		overdue bool
	}{
		{"day before", due.Add(-time.Hour), false},
		{"due date morning", due.Add(10 * time.Hour), false},
		{"due date last minute", due.Add(24*time.Hour - time.Minute), false},
		{"next day local, due date in UTC", time.Date(2026, 10, 16, 2, 30, 0, 0, plus5), false},
		{"day after", due.Add(24 * time.Hour), true},
		{"week after", due.AddDate(0, 0, 7), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cutoff := domain.OverdueCutoff(tt.now)
			assert.Equal(t, time.UTC, cutoff.Location())
			assert.Zero(t, cutoff.Hour())
			assert.Equal(t, tt.overdue, due.Before(cutoff))
			assert.Equal(t, tt.overdue, domain.DaysUntil(due, tt.now) < 0)
		})
	}
}

func TestInvoiceOutstandingAmount(t *testing.T) {
	inv := domain.Invoice{TotalAmount: dec("100"), AmountPaid: dec("40")}
	assert.True(t, dec("60").Equal(inv.OutstandingAmount()))
	inv.AmountPaid = dec("120")
	assert.True(t, inv.OutstandingAmount().IsZero())
}

func TestPaymentInformationRoundTrip(t *testing.T) {
	info := &domain.PaymentInformation{
		Method:   "bank_transfer",
		BankName: "First Bank",
		IBAN:     "DE89370400440532013000",
		SWIFT:    "COBADEFFXXX",
		Terms:    "Net 30",
	}
	raw, err := domain.EncodePaymentInformation(info)
	require.NoError(t, err)

	back, err := domain.DecodePaymentInformation(raw)
	require.NoError(t, err)
	assert.Equal(t, info, back)

	none, err := domain.DecodePaymentInformation(nil)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestPaymentInformationValidate(t *testing.T) {
	_, err := domain.EncodePaymentInformation(&domain.PaymentInformation{Method: "barter"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = domain.EncodePaymentInformation(&domain.PaymentInformation{PaymentLink: "not a url"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
