package domain_test

import (
	"testing"

	"github.com/SscSPs/finorn_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTemplate(t *testing.T) {
	got := domain.RenderTemplate("Invoice {invoiceNumber} for {amount} {currency} {missing}", map[string]any{
		"invoiceNumber": "INV-7",
		"amount":        "12.50",
		"currency":      "EUR",
	})
	assert.Equal(t, "Invoice INV-7 for 12.50 EUR {missing}", got)
}

func TestRenderNotification(t *testing.T) {
	title, msg, err := domain.RenderNotification(domain.NotificationContractExpiring, map[string]any{
		"title":        "Hosting",
		"daysToExpiry": 15,
	})
	require.NoError(t, err)
	assert.Equal(t, "Contract expiring soon", title)
	assert.Equal(t, `Contract "Hosting" expires in 15 days.`, msg)

	_, _, err = domain.RenderNotification("NOPE", nil)
	assert.Error(t, err)
	assert.False(t, domain.NotificationType("NOPE").IsValid())
	assert.True(t, domain.NotificationExpenseCreated.IsValid())
}
