package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeEnvelope(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.FixedZone("IST", 5*3600+1800))
	data, err := encodeEnvelope("billing@finorn.test", portssvc.EmailMessage{
		To:       []string{"client@example.com"},
		Subject:  "Invoice INV-1",
		Text:     "Your invoice is ready.",
		Template: "invoice_sent",
		Data:     map[string]any{"invoiceNumber": "INV-1"},
	}, now)
	require.NoError(t, err)

	var got envelope
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "billing@finorn.test", got.From)
	assert.Equal(t, []string{"client@example.com"}, got.To)
	assert.Equal(t, "invoice_sent", got.Template)
	assert.Equal(t, "INV-1", got.Data["invoiceNumber"])
	assert.True(t, got.QueuedAt.Equal(now))
	assert.Equal(t, time.UTC, got.QueuedAt.Location())
}

func TestEncodeEnvelope_RequiresRecipientAndSubject(t *testing.T) {
	_, err := encodeEnvelope("a@finorn.test", portssvc.EmailMessage{Subject: "Hi"}, time.Now())
	assert.Error(t, err)

	_, err = encodeEnvelope("a@finorn.test", portssvc.EmailMessage{To: []string{"b@example.com"}}, time.Now())
	assert.Error(t, err)
}

func TestLogMailer_Send(t *testing.T) {
	var buf bytes.Buffer
	m := NewLogMailer(slog.New(slog.NewJSONHandler(&buf, nil)), "noreply@finorn.test")

	err := m.Send(context.Background(), portssvc.EmailMessage{
		To:       []string{"owner@example.com"},
		Subject:  "Contract expiring soon",
		Template: "contract_expiring",
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "owner@example.com")
	assert.Contains(t, buf.String(), "contract_expiring")

	err = m.Send(context.Background(), portssvc.EmailMessage{Subject: "no recipient"})
	assert.Error(t, err)
}
