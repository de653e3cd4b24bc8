package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/finorn_backend/internal/apperrors"
	"github.com/SscSPs/finorn_backend/internal/core/domain"
	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
	"github.com/SscSPs/finorn_backend/internal/dto"
	"github.com/SscSPs/finorn_backend/internal/utils"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// SendInvoice issues the share token on first send and flips DRAFT to SENT. A SENT or
// OVERDUE invoice is re-emailed without a status change. The email is a side channel:
// its failure is logged and does not undo the send.
func (s *invoiceService) SendInvoice(ctx context.Context, scope domain.Scope, invoiceID string, req dto.SendInvoiceRequest) (_ *domain.Invoice, err error) {
	ctx, span := startSpan(ctx, "InvoiceService.SendInvoice", attribute.String("invoice.id", invoiceID))
	defer func() { endSpan(span, err) }()

	inv, err := s.invoiceRepo.FindInvoiceByID(ctx, scope, invoiceID)
	if err != nil {
		return nil, err
	}
	previous := inv.Status
	resend := previous == domain.InvoiceSent || previous == domain.InvoiceOverdue
	if !resend {
		if err := domain.ValidateInvoiceTransition(previous, domain.InvoiceSent); err != nil {
			return nil, err
		}
	}
	if !inv.TotalAmount.IsPositive() {
		return nil, apperrors.NewValidationFailedError("Invoice total must be greater than zero before sending")
	}

	recipient, err := s.resolveRecipient(ctx, scope, inv, req.Email)
	if err != nil {
		return nil, err
	}

	if inv.PublicViewToken == nil {
		token, err := utils.GeneratePublicViewToken()
		if err != nil {
			return nil, fmt.Errorf("failed to generate public view token: %w", err)
		}
		inv.PublicViewToken = &token
	}
	now := s.now()
	if !resend {
		inv.Status = domain.InvoiceSent
	}
	inv.EmailSentAt = &now
	inv.EmailSentTo = &recipient
	inv.Touch(scope.UserID, now)

	if err := s.invoiceRepo.SaveInvoiceState(ctx, scope, *inv, previous); err != nil {
		s.LogError(ctx, err, "Failed to save sent invoice", slog.String("invoice_id", invoiceID))
		return nil, err
	}

	publicURL := s.links.PublicInvoiceURL(*inv.PublicViewToken)
	s.sendInvoiceEmail(ctx, inv, recipient, publicURL, req.Message)

	data := invoiceNotificationData(inv)
	data["email"] = recipient
	s.Notify(ctx, scopeNotification(scope, domain.NotificationInvoiceSent, data))
	s.Track(scope, "invoice_sent", map[string]any{"resend": resend})
	s.LogInfo(ctx, "Invoice sent", slog.String("invoice_id", invoiceID), slog.Bool("resend", resend))
	return inv, nil
}

func (s *invoiceService) resolveRecipient(ctx context.Context, scope domain.Scope, inv *domain.Invoice, override *string) (string, error) {
	if override != nil && strings.TrimSpace(*override) != "" {
		email := strings.ToLower(strings.TrimSpace(*override))
		if !domain.IsValidEmail(email) {
			return "", apperrors.NewValidationFailedError("Invalid email format")
		}
		return email, nil
	}
	client, err := s.clientRepo.FindClientByID(ctx, scope, inv.ClientID)
	if err != nil {
		return "", err
	}
	if client.Email == nil || *client.Email == "" {
		return "", apperrors.NewValidationFailedError("Recipient email is required: the client has no email")
	}
	return *client.Email, nil
}

func (s *invoiceService) sendInvoiceEmail(ctx context.Context, inv *domain.Invoice, recipient, publicURL, message string) {
	if s.mailer == nil {
		return
	}
	text := fmt.Sprintf("Invoice %s for %s %s is ready: %s", inv.InvoiceNumber, inv.TotalAmount.StringFixed(2), inv.Currency, publicURL)
	if message != "" {
		text = message + "\n\n" + text
	}
	msg := portssvc.EmailMessage{
		To:       []string{recipient},
		Subject:  "Invoice " + inv.InvoiceNumber,
		Text:     text,
		Template: "invoice_sent",
		Data: map[string]any{
			"invoiceNumber": inv.InvoiceNumber,
			"amount":        inv.TotalAmount.StringFixed(2),
			"currency":      inv.Currency,
			"url":           publicURL,
			"message":       message,
		},
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.LogWarn(ctx, err, "Failed to send invoice email", slog.String("invoice_id", inv.InvoiceID))
	}
}

func (s *invoiceService) CancelInvoice(ctx context.Context, scope domain.Scope, invoiceID string) (*domain.Invoice, error) {
	inv, err := s.invoiceRepo.FindInvoiceByID(ctx, scope, invoiceID)
	if err != nil {
		return nil, err
	}
	previous := inv.Status
	if err := domain.ValidateInvoiceTransition(previous, domain.InvoiceCancelled); err != nil {
		return nil, err
	}
	inv.Status = domain.InvoiceCancelled
	inv.Touch(scope.UserID, s.now())

	if err := s.invoiceRepo.SaveInvoiceState(ctx, scope, *inv, previous); err != nil {
		s.LogError(ctx, err, "Failed to cancel invoice", slog.String("invoice_id", invoiceID))
		return nil, err
	}
	s.Notify(ctx, scopeNotification(scope, domain.NotificationInvoiceCancelled, invoiceNotificationData(inv)))
	return inv, nil
}

// RecordPayment adds a payment to a SENT or OVERDUE invoice. The invoice becomes PAID once
// the outstanding amount reaches zero.
func (s *invoiceService) RecordPayment(ctx context.Context, scope domain.Scope, invoiceID string, req dto.RecordPaymentRequest) (*domain.Invoice, *domain.Payment, error) {
	if !req.Amount.IsPositive() {
		return nil, nil, apperrors.NewValidationFailedError("Payment amount must be greater than zero")
	}
	inv, err := s.invoiceRepo.FindInvoiceByID(ctx, scope, invoiceID)
	if err != nil {
		return nil, nil, err
	}
	if !domain.CanTransitionInvoice(inv.Status, domain.InvoicePaid) {
		return nil, nil, apperrors.NewInvalidTransitionError("invoice", string(inv.Status), string(domain.InvoicePaid))
	}
	outstanding := inv.OutstandingAmount()
	if req.Amount.GreaterThan(outstanding) {
		return nil, nil, apperrors.NewValidationErrorWithDetails("Payment exceeds the outstanding amount",
			map[string]string{"outstanding": outstanding.StringFixed(2)})
	}

	now := s.now()
	paidAt := now
	if req.PaidAt != nil {
		paidAt = req.PaidAt.UTC()
	}
	payment := domain.Payment{
		PaymentID:      uuid.NewString(),
		InvoiceID:      inv.InvoiceID,
		UserID:         scope.UserID,
		OrganizationID: inv.OrganizationID,
		Amount:         req.Amount,
		Method:         strings.TrimSpace(req.Method),
		Reference:      strings.TrimSpace(req.Reference),
		PaidAt:         paidAt,
		AuditFields:    domain.NewAuditFields(scope.UserID, now),
	}

	inv.AmountPaid = inv.AmountPaid.Add(req.Amount)
	fullyPaid := !inv.AmountPaid.LessThan(inv.TotalAmount)
	if fullyPaid {
		inv.Status = domain.InvoicePaid
		inv.PaidAt = &paidAt
	}
	inv.Touch(scope.UserID, now)

	if err := s.invoiceRepo.RecordPayment(ctx, scope, payment, *inv); err != nil {
		s.LogError(ctx, err, "Failed to record payment", slog.String("invoice_id", invoiceID))
		return nil, nil, err
	}

	data := invoiceNotificationData(inv)
	data["amount"] = payment.Amount.StringFixed(2)
	s.Notify(ctx, scopeNotification(scope, domain.NotificationPaymentReceived, data))
	if fullyPaid {
		s.Notify(ctx, scopeNotification(scope, domain.NotificationInvoicePaid, invoiceNotificationData(inv)))
	}
	s.Track(scope, "payment_recorded", map[string]any{"fully_paid": fullyPaid})
	return inv, &payment, nil
}
