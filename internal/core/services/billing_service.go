package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/finorn_backend/internal/apperrors"
	"github.com/SscSPs/finorn_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/finorn_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
	"github.com/SscSPs/finorn_backend/internal/dto"
	"github.com/SscSPs/finorn_backend/internal/platform/links"
	"github.com/google/uuid"
)

var billingPlans = map[string]struct{}{
	"starter":  {},
	"pro":      {},
	"business": {},
}

// billingService implements the BillingSvcFacade interface
type billingService struct {
	BaseService
	billingRepo portsrepo.BillingRepositoryFacade
	checkout    portssvc.CheckoutProvider
	verifier    portssvc.WebhookVerifier
	links       *links.Builder
	now         func() time.Time
}

func NewBillingService(
	base BaseService,
	billingRepo portsrepo.BillingRepositoryFacade,
	checkout portssvc.CheckoutProvider,
	verifier portssvc.WebhookVerifier,
	linkBuilder *links.Builder,
) portssvc.BillingSvcFacade {
	return &billingService{
		BaseService: base,
		billingRepo: billingRepo,
		checkout:    checkout,
		verifier:    verifier,
		links:       linkBuilder,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.BillingSvcFacade = (*billingService)(nil)

// GetSubscription returns the scope's subscription, or the free plan when it never subscribed.
func (s *billingService) GetSubscription(ctx context.Context, scope domain.Scope) (*domain.Subscription, error) {
	sub, err := s.billingRepo.FindSubscription(ctx, scope)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			free := domain.FreeSubscription(scope)
			return &free, nil
		}
		s.LogError(ctx, err, "Failed to load subscription")
		return nil, err
	}
	return sub, nil
}

func (s *billingService) CreateCheckout(ctx context.Context, scope domain.Scope, plan string) (string, error) {
	if err := s.AuthorizeRole(ctx, scope, domain.RoleOwner, "manage billing"); err != nil {
		return "", err
	}
	if _, ok := billingPlans[plan]; !ok {
		return "", apperrors.NewValidationFailedError("plan must be starter, pro or business")
	}
	if s.checkout == nil {
		return "", apperrors.NewAppError(http.StatusServiceUnavailable, "Billing is not configured", apperrors.ErrDependency)
	}

	url, err := s.checkout.CreateCheckoutURL(ctx, portssvc.CheckoutSession{
		CustomerRef:    scope.Key(),
		UserID:         scope.UserID,
		OrganizationID: scope.OrganizationIDPtr(),
		Plan:           plan,
		SuccessURL:     s.links.BillingReturnURL("success"),
		CancelURL:      s.links.BillingReturnURL("cancelled"),
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create checkout session", slog.String("plan", plan))
		return "", apperrors.NewDependencyError("Failed to start checkout", err)
	}
	s.Track(scope, "checkout_started", map[string]any{"plan": plan})
	return url, nil
}

// HandleWebhook verifies the signature, then applies the event exactly once. It reports
// whether this delivery changed anything.
func (s *billingService) HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) (bool, error) {
	if s.verifier == nil {
		return false, apperrors.NewAppError(http.StatusServiceUnavailable, "Billing webhooks are not configured", apperrors.ErrDependency)
	}
	if err := s.verifier.Verify(payload, signatureHeader, s.now()); err != nil {
		s.LogWarn(ctx, err, "Rejected billing webhook")
		return false, apperrors.NewAppError(http.StatusBadRequest, "Invalid webhook signature", errors.Join(apperrors.ErrValidation, err))
	}

	var event dto.BillingWebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return false, apperrors.NewValidationFailedError("Invalid webhook payload")
	}
	if event.ID == "" {
		return false, apperrors.NewValidationFailedError("Webhook event id is required")
	}

	logger := s.GetLogger(ctx).With(slog.String("event_id", event.ID), slog.String("event_type", event.Type))
	switch event.Type {
	case domain.BillingEventSubscriptionUpdated:
		return s.applySubscriptionUpdated(ctx, logger, event)
	case domain.BillingEventInvoicePaid:
		return s.applyInvoicePaid(ctx, logger, event)
	default:
		logger.Info("Ignoring unhandled billing event")
		return false, nil
	}
}

func (s *billingService) applySubscriptionUpdated(ctx context.Context, logger *slog.Logger, event dto.BillingWebhookEvent) (bool, error) {
	var data dto.SubscriptionEventData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return false, apperrors.NewValidationFailedError("Invalid subscription event data")
	}
	status := domain.SubscriptionStatus(data.Status)
	if data.UserID == "" || data.Plan == "" || !status.IsValid() {
		return false, apperrors.NewValidationFailedError("Subscription event requires userId, plan and a known status")
	}
	features := data.Features
	if features == nil {
		features = map[string]bool{}
	}
	sub := domain.Subscription{
		SubscriptionID:   uuid.NewString(),
		UserID:           data.UserID,
		OrganizationID:   data.OrganizationID,
		Plan:             data.Plan,
		Status:           status,
		Features:         features,
		CurrentPeriodEnd: data.CurrentPeriodEnd,
		UpdatedAt:        s.now(),
	}

	applied, err := s.billingRepo.ApplySubscriptionEvent(ctx, event.ID, sub)
	if err != nil {
		logger.Error("Failed to apply subscription event", slog.String("error", err.Error()))
		return false, err
	}
	if !applied {
		logger.Info("Billing event already processed")
		return false, nil
	}

	logger.Info("Subscription updated", slog.String("plan", sub.Plan), slog.String("status", string(sub.Status)))
	s.Notify(ctx, ownerNotification(sub.UserID, sub.OrganizationID, domain.NotificationSubscriptionUpdated, map[string]any{
		"plan":   sub.Plan,
		"status": string(sub.Status),
	}))
	return true, nil
}

func (s *billingService) applyInvoicePaid(ctx context.Context, logger *slog.Logger, event dto.BillingWebhookEvent) (bool, error) {
	var data dto.InvoicePaidEventData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return false, apperrors.NewValidationFailedError("Invalid invoice event data")
	}
	if data.InvoiceID == "" || !data.Amount.IsPositive() {
		return false, apperrors.NewValidationFailedError("Invoice event requires invoiceId and a positive amount")
	}

	applied, err := s.billingRepo.ApplyInvoicePaidEvent(ctx, event.ID, data.InvoiceID, uuid.NewString(), data.Amount)
	if err != nil {
		logger.Error("Failed to apply invoice payment event", slog.String("error", err.Error()))
		return false, err
	}
	if !applied {
		logger.Info("Billing event already processed")
		return false, nil
	}
	logger.Info("Invoice payment applied", slog.String("invoice_id", data.InvoiceID))
	return true, nil
}
