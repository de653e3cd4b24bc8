package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/finorn_backend/internal/apperrors"
	"github.com/SscSPs/finorn_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/finorn_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
	"github.com/SscSPs/finorn_backend/internal/dto"
	"go.opentelemetry.io/otel/attribute"
)

const (
	SweepLockKey = "finorn:lock:contract-sweep"
	SweepLockTTL = 5 * time.Minute
)

// sweepService implements the ExpirySweepSvc interface
type sweepService struct {
	BaseService
	contractRepo portsrepo.ContractRepositoryFacade
	invoiceRepo  portsrepo.InvoiceWriter
	locker       portssvc.Locker
	renewer      *contractRenewer
}

// NewSweepService creates the expiry sweep. locker may be nil, in which case runs are never skipped.
func NewSweepService(base BaseService, contractRepo portsrepo.ContractRepositoryFacade, invoiceRepo portsrepo.InvoiceWriter, locker portssvc.Locker) portssvc.ExpirySweepSvc {
	return &sweepService{
		BaseService:  base,
		contractRepo: contractRepo,
		invoiceRepo:  invoiceRepo,
		locker:       locker,
		renewer:      &contractRenewer{repo: contractRepo},
	}
}

var _ portssvc.ExpirySweepSvc = (*sweepService)(nil)

func ownerNotification(userID string, organizationID *string, t domain.NotificationType, data map[string]any, channels ...domain.NotificationChannel) portssvc.NotifyParams {
	if len(channels) == 0 {
		channels = []domain.NotificationChannel{domain.ChannelInApp}
	}
	return portssvc.NotifyParams{
		UserID:         userID,
		OrganizationID: organizationID,
		Type:           t,
		Data:           data,
		Channels:       channels,
	}
}

// RunSweep sends expiry reminders, renews or expires contracts past their end date and marks
// overdue invoices. Every step is idempotent on its own: reminders are claimed in the database
// before they are sent, renewals refuse a contract that already has a successor, and expiry
// only changes ACTIVE rows. The lock only saves duplicate work.
func (s *sweepService) RunSweep(ctx context.Context, now time.Time) (_ *dto.SweepResult, err error) {
	ctx, span := startSpan(ctx, "SweepService.RunSweep")
	defer func() { endSpan(span, err) }()

	result := &dto.SweepResult{Errors: []string{}}

	if s.locker != nil {
		lock, lockErr := s.locker.TryLock(ctx, SweepLockKey, SweepLockTTL)
		switch {
		case errors.Is(lockErr, portssvc.ErrLockHeld):
			s.LogInfo(ctx, "Contract sweep already running elsewhere, skipping")
			result.Skipped = true
			return result, nil
		case lockErr != nil:
			s.LogWarn(ctx, lockErr, "Sweep lock unavailable, running without it")
		default:
			defer func() {
				if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
					s.LogWarn(ctx, err, "Failed to release sweep lock")
				}
			}()
		}
	}

	cutoff := now.AddDate(0, 0, domain.ExpiryLookaheadDays)
	contracts, err := s.contractRepo.ListActiveContractsEndingBefore(ctx, cutoff)
	if err != nil {
		s.LogError(ctx, err, "Failed to list contracts for sweep")
		return nil, err
	}

	for i := range contracts {
		c := &contracts[i]
		if c.EndDate == nil {
			continue
		}
		result.Scanned++
		if stepErr := s.sweepContract(ctx, c, now, result); stepErr != nil {
			s.LogError(ctx, stepErr, "Contract sweep step failed", slog.String("contract_id", c.ContractID))
			result.Errors = append(result.Errors, fmt.Sprintf("contract %s: %v", c.ContractID, stepErr))
		}
	}

	overdue, err := s.invoiceRepo.MarkOverdueInvoices(ctx, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to mark overdue invoices")
		result.Errors = append(result.Errors, fmt.Sprintf("overdue invoices: %v", err))
	}
	result.InvoicesMarkedOverdue = int64(len(overdue))
	for i := range overdue {
		inv := &overdue[i]
		s.Notify(ctx, ownerNotification(inv.UserID, inv.OrganizationID, domain.NotificationInvoiceOverdue, invoiceNotificationData(inv)))
	}

	span.SetAttributes(
		attribute.Int("sweep.scanned", result.Scanned),
		attribute.Int("sweep.notifications_sent", result.NotificationsSent),
		attribute.Int("sweep.renewed", result.Renewed),
		attribute.Int("sweep.expired", result.Expired),
	)
	s.LogInfo(ctx, "Contract sweep finished",
		slog.Int("scanned", result.Scanned),
		slog.Int("notifications_sent", result.NotificationsSent),
		slog.Int("renewed", result.Renewed),
		slog.Int("expired", result.Expired),
		slog.Int64("invoices_marked_overdue", result.InvoicesMarkedOverdue),
		slog.Int("errors", len(result.Errors)))
	return result, nil
}

func (s *sweepService) sweepContract(ctx context.Context, c *domain.Contract, now time.Time, result *dto.SweepResult) error {
	days := domain.DaysUntil(*c.EndDate, now)

	if days > 0 {
		if !c.IsNotificationDay(days) || c.HasSentNotification(days) {
			return nil
		}
		claimed, err := s.contractRepo.ClaimExpiryNotification(ctx, c.ContractID, days)
		if err != nil {
			return err
		}
		if !claimed {
			return nil
		}
		data := contractNotificationData(c)
		data["daysToExpiry"] = days
		s.Notify(ctx, ownerNotification(c.UserID, c.OrganizationID, domain.NotificationContractExpiring, data,
			domain.ChannelInApp, domain.ChannelEmail))
		result.NotificationsSent++
		return nil
	}

	if c.AutoRenew {
		renewed, _, err := s.renewer.renew(ctx, c, c.UserID, now)
		if err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				s.LogDebug(ctx, "Contract already renewed", slog.String("contract_id", c.ContractID))
				return nil
			}
			return err
		}
		result.Renewed++
		s.Notify(ctx, ownerNotification(c.UserID, c.OrganizationID, domain.NotificationContractRenewed, contractNotificationData(renewed)))
		return nil
	}

	changed, err := s.contractRepo.ExpireContract(ctx, c.ContractID, now)
	if err != nil {
		return err
	}
	if changed {
		result.Expired++
		s.Notify(ctx, ownerNotification(c.UserID, c.OrganizationID, domain.NotificationContractExpired, contractNotificationData(c)))
	}
	return nil
}
