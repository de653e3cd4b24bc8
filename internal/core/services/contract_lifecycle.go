package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/finorn_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/finorn_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
	"github.com/SscSPs/finorn_backend/internal/utils"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// applyTransitionEffects sets status to and records the bookkeeping fields of that state.
func applyTransitionEffects(c *domain.Contract, to domain.ContractStatus, actorID string, now time.Time, reason string) error {
	switch to {
	case domain.ContractPendingSignature:
		if c.PublicViewToken == nil {
			token, err := utils.GeneratePublicViewToken()
			if err != nil {
				return fmt.Errorf("failed to generate public view token: %w", err)
			}
			c.PublicViewToken = &token
		}
	case domain.ContractSigned:
		c.SignedAt = &now
	case domain.ContractActive:
		c.ApprovedBy = &actorID
		c.ApprovedAt = &now
	case domain.ContractCancelled:
		c.CancelledAt = &now
		if reason = strings.TrimSpace(reason); reason != "" {
			c.CancellationReason = &reason
		}
	}
	c.Status = to
	return nil
}

func transitionNotification(to domain.ContractStatus) domain.NotificationType {
	switch to {
	case domain.ContractPendingSignature:
		return domain.NotificationContractSentForSignature
	case domain.ContractSigned:
		return domain.NotificationContractSigned
	case domain.ContractActive:
		return domain.NotificationContractApproved
	case domain.ContractCancelled:
		return domain.NotificationContractCancelled
	case domain.ContractExpired:
		return domain.NotificationContractExpired
	}
	return ""
}

// transition loads the contract, validates from -> to against the table and persists the
// change guarded by the status it was loaded with.
func (s *contractService) transition(ctx context.Context, scope domain.Scope, contractID string, to domain.ContractStatus, reason string) (*domain.Contract, error) {
	contract, err := s.contractRepo.FindContractByID(ctx, scope, contractID)
	if err != nil {
		return nil, err
	}
	previous := contract.Status
	if err := domain.ValidateManualContractTransition(previous, to); err != nil {
		return nil, err
	}
	now := s.now()
	if err := applyTransitionEffects(contract, to, scope.UserID, now, reason); err != nil {
		return nil, err
	}
	contract.Touch(scope.UserID, now)

	if err := s.contractRepo.UpdateContract(ctx, scope, *contract, previous); err != nil {
		s.LogError(ctx, err, "Failed to update contract status",
			slog.String("contract_id", contractID),
			slog.String("from", string(previous)),
			slog.String("to", string(to)))
		return nil, err
	}

	s.LogInfo(ctx, "Contract status changed",
		slog.String("contract_id", contractID),
		slog.String("from", string(previous)),
		slog.String("to", string(to)))
	s.Notify(ctx, scopeNotification(scope, transitionNotification(to), contractNotificationData(contract)))
	s.Track(scope, "contract_status_changed", map[string]any{"to": string(to)})
	return contract, nil
}

func (s *contractService) SendForSignature(ctx context.Context, scope domain.Scope, contractID string) (*domain.Contract, error) {
	contract, err := s.transition(ctx, scope, contractID, domain.ContractPendingSignature, "")
	if err != nil {
		return nil, err
	}
	s.emailSignatureRequest(ctx, scope, contract)
	return contract, nil
}

// emailSignatureRequest sends the share link to the contract's client, when it has an email.
func (s *contractService) emailSignatureRequest(ctx context.Context, scope domain.Scope, contract *domain.Contract) {
	if s.mailer == nil || contract.ClientID == nil || contract.PublicViewToken == nil {
		return
	}
	client, err := s.clientRepo.FindClientByID(ctx, scope, *contract.ClientID)
	if err != nil || client.Email == nil {
		return
	}
	url := s.links.PublicContractURL(*contract.PublicViewToken)
	msg := portssvc.EmailMessage{
		To:       []string{*client.Email},
		Subject:  "Contract ready for signature: " + contract.Title,
		Text:     fmt.Sprintf("Contract %q is ready for your review: %s", contract.Title, url),
		Template: "contract_signature_request",
		Data: map[string]any{
			"title": contract.Title,
			"url":   url,
		},
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.LogWarn(ctx, err, "Failed to send signature request email", slog.String("contract_id", contract.ContractID))
	}
}

func (s *contractService) SignContract(ctx context.Context, scope domain.Scope, contractID string) (*domain.Contract, error) {
	return s.transition(ctx, scope, contractID, domain.ContractSigned, "")
}

func (s *contractService) ApproveContract(ctx context.Context, scope domain.Scope, contractID string) (*domain.Contract, error) {
	if err := s.AuthorizeRole(ctx, scope, domain.RoleAdmin, "approve contracts"); err != nil {
		return nil, err
	}
	return s.transition(ctx, scope, contractID, domain.ContractActive, "")
}

func (s *contractService) CancelContract(ctx context.Context, scope domain.Scope, contractID string, reason string) (*domain.Contract, error) {
	return s.transition(ctx, scope, contractID, domain.ContractCancelled, reason)
}

// RenewContract creates the successor of an ACTIVE or EXPIRED contract and expires the predecessor.
func (s *contractService) RenewContract(ctx context.Context, scope domain.Scope, contractID string) (_ *domain.Contract, _ *domain.Contract, err error) {
	ctx, span := startSpan(ctx, "ContractService.RenewContract", attribute.String("contract.id", contractID))
	defer func() { endSpan(span, err) }()

	if err := s.AuthorizeRole(ctx, scope, domain.RoleAdmin, "renew contracts"); err != nil {
		return nil, nil, err
	}
	contract, err := s.contractRepo.FindContractByID(ctx, scope, contractID)
	if err != nil {
		return nil, nil, err
	}
	renewed, previous, err := s.renewer.renew(ctx, contract, scope.UserID, s.now())
	if err != nil {
		s.LogError(ctx, err, "Failed to renew contract", slog.String("contract_id", contractID))
		return nil, nil, err
	}

	s.LogInfo(ctx, "Contract renewed",
		slog.String("contract_id", contractID),
		slog.String("renewed_contract_id", renewed.ContractID))
	s.Notify(ctx, scopeNotification(scope, domain.NotificationContractRenewed, contractNotificationData(renewed)))
	s.Track(scope, "contract_renewed", map[string]any{"renewal_count": renewed.RenewalCount})
	return renewed, previous, nil
}

// contractRenewer performs the renewal write shared by the API and the expiry sweep.
type contractRenewer struct {
	repo portsrepo.ContractWriter
}

// renew persists the successor and the expired predecessor in one repository call. The
// repository refuses a predecessor that already has a successor, which makes concurrent
// renewals of the same contract fail instead of producing two successors.
func (r *contractRenewer) renew(ctx context.Context, contract *domain.Contract, actorID string, now time.Time) (*domain.Contract, *domain.Contract, error) {
	successor, err := contract.Renew(uuid.NewString(), actorID, now)
	if err != nil {
		return nil, nil, err
	}
	predecessor := *contract
	predecessor.Status = domain.ContractExpired
	predecessor.RenewedToID = &successor.ContractID
	predecessor.Touch(actorID, now)

	if err := r.repo.RenewContract(ctx, predecessor, successor); err != nil {
		return nil, nil, err
	}
	return &successor, &predecessor, nil
}
