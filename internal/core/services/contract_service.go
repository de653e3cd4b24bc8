package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/finorn_backend/internal/apperrors"
	"github.com/SscSPs/finorn_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/finorn_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
	"github.com/SscSPs/finorn_backend/internal/dto"
	"github.com/SscSPs/finorn_backend/internal/platform/links"
	"github.com/google/uuid"
)

const defaultContractPageLimit = 20

// contractService implements the ContractSvcFacade interface
type contractService struct {
	BaseService
	contractRepo portsrepo.ContractRepositoryFacade
	clientRepo   portsrepo.ClientReader
	mailer       portssvc.Mailer
	links        *links.Builder
	renewer      *contractRenewer
	now          func() time.Time
}

// NewContractService creates a new contract service
func NewContractService(
	base BaseService,
	contractRepo portsrepo.ContractRepositoryFacade,
	clientRepo portsrepo.ClientReader,
	mailer portssvc.Mailer,
	linkBuilder *links.Builder,
) portssvc.ContractSvcFacade {
	return &contractService{
		BaseService:  base,
		contractRepo: contractRepo,
		clientRepo:   clientRepo,
		mailer:       mailer,
		links:        linkBuilder,
		renewer:      &contractRenewer{repo: contractRepo},
		now:          func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.ContractSvcFacade = (*contractService)(nil)

func contractNotificationData(c *domain.Contract) map[string]any {
	data := map[string]any{
		"contractId": c.ContractID,
		"title":      c.Title,
		"value":      c.Value.StringFixed(2),
		"currency":   c.Currency,
	}
	if c.EndDate != nil {
		data["endDate"] = c.EndDate.Format("2006-01-02")
	}
	return data
}

func (s *contractService) ensureClient(ctx context.Context, scope domain.Scope, clientID string) error {
	if _, err := s.clientRepo.FindClientByID(ctx, scope, clientID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewValidationFailedError("Client not found")
		}
		return err
	}
	return nil
}

func validateContractDates(start time.Time, end *time.Time) error {
	if end != nil && !end.After(start) {
		return apperrors.NewValidationFailedError("endDate must be after startDate")
	}
	return nil
}

func (s *contractService) CreateContract(ctx context.Context, scope domain.Scope, req dto.CreateContractRequest) (*domain.Contract, error) {
	now := s.now()
	contract := domain.Contract{
		ContractID:        uuid.NewString(),
		UserID:            scope.UserID,
		OrganizationID:    scope.OrganizationIDPtr(),
		Title:             strings.TrimSpace(req.Title),
		Description:       req.Description,
		Status:            domain.ContractDraft,
		Value:             req.Value,
		Currency:          defaultInvoiceCurrency,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		AutoRenew:         req.AutoRenew,
		NotificationsSent: []int{},
		AuditFields:       domain.NewAuditFields(scope.UserID, now),
	}
	if contract.Title == "" {
		return nil, apperrors.NewValidationFailedError("Contract title is required")
	}
	if err := contract.SetType(req.ContractType); err != nil {
		return nil, err
	}
	if err := domain.ValidateAmount("value", contract.Value); err != nil {
		return nil, err
	}
	if req.Currency != "" {
		contract.Currency = strings.ToUpper(req.Currency)
	}
	if err := validateContractDates(contract.StartDate, contract.EndDate); err != nil {
		return nil, err
	}
	terms := req.RenewalTerms.ApplyTo(domain.RenewalTerms{}).WithDefaults()
	if err := terms.Validate(); err != nil {
		return nil, err
	}
	contract.RenewalTerms = terms
	if len(req.Metadata) > 0 {
		contract.Metadata.Custom = req.Metadata
	}
	if req.ClientID != nil && *req.ClientID != "" {
		if err := s.ensureClient(ctx, scope, *req.ClientID); err != nil {
			return nil, err
		}
		contract.ClientID = req.ClientID
	}

	if err := s.contractRepo.SaveContract(ctx, contract); err != nil {
		s.LogError(ctx, err, "Failed to save contract", slog.String("contract_id", contract.ContractID))
		return nil, err
	}

	s.LogInfo(ctx, "Contract created successfully",
		slog.String("contract_id", contract.ContractID),
		slog.String("contract_type", string(contract.ContractType)))
	s.Notify(ctx, scopeNotification(scope, domain.NotificationContractCreated, contractNotificationData(&contract)))
	s.Track(scope, "contract_created", map[string]any{"contract_type": string(contract.ContractType)})
	return &contract, nil
}

func (s *contractService) GetContract(ctx context.Context, scope domain.Scope, contractID string) (*domain.Contract, error) {
	return s.contractRepo.FindContractByID(ctx, scope, contractID)
}

func (s *contractService) ListContracts(ctx context.Context, scope domain.Scope, params dto.ListContractsParams) ([]domain.Contract, *string, error) {
	filter := portsrepo.ContractFilter{
		ClientID:  params.ClientID,
		Limit:     params.Limit,
		NextToken: params.NextToken,
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultContractPageLimit
	}
	if params.Status != nil && *params.Status != "" {
		status := domain.ContractStatus(strings.ToUpper(*params.Status))
		if !status.IsValid() {
			return nil, nil, apperrors.NewValidationFailedError("Invalid contract status filter")
		}
		filter.Status = &status
	}
	if params.ContractType != nil && *params.ContractType != "" {
		ct, err := domain.NormalizeContractType(*params.ContractType)
		if err != nil {
			return nil, nil, err
		}
		filter.ContractType = &ct
	}

	contracts, next, err := s.contractRepo.ListContracts(ctx, scope, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list contracts")
		return nil, nil, err
	}
	if contracts == nil {
		contracts = []domain.Contract{}
	}
	return contracts, next, nil
}

func hasContentChanges(req dto.UpdateContractRequest) bool {
	return req.Title != nil || req.Description != nil || req.ContractType != nil || req.ClientID != nil ||
		req.Value != nil || req.Currency != nil || req.StartDate != nil || req.EndDate != nil || req.Metadata != nil
}

// UpdateContract edits the content of a draft contract and optionally moves it along the
// transition table.
func (s *contractService) UpdateContract(ctx context.Context, scope domain.Scope, contractID string, req dto.UpdateContractRequest) (*domain.Contract, error) {
	contract, err := s.contractRepo.FindContractByID(ctx, scope, contractID)
	if err != nil {
		return nil, err
	}
	previous := contract.Status

	if hasContentChanges(req) {
		if previous != domain.ContractDraft {
			return nil, apperrors.NewConflictError("Only draft contracts can be edited")
		}
		if err := s.applyContentChanges(ctx, scope, contract, req); err != nil {
			return nil, err
		}
	}

	now := s.now()
	var notification domain.NotificationType
	if req.Status != nil && *req.Status != previous {
		to := *req.Status
		if !to.IsValid() {
			return nil, apperrors.NewValidationFailedError("Invalid contract status")
		}
		if err := domain.ValidateManualContractTransition(previous, to); err != nil {
			return nil, err
		}
		if to == domain.ContractActive {
			if err := s.AuthorizeRole(ctx, scope, domain.RoleAdmin, "approve contracts"); err != nil {
				return nil, err
			}
		}
		if err := applyTransitionEffects(contract, to, scope.UserID, now, ""); err != nil {
			return nil, err
		}
		notification = transitionNotification(to)
	}
	contract.Touch(scope.UserID, now)

	if err := s.contractRepo.UpdateContract(ctx, scope, *contract, previous); err != nil {
		s.LogError(ctx, err, "Failed to update contract", slog.String("contract_id", contractID))
		return nil, err
	}
	if notification != "" {
		s.Notify(ctx, scopeNotification(scope, notification, contractNotificationData(contract)))
	}
	return contract, nil
}

func (s *contractService) applyContentChanges(ctx context.Context, scope domain.Scope, contract *domain.Contract, req dto.UpdateContractRequest) error {
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return apperrors.NewValidationFailedError("Contract title is required")
		}
		contract.Title = title
	}
	if req.Description != nil {
		contract.Description = *req.Description
	}
	if req.ContractType != nil {
		if err := contract.SetType(*req.ContractType); err != nil {
			return err
		}
	}
	if req.ClientID != nil {
		if *req.ClientID == "" {
			contract.ClientID = nil
		} else {
			if err := s.ensureClient(ctx, scope, *req.ClientID); err != nil {
				return err
			}
			contract.ClientID = req.ClientID
		}
	}
	if req.Value != nil {
		if err := domain.ValidateAmount("value", *req.Value); err != nil {
			return err
		}
		contract.Value = *req.Value
	}
	if req.Currency != nil {
		contract.Currency = strings.ToUpper(*req.Currency)
	}
	if req.StartDate != nil {
		contract.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		contract.EndDate = req.EndDate
	}
	if req.Metadata != nil {
		contract.Metadata.Custom = req.Metadata
	}
	return validateContractDates(contract.StartDate, contract.EndDate)
}

func (s *contractService) DeleteContract(ctx context.Context, scope domain.Scope, contractID string) error {
	if err := s.AuthorizeRole(ctx, scope, domain.RoleAdmin, "delete contracts"); err != nil {
		return err
	}
	contract, err := s.contractRepo.FindContractByID(ctx, scope, contractID)
	if err != nil {
		return err
	}
	if contract.Status != domain.ContractDraft && contract.Status != domain.ContractCancelled {
		return apperrors.NewConflictError("Only draft or cancelled contracts can be deleted")
	}
	if err := s.contractRepo.DeleteContract(ctx, scope, contractID); err != nil {
		s.LogError(ctx, err, "Failed to delete contract", slog.String("contract_id", contractID))
		return err
	}
	s.LogInfo(ctx, "Contract deleted", slog.String("contract_id", contractID))
	return nil
}

func (s *contractService) UpdateRenewalSettings(ctx context.Context, scope domain.Scope, contractID string, req dto.RenewalSettingsRequest) (*domain.Contract, error) {
	contract, err := s.contractRepo.FindContractByID(ctx, scope, contractID)
	if err != nil {
		return nil, err
	}
	if contract.Status == domain.ContractCancelled {
		return nil, apperrors.NewConflictError("Renewal settings of a cancelled contract cannot be changed")
	}

	terms := req.RenewalTerms.ApplyTo(contract.RenewalTerms.WithDefaults())
	if err := terms.Validate(); err != nil {
		return nil, err
	}
	contract.RenewalTerms = terms
	if req.AutoRenew != nil {
		contract.AutoRenew = *req.AutoRenew
	}
	contract.Touch(scope.UserID, s.now())

	if err := s.contractRepo.UpdateContract(ctx, scope, *contract, contract.Status); err != nil {
		s.LogError(ctx, err, "Failed to update renewal settings", slog.String("contract_id", contractID))
		return nil, err
	}
	return contract, nil
}
