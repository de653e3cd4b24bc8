package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/finorn_backend/internal/apperrors"
	"github.com/SscSPs/finorn_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/finorn_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
	"github.com/SscSPs/finorn_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/ttacon/libphonenumber"
)

const (
	defaultClientListLimit  = 50
	defaultClientSearchSize = 10
)

// clientService implements the ClientSvcFacade interface
type clientService struct {
	BaseService
	clientRepo    portsrepo.ClientRepositoryFacade
	defaultRegion string
}

// NewClientService creates a new client service. defaultRegion is the ISO 3166 region used to
// parse phone numbers that carry no country code.
func NewClientService(base BaseService, clientRepo portsrepo.ClientRepositoryFacade, defaultRegion string) portssvc.ClientSvcFacade {
	return &clientService{
		BaseService:   base,
		clientRepo:    clientRepo,
		defaultRegion: strings.ToUpper(defaultRegion),
	}
}

var _ portssvc.ClientSvcFacade = (*clientService)(nil)

// normalizePhone formats phone as E.164. Blank input clears the phone.
func normalizePhone(phone *string, region, fallback string) (*string, error) {
	if phone == nil {
		return nil, nil
	}
	raw := strings.TrimSpace(*phone)
	if raw == "" {
		return nil, nil
	}
	if region == "" {
		region = fallback
	}
	parsed, err := libphonenumber.Parse(raw, strings.ToUpper(region))
	if err != nil || !libphonenumber.IsValidNumber(parsed) {
		return nil, apperrors.NewValidationFailedError("Invalid phone number")
	}
	formatted := libphonenumber.Format(parsed, libphonenumber.E164)
	return &formatted, nil
}

func (s *clientService) CreateClient(ctx context.Context, scope domain.Scope, req dto.CreateClientRequest) (*domain.Client, error) {
	phone, err := normalizePhone(req.Phone, req.Country, s.defaultRegion)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	client := domain.Client{
		ClientID:       uuid.NewString(),
		UserID:         scope.UserID,
		OrganizationID: scope.OrganizationIDPtr(),
		Name:           req.Name,
		Email:          req.Email,
		Phone:          phone,
		Company:        strings.TrimSpace(req.Company),
		Address:        strings.TrimSpace(req.Address),
		TaxID:          strings.TrimSpace(req.TaxID),
		Notes:          req.Notes,
		AuditFields:    domain.NewAuditFields(scope.UserID, now),
	}
	client.Normalize()
	if err := client.Validate(); err != nil {
		return nil, err
	}

	if err := s.clientRepo.CreateClientIfUnique(ctx, scope, client); err != nil {
		s.LogError(ctx, err, "Failed to create client", slog.String("client_id", client.ClientID))
		return nil, err
	}

	s.LogInfo(ctx, "Client created successfully", slog.String("client_id", client.ClientID))
	s.Notify(ctx, scopeNotification(scope, domain.NotificationClientCreated, map[string]any{
		"clientId": client.ClientID,
		"name":     client.Name,
	}))
	s.Track(scope, "client_created", nil)
	return &client, nil
}

func (s *clientService) GetClient(ctx context.Context, scope domain.Scope, clientID string) (*domain.Client, error) {
	client, err := s.clientRepo.FindClientByID(ctx, scope, clientID)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (s *clientService) ListClients(ctx context.Context, scope domain.Scope, params dto.ListClientsParams) ([]domain.Client, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultClientListLimit
	}
	clients, err := s.clientRepo.ListClients(ctx, scope, limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list clients")
		return nil, err
	}
	if clients == nil {
		return []domain.Client{}, nil
	}
	return clients, nil
}

func (s *clientService) SearchClients(ctx context.Context, scope domain.Scope, query string, limit int) ([]domain.Client, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.Client{}, nil
	}
	if limit <= 0 || limit > defaultClientListLimit {
		limit = defaultClientSearchSize
	}
	clients, err := s.clientRepo.SearchClients(ctx, scope, query, limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to search clients")
		return nil, err
	}
	if clients == nil {
		return []domain.Client{}, nil
	}
	return clients, nil
}

func (s *clientService) UpdateClient(ctx context.Context, scope domain.Scope, clientID string, req dto.UpdateClientRequest) (*domain.Client, error) {
	client, err := s.clientRepo.FindClientByID(ctx, scope, clientID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.Email != nil {
		client.Email = req.Email
	}
	if req.Phone != nil {
		phone, err := normalizePhone(req.Phone, req.Country, s.defaultRegion)
		if err != nil {
			return nil, err
		}
		client.Phone = phone
	}
	if req.Company != nil {
		client.Company = strings.TrimSpace(*req.Company)
	}
	if req.Address != nil {
		client.Address = strings.TrimSpace(*req.Address)
	}
	if req.TaxID != nil {
		client.TaxID = strings.TrimSpace(*req.TaxID)
	}
	if req.Notes != nil {
		client.Notes = *req.Notes
	}
	client.Normalize()
	if err := client.Validate(); err != nil {
		return nil, err
	}
	client.Touch(scope.UserID, time.Now().UTC())

	if err := s.clientRepo.UpdateClient(ctx, scope, *client); err != nil {
		s.LogError(ctx, err, "Failed to update client", slog.String("client_id", clientID))
		return nil, err
	}
	return client, nil
}

func (s *clientService) DeleteClient(ctx context.Context, scope domain.Scope, clientID string) error {
	if err := s.AuthorizeRole(ctx, scope, domain.RoleAdmin, "delete clients"); err != nil {
		return err
	}
	if err := s.clientRepo.DeleteClient(ctx, scope, clientID); err != nil {
		s.LogError(ctx, err, "Failed to delete client", slog.String("client_id", clientID))
		return err
	}
	s.LogInfo(ctx, "Client deleted", slog.String("client_id", clientID))
	return nil
}
