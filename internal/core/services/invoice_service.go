package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/finorn_backend/internal/apperrors"
	"github.com/SscSPs/finorn_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/finorn_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
	"github.com/SscSPs/finorn_backend/internal/dto"
	"github.com/SscSPs/finorn_backend/internal/platform/links"
	"github.com/SscSPs/finorn_backend/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultInvoiceCurrency  = "USD"
	defaultInvoicePageLimit = 20
)

// InvoiceServiceDeps groups the collaborators of the invoice service.
type InvoiceServiceDeps struct {
	InvoiceRepo  portsrepo.InvoiceRepositoryFacade
	ClientRepo   portsrepo.ClientReader
	Storage      portssvc.FileStorage
	Mailer       portssvc.Mailer
	Links        *links.Builder
	SignedURLTTL time.Duration
}

// invoiceService implements the InvoiceSvcFacade interface
type invoiceService struct {
	BaseService
	invoiceRepo  portsrepo.InvoiceRepositoryFacade
	clientRepo   portsrepo.ClientReader
	storage      portssvc.FileStorage
	mailer       portssvc.Mailer
	links        *links.Builder
	signedURLTTL time.Duration
	now          func() time.Time
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(base BaseService, deps InvoiceServiceDeps) portssvc.InvoiceSvcFacade {
	return &invoiceService{
		BaseService:  base,
		invoiceRepo:  deps.InvoiceRepo,
		clientRepo:   deps.ClientRepo,
		storage:      deps.Storage,
		mailer:       deps.Mailer,
		links:        deps.Links,
		signedURLTTL: deps.SignedURLTTL,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

// generateInvoiceNumber returns INV-YYYYMMDD-xxxxxx.
func generateInvoiceNumber(now time.Time) (string, error) {
	suffix, err := utils.GenerateSecureRandomString(3)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("INV-%s-%s", now.Format("20060102"), strings.ToUpper(suffix)), nil
}

// ensureClient checks that clientID exists in scope.
func (s *invoiceService) ensureClient(ctx context.Context, scope domain.Scope, clientID string) error {
	if _, err := s.clientRepo.FindClientByID(ctx, scope, clientID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewValidationFailedError("Client not found")
		}
		return err
	}
	return nil
}

func newLineItems(invoiceID string, items []domain.LineItem) []domain.LineItem {
	out := make([]domain.LineItem, len(items))
	for i, it := range items {
		it.LineItemID = uuid.NewString()
		it.InvoiceID = invoiceID
		out[i] = it
	}
	return out
}

func (s *invoiceService) CreateInvoice(ctx context.Context, scope domain.Scope, in dto.InvoiceInput) (*domain.Invoice, error) {
	now := s.now()
	inv := domain.Invoice{
		InvoiceID:      uuid.NewString(),
		UserID:         scope.UserID,
		OrganizationID: scope.OrganizationIDPtr(),
		Status:         domain.InvoiceDraft,
		IssueDate:      now,
		DueDate:        in.DueDate,
		Currency:       defaultInvoiceCurrency,
		TaxRate:        decimal.Zero,
		AmountPaid:     decimal.Zero,
		AuditFields:    domain.NewAuditFields(scope.UserID, now),
	}
	if in.IssueDate != nil {
		inv.IssueDate = *in.IssueDate
	}
	if in.Currency != nil {
		inv.Currency = strings.ToUpper(*in.Currency)
	}
	if in.TaxRate != nil {
		inv.TaxRate = *in.TaxRate
	}
	if in.Notes != nil {
		inv.Notes = *in.Notes
	}
	if in.InvoiceNumber != nil && strings.TrimSpace(*in.InvoiceNumber) != "" {
		inv.InvoiceNumber = strings.TrimSpace(*in.InvoiceNumber)
	} else {
		number, err := generateInvoiceNumber(now)
		if err != nil {
			return nil, fmt.Errorf("failed to generate invoice number: %w", err)
		}
		inv.InvoiceNumber = number
	}
	if in.PaymentInformation != nil {
		if err := in.PaymentInformation.Validate(); err != nil {
			return nil, err
		}
		inv.PaymentInformation = in.PaymentInformation
	}
	if inv.DueDate != nil && inv.DueDate.Before(inv.IssueDate) {
		return nil, apperrors.NewValidationFailedError("dueDate cannot be before issueDate")
	}

	inv.LineItems = newLineItems(inv.InvoiceID, in.Items)
	if err := inv.Recalculate(); err != nil {
		return nil, err
	}
	if err := inv.ValidateTotals(); err != nil {
		return nil, err
	}

	var newClient *domain.Client
	switch {
	case in.NewClient != nil:
		c := *in.NewClient
		c.ClientID = uuid.NewString()
		c.UserID = scope.UserID
		c.OrganizationID = scope.OrganizationIDPtr()
		c.AuditFields = domain.NewAuditFields(scope.UserID, now)
		c.Normalize()
		if err := c.Validate(); err != nil {
			return nil, err
		}
		newClient = &c
	case in.ClientID != nil:
		if err := s.ensureClient(ctx, scope, *in.ClientID); err != nil {
			return nil, err
		}
		inv.ClientID = *in.ClientID
	default:
		return nil, apperrors.NewValidationFailedError("A client is required: provide clientId or a new client")
	}

	if err := s.invoiceRepo.CreateInvoice(ctx, scope, &inv, newClient); err != nil {
		s.LogError(ctx, err, "Failed to create invoice", slog.String("invoice_id", inv.InvoiceID))
		return nil, err
	}

	s.LogInfo(ctx, "Invoice created successfully",
		slog.String("invoice_id", inv.InvoiceID),
		slog.String("invoice_number", inv.InvoiceNumber))
	s.Notify(ctx, scopeNotification(scope, domain.NotificationInvoiceCreated, invoiceNotificationData(&inv)))
	s.Track(scope, "invoice_created", map[string]any{"currency": inv.Currency})
	return &inv, nil
}

func invoiceNotificationData(inv *domain.Invoice) map[string]any {
	return map[string]any{
		"invoiceId":     inv.InvoiceID,
		"invoiceNumber": inv.InvoiceNumber,
		"amount":        inv.TotalAmount.StringFixed(2),
		"currency":      inv.Currency,
	}
}

func (s *invoiceService) GetInvoice(ctx context.Context, scope domain.Scope, invoiceID string) (*domain.Invoice, error) {
	return s.invoiceRepo.FindInvoiceByID(ctx, scope, invoiceID)
}

func (s *invoiceService) ListInvoices(ctx context.Context, scope domain.Scope, params dto.ListInvoicesParams) ([]domain.Invoice, *string, error) {
	filter := portsrepo.InvoiceFilter{
		ClientID:  params.ClientID,
		Limit:     params.Limit,
		NextToken: params.NextToken,
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultInvoicePageLimit
	}
	if params.Status != nil && *params.Status != "" {
		status := domain.InvoiceStatus(strings.ToUpper(*params.Status))
		if !status.IsValid() {
			return nil, nil, apperrors.NewValidationFailedError("Invalid invoice status filter")
		}
		filter.Status = &status
	}

	invoices, next, err := s.invoiceRepo.ListInvoices(ctx, scope, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list invoices")
		return nil, nil, err
	}
	if invoices == nil {
		invoices = []domain.Invoice{}
	}
	return invoices, next, nil
}

func (s *invoiceService) ListPayments(ctx context.Context, scope domain.Scope, invoiceID string) ([]domain.Payment, error) {
	if _, err := s.invoiceRepo.FindInvoiceByID(ctx, scope, invoiceID); err != nil {
		return nil, err
	}
	payments, err := s.invoiceRepo.ListPayments(ctx, scope, invoiceID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list payments", slog.String("invoice_id", invoiceID))
		return nil, err
	}
	if payments == nil {
		return []domain.Payment{}, nil
	}
	return payments, nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, scope domain.Scope, invoiceID string, in dto.InvoiceInput) (*domain.Invoice, error) {
	inv, err := s.invoiceRepo.FindInvoiceByID(ctx, scope, invoiceID)
	if err != nil {
		return nil, err
	}
	if !inv.IsEditable() {
		return nil, apperrors.NewConflictError("Only draft invoices can be edited")
	}
	if in.NewClient != nil {
		return nil, apperrors.NewValidationFailedError("Use clientId to change the client of an existing invoice")
	}

	if in.ClientID != nil && *in.ClientID != inv.ClientID {
		if err := s.ensureClient(ctx, scope, *in.ClientID); err != nil {
			return nil, err
		}
		inv.ClientID = *in.ClientID
	}
	if in.InvoiceNumber != nil && strings.TrimSpace(*in.InvoiceNumber) != "" {
		inv.InvoiceNumber = strings.TrimSpace(*in.InvoiceNumber)
	}
	if in.IssueDate != nil {
		inv.IssueDate = *in.IssueDate
	}
	if in.DueDate != nil {
		inv.DueDate = in.DueDate
	}
	if in.Currency != nil {
		inv.Currency = strings.ToUpper(*in.Currency)
	}
	if in.TaxRate != nil {
		inv.TaxRate = *in.TaxRate
	}
	if in.Notes != nil {
		inv.Notes = *in.Notes
	}
	if in.PaymentInformation != nil {
		if err := in.PaymentInformation.Validate(); err != nil {
			return nil, err
		}
		inv.PaymentInformation = in.PaymentInformation
	}
	if inv.DueDate != nil && inv.DueDate.Before(inv.IssueDate) {
		return nil, apperrors.NewValidationFailedError("dueDate cannot be before issueDate")
	}
	if in.HasItems {
		inv.LineItems = newLineItems(inv.InvoiceID, in.Items)
	}
	if err := inv.Recalculate(); err != nil {
		return nil, err
	}
	if err := inv.ValidateTotals(); err != nil {
		return nil, err
	}
	inv.Touch(scope.UserID, s.now())

	if err := s.invoiceRepo.UpdateInvoice(ctx, scope, *inv); err != nil {
		s.LogError(ctx, err, "Failed to update invoice", slog.String("invoice_id", invoiceID))
		return nil, err
	}
	return inv, nil
}

// DeleteInvoice removes draft and cancelled invoices. Issued invoices stay for the record.
func (s *invoiceService) DeleteInvoice(ctx context.Context, scope domain.Scope, invoiceID string) error {
	if err := s.AuthorizeRole(ctx, scope, domain.RoleAdmin, "delete invoices"); err != nil {
		return err
	}
	inv, err := s.invoiceRepo.FindInvoiceByID(ctx, scope, invoiceID)
	if err != nil {
		return err
	}
	if inv.Status != domain.InvoiceDraft && inv.Status != domain.InvoiceCancelled {
		return apperrors.NewConflictError("Only draft or cancelled invoices can be deleted")
	}
	if err := s.invoiceRepo.DeleteInvoice(ctx, scope, invoiceID); err != nil {
		s.LogError(ctx, err, "Failed to delete invoice", slog.String("invoice_id", invoiceID))
		return err
	}
	if inv.PDFKey != nil {
		deleteObjectQuietly(ctx, s.storage, *inv.PDFKey)
	}
	s.LogInfo(ctx, "Invoice deleted", slog.String("invoice_id", invoiceID))
	return nil
}
