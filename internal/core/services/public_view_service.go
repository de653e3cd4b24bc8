package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/finorn_backend/internal/apperrors"
	"github.com/SscSPs/finorn_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/finorn_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
	"github.com/SscSPs/finorn_backend/internal/platform/links"
	"go.opentelemetry.io/otel/attribute"
)

var (
	errPublicInvoiceNotFound  = apperrors.NewNotFoundError("Invoice not found or link has expired")
	errPublicContractNotFound = apperrors.NewNotFoundError("Contract not found or link has expired")
)

// publicViewService implements the PublicViewSvc interface
type publicViewService struct {
	BaseService
	invoiceRepo  portsrepo.InvoiceReader
	contractRepo portsrepo.ContractReader
	clientRepo   portsrepo.ClientReader
	mailer       portssvc.Mailer
	links        *links.Builder
}

func NewPublicViewService(
	base BaseService,
	invoiceRepo portsrepo.InvoiceReader,
	contractRepo portsrepo.ContractReader,
	clientRepo portsrepo.ClientReader,
	mailer portssvc.Mailer,
	linkBuilder *links.Builder,
) portssvc.PublicViewSvc {
	return &publicViewService{
		BaseService:  base,
		invoiceRepo:  invoiceRepo,
		contractRepo: contractRepo,
		clientRepo:   clientRepo,
		mailer:       mailer,
		links:        linkBuilder,
	}
}

var _ portssvc.PublicViewSvc = (*publicViewService)(nil)

// documentClient loads the client of a shared document. A missing client does not hide the document.
func (s *publicViewService) documentClient(ctx context.Context, userID string, organizationID *string, clientID string) *domain.Client {
	if clientID == "" {
		return nil
	}
	client, err := s.clientRepo.FindClientByID(ctx, ownerScope(userID, organizationID), clientID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogWarn(ctx, err, "Failed to load client for shared document")
		}
		return nil
	}
	return client
}

func (s *publicViewService) findInvoice(ctx context.Context, token string) (*domain.Invoice, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errPublicInvoiceNotFound
	}
	inv, err := s.invoiceRepo.FindInvoiceByPublicToken(ctx, token)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, errPublicInvoiceNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (s *publicViewService) GetPublicInvoice(ctx context.Context, token string) (_ *domain.Invoice, _ *domain.Client, err error) {
	ctx, span := startSpan(ctx, "PublicViewService.GetPublicInvoice")
	defer func() { endSpan(span, err) }()

	inv, err := s.findInvoice(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	span.SetAttributes(attribute.String("invoice.id", inv.InvoiceID))
	return inv, s.documentClient(ctx, inv.UserID, inv.OrganizationID, inv.ClientID), nil
}

func (s *publicViewService) GetPublicContract(ctx context.Context, token string) (_ *domain.Contract, _ *domain.Client, err error) {
	ctx, span := startSpan(ctx, "PublicViewService.GetPublicContract")
	defer func() { endSpan(span, err) }()

	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil, errPublicContractNotFound
	}
	contract, err := s.contractRepo.FindContractByPublicToken(ctx, token)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, errPublicContractNotFound
		}
		return nil, nil, err
	}
	span.SetAttributes(attribute.String("contract.id", contract.ContractID))

	var client *domain.Client
	if contract.ClientID != nil {
		client = s.documentClient(ctx, contract.UserID, contract.OrganizationID, *contract.ClientID)
	}
	return contract, client, nil
}

// SendInvoiceCopy emails the share link of an invoice to any address. The email is the
// whole point of the call, so a delivery failure is returned.
func (s *publicViewService) SendInvoiceCopy(ctx context.Context, token string, email string) (err error) {
	ctx, span := startSpan(ctx, "PublicViewService.SendInvoiceCopy")
	defer func() { endSpan(span, err) }()

	email = strings.ToLower(strings.TrimSpace(email))
	if !domain.IsValidEmail(email) {
		return apperrors.NewValidationFailedError("Invalid email format")
	}
	inv, err := s.findInvoice(ctx, token)
	if err != nil {
		return err
	}
	if s.mailer == nil {
		return apperrors.NewDependencyError("Email delivery is not configured", nil)
	}

	publicURL := s.links.PublicInvoiceURL(*inv.PublicViewToken)
	msg := portssvc.EmailMessage{
		To:       []string{email},
		Subject:  "Copy of invoice " + inv.InvoiceNumber,
		Text:     fmt.Sprintf("A copy of invoice %s was shared with you: %s", inv.InvoiceNumber, publicURL),
		Template: "invoice_copy",
		Data: map[string]any{
			"invoiceNumber": inv.InvoiceNumber,
			"amount":        inv.TotalAmount.StringFixed(2),
			"currency":      inv.Currency,
			"url":           publicURL,
		},
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.LogError(ctx, err, "Failed to send invoice copy", slog.String("invoice_id", inv.InvoiceID))
		return apperrors.NewDependencyError("Failed to send email", err)
	}
	s.LogInfo(ctx, "Invoice copy sent", slog.String("invoice_id", inv.InvoiceID))
	return nil
}
