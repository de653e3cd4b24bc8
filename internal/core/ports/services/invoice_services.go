package services

import (
	"context"
	"io"

	"github.com/SscSPs/finorn_backend/internal/core/domain"
	"github.com/SscSPs/finorn_backend/internal/dto"
)

type InvoiceReaderSvc interface {
	GetInvoice(ctx context.Context, scope domain.Scope, invoiceID string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, scope domain.Scope, params dto.ListInvoicesParams) ([]domain.Invoice, *string, error)
	ListPayments(ctx context.Context, scope domain.Scope, invoiceID string) ([]domain.Payment, error)
}

type InvoiceWriterSvc interface {
	CreateInvoice(ctx context.Context, scope domain.Scope, in dto.InvoiceInput) (*domain.Invoice, error)
	// UpdateInvoice only changes draft invoices.
	UpdateInvoice(ctx context.Context, scope domain.Scope, invoiceID string, in dto.InvoiceInput) (*domain.Invoice, error)
	DeleteInvoice(ctx context.Context, scope domain.Scope, invoiceID string) error
}

type InvoiceLifecycleSvc interface {
	// SendInvoice issues the public token if absent, marks the invoice SENT and emails the recipient.
	SendInvoice(ctx context.Context, scope domain.Scope, invoiceID string, req dto.SendInvoiceRequest) (*domain.Invoice, error)
	CancelInvoice(ctx context.Context, scope domain.Scope, invoiceID string) (*domain.Invoice, error)
	RecordPayment(ctx context.Context, scope domain.Scope, invoiceID string, req dto.RecordPaymentRequest) (*domain.Invoice, *domain.Payment, error)
}

type InvoiceDocumentSvc interface {
	UploadInvoicePDF(ctx context.Context, scope domain.Scope, invoiceID string, body io.Reader, contentType string) (*domain.Invoice, error)
	// GetInvoicePDFLink returns an inline URL for action "view" and an attachment URL for "download".
	GetInvoicePDFLink(ctx context.Context, scope domain.Scope, invoiceID string, action string) (*dto.FileLinkResponse, error)
}

// InvoiceSvcFacade combines the invoice service interfaces.
type InvoiceSvcFacade interface {
	InvoiceReaderSvc
	InvoiceWriterSvc
	InvoiceLifecycleSvc
	InvoiceDocumentSvc
}
