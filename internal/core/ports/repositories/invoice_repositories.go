package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/finorn_backend/internal/core/domain"
)

// InvoiceFilter narrows invoice listings.
type InvoiceFilter struct {
	Status    *domain.InvoiceStatus
	ClientID  *string
	Limit     int
	NextToken *string
}

// InvoiceReader defines read operations for invoices
type InvoiceReader interface {
	FindInvoiceByID(ctx context.Context, scope domain.Scope, invoiceID string) (*domain.Invoice, error)
	// FindInvoiceByPublicToken is unscoped: the token is the capability.
	FindInvoiceByPublicToken(ctx context.Context, token string) (*domain.Invoice, error)
	// ListInvoices returns one page and the token for the next page, if any.
	ListInvoices(ctx context.Context, scope domain.Scope, filter InvoiceFilter) ([]domain.Invoice, *string, error)
	ListPayments(ctx context.Context, scope domain.Scope, invoiceID string) ([]domain.Payment, error)
}

// InvoiceWriter defines write operations for invoices
type InvoiceWriter interface {
	// CreateInvoice inserts the invoice and its line items in one transaction. When newClient is
	// set, an existing scope client with the same name or email is reused, otherwise newClient is
	// inserted; invoice.ClientID is set to the resolved client.
	CreateInvoice(ctx context.Context, scope domain.Scope, invoice *domain.Invoice, newClient *domain.Client) error
	// UpdateInvoice replaces the invoice row and all its line items in one transaction.
	UpdateInvoice(ctx context.Context, scope domain.Scope, invoice domain.Invoice) error
	// SaveInvoiceState persists status/token/email/pdf fields, guarded by the expected current status.
	SaveInvoiceState(ctx context.Context, scope domain.Scope, invoice domain.Invoice, expected domain.InvoiceStatus) error
	DeleteInvoice(ctx context.Context, scope domain.Scope, invoiceID string) error
	// SetInvoicePDF stores the object key of the invoice document.
	SetInvoicePDF(ctx context.Context, scope domain.Scope, invoiceID string, key string) error
	// RecordPayment inserts the payment and updates amount paid and status in one transaction.
	RecordPayment(ctx context.Context, scope domain.Scope, payment domain.Payment, invoice domain.Invoice) error
	// MarkOverdueInvoices flips SENT invoices whose due date is before domain.OverdueCutoff(now)
	// to OVERDUE across all tenants and returns the invoices it changed.
	MarkOverdueInvoices(ctx context.Context, now time.Time) ([]domain.Invoice, error)
}

// InvoiceRepositoryFacade combines all invoice repository interfaces
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}
