package services

import (
	"context"

	"github.com/SscSPs/finorn_backend/internal/core/domain"
)

// ExportSvc renders spreadsheets of scope data.
type ExportSvc interface {
	ExportInvoices(ctx context.Context, scope domain.Scope) ([]byte, error)
	ExportExpenses(ctx context.Context, scope domain.Scope) ([]byte, error)
}
