package services

import (
	"context"

	"github.com/SscSPs/finorn_backend/internal/core/domain"
)

// PublicViewSvc serves token-addressed documents without authentication.
// An unknown token is reported as not found.
type PublicViewSvc interface {
	GetPublicInvoice(ctx context.Context, token string) (*domain.Invoice, *domain.Client, error)
	GetPublicContract(ctx context.Context, token string) (*domain.Contract, *domain.Client, error)
	SendInvoiceCopy(ctx context.Context, token string, email string) error
}
