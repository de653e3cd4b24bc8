package repositories

import (
	"context"

	"github.com/SscSPs/finorn_backend/internal/core/domain"
)

// ClientReader defines scoped read operations for clients
type ClientReader interface {
	FindClientByID(ctx context.Context, scope domain.Scope, clientID string) (*domain.Client, error)
	ListClients(ctx context.Context, scope domain.Scope, limit, offset int) ([]domain.Client, error)
	SearchClients(ctx context.Context, scope domain.Scope, query string, limit int) ([]domain.Client, error)
}

// ClientWriter defines scoped write operations for clients
type ClientWriter interface {
	// CreateClientIfUnique inserts the client unless another client in the same scope shares
	// its name or email, in which case it returns a conflict.
	CreateClientIfUnique(ctx context.Context, scope domain.Scope, client domain.Client) error
	// UpdateClient applies the same uniqueness rule, excluding the client itself.
	UpdateClient(ctx context.Context, scope domain.Scope, client domain.Client) error
	// DeleteClient refuses to delete clients referenced by invoices or contracts.
	DeleteClient(ctx context.Context, scope domain.Scope, clientID string) error
}

// ClientRepositoryFacade combines all client repository interfaces
type ClientRepositoryFacade interface {
	ClientReader
	ClientWriter
}
