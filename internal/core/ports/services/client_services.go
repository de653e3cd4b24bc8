package services

import (
	"context"

	"github.com/SscSPs/finorn_backend/internal/core/domain"
	"github.com/SscSPs/finorn_backend/internal/dto"
)

type ClientReaderSvc interface {
	GetClient(ctx context.Context, scope domain.Scope, clientID string) (*domain.Client, error)
	ListClients(ctx context.Context, scope domain.Scope, params dto.ListClientsParams) ([]domain.Client, error)
	SearchClients(ctx context.Context, scope domain.Scope, query string, limit int) ([]domain.Client, error)
}

type ClientWriterSvc interface {
	// CreateClient rejects a name or email already used by another client in the scope.
	CreateClient(ctx context.Context, scope domain.Scope, req dto.CreateClientRequest) (*domain.Client, error)
	UpdateClient(ctx context.Context, scope domain.Scope, clientID string, req dto.UpdateClientRequest) (*domain.Client, error)
	// DeleteClient fails with a conflict while invoices or contracts reference the client.
	DeleteClient(ctx context.Context, scope domain.Scope, clientID string) error
}

// ClientSvcFacade combines the client service interfaces.
type ClientSvcFacade interface {
	ClientReaderSvc
	ClientWriterSvc
}
