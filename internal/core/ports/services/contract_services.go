package services

import (
	"context"

	"github.com/SscSPs/finorn_backend/internal/core/domain"
	"github.com/SscSPs/finorn_backend/internal/dto"
)

type ContractReaderSvc interface {
	GetContract(ctx context.Context, scope domain.Scope, contractID string) (*domain.Contract, error)
	ListContracts(ctx context.Context, scope domain.Scope, params dto.ListContractsParams) ([]domain.Contract, *string, error)
}

type ContractWriterSvc interface {
	CreateContract(ctx context.Context, scope domain.Scope, req dto.CreateContractRequest) (*domain.Contract, error)
	UpdateContract(ctx context.Context, scope domain.Scope, contractID string, req dto.UpdateContractRequest) (*domain.Contract, error)
	// DeleteContract is only allowed for DRAFT and CANCELLED contracts.
	DeleteContract(ctx context.Context, scope domain.Scope, contractID string) error
	UpdateRenewalSettings(ctx context.Context, scope domain.Scope, contractID string, req dto.RenewalSettingsRequest) (*domain.Contract, error)
}

type ContractLifecycleSvc interface {
	SendForSignature(ctx context.Context, scope domain.Scope, contractID string) (*domain.Contract, error)
	SignContract(ctx context.Context, scope domain.Scope, contractID string) (*domain.Contract, error)
	ApproveContract(ctx context.Context, scope domain.Scope, contractID string) (*domain.Contract, error)
	CancelContract(ctx context.Context, scope domain.Scope, contractID string, reason string) (*domain.Contract, error)
	// RenewContract returns the successor and the expired predecessor.
	RenewContract(ctx context.Context, scope domain.Scope, contractID string) (*domain.Contract, *domain.Contract, error)
}

// ContractSvcFacade combines the contract service interfaces.
type ContractSvcFacade interface {
	ContractReaderSvc
	ContractWriterSvc
	ContractLifecycleSvc
}
