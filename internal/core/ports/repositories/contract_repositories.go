package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/finorn_backend/internal/core/domain"
)

// ContractFilter narrows contract listings.
type ContractFilter struct {
	Status       *domain.ContractStatus
	ContractType *domain.ContractType
	ClientID     *string
	Limit        int
	NextToken    *string
}

// ContractReader defines read operations for contracts
type ContractReader interface {
	FindContractByID(ctx context.Context, scope domain.Scope, contractID string) (*domain.Contract, error)
	// FindContractByPublicToken is unscoped: the token is the capability.
	FindContractByPublicToken(ctx context.Context, token string) (*domain.Contract, error)
	ListContracts(ctx context.Context, scope domain.Scope, filter ContractFilter) ([]domain.Contract, *string, error)
}

// ContractWriter defines write operations for contracts
type ContractWriter interface {
	SaveContract(ctx context.Context, contract domain.Contract) error
	// UpdateContract persists all mutable fields, guarded by the expected current status.
	UpdateContract(ctx context.Context, scope domain.Scope, contract domain.Contract, expected domain.ContractStatus) error
	DeleteContract(ctx context.Context, scope domain.Scope, contractID string) error
	// RenewContract marks the predecessor EXPIRED with a link to the successor and inserts the
	// successor in one transaction. It returns a conflict when the predecessor was already renewed.
	RenewContract(ctx context.Context, predecessor domain.Contract, successor domain.Contract) error
}

// ContractSweepStore is used by the expiry sweep across all tenants.
type ContractSweepStore interface {
	ListActiveContractsEndingBefore(ctx context.Context, cutoff time.Time) ([]domain.Contract, error)
	// ClaimExpiryNotification appends day to notifications_sent unless already present and
	// reports whether this call added it.
	ClaimExpiryNotification(ctx context.Context, contractID string, day int) (bool, error)
	// ExpireContract flips an ACTIVE contract to EXPIRED and reports whether it changed.
	ExpireContract(ctx context.Context, contractID string, now time.Time) (bool, error)
}

// ContractRepositoryFacade combines all contract repository interfaces
type ContractRepositoryFacade interface {
	ContractReader
	ContractWriter
	ContractSweepStore
}
