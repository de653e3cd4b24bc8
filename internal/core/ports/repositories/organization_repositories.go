package repositories

import (
	"context"

	"github.com/SscSPs/finorn_backend/internal/core/domain"
)

// OrganizationReader defines read operations for organizations
type OrganizationReader interface {
	FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error)
	ListOrganizationsByUserID(ctx context.Context, userID string) ([]domain.Organization, error)
}

// OrganizationWriter defines write operations for organizations
type OrganizationWriter interface {
	// SaveOrganizationWithOwner inserts the organization and its first OWNER membership atomically.
	SaveOrganizationWithOwner(ctx context.Context, org domain.Organization, owner domain.OrganizationUser) error
}

// OrganizationMembershipManager defines operations for managing memberships
type OrganizationMembershipManager interface {
	AddMember(ctx context.Context, membership domain.OrganizationUser) error
	// FindMembership returns ErrNotFound when the user is not a member.
	FindMembership(ctx context.Context, userID, organizationID string) (*domain.OrganizationUser, error)
}

// OrganizationRepositoryFacade combines all organization repository interfaces
type OrganizationRepositoryFacade interface {
	OrganizationReader
	OrganizationWriter
	OrganizationMembershipManager
}
