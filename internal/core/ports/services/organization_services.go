package services

import (
	"context"

	"github.com/SscSPs/finorn_backend/internal/core/domain"
)

// OrganizationSvcFacade manages organizations and their members.
type OrganizationSvcFacade interface {
	CreateOrganization(ctx context.Context, userID, name string) (*domain.Organization, error)
	ListUserOrganizations(ctx context.Context, userID string) ([]domain.Organization, error)
	// AddMember requires the caller to be OWNER or ADMIN; only an OWNER may add another OWNER.
	AddMember(ctx context.Context, requestingUserID, organizationID, email string, role domain.OrganizationRole) (*domain.OrganizationUser, error)
}
