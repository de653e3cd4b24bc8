package services

import (
	"context"

	"github.com/SscSPs/finorn_backend/internal/core/domain"
)

// TenancySvc resolves the data scope of a request.
type TenancySvc interface {
	// ResolveScope returns an individual scope for individual accounts. Business accounts must
	// name an organization they belong to; otherwise ErrMissingOrganizationContext or
	// ErrNotOrganizationMember is returned.
	ResolveScope(ctx context.Context, userID string, organizationID string) (domain.Scope, error)
}
