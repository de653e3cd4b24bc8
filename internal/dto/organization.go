package dto

import (
	"time"

	"github.com/SscSPs/finorn_backend/internal/core/domain"
)

// CreateOrganizationRequest defines data for creating an organization.
type CreateOrganizationRequest struct {
	Name string `json:"name" binding:"required,max=200"`
}

// AddMemberRequest adds an existing user, identified by email, to an organization.
type AddMemberRequest struct {
	Email string                  `json:"email" binding:"required,email"`
	Role  domain.OrganizationRole `json:"role" binding:"required,oneof=OWNER ADMIN MEMBER"`
}

// OrganizationResponse defines data returned for an organization.
type OrganizationResponse struct {
	OrganizationID string    `json:"organizationID"`
	Name           string    `json:"name"`
	CreatedAt      time.Time `json:"createdAt"`
	CreatedBy      string    `json:"createdBy"`
}

func ToOrganizationResponse(o *domain.Organization) OrganizationResponse {
	return OrganizationResponse{
		OrganizationID: o.OrganizationID,
		Name:           o.Name,
		CreatedAt:      o.CreatedAt,
		CreatedBy:      o.CreatedBy,
	}
}

// ListOrganizationsResponse wraps a list of organizations.
type ListOrganizationsResponse struct {
	Organizations []OrganizationResponse `json:"organizations"`
}

func ToListOrganizationsResponse(os []domain.Organization) ListOrganizationsResponse {
	list := make([]OrganizationResponse, len(os))
	for i := range os {
		list[i] = ToOrganizationResponse(&os[i])
	}
	return ListOrganizationsResponse{Organizations: list}
}

// MembershipResponse defines data returned for a membership.
type MembershipResponse struct {
	OrganizationID string                  `json:"organizationID"`
	UserID         string                  `json:"userID"`
	Role           domain.OrganizationRole `json:"role"`
	JoinedAt       time.Time               `json:"joinedAt"`
	InvitationURL  string                  `json:"invitationUrl"`
}
