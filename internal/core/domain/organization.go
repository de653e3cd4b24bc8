package domain

import "time"

// Organization is the tenant for business accounts.
type Organization struct {
	OrganizationID string `json:"organizationID"`
	Name           string `json:"name"`
	AuditFields
}

// OrganizationRole defines the possible roles a user can have within an organization.
type OrganizationRole string

const (
	RoleOwner  OrganizationRole = "OWNER"
	RoleAdmin  OrganizationRole = "ADMIN"
	RoleMember OrganizationRole = "MEMBER"
)

var roleRank = map[OrganizationRole]int{
	RoleMember: 1,
	RoleAdmin:  2,
	RoleOwner:  3,
}

// IsValid reports whether r is a known role.
func (r OrganizationRole) IsValid() bool {
	_, ok := roleRank[r]
	return ok
}

// Satisfies reports whether r is at least as privileged as required.
func (r OrganizationRole) Satisfies(required OrganizationRole) bool {
	have, ok := roleRank[r]
	if !ok {
		return false
	}
	return have >= roleRank[required]
}

// OrganizationUser represents the membership of a User in an Organization.
type OrganizationUser struct {
	OrganizationID string           `json:"organizationID"`
	UserID         string           `json:"userID"`
	Role           OrganizationRole `json:"role"`
	JoinedAt       time.Time        `json:"joinedAt"`
}
