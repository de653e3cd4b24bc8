package domain

// ScopeKind distinguishes individual data from organization data.
type ScopeKind string

const (
	ScopeIndividual   ScopeKind = "individual"
	ScopeOrganization ScopeKind = "organization"
)

// Scope is the tenancy boundary a request operates in. UserID is always the
// acting user; OrganizationID and Role are set only for organization scope.
type Scope struct {
	Kind           ScopeKind
	UserID         string
	OrganizationID string
	Role           OrganizationRole
}

func IndividualScope(userID string) Scope {
	return Scope{Kind: ScopeIndividual, UserID: userID}
}

func OrganizationScope(userID, organizationID string, role OrganizationRole) Scope {
	return Scope{Kind: ScopeOrganization, UserID: userID, OrganizationID: organizationID, Role: role}
}

// IsOrganization reports whether the scope is an organization.
func (s Scope) IsOrganization() bool {
	return s.Kind == ScopeOrganization
}

// OrganizationIDPtr returns the value to persist in organization_id columns.
func (s Scope) OrganizationIDPtr() *string {
	if !s.IsOrganization() {
		return nil
	}
	id := s.OrganizationID
	return &id
}

// Owns reports whether a record with the given owner columns belongs to this scope.
func (s Scope) Owns(userID string, organizationID *string) bool {
	if s.IsOrganization() {
		return organizationID != nil && *organizationID == s.OrganizationID
	}
	return organizationID == nil && userID == s.UserID
}

// Key is a stable identifier for the scope, used in storage keys and locks.
func (s Scope) Key() string {
	if s.IsOrganization() {
		return "org-" + s.OrganizationID
	}
	return "user-" + s.UserID
}
