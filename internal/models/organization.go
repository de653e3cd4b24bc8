package models

import "time"

type Organization struct {
	OrganizationID string `db:"organization_id"`
	Name           string `db:"name"`
	AuditFields
}

// OrganizationUser is a row of the organization_users join table.
type OrganizationUser struct {
	OrganizationID string    `db:"organization_id"`
	UserID         string    `db:"user_id"`
	Role           string    `db:"role"`
	JoinedAt       time.Time `db:"joined_at"`
}
