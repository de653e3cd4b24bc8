package models

type Client struct {
	ClientID       string  `db:"client_id"`
	UserID         string  `db:"user_id"`
	OrganizationID *string `db:"organization_id"`
	Name           string  `db:"name"`
	Email          *string `db:"email"`
	Phone          *string `db:"phone"`
	Company        string  `db:"company"`
	Address        string  `db:"address"`
	TaxID          string  `db:"tax_id"`
	Notes          string  `db:"notes"`
	AuditFields
}
