package domain

// AccountType decides how a user's requests are scoped.
type AccountType string

const (
	AccountTypeIndividual AccountType = "individual"
	AccountTypeBusiness   AccountType = "business"
)

// IsValid reports whether t is a known account type.
func (t AccountType) IsValid() bool {
	return t == AccountTypeIndividual || t == AccountTypeBusiness
}

// User represents a user of the application in the domain.
type User struct {
	UserID        string      `json:"userID"` // Primary Key (UUID)
	Name          string      `json:"name"`
	Email         string      `json:"email"`
	AccountType   AccountType `json:"accountType"`
	PasswordHash  *string     `json:"-"`
	GoogleSubject *string     `json:"-"`
	AuditFields
}
