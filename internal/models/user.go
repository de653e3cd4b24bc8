package models

// User is a row of the users table.
type User struct {
	UserID        string  `db:"user_id"`
	Name          string  `db:"name"`
	Email         string  `db:"email"`
	AccountType   string  `db:"account_type"`
	PasswordHash  *string `db:"password_hash"`
	GoogleSubject *string `db:"google_subject"`
	AuditFields
}
