package domain

import (
	"regexp"
	"strings"

	"github.com/SscSPs/finorn_backend/internal/apperrors"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail applies the address format accepted for clients and share-link recipients.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// Client is a contact record owned by exactly one scope.
type Client struct {
	ClientID       string  `json:"clientID"`
	UserID         string  `json:"userId"`
	OrganizationID *string `json:"organizationId,omitempty"`
	Name           string  `json:"name"`
	Email          *string `json:"email,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	Company        string  `json:"company,omitempty"`
	Address        string  `json:"address,omitempty"`
	TaxID          string  `json:"taxId,omitempty"`
	Notes          string  `json:"notes,omitempty"`
	AuditFields
}

// Normalize trims the identity fields used for duplicate detection.
func (c *Client) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	if c.Email != nil {
		e := strings.ToLower(strings.TrimSpace(*c.Email))
		if e == "" {
			c.Email = nil
		} else {
			c.Email = &e
		}
	}
}

// Validate checks required fields and the email format.
func (c *Client) Validate() error {
	if c.Name == "" {
		return apperrors.NewValidationFailedError("Client name is required")
	}
	if c.Email != nil && !IsValidEmail(*c.Email) {
		return apperrors.NewValidationFailedError("Invalid email format")
	}
	return nil
}
