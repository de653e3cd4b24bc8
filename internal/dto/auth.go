package dto

import "github.com/SscSPs/finorn_backend/internal/core/domain"

// RegisterRequest creates a password account. Business accounts also create their first organization.
type RegisterRequest struct {
	Name             string             `json:"name" binding:"required,max=200"`
	Email            string             `json:"email" binding:"required,email"`
	Password         string             `json:"password" binding:"required,min=8,max=72"`
	AccountType      domain.AccountType `json:"accountType" binding:"required,oneof=individual business"`
	OrganizationName string             `json:"organizationName" binding:"required_if=AccountType business,max=200"`
}

// LoginRequest authenticates with email and password.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse defines data returned for a user.
type UserResponse struct {
	UserID      string             `json:"userID"`
	Name        string             `json:"name"`
	Email       string             `json:"email"`
	AccountType domain.AccountType `json:"accountType"`
}

func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:      u.UserID,
		Name:        u.Name,
		Email:       u.Email,
		AccountType: u.AccountType,
	}
}

// AuthResponse carries an access token.
type AuthResponse struct {
	AccessToken    string        `json:"accessToken"`
	TokenType      string        `json:"tokenType"`
	ExpiresIn      int64         `json:"expiresIn"`
	User           UserResponse  `json:"user"`
	OrganizationID *string       `json:"organizationID,omitempty"`
}
