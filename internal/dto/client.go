package dto

import (
	"time"

	"github.com/SscSPs/finorn_backend/internal/core/domain"
)

// CreateClientRequest defines data for creating a client. Name and email rules are applied by the service.
type CreateClientRequest struct {
	Name    string  `json:"name" binding:"max=200"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Country string  `json:"country" binding:"omitempty,len=2"` // ISO 3166 region used to parse Phone
	Company string  `json:"company" binding:"max=200"`
	Address string  `json:"address" binding:"max=500"`
	TaxID   string  `json:"taxId" binding:"max=64"`
	Notes   string  `json:"notes" binding:"max=2000"`
}

// UpdateClientRequest defines the fields that can be changed on a client.
type UpdateClientRequest struct {
	Name    *string `json:"name" binding:"omitempty,max=200"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Country string  `json:"country" binding:"omitempty,len=2"`
	Company *string `json:"company" binding:"omitempty,max=200"`
	Address *string `json:"address" binding:"omitempty,max=500"`
	TaxID   *string `json:"taxId" binding:"omitempty,max=64"`
	Notes   *string `json:"notes" binding:"omitempty,max=2000"`
}

// ListClientsParams defines query parameters for listing clients.
type ListClientsParams struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// ClientResponse defines data returned for a client.
type ClientResponse struct {
	ClientID       string    `json:"clientID"`
	UserID         string    `json:"userId"`
	OrganizationID *string   `json:"organizationId,omitempty"`
	Name           string    `json:"name"`
	Email          *string   `json:"email,omitempty"`
	Phone          *string   `json:"phone,omitempty"`
	Company        string    `json:"company,omitempty"`
	Address        string    `json:"address,omitempty"`
	TaxID          string    `json:"taxId,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	LastUpdatedAt  time.Time `json:"lastUpdatedAt"`
}

func ToClientResponse(c *domain.Client) ClientResponse {
	return ClientResponse{
		ClientID:       c.ClientID,
		UserID:         c.UserID,
		OrganizationID: c.OrganizationID,
		Name:           c.Name,
		Email:          c.Email,
		Phone:          c.Phone,
		Company:        c.Company,
		Address:        c.Address,
		TaxID:          c.TaxID,
		Notes:          c.Notes,
		CreatedAt:      c.CreatedAt,
		LastUpdatedAt:  c.LastUpdatedAt,
	}
}

// ListClientsResponse wraps a list of clients.
type ListClientsResponse struct {
	Clients []ClientResponse `json:"clients"`
}

func ToListClientsResponse(cs []domain.Client) ListClientsResponse {
	list := make([]ClientResponse, len(cs))
	for i := range cs {
		list[i] = ToClientResponse(&cs[i])
	}
	return ListClientsResponse{Clients: list}
}
