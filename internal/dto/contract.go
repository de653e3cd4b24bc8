package dto

import (
	"time"

	"github.com/SscSPs/finorn_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RenewalTermsRequest carries optional renewal settings.
type RenewalTermsRequest struct {
	Duration         *int             `json:"duration"`
	PriceAdjustment  *decimal.Decimal `json:"priceAdjustment" swaggertype:"string"`
	NotificationDays []int            `json:"notificationDays"`
}

// ApplyTo overlays the set fields on terms.
func (r *RenewalTermsRequest) ApplyTo(terms domain.RenewalTerms) domain.RenewalTerms {
	if r == nil {
		return terms
	}
	if r.Duration != nil {
		terms.Duration = *r.Duration
	}
	if r.PriceAdjustment != nil {
		terms.PriceAdjustment = *r.PriceAdjustment
	}
	if r.NotificationDays != nil {
		terms.NotificationDays = append([]int(nil), r.NotificationDays...)
	}
	return terms
}

// CreateContractRequest defines data for creating a contract.
type CreateContractRequest struct {
	Title        string               `json:"title" binding:"required,max=200"`
	Description  string               `json:"description" binding:"max=10000"`
	ContractType string               `json:"contractType" binding:"required,contract_type"`
	ClientID     *string              `json:"clientId"`
	Value        decimal.Decimal      `json:"value" swaggertype:"string"`
	Currency     string               `json:"currency" binding:"omitempty,len=3"`
	StartDate    time.Time            `json:"startDate" binding:"required"`
	EndDate      *time.Time           `json:"endDate"`
	AutoRenew    bool                 `json:"autoRenew"`
	RenewalTerms *RenewalTermsRequest `json:"renewalTerms"`
	Metadata     map[string]string    `json:"metadata"`
}

// UpdateContractRequest defines the fields that can be changed on a contract.
type UpdateContractRequest struct {
	Title        *string                `json:"title" binding:"omitempty,max=200"`
	Description  *string                `json:"description" binding:"omitempty,max=10000"`
	ContractType *string                `json:"contractType" binding:"omitempty,contract_type"`
	ClientID     *string                `json:"clientId"`
	Value        *decimal.Decimal       `json:"value" swaggertype:"string"`
	Currency     *string                `json:"currency" binding:"omitempty,len=3"`
	StartDate    *time.Time             `json:"startDate"`
	EndDate      *time.Time             `json:"endDate"`
	Status       *domain.ContractStatus `json:"status"`
	Metadata     map[string]string      `json:"metadata"`
}

// CancelContractRequest carries an optional cancellation reason.
type CancelContractRequest struct {
	Reason string `json:"reason" binding:"max=1000"`
}

// RenewalSettingsRequest updates auto-renewal and renewal terms.
type RenewalSettingsRequest struct {
	AutoRenew    *bool                `json:"autoRenew"`
	RenewalTerms *RenewalTermsRequest `json:"renewalTerms"`
}

// ListContractsParams defines query parameters for listing contracts.
type ListContractsParams struct {
	Status       *string `form:"status"`
	ContractType *string `form:"contractType"`
	ClientID     *string `form:"clientId"`
	Limit        int     `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken    *string `form:"nextToken"`
}

// RenewalTermsResponse defines renewal terms in responses.
type RenewalTermsResponse struct {
	Duration         int             `json:"duration"`
	PriceAdjustment  decimal.Decimal `json:"priceAdjustment" swaggertype:"string"`
	NotificationDays []int           `json:"notificationDays"`
}

func toRenewalTermsResponse(t domain.RenewalTerms) RenewalTermsResponse {
	t = t.WithDefaults()
	return RenewalTermsResponse{
		Duration:         t.Duration,
		PriceAdjustment:  t.PriceAdjustment,
		NotificationDays: t.NotificationDays,
	}
}

// ContractResponse defines data returned for a contract to its owners. Type is the label the
// user asked for; ContractType is the canonical value.
type ContractResponse struct {
	ContractID         string                  `json:"contractID"`
	UserID             string                  `json:"userId"`
	OrganizationID     *string                 `json:"organizationId,omitempty"`
	ClientID           *string                 `json:"clientId,omitempty"`
	Title              string                  `json:"title"`
	Description        string                  `json:"description,omitempty"`
	Type               string                  `json:"type"`
	ContractType       domain.ContractType     `json:"contractType"`
	Metadata           domain.ContractMetadata `json:"metadata"`
	Status             domain.ContractStatus   `json:"status"`
	Value              decimal.Decimal         `json:"value" swaggertype:"string"`
	Currency           string                  `json:"currency"`
	StartDate          time.Time               `json:"startDate"`
	EndDate            *time.Time              `json:"endDate,omitempty"`
	AutoRenew          bool                    `json:"autoRenew"`
	RenewalTerms       RenewalTermsResponse    `json:"renewalTerms"`
	NotificationsSent  []int                   `json:"notificationsSent"`
	ApprovedBy         *string                 `json:"approvedBy,omitempty"`
	ApprovedAt         *time.Time              `json:"approvedAt,omitempty"`
	SignedAt           *time.Time              `json:"signedAt,omitempty"`
	CancelledAt        *time.Time              `json:"cancelledAt,omitempty"`
	CancellationReason *string                 `json:"cancellationReason,omitempty"`
	PublicViewToken    *string                 `json:"publicViewToken,omitempty"`
	PublicURL          *string                 `json:"publicUrl,omitempty"`
	RenewedFromID      *string                 `json:"renewedFromId,omitempty"`
	RenewedToID        *string                 `json:"renewedToId,omitempty"`
	RenewalCount       int                     `json:"renewalCount"`
	CreatedAt          time.Time               `json:"createdAt"`
	CreatedBy          string                  `json:"createdBy"`
	LastUpdatedAt      time.Time               `json:"lastUpdatedAt"`
}

// ToContractResponse converts domain.Contract to DTO. publicURL may be nil.
func ToContractResponse(c *domain.Contract, publicURL func(token string) string) ContractResponse {
	sent := c.NotificationsSent
	if sent == nil {
		sent = []int{}
	}
	resp := ContractResponse{
		ContractID:         c.ContractID,
		UserID:             c.UserID,
		OrganizationID:     c.OrganizationID,
		ClientID:           c.ClientID,
		Title:              c.Title,
		Description:        c.Description,
		Type:               c.DisplayType(),
		ContractType:       c.ContractType,
		Metadata:           c.Metadata,
		Status:             c.Status,
		Value:              c.Value,
		Currency:           c.Currency,
		StartDate:          c.StartDate,
		EndDate:            c.EndDate,
		AutoRenew:          c.AutoRenew,
		RenewalTerms:       toRenewalTermsResponse(c.RenewalTerms),
		NotificationsSent:  sent,
		ApprovedBy:         c.ApprovedBy,
		ApprovedAt:         c.ApprovedAt,
		SignedAt:           c.SignedAt,
		CancelledAt:        c.CancelledAt,
		CancellationReason: c.CancellationReason,
		PublicViewToken:    c.PublicViewToken,
		RenewedFromID:      c.RenewedFromID,
		RenewedToID:        c.RenewedToID,
		RenewalCount:       c.RenewalCount,
		CreatedAt:          c.CreatedAt,
		CreatedBy:          c.CreatedBy,
		LastUpdatedAt:      c.LastUpdatedAt,
	}
	if c.PublicViewToken != nil && publicURL != nil {
		u := publicURL(*c.PublicViewToken)
		resp.PublicURL = &u
	}
	return resp
}

// ListContractsResponse wraps a page of contracts.
type ListContractsResponse struct {
	Contracts []ContractResponse `json:"contracts"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// RenewContractResponse returns both sides of a renewal.
type RenewContractResponse struct {
	Renewed  ContractResponse `json:"renewed"`
	Previous ContractResponse `json:"previous"`
}
