package dto

import (
	"time"

	"github.com/SscSPs/finorn_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PublicClientView is the billed party as shown on a shared document.
type PublicClientView struct {
	Name    string  `json:"name"`
	Company string  `json:"company,omitempty"`
	Email   *string `json:"email,omitempty"`
	Address string  `json:"address,omitempty"`
}

// PublicInvoiceResponse is the redacted, token-addressed view of an invoice.
// It has no owner identifiers and never echoes the token.
type PublicInvoiceResponse struct {
	InvoiceNumber      string                     `json:"invoiceNumber"`
	Status             domain.InvoiceStatus       `json:"status"`
	IssueDate          time.Time                  `json:"issueDate"`
	DueDate            *time.Time                 `json:"dueDate,omitempty"`
	Currency           string                     `json:"currency"`
	SubTotal           decimal.Decimal            `json:"subTotal" swaggertype:"string"`
	TaxRate            decimal.Decimal            `json:"taxRate" swaggertype:"string"`
	TaxAmount          decimal.Decimal            `json:"taxAmount" swaggertype:"string"`
	TotalAmount        decimal.Decimal            `json:"totalAmount" swaggertype:"string"`
	AmountPaid         decimal.Decimal            `json:"amountPaid" swaggertype:"string"`
	Notes              string                     `json:"notes,omitempty"`
	PaymentInformation *domain.PaymentInformation `json:"paymentInformation,omitempty"`
	Client             *PublicClientView          `json:"client,omitempty"`
	LineItems          []LineItemResponse         `json:"lineItems"`
}

func ToPublicInvoiceResponse(inv *domain.Invoice, client *domain.Client) PublicInvoiceResponse {
	resp := PublicInvoiceResponse{
		InvoiceNumber:      inv.InvoiceNumber,
		Status:             inv.Status,
		IssueDate:          inv.IssueDate,
		DueDate:            inv.DueDate,
		Currency:           inv.Currency,
		SubTotal:           inv.SubTotal,
		TaxRate:            inv.TaxRate,
		TaxAmount:          inv.TaxAmount,
		TotalAmount:        inv.TotalAmount,
		AmountPaid:         inv.AmountPaid,
		Notes:              inv.Notes,
		PaymentInformation: inv.PaymentInformation,
		LineItems:          toLineItemResponses(inv.LineItems),
	}
	if client != nil {
		resp.Client = &PublicClientView{
			Name:    client.Name,
			Company: client.Company,
			Email:   client.Email,
			Address: client.Address,
		}
	}
	return resp
}

// PublicContractResponse is the redacted, token-addressed view of a contract.
// Owner identifiers, the token and the approver are omitted.
type PublicContractResponse struct {
	Title        string                `json:"title"`
	Description  string                `json:"description,omitempty"`
	Type         string                `json:"type"`
	ContractType domain.ContractType   `json:"contractType"`
	Status       domain.ContractStatus `json:"status"`
	Value        decimal.Decimal       `json:"value" swaggertype:"string"`
	Currency     string                `json:"currency"`
	StartDate    time.Time             `json:"startDate"`
	EndDate      *time.Time            `json:"endDate,omitempty"`
	AutoRenew    bool                  `json:"autoRenew"`
	ApprovedAt   *time.Time            `json:"approvedAt,omitempty"`
	SignedAt     *time.Time            `json:"signedAt,omitempty"`
	Client       *PublicClientView     `json:"client,omitempty"`
}

func ToPublicContractResponse(c *domain.Contract, client *domain.Client) PublicContractResponse {
	resp := PublicContractResponse{
		Title:        c.Title,
		Description:  c.Description,
		Type:         c.DisplayType(),
		ContractType: c.ContractType,
		Status:       c.Status,
		Value:        c.Value,
		Currency:     c.Currency,
		StartDate:    c.StartDate,
		EndDate:      c.EndDate,
		AutoRenew:    c.AutoRenew,
		ApprovedAt:   c.ApprovedAt,
		SignedAt:     c.SignedAt,
	}
	if client != nil {
		resp.Client = &PublicClientView{
			Name:    client.Name,
			Company: client.Company,
			Email:   client.Email,
			Address: client.Address,
		}
	}
	return resp
}

// SendInvoiceCopyRequest asks for a shared invoice to be emailed to any address.
type SendInvoiceCopyRequest struct {
	Token string `json:"token" binding:"required"`
	Email string `json:"email" binding:"required"`
}
