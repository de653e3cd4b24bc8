package dto

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/SscSPs/finorn_backend/internal/apperrors"
	"github.com/SscSPs/finorn_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InvoiceClientInput is an inline client carried by an invoice request.
type InvoiceClientInput struct {
	Name    string  `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Company string  `json:"company"`
	Address string  `json:"address"`
}

func (c InvoiceClientInput) toDomain() *domain.Client {
	return &domain.Client{
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.Phone,
		Company: c.Company,
		Address: c.Address,
	}
}

// InvoiceItemInput is one line item in an invoice request.
type InvoiceItemInput struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity" swaggertype:"string"`
	UnitPrice   decimal.Decimal `json:"unitPrice" swaggertype:"string"`
}

// InvoiceDetailsInput is the legacy envelope for line items.
type InvoiceDetailsInput struct {
	Items []InvoiceItemInput `json:"items"`
}

// InvoiceRequest is the wire shape for creating and updating invoices. The client may be given
// as clientId, client (an id or an object), newClient or receiver; line items as items or
// details.items. Resolve collapses the aliases into an InvoiceInput.
type InvoiceRequest struct {
	ClientID           *string                    `json:"clientId"`
	Client             json.RawMessage            `json:"client" swaggertype:"object"`
	NewClient          *InvoiceClientInput        `json:"newClient"`
	Receiver           *InvoiceClientInput        `json:"receiver"`
	Items              []InvoiceItemInput         `json:"items"`
	Details            *InvoiceDetailsInput       `json:"details"`
	InvoiceNumber      *string                    `json:"invoiceNumber" binding:"omitempty,max=64"`
	IssueDate          *time.Time                 `json:"issueDate"`
	DueDate            *time.Time                 `json:"dueDate"`
	Currency           *string                    `json:"currency" binding:"omitempty,len=3"`
	TaxRate            *decimal.Decimal           `json:"taxRate" swaggertype:"string"`
	Notes              *string                    `json:"notes" binding:"omitempty,max=5000"`
	PaymentInformation *domain.PaymentInformation `json:"paymentInformation"`
}

// InvoiceInput is the canonical form of InvoiceRequest.
type InvoiceInput struct {
	ClientID           *string
	NewClient          *domain.Client
	Items              []domain.LineItem
	HasItems           bool
	InvoiceNumber      *string
	IssueDate          *time.Time
	DueDate            *time.Time
	Currency           *string
	TaxRate            *decimal.Decimal
	Notes              *string
	PaymentInformation *domain.PaymentInformation
}

// Resolve validates the aliases and returns the canonical input.
func (r *InvoiceRequest) Resolve() (InvoiceInput, error) {
	in := InvoiceInput{
		InvoiceNumber:      r.InvoiceNumber,
		IssueDate:          r.IssueDate,
		DueDate:            r.DueDate,
		Currency:           r.Currency,
		TaxRate:            r.TaxRate,
		Notes:              r.Notes,
		PaymentInformation: r.PaymentInformation,
	}

	refs := 0
	if r.ClientID != nil {
		id := strings.TrimSpace(*r.ClientID)
		if id != "" {
			in.ClientID = &id
			refs++
		}
	}
	if raw := strings.TrimSpace(string(r.Client)); raw != "" && raw != "null" {
		refs++
		var id string
		if err := json.Unmarshal(r.Client, &id); err == nil {
			id = strings.TrimSpace(id)
			if id == "" {
				return InvoiceInput{}, apperrors.NewValidationFailedError("client must not be empty")
			}
			in.ClientID = &id
		} else {
			var c InvoiceClientInput
			if err := json.Unmarshal(r.Client, &c); err != nil {
				return InvoiceInput{}, apperrors.NewValidationFailedError("client must be a client id or a client object")
			}
			in.NewClient = c.toDomain()
		}
	}
	for _, alias := range []*InvoiceClientInput{r.NewClient, r.Receiver} {
		if alias != nil {
			refs++
			in.NewClient = alias.toDomain()
		}
	}
	if refs > 1 {
		return InvoiceInput{}, apperrors.NewValidationFailedError("Provide only one of clientId, client, newClient or receiver")
	}

	var items []InvoiceItemInput
	switch {
	case r.Items != nil && r.Details != nil && r.Details.Items != nil:
		return InvoiceInput{}, apperrors.NewValidationFailedError("Provide line items either as items or details.items")
	case r.Items != nil:
		items = r.Items
	case r.Details != nil && r.Details.Items != nil:
		items = r.Details.Items
	}
	if items != nil {
		in.HasItems = true
		in.Items = make([]domain.LineItem, 0, len(items))
		for _, it := range items {
			desc := strings.TrimSpace(it.Description)
			if desc == "" {
				return InvoiceInput{}, apperrors.NewValidationFailedError("Line item description is required")
			}
			in.Items = append(in.Items, domain.LineItem{
				Description: desc,
				Quantity:    it.Quantity,
				UnitPrice:   it.UnitPrice,
			})
		}
	}
	return in, nil
}

// SendInvoiceRequest overrides the recipient; the client's email is used otherwise.
type SendInvoiceRequest struct {
	Email   *string `json:"email"`
	Message string  `json:"message" binding:"max=2000"`
}

// RecordPaymentRequest records money received for an invoice.
type RecordPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount" swaggertype:"string"`
	Method    string          `json:"method" binding:"required,max=32"`
	Reference string          `json:"reference" binding:"max=128"`
	PaidAt    *time.Time      `json:"paidAt"`
}

// ListInvoicesParams defines query parameters for listing invoices.
type ListInvoicesParams struct {
	Status    *string `form:"status"`
	ClientID  *string `form:"clientId"`
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// LineItemResponse defines data returned for a line item.
type LineItemResponse struct {
	LineItemID  string          `json:"lineItemID"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity" swaggertype:"string"`
	UnitPrice   decimal.Decimal `json:"unitPrice" swaggertype:"string"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string"`
}

func toLineItemResponses(items []domain.LineItem) []LineItemResponse {
	out := make([]LineItemResponse, len(items))
	for i, it := range items {
		out[i] = LineItemResponse{
			LineItemID:  it.LineItemID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Amount:      it.Amount,
		}
	}
	return out
}

// InvoiceResponse defines data returned for an invoice to its owners.
type InvoiceResponse struct {
	InvoiceID          string                     `json:"invoiceID"`
	InvoiceNumber      string                     `json:"invoiceNumber"`
	UserID             string                     `json:"userId"`
	OrganizationID     *string                    `json:"organizationId,omitempty"`
	ClientID           string                     `json:"clientId"`
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
	PublicViewToken    *string                    `json:"publicViewToken,omitempty"`
	PublicURL          *string                    `json:"publicUrl,omitempty"`
	PDFKey             *string                    `json:"pdfUrl,omitempty"`
	PaymentInformation *domain.PaymentInformation `json:"paymentInformation,omitempty"`
	EmailSentAt        *time.Time                 `json:"emailSentAt,omitempty"`
	EmailSentTo        *string                    `json:"emailSentTo,omitempty"`
	PaidAt             *time.Time                 `json:"paidAt,omitempty"`
	LineItems          []LineItemResponse         `json:"lineItems"`
	CreatedAt          time.Time                  `json:"createdAt"`
	CreatedBy          string                     `json:"createdBy"`
	LastUpdatedAt      time.Time                  `json:"lastUpdatedAt"`
}

// ToInvoiceResponse converts domain.Invoice to DTO. publicURL may be nil.
func ToInvoiceResponse(inv *domain.Invoice, publicURL func(token string) string) InvoiceResponse {
	resp := InvoiceResponse{
		InvoiceID:          inv.InvoiceID,
		InvoiceNumber:      inv.InvoiceNumber,
		UserID:             inv.UserID,
		OrganizationID:     inv.OrganizationID,
		ClientID:           inv.ClientID,
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
		PublicViewToken:    inv.PublicViewToken,
		PDFKey:             inv.PDFKey,
		PaymentInformation: inv.PaymentInformation,
		EmailSentAt:        inv.EmailSentAt,
		EmailSentTo:        inv.EmailSentTo,
		PaidAt:             inv.PaidAt,
		LineItems:          toLineItemResponses(inv.LineItems),
		CreatedAt:          inv.CreatedAt,
		CreatedBy:          inv.CreatedBy,
		LastUpdatedAt:      inv.LastUpdatedAt,
	}
	if inv.PublicViewToken != nil && publicURL != nil {
		u := publicURL(*inv.PublicViewToken)
		resp.PublicURL = &u
	}
	return resp
}

// ListInvoicesResponse wraps a page of invoices.
type ListInvoicesResponse struct {
	Invoices  []InvoiceResponse `json:"invoices"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// PaymentResponse defines data returned for a payment.
type PaymentResponse struct {
	PaymentID string          `json:"paymentID"`
	InvoiceID string          `json:"invoiceID"`
	Amount    decimal.Decimal `json:"amount" swaggertype:"string"`
	Method    string          `json:"method"`
	Reference string          `json:"reference,omitempty"`
	PaidAt    time.Time       `json:"paidAt"`
}

func ToPaymentResponses(ps []domain.Payment) []PaymentResponse {
	out := make([]PaymentResponse, len(ps))
	for i, p := range ps {
		out[i] = PaymentResponse{
			PaymentID: p.PaymentID,
			InvoiceID: p.InvoiceID,
			Amount:    p.Amount,
			Method:    p.Method,
			Reference: p.Reference,
			PaidAt:    p.PaidAt,
		}
	}
	return out
}

// FileLinkResponse is a short-lived URL to a stored file.
type FileLinkResponse struct {
	URL         string `json:"url"`
	ExpiresIn   int    `json:"expiresIn"`
	Disposition string `json:"disposition"`
}
