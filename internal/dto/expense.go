package dto

import (
	"time"

	"github.com/SscSPs/finorn_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExpenseRequest defines data for recording an expense.
type CreateExpenseRequest struct {
	Category    string          `json:"category" binding:"required,max=100"`
	Description string          `json:"description" binding:"max=2000"`
	Vendor      string          `json:"vendor" binding:"max=200"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string"`
	Currency    string          `json:"currency" binding:"omitempty,len=3"`
	ExpenseDate *time.Time      `json:"expenseDate"`
}

// UpdateExpenseRequest defines the fields that can be changed on an expense.
type UpdateExpenseRequest struct {
	Category    *string          `json:"category" binding:"omitempty,max=100"`
	Description *string          `json:"description" binding:"omitempty,max=2000"`
	Vendor      *string          `json:"vendor" binding:"omitempty,max=200"`
	Amount      *decimal.Decimal `json:"amount" swaggertype:"string"`
	Currency    *string          `json:"currency" binding:"omitempty,len=3"`
	ExpenseDate *time.Time       `json:"expenseDate"`
}

// ExpenseApprovalRequest records an approval decision.
type ExpenseApprovalRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approved rejected"`
	Note     string `json:"note" binding:"max=1000"`
}

// ListExpensesParams defines query parameters for listing expenses.
type ListExpensesParams struct {
	Category       *string `form:"category"`
	ApprovalStatus *string `form:"approvalStatus" binding:"omitempty,oneof=pending approved rejected"`
	Limit          int     `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset         int     `form:"offset" binding:"omitempty,min=0"`
}

// ExpenseResponse defines data returned for an expense.
type ExpenseResponse struct {
	ExpenseID      string                        `json:"expenseID"`
	UserID         string                        `json:"userId"`
	OrganizationID *string                       `json:"organizationId"`
	Category       string                        `json:"category"`
	Description    string                        `json:"description,omitempty"`
	Vendor         string                        `json:"vendor,omitempty"`
	Amount         decimal.Decimal               `json:"amount" swaggertype:"string"`
	Currency       string                        `json:"currency"`
	ExpenseDate    time.Time                     `json:"expenseDate"`
	HasReceipt     bool                          `json:"hasReceipt"`
	ApprovalStatus *domain.ExpenseApprovalStatus `json:"approvalStatus,omitempty"`
	ApprovedBy     *string                       `json:"approvedBy,omitempty"`
	ApprovedAt     *time.Time                    `json:"approvedAt,omitempty"`
	ApprovalNote   *string                       `json:"approvalNote,omitempty"`
	CreatedAt      time.Time                     `json:"createdAt"`
	LastUpdatedAt  time.Time                     `json:"lastUpdatedAt"`
}

func ToExpenseResponse(e *domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ExpenseID:      e.ExpenseID,
		UserID:         e.UserID,
		OrganizationID: e.OrganizationID,
		Category:       e.Category,
		Description:    e.Description,
		Vendor:         e.Vendor,
		Amount:         e.Amount,
		Currency:       e.Currency,
		ExpenseDate:    e.ExpenseDate,
		HasReceipt:     e.ReceiptKey != nil,
		ApprovalStatus: e.ApprovalStatus,
		ApprovedBy:     e.ApprovedBy,
		ApprovedAt:     e.ApprovedAt,
		ApprovalNote:   e.ApprovalNote,
		CreatedAt:      e.CreatedAt,
		LastUpdatedAt:  e.LastUpdatedAt,
	}
}

// ListExpensesResponse wraps a list of expenses.
type ListExpensesResponse struct {
	Expenses []ExpenseResponse `json:"expenses"`
}

func ToListExpensesResponse(es []domain.Expense) ListExpensesResponse {
	list := make([]ExpenseResponse, len(es))
	for i := range es {
		list[i] = ToExpenseResponse(&es[i])
	}
	return ListExpensesResponse{Expenses: list}
}
