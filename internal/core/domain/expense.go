package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseApprovalStatus tracks the approval of an organization expense.
type ExpenseApprovalStatus string

const (
	ExpensePending  ExpenseApprovalStatus = "pending"
	ExpenseApproved ExpenseApprovalStatus = "approved"
	ExpenseRejected ExpenseApprovalStatus = "rejected"
)

// Expense is money spent by an individual or an organization.
// Individual expenses never carry an OrganizationID or an approval status.
type Expense struct {
	ExpenseID      string                 `json:"expenseID"`
	UserID         string                 `json:"userId"`
	OrganizationID *string                `json:"organizationId,omitempty"`
	Category       string                 `json:"category"`
	Description    string                 `json:"description,omitempty"`
	Vendor         string                 `json:"vendor,omitempty"`
	Amount         decimal.Decimal        `json:"amount"`
	Currency       string                 `json:"currency"`
	ExpenseDate    time.Time              `json:"expenseDate"`
	ReceiptKey     *string                `json:"receiptKey,omitempty"`
	ApprovalStatus *ExpenseApprovalStatus `json:"approvalStatus,omitempty"`
	ApprovedBy     *string                `json:"approvedBy,omitempty"`
	ApprovedAt     *time.Time             `json:"approvedAt,omitempty"`
	ApprovalNote   *string                `json:"approvalNote,omitempty"`
	AuditFields
}

// NeedsApproval reports whether the expense is waiting for a decision.
func (e *Expense) NeedsApproval() bool {
	return e.ApprovalStatus != nil && *e.ApprovalStatus == ExpensePending
}
