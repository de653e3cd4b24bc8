package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ExpenseID      string          `db:"expense_id"`
	UserID         string          `db:"user_id"`
	OrganizationID *string         `db:"organization_id"`
	Category       string          `db:"category"`
	Description    string          `db:"description"`
	Vendor         string          `db:"vendor"`
	Amount         decimal.Decimal `db:"amount"`
	Currency       string          `db:"currency"`
	ExpenseDate    time.Time       `db:"expense_date"`
	ReceiptKey     *string         `db:"receipt_key"`
	ApprovalStatus *string         `db:"approval_status"`
	ApprovedBy     *string         `db:"approved_by"`
	ApprovedAt     *time.Time      `db:"approved_at"`
	ApprovalNote   *string         `db:"approval_note"`
	AuditFields
}
