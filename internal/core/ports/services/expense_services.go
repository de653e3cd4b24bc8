package services

import (
	"context"
	"io"

	"github.com/SscSPs/finorn_backend/internal/core/domain"
	"github.com/SscSPs/finorn_backend/internal/dto"
)

// ExpenseSvcFacade manages expenses, their receipts and approval.
type ExpenseSvcFacade interface {
	CreateExpense(ctx context.Context, scope domain.Scope, req dto.CreateExpenseRequest) (*domain.Expense, error)
	GetExpense(ctx context.Context, scope domain.Scope, expenseID string) (*domain.Expense, error)
	ListExpenses(ctx context.Context, scope domain.Scope, params dto.ListExpensesParams) ([]domain.Expense, error)
	UpdateExpense(ctx context.Context, scope domain.Scope, expenseID string, req dto.UpdateExpenseRequest) (*domain.Expense, error)
	DeleteExpense(ctx context.Context, scope domain.Scope, expenseID string) error

	// DecideExpense approves or rejects a pending organization expense. OWNER or ADMIN only.
	DecideExpense(ctx context.Context, scope domain.Scope, expenseID string, req dto.ExpenseApprovalRequest) (*domain.Expense, error)

	UploadReceipt(ctx context.Context, scope domain.Scope, expenseID string, body io.Reader, contentType string) (*domain.Expense, error)
	GetReceiptLink(ctx context.Context, scope domain.Scope, expenseID string, action string) (*dto.FileLinkResponse, error)
}
