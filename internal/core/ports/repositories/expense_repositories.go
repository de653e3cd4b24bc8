package repositories

import (
	"context"

	"github.com/SscSPs/finorn_backend/internal/core/domain"
)

// ExpenseFilter narrows expense listings.
type ExpenseFilter struct {
	Category       *string
	ApprovalStatus *domain.ExpenseApprovalStatus
	Limit          int
	Offset         int
}

// ExpenseRepositoryFacade defines scoped persistence for expenses
type ExpenseRepositoryFacade interface {
	FindExpenseByID(ctx context.Context, scope domain.Scope, expenseID string) (*domain.Expense, error)
	ListExpenses(ctx context.Context, scope domain.Scope, filter ExpenseFilter) ([]domain.Expense, error)
	SaveExpense(ctx context.Context, expense domain.Expense) error
	UpdateExpense(ctx context.Context, scope domain.Scope, expense domain.Expense) error
	DeleteExpense(ctx context.Context, scope domain.Scope, expenseID string) error
}
