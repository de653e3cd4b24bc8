package pgsql

import (
	"context"
	"net/http"
	"strconv"

	"github.com/SscSPs/finorn_backend/internal/apperrors"
	"github.com/SscSPs/finorn_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/finorn_backend/internal/core/ports/repositories"
	"github.com/SscSPs/finorn_backend/internal/models"
	"github.com/SscSPs/finorn_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxExpenseRepository struct {
	BaseRepository
}

func newPgxExpenseRepository(pool *pgxpool.Pool) portsrepo.ExpenseRepositoryFacade {
	return &PgxExpenseRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ExpenseRepositoryFacade = (*PgxExpenseRepository)(nil)

const FULL_EXPENSE_SELECT_QUERY = `
SELECT
	e.expense_id, e.user_id, e.organization_id, e.category, e.description, e.vendor,
	e.amount, e.currency, e.expense_date, e.receipt_key,
	e.approval_status, e.approved_by, e.approved_at, e.approval_note,
	e.created_at, e.created_by, e.last_updated_at, e.last_updated_by
FROM expenses e
`

func (r *PgxExpenseRepository) getExpenses(ctx context.Context, filterQuery string, args ...any) ([]domain.Expense, error) {
	rows, err := r.Pool.Query(ctx, FULL_EXPENSE_SELECT_QUERY+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query expenses", err)
	}
	defer rows.Close()
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Expense])
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to collect expense rows", err)
	}
	return mapping.ToDomainExpenseSlice(ms), nil
}

func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, scope domain.Scope, expenseID string) (*domain.Expense, error) {
	filter, scopeArg := scopeFilter(scope, "e", 2)
	expenses, err := r.getExpenses(ctx, `WHERE e.expense_id = $1 AND `+filter, expenseID, scopeArg)
	if err != nil {
		return nil, err
	}
	if len(expenses) == 0 {
		return nil, apperrors.NewNotFoundError("Expense not found")
	}
	return &expenses[0], nil
}

func (r *PgxExpenseRepository) ListExpenses(ctx context.Context, scope domain.Scope, filter portsrepo.ExpenseFilter) ([]domain.Expense, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := max(filter.Offset, 0)

	where, scopeArg := scopeFilter(scope, "e", 1)
	args := []any{scopeArg}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		where += " AND e.category = $" + strconv.Itoa(len(args))
	}
	if filter.ApprovalStatus != nil {
		args = append(args, string(*filter.ApprovalStatus))
		where += " AND e.approval_status = $" + strconv.Itoa(len(args))
	}
	args = append(args, limit, offset)
	query := "WHERE " + where + " ORDER BY e.expense_date DESC, e.created_at DESC, e.expense_id" +
		" LIMIT $" + strconv.Itoa(len(args)-1) + " OFFSET $" + strconv.Itoa(len(args)) + ";"
	return r.getExpenses(ctx, query, args...)
}

func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	m := mapping.ToModelExpense(expense)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO expenses (
			expense_id, user_id, organization_id, category, description, vendor,
			amount, currency, expense_date, receipt_key,
			approval_status, approved_by, approved_at, approval_note,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);`,
		m.ExpenseID, m.UserID, m.OrganizationID, m.Category, m.Description, m.Vendor,
		m.Amount, m.Currency, m.ExpenseDate, m.ReceiptKey,
		m.ApprovalStatus, m.ApprovedBy, m.ApprovedAt, m.ApprovalNote,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to save expense "+expense.ExpenseID, err)
	}
	return nil
}

func (r *PgxExpenseRepository) UpdateExpense(ctx context.Context, scope domain.Scope, expense domain.Expense) error {
	m := mapping.ToModelExpense(expense)
	filter, scopeArg := scopeFilter(scope, "e", 15)
	cmdTag, err := r.Pool.Exec(ctx, `
		UPDATE expenses e
		SET category = $1, description = $2, vendor = $3, amount = $4, currency = $5, expense_date = $6,
			receipt_key = $7, approval_status = $8, approved_by = $9, approved_at = $10, approval_note = $11,
			last_updated_at = $12, last_updated_by = $13
		WHERE e.expense_id = $14 AND `+filter+`;`,
		m.Category, m.Description, m.Vendor, m.Amount, m.Currency, m.ExpenseDate,
		m.ReceiptKey, m.ApprovalStatus, m.ApprovedBy, m.ApprovedAt, m.ApprovalNote,
		m.LastUpdatedAt, m.LastUpdatedBy, m.ExpenseID, scopeArg,
	)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to update expense "+expense.ExpenseID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("Expense not found")
	}
	return nil
}

func (r *PgxExpenseRepository) DeleteExpense(ctx context.Context, scope domain.Scope, expenseID string) error {
	filter, scopeArg := scopeFilter(scope, "e", 2)
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM expenses e WHERE e.expense_id = $1 AND `+filter+`;`, expenseID, scopeArg)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to delete expense "+expenseID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("Expense not found")
	}
	return nil
}
