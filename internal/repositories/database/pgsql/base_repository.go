package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/SscSPs/finorn_backend/internal/apperrors"
	"github.com/SscSPs/finorn_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to rollback transaction", err)
	}
	return nil
}

// execer is satisfied by both the pool and a transaction.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// scopeFilter returns the predicate restricting alias's rows to scope, using $argPos for the
// scope parameter, and the argument to bind.
func scopeFilter(scope domain.Scope, alias string, argPos int) (string, any) {
	if scope.IsOrganization() {
		return fmt.Sprintf("%s.organization_id = $%d", alias, argPos), scope.OrganizationID
	}
	return fmt.Sprintf("(%s.organization_id IS NULL AND %s.user_id = $%d)", alias, alias, argPos), scope.UserID
}

// lockScope serializes writers within one scope until tx ends.
func lockScope(ctx context.Context, tx pgx.Tx, namespace string, scope domain.Scope) error {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, namespace+":"+scope.Key()); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to acquire scope lock", err)
	}
	return nil
}

// isPgError reports whether err is a postgres error with the given SQLSTATE.
func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// notFoundOr maps pgx.ErrNoRows to a not-found AppError with message, anything else to a 500.
func notFoundOr(err error, message, failure string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFoundError(message)
	}
	return apperrors.NewAppError(http.StatusInternalServerError, failure, err)
}
