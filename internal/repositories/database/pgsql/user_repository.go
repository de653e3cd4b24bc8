package pgsql

import (
	"context"
	"net/http"

	"github.com/SscSPs/finorn_backend/internal/apperrors"
	"github.com/SscSPs/finorn_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/finorn_backend/internal/core/ports/repositories"
	"github.com/SscSPs/finorn_backend/internal/models"
	"github.com/SscSPs/finorn_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

const FULL_USER_SELECT_QUERY = `
SELECT
	u.user_id, u.name, u.email, u.account_type, u.password_hash, u.google_subject,
	u.created_at, u.created_by, u.last_updated_at, u.last_updated_by
FROM users u
`

func (r *PgxUserRepository) findOne(ctx context.Context, filterQuery string, args ...any) (*domain.User, error) {
	rows, err := r.Pool.Query(ctx, FULL_USER_SELECT_QUERY+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query users", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		return nil, notFoundOr(err, "User not found", "failed to collect user row")
	}
	user := mapping.ToDomainUser(m)
	return &user, nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.findOne(ctx, `WHERE u.user_id = $1`, userID)
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, `WHERE u.email = $1`, email)
}

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	query := `
		INSERT INTO users (
			user_id, name, email, account_type, password_hash, google_subject,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.UserID,
		m.Name,
		m.Email,
		m.AccountType,
		m.PasswordHash,
		m.GoogleSubject,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return apperrors.NewConflictError("An account with this email already exists")
		}
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to save user "+user.UserID, err)
	}
	return nil
}

func (r *PgxUserRepository) LinkGoogleSubject(ctx context.Context, userID, subject string) error {
	query := `
		UPDATE users
		SET google_subject = $1, last_updated_at = NOW(), last_updated_by = $2
		WHERE user_id = $2 AND google_subject IS NULL;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, subject, userID)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return apperrors.NewConflictError("This Google account is linked to another user")
		}
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to link google account for user "+userID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewConflictError("User already has a linked Google account")
	}
	return nil
}
