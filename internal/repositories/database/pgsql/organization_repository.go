package pgsql

import (
	"context"
	"errors"
	"net/http"

	"github.com/SscSPs/finorn_backend/internal/apperrors"
	"github.com/SscSPs/finorn_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/finorn_backend/internal/core/ports/repositories"
	"github.com/SscSPs/finorn_backend/internal/models"
	"github.com/SscSPs/finorn_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxOrganizationRepository struct {
	BaseRepository
}

// newPgxOrganizationRepository creates a new repository for organizations and their members.
func newPgxOrganizationRepository(pool *pgxpool.Pool) portsrepo.OrganizationRepositoryFacade {
	return &PgxOrganizationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.OrganizationRepositoryFacade = (*PgxOrganizationRepository)(nil)

const FULL_ORGANIZATION_SELECT_QUERY = `
SELECT
	o.organization_id, o.name,
	o.created_at, o.created_by, o.last_updated_at, o.last_updated_by
FROM organizations o
`

func (r *PgxOrganizationRepository) getOrganizations(ctx context.Context, filterQuery string, args ...any) ([]domain.Organization, error) {
	rows, err := r.Pool.Query(ctx, FULL_ORGANIZATION_SELECT_QUERY+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query organizations", err)
	}
	defer rows.Close()
	orgs, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Organization])
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to collect organization rows", err)
	}
	return mapping.ToDomainOrganizationSlice(orgs), nil
}

func (r *PgxOrganizationRepository) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	orgs, err := r.getOrganizations(ctx, `WHERE o.organization_id = $1`, organizationID)
	if err != nil {
		return nil, err
	}
	if len(orgs) == 0 {
		return nil, apperrors.NewNotFoundError("Organization not found")
	}
	return &orgs[0], nil
}

func (r *PgxOrganizationRepository) ListOrganizationsByUserID(ctx context.Context, userID string) ([]domain.Organization, error) {
	return r.getOrganizations(ctx, `
		JOIN organization_users ou ON ou.organization_id = o.organization_id
		WHERE ou.user_id = $1
		ORDER BY o.name;`, userID)
}

func (r *PgxOrganizationRepository) SaveOrganizationWithOwner(ctx context.Context, org domain.Organization, owner domain.OrganizationUser) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	_, err = tx.Exec(ctx, `
		INSERT INTO organizations (organization_id, name, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6);`,
		org.OrganizationID, org.Name, org.CreatedAt, org.CreatedBy, org.LastUpdatedAt, org.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to insert organization "+org.OrganizationID, err)
	}
	if err := insertMembership(ctx, tx, owner); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxOrganizationRepository) AddMember(ctx context.Context, membership domain.OrganizationUser) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)
	if err := insertMembership(ctx, tx, membership); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func insertMembership(ctx context.Context, tx pgx.Tx, membership domain.OrganizationUser) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO organization_users (organization_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4);`,
		membership.OrganizationID, membership.UserID, string(membership.Role), membership.JoinedAt,
	)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return apperrors.NewConflictError("User is already a member of this organization")
		}
		if isPgError(err, pgForeignKeyViolation) {
			return apperrors.NewNotFoundError("Organization or user not found")
		}
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to add user "+membership.UserID+" to organization "+membership.OrganizationID, err)
	}
	return nil
}

func (r *PgxOrganizationRepository) FindMembership(ctx context.Context, userID, organizationID string) (*domain.OrganizationUser, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT organization_id, user_id, role, joined_at
		FROM organization_users
		WHERE user_id = $1 AND organization_id = $2;`, userID, organizationID)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query membership", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.OrganizationUser])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to collect membership row", err)
	}
	membership := mapping.ToDomainOrganizationUser(m)
	return &membership, nil
}
