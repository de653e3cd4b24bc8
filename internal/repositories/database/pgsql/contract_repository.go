package pgsql

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/SscSPs/finorn_backend/internal/apperrors"
	"github.com/SscSPs/finorn_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/finorn_backend/internal/core/ports/repositories"
	"github.com/SscSPs/finorn_backend/internal/models"
	"github.com/SscSPs/finorn_backend/internal/utils/mapping"
	"github.com/SscSPs/finorn_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxContractRepository struct {
	BaseRepository
}

func newPgxContractRepository(pool *pgxpool.Pool) portsrepo.ContractRepositoryFacade {
	return &PgxContractRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ContractRepositoryFacade = (*PgxContractRepository)(nil)

const FULL_CONTRACT_SELECT_QUERY = `
SELECT
	c.contract_id, c.user_id, c.organization_id, c.client_id, c.title, c.description,
	c.contract_type, c.metadata, c.status, c.value, c.currency, c.start_date, c.end_date,
	c.auto_renew, c.renewal_terms, c.notifications_sent, c.approved_by, c.approved_at,
	c.signed_at, c.cancelled_at, c.cancellation_reason, c.public_view_token,
	c.renewed_from_id, c.renewed_to_id, c.renewal_count,
	c.created_at, c.created_by, c.last_updated_at, c.last_updated_by
FROM contracts c
`

func (r *PgxContractRepository) getContracts(ctx context.Context, filterQuery string, args ...any) ([]domain.Contract, error) {
	rows, err := r.Pool.Query(ctx, FULL_CONTRACT_SELECT_QUERY+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query contracts", err)
	}
	defer rows.Close()
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Contract])
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to collect contract rows", err)
	}
	contracts, err := mapping.ToDomainContractSlice(ms)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to decode contract rows", err)
	}
	return contracts, nil
}

func (r *PgxContractRepository) findOne(ctx context.Context, filterQuery string, args ...any) (*domain.Contract, error) {
	contracts, err := r.getContracts(ctx, filterQuery, args...)
	if err != nil {
		return nil, err
	}
	if len(contracts) == 0 {
		return nil, apperrors.NewNotFoundError("Contract not found")
	}
	return &contracts[0], nil
}

func (r *PgxContractRepository) FindContractByID(ctx context.Context, scope domain.Scope, contractID string) (*domain.Contract, error) {
	filter, scopeArg := scopeFilter(scope, "c", 2)
	return r.findOne(ctx, `WHERE c.contract_id = $1 AND `+filter, contractID, scopeArg)
}

func (r *PgxContractRepository) FindContractByPublicToken(ctx context.Context, token string) (*domain.Contract, error) {
	return r.findOne(ctx, `WHERE c.public_view_token = $1`, token)
}

func (r *PgxContractRepository) ListContracts(ctx context.Context, scope domain.Scope, filter portsrepo.ContractFilter) ([]domain.Contract, *string, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	where, scopeArg := scopeFilter(scope, "c", 1)
	args := []any{scopeArg}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		where += " AND c.status = $" + strconv.Itoa(len(args))
	}
	if filter.ContractType != nil {
		args = append(args, string(*filter.ContractType))
		where += " AND c.contract_type = $" + strconv.Itoa(len(args))
	}
	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		where += " AND c.client_id = $" + strconv.Itoa(len(args))
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		lastCreatedAt, lastID, err := pagination.DecodeCursor(*filter.NextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(http.StatusBadRequest, "invalid nextToken", err)
		}
		args = append(args, lastCreatedAt, lastID)
		where += " AND (c.created_at, c.contract_id) < ($" + strconv.Itoa(len(args)-1) + ", $" + strconv.Itoa(len(args)) + ")"
	}
	args = append(args, fetchLimit)
	query := "WHERE " + where + " ORDER BY c.created_at DESC, c.contract_id DESC LIMIT $" + strconv.Itoa(len(args)) + ";"

	contracts, err := r.getContracts(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	var nextToken *string
	if len(contracts) > limit {
		last := contracts[limit-1]
		token := pagination.EncodeCursor(last.CreatedAt, last.ContractID)
		nextToken = &token
		contracts = contracts[:limit]
	}
	return contracts, nextToken, nil
}

func insertContract(ctx context.Context, db execer, contract domain.Contract) error {
	m, err := mapping.ToModelContract(contract)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to encode contract "+contract.ContractID, err)
	}
	_, err = db.Exec(ctx, `
		INSERT INTO contracts (
			contract_id, user_id, organization_id, client_id, title, description,
			contract_type, metadata, status, value, currency, start_date, end_date,
			auto_renew, renewal_terms, notifications_sent, approved_by, approved_at,
			signed_at, cancelled_at, cancellation_reason, public_view_token,
			renewed_from_id, renewed_to_id, renewal_count,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29);`,
		m.ContractID, m.UserID, m.OrganizationID, m.ClientID, m.Title, m.Description,
		m.ContractType, m.Metadata, m.Status, m.Value, m.Currency, m.StartDate, m.EndDate,
		m.AutoRenew, m.RenewalTerms, m.NotificationsSent, m.ApprovedBy, m.ApprovedAt,
		m.SignedAt, m.CancelledAt, m.CancellationReason, m.PublicViewToken,
		m.RenewedFromID, m.RenewedToID, m.RenewalCount,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return apperrors.NewValidationFailedError("Client not found")
		}
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to insert contract "+contract.ContractID, err)
	}
	return nil
}

func (r *PgxContractRepository) SaveContract(ctx context.Context, contract domain.Contract) error {
	return insertContract(ctx, r.Pool, contract)
}

func (r *PgxContractRepository) UpdateContract(ctx context.Context, scope domain.Scope, contract domain.Contract, expected domain.ContractStatus) error {
	m, err := mapping.ToModelContract(contract)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to encode contract "+contract.ContractID, err)
	}
	filter, scopeArg := scopeFilter(scope, "c", 24)
	cmdTag, err := r.Pool.Exec(ctx, `
		UPDATE contracts c
		SET client_id = $1, title = $2, description = $3, contract_type = $4, metadata = $5, status = $6,
			value = $7, currency = $8, start_date = $9, end_date = $10, auto_renew = $11, renewal_terms = $12,
			notifications_sent = $13, approved_by = $14, approved_at = $15, signed_at = $16, cancelled_at = $17,
			cancellation_reason = $18, public_view_token = $19, last_updated_at = $20, last_updated_by = $21
		WHERE c.contract_id = $22 AND c.status = $23 AND `+filter+`;`,
		m.ClientID, m.Title, m.Description, m.ContractType, m.Metadata, m.Status,
		m.Value, m.Currency, m.StartDate, m.EndDate, m.AutoRenew, m.RenewalTerms,
		m.NotificationsSent, m.ApprovedBy, m.ApprovedAt, m.SignedAt, m.CancelledAt,
		m.CancellationReason, m.PublicViewToken, m.LastUpdatedAt, m.LastUpdatedBy,
		m.ContractID, string(expected), scopeArg,
	)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return apperrors.NewConflictError("Public link collision, please retry")
		}
		if isPgError(err, pgForeignKeyViolation) {
			return apperrors.NewValidationFailedError("Client not found")
		}
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to update contract "+contract.ContractID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.missingOrConflict(ctx, scope, contract.ContractID, "Contract status changed concurrently, reload and retry")
	}
	return nil
}

func (r *PgxContractRepository) missingOrConflict(ctx context.Context, scope domain.Scope, contractID, message string) error {
	filter, scopeArg := scopeFilter(scope, "c", 2)
	var exists bool
	if err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM contracts c WHERE c.contract_id = $1 AND `+filter+`);`, contractID, scopeArg).Scan(&exists); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to check contract "+contractID, err)
	}
	if !exists {
		return apperrors.NewNotFoundError("Contract not found")
	}
	return apperrors.NewConflictError(message)
}

func (r *PgxContractRepository) DeleteContract(ctx context.Context, scope domain.Scope, contractID string) error {
	filter, scopeArg := scopeFilter(scope, "c", 2)
	cmdTag, err := r.Pool.Exec(ctx, `
		DELETE FROM contracts c
		WHERE c.contract_id = $1 AND `+filter+` AND c.status IN ('DRAFT', 'CANCELLED');`, contractID, scopeArg)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return apperrors.NewConflictError("Contract is referenced by a renewal and cannot be deleted")
		}
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to delete contract "+contractID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.missingOrConflict(ctx, scope, contractID, "Only draft or cancelled contracts can be deleted")
	}
	return nil
}

// RenewContract links and expires the predecessor, then inserts the successor. The
// renewed_to_id guard makes a second renewal of the same contract lose.
func (r *PgxContractRepository) RenewContract(ctx context.Context, predecessor domain.Contract, successor domain.Contract) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	cmdTag, err := tx.Exec(ctx, `
		UPDATE contracts
		SET status = 'EXPIRED', renewed_to_id = $1, last_updated_at = $2, last_updated_by = $3
		WHERE contract_id = $4 AND renewed_to_id IS NULL AND status IN ('ACTIVE', 'EXPIRED');`,
		successor.ContractID, successor.CreatedAt, successor.CreatedBy, predecessor.ContractID,
	)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to expire contract "+predecessor.ContractID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewConflictError("Contract has already been renewed")
	}
	if err := insertContract(ctx, tx, successor); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxContractRepository) ListActiveContractsEndingBefore(ctx context.Context, cutoff time.Time) ([]domain.Contract, error) {
	return r.getContracts(ctx, `
		WHERE c.status = 'ACTIVE' AND c.end_date IS NOT NULL AND c.end_date < $1
		ORDER BY c.end_date, c.contract_id;`, cutoff)
}

func (r *PgxContractRepository) ClaimExpiryNotification(ctx context.Context, contractID string, day int) (bool, error) {
	cmdTag, err := r.Pool.Exec(ctx, `
		UPDATE contracts
		SET notifications_sent = array_append(notifications_sent, $2::int)
		WHERE contract_id = $1 AND status = 'ACTIVE' AND NOT ($2::int = ANY(notifications_sent));`,
		contractID, int32(day),
	)
	if err != nil {
		return false, apperrors.NewAppError(http.StatusInternalServerError, "failed to record expiry notification for contract "+contractID, err)
	}
	return cmdTag.RowsAffected() == 1, nil
}

func (r *PgxContractRepository) ExpireContract(ctx context.Context, contractID string, now time.Time) (bool, error) {
	cmdTag, err := r.Pool.Exec(ctx, `
		UPDATE contracts
		SET status = 'EXPIRED', last_updated_at = $2, last_updated_by = $3
		WHERE contract_id = $1 AND status = 'ACTIVE' AND renewed_to_id IS NULL;`,
		contractID, now, systemActor,
	)
	if err != nil {
		return false, apperrors.NewAppError(http.StatusInternalServerError, "failed to expire contract "+contractID, err)
	}
	return cmdTag.RowsAffected() == 1, nil
}
