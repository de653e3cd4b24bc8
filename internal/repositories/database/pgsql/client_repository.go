package pgsql

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/SscSPs/finorn_backend/internal/apperrors"
	"github.com/SscSPs/finorn_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/finorn_backend/internal/core/ports/repositories"
	"github.com/SscSPs/finorn_backend/internal/models"
	"github.com/SscSPs/finorn_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxClientRepository struct {
	BaseRepository
}

func newPgxClientRepository(pool *pgxpool.Pool) portsrepo.ClientRepositoryFacade {
	return &PgxClientRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ClientRepositoryFacade = (*PgxClientRepository)(nil)

const FULL_CLIENT_SELECT_QUERY = `
SELECT
	c.client_id, c.user_id, c.organization_id, c.name, c.email, c.phone,
	c.company, c.address, c.tax_id, c.notes,
	c.created_at, c.created_by, c.last_updated_at, c.last_updated_by
FROM clients c
`

// clientLockNamespace is shared by every path that may insert a client.
const clientLockNamespace = "clients"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func getClients(ctx context.Context, q querier, filterQuery string, args ...any) ([]domain.Client, error) {
	rows, err := q.Query(ctx, FULL_CLIENT_SELECT_QUERY+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query clients", err)
	}
	defer rows.Close()
	clients, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Client])
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to collect client rows", err)
	}
	return mapping.ToDomainClientSlice(clients), nil
}

// findDuplicateClient returns a client in scope sharing name or email with candidate, ignoring excludeID.
func findDuplicateClient(ctx context.Context, q querier, scope domain.Scope, candidate domain.Client, excludeID string) (*domain.Client, error) {
	filter, scopeArg := scopeFilter(scope, "c", 1)
	query := `WHERE ` + filter + ` AND c.client_id <> $2 AND (lower(c.name) = lower($3) OR ($4::text IS NOT NULL AND c.email = $4)) LIMIT 1;`
	clients, err := getClients(ctx, q, query, scopeArg, excludeID, candidate.Name, candidate.Email)
	if err != nil {
		return nil, err
	}
	if len(clients) == 0 {
		return nil, nil
	}
	return &clients[0], nil
}

func insertClient(ctx context.Context, tx pgx.Tx, client domain.Client) error {
	m := mapping.ToModelClient(client)
	_, err := tx.Exec(ctx, `
		INSERT INTO clients (
			client_id, user_id, organization_id, name, email, phone, company, address, tax_id, notes,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);`,
		m.ClientID, m.UserID, m.OrganizationID, m.Name, m.Email, m.Phone,
		m.Company, m.Address, m.TaxID, m.Notes,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to insert client "+client.ClientID, err)
	}
	return nil
}

func duplicateClientError(existing *domain.Client) error {
	err := apperrors.NewConflictError("A client with this name or email already exists")
	err.Details = map[string]string{"clientId": existing.ClientID}
	return err
}

func (r *PgxClientRepository) FindClientByID(ctx context.Context, scope domain.Scope, clientID string) (*domain.Client, error) {
	filter, scopeArg := scopeFilter(scope, "c", 2)
	clients, err := getClients(ctx, r.Pool, `WHERE c.client_id = $1 AND `+filter, clientID, scopeArg)
	if err != nil {
		return nil, err
	}
	if len(clients) == 0 {
		return nil, apperrors.NewNotFoundError("Client not found")
	}
	return &clients[0], nil
}

func (r *PgxClientRepository) ListClients(ctx context.Context, scope domain.Scope, limit, offset int) ([]domain.Client, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	filter, scopeArg := scopeFilter(scope, "c", 1)
	return getClients(ctx, r.Pool, `WHERE `+filter+` ORDER BY c.name, c.client_id LIMIT $2 OFFSET $3;`, scopeArg, limit, offset)
}

func (r *PgxClientRepository) SearchClients(ctx context.Context, scope domain.Scope, query string, limit int) ([]domain.Client, error) {
	filter, scopeArg := scopeFilter(scope, "c", 1)
	pattern := "%" + likeEscaper.Replace(query) + "%"
	return getClients(ctx, r.Pool, fmt.Sprintf(`
		WHERE %s AND (c.name ILIKE $2 OR c.email ILIKE $2 OR c.company ILIKE $2)
		ORDER BY c.name
		LIMIT $3;`, filter), scopeArg, pattern, limit)
}

func (r *PgxClientRepository) CreateClientIfUnique(ctx context.Context, scope domain.Scope, client domain.Client) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := lockScope(ctx, tx, clientLockNamespace, scope); err != nil {
		return err
	}
	existing, err := findDuplicateClient(ctx, tx, scope, client, "")
	if err != nil {
		return err
	}
	if existing != nil {
		return duplicateClientError(existing)
	}
	if err := insertClient(ctx, tx, client); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxClientRepository) UpdateClient(ctx context.Context, scope domain.Scope, client domain.Client) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := lockScope(ctx, tx, clientLockNamespace, scope); err != nil {
		return err
	}
	existing, err := findDuplicateClient(ctx, tx, scope, client, client.ClientID)
	if err != nil {
		return err
	}
	if existing != nil {
		return duplicateClientError(existing)
	}

	m := mapping.ToModelClient(client)
	filter, scopeArg := scopeFilter(scope, "c", 10)
	cmdTag, err := tx.Exec(ctx, `
		UPDATE clients c
		SET name = $1, email = $2, phone = $3, company = $4, address = $5, tax_id = $6, notes = $7,
			last_updated_at = $8, last_updated_by = $9
		WHERE `+filter+` AND c.client_id = $11;`,
		m.Name, m.Email, m.Phone, m.Company, m.Address, m.TaxID, m.Notes,
		m.LastUpdatedAt, m.LastUpdatedBy, scopeArg, m.ClientID,
	)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to update client "+client.ClientID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("Client not found")
	}
	return r.Commit(ctx, tx)
}

func (r *PgxClientRepository) DeleteClient(ctx context.Context, scope domain.Scope, clientID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	filter, scopeArg := scopeFilter(scope, "c", 2)
	clients, err := getClients(ctx, tx, `WHERE c.client_id = $1 AND `+filter+` FOR UPDATE;`, clientID, scopeArg)
	if err != nil {
		return err
	}
	if len(clients) == 0 {
		return apperrors.NewNotFoundError("Client not found")
	}

	var referenced bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM invoices WHERE client_id = $1)
			OR EXISTS (SELECT 1 FROM contracts WHERE client_id = $1);`, clientID).Scan(&referenced)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to check client references", err)
	}
	if referenced {
		return apperrors.NewConflictError("Client has invoices or contracts and cannot be deleted")
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM clients c WHERE c.client_id = $1 AND `+filter+`;`, clientID, scopeArg)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return apperrors.NewConflictError("Client has invoices or contracts and cannot be deleted")
		}
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to delete client "+clientID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("Client not found")
	}
	return r.Commit(ctx, tx)
}
