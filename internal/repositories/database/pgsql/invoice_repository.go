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
	"github.com/shopspring/decimal"
)

type PgxInvoiceRepository struct {
	BaseRepository
}

// newPgxInvoiceRepository creates a new repository for invoices, their line items and payments.
func newPgxInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepositoryFacade {
	return &PgxInvoiceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

const invoiceColumns = `
	i.invoice_id, i.invoice_number, i.user_id, i.organization_id, i.client_id, i.status,
	i.issue_date, i.due_date, i.currency, i.sub_total, i.tax_rate, i.tax_amount, i.total_amount,
	i.amount_paid, i.notes, i.public_view_token, i.pdf_key, i.payment_information,
	i.email_sent_at, i.email_sent_to, i.paid_at,
	i.created_at, i.created_by, i.last_updated_at, i.last_updated_by
`

const FULL_INVOICE_SELECT_QUERY = `SELECT` + invoiceColumns + `FROM invoices i
`

const systemActor = "system"

func collectInvoices(rows pgx.Rows) ([]domain.Invoice, error) {
	defer rows.Close()
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Invoice])
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to collect invoice rows", err)
	}
	invoices := make([]domain.Invoice, len(ms))
	for i, m := range ms {
		inv, err := mapping.ToDomainInvoice(m)
		if err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to decode invoice "+m.InvoiceID, err)
		}
		invoices[i] = inv
	}
	return invoices, nil
}

// getInvoices runs the select with filterQuery and attaches line items.
func (r *PgxInvoiceRepository) getInvoices(ctx context.Context, filterQuery string, args ...any) ([]domain.Invoice, error) {
	rows, err := r.Pool.Query(ctx, FULL_INVOICE_SELECT_QUERY+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query invoices", err)
	}
	invoices, err := collectInvoices(rows)
	if err != nil {
		return nil, err
	}
	if err := r.attachLineItems(ctx, invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *PgxInvoiceRepository) attachLineItems(ctx context.Context, invoices []domain.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}
	ids := make([]string, len(invoices))
	index := make(map[string]int, len(invoices))
	for i, inv := range invoices {
		ids[i] = inv.InvoiceID
		index[inv.InvoiceID] = i
	}
	rows, err := r.Pool.Query(ctx, `
		SELECT line_item_id, invoice_id, description, quantity, unit_price, amount, position
		FROM invoice_line_items
		WHERE invoice_id = ANY($1)
		ORDER BY invoice_id, position;`, ids)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to query line items", err)
	}
	defer rows.Close()
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.LineItem])
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to collect line item rows", err)
	}
	for _, item := range items {
		inv := &invoices[index[item.InvoiceID]]
		inv.LineItems = append(inv.LineItems, mapping.ToDomainLineItem(item))
	}
	return nil
}

func (r *PgxInvoiceRepository) findOne(ctx context.Context, filterQuery string, args ...any) (*domain.Invoice, error) {
	invoices, err := r.getInvoices(ctx, filterQuery, args...)
	if err != nil {
		return nil, err
	}
	if len(invoices) == 0 {
		return nil, apperrors.NewNotFoundError("Invoice not found")
	}
	return &invoices[0], nil
}

func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, scope domain.Scope, invoiceID string) (*domain.Invoice, error) {
	filter, scopeArg := scopeFilter(scope, "i", 2)
	return r.findOne(ctx, `WHERE i.invoice_id = $1 AND `+filter, invoiceID, scopeArg)
}

func (r *PgxInvoiceRepository) FindInvoiceByPublicToken(ctx context.Context, token string) (*domain.Invoice, error) {
	return r.findOne(ctx, `WHERE i.public_view_token = $1`, token)
}

// ListInvoices pages by (created_at DESC, invoice_id DESC).
func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, scope domain.Scope, filter portsrepo.InvoiceFilter) ([]domain.Invoice, *string, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	where, scopeArg := scopeFilter(scope, "i", 1)
	args := []any{scopeArg}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		where += " AND i.status = $" + strconv.Itoa(len(args))
	}
	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		where += " AND i.client_id = $" + strconv.Itoa(len(args))
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		lastCreatedAt, lastID, err := pagination.DecodeCursor(*filter.NextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(http.StatusBadRequest, "invalid nextToken", err)
		}
		args = append(args, lastCreatedAt, lastID)
		where += " AND (i.created_at, i.invoice_id) < ($" + strconv.Itoa(len(args)-1) + ", $" + strconv.Itoa(len(args)) + ")"
	}
	args = append(args, fetchLimit)
	query := "WHERE " + where + " ORDER BY i.created_at DESC, i.invoice_id DESC LIMIT $" + strconv.Itoa(len(args)) + ";"

	invoices, err := r.getInvoices(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}

	var nextToken *string
	if len(invoices) > limit {
		last := invoices[limit-1]
		token := pagination.EncodeCursor(last.CreatedAt, last.InvoiceID)
		nextToken = &token
		invoices = invoices[:limit]
	}
	return invoices, nextToken, nil
}

func (r *PgxInvoiceRepository) ListPayments(ctx context.Context, scope domain.Scope, invoiceID string) ([]domain.Payment, error) {
	filter, scopeArg := scopeFilter(scope, "i", 2)
	rows, err := r.Pool.Query(ctx, `
		SELECT p.payment_id, p.invoice_id, p.user_id, p.organization_id, p.amount, p.method, p.reference, p.paid_at,
			p.created_at, p.created_by, p.last_updated_at, p.last_updated_by
		FROM payments p
		JOIN invoices i ON i.invoice_id = p.invoice_id
		WHERE p.invoice_id = $1 AND `+filter+`
		ORDER BY p.paid_at, p.payment_id;`, invoiceID, scopeArg)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query payments for invoice "+invoiceID, err)
	}
	defer rows.Close()
	payments, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Payment])
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to collect payment rows", err)
	}
	return mapping.ToDomainPaymentSlice(payments), nil
}

func (r *PgxInvoiceRepository) CreateInvoice(ctx context.Context, scope domain.Scope, invoice *domain.Invoice, newClient *domain.Client) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if newClient != nil {
		if err := lockScope(ctx, tx, clientLockNamespace, scope); err != nil {
			return err
		}
		existing, err := findDuplicateClient(ctx, tx, scope, *newClient, "")
		if err != nil {
			return err
		}
		if existing != nil {
			invoice.ClientID = existing.ClientID
		} else {
			if err := insertClient(ctx, tx, *newClient); err != nil {
				return err
			}
			invoice.ClientID = newClient.ClientID
		}
	}

	m, err := mapping.ToModelInvoice(*invoice)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO invoices (
			invoice_id, invoice_number, user_id, organization_id, client_id, status,
			issue_date, due_date, currency, sub_total, tax_rate, tax_amount, total_amount,
			amount_paid, notes, public_view_token, pdf_key, payment_information,
			email_sent_at, email_sent_to, paid_at,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25);`,
		m.InvoiceID, m.InvoiceNumber, m.UserID, m.OrganizationID, m.ClientID, m.Status,
		m.IssueDate, m.DueDate, m.Currency, m.SubTotal, m.TaxRate, m.TaxAmount, m.TotalAmount,
		m.AmountPaid, m.Notes, m.PublicViewToken, m.PDFKey, m.PaymentInformation,
		m.EmailSentAt, m.EmailSentTo, m.PaidAt,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return apperrors.NewConflictError("An invoice with this number already exists")
		}
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to insert invoice "+invoice.InvoiceID, err)
	}
	if err := insertLineItems(ctx, tx, invoice.InvoiceID, invoice.LineItems); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func insertLineItems(ctx context.Context, tx pgx.Tx, invoiceID string, items []domain.LineItem) error {
	if len(items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, item := range items {
		m := mapping.ToModelLineItem(item)
		batch.Queue(`
			INSERT INTO invoice_line_items (line_item_id, invoice_id, description, quantity, unit_price, amount, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7);`,
			m.LineItemID, invoiceID, m.Description, m.Quantity, m.UnitPrice, m.Amount, m.Position,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to insert line items for invoice "+invoiceID, err)
	}
	return nil
}

// UpdateInvoice only touches drafts; anything else reports a conflict.
func (r *PgxInvoiceRepository) UpdateInvoice(ctx context.Context, scope domain.Scope, invoice domain.Invoice) error {
	m, err := mapping.ToModelInvoice(invoice)
	if err != nil {
		return err
	}
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query, args := draftInvoiceUpdate(m, scope)
	cmdTag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return apperrors.NewConflictError("An invoice with this number already exists")
		}
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to update invoice "+invoice.InvoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.missingOrConflict(ctx, scope, invoice.InvoiceID, "Only draft invoices can be edited")
	}

	if _, err := tx.Exec(ctx, `DELETE FROM invoice_line_items WHERE invoice_id = $1;`, invoice.InvoiceID); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to clear line items for invoice "+invoice.InvoiceID, err)
	}
	if err := insertLineItems(ctx, tx, invoice.InvoiceID, invoice.LineItems); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// draftInvoiceUpdate builds the guarded UPDATE for the editable columns of a draft invoice.
func draftInvoiceUpdate(m models.Invoice, scope domain.Scope) (string, []any) {
	filter, scopeArg := scopeFilter(scope, "i", 15)
	query := `
		UPDATE invoices i
		SET invoice_number = $1, client_id = $2, issue_date = $3, due_date = $4, currency = $5,
			sub_total = $6, tax_rate = $7, tax_amount = $8, total_amount = $9, notes = $10,
			payment_information = $11, last_updated_at = $12, last_updated_by = $13
		WHERE i.invoice_id = $14 AND ` + filter + ` AND i.status = 'DRAFT';`
	return query, []any{
		m.InvoiceNumber, m.ClientID, m.IssueDate, m.DueDate, m.Currency,
		m.SubTotal, m.TaxRate, m.TaxAmount, m.TotalAmount, m.Notes,
		m.PaymentInformation, m.LastUpdatedAt, m.LastUpdatedBy,
		m.InvoiceID, scopeArg,
	}
}

// missingOrConflict distinguishes a guarded write that matched nothing because the row is
// absent from one that lost on its status guard.
func (r *PgxInvoiceRepository) missingOrConflict(ctx context.Context, scope domain.Scope, invoiceID, message string) error {
	filter, scopeArg := scopeFilter(scope, "i", 2)
	var exists bool
	if err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM invoices i WHERE i.invoice_id = $1 AND `+filter+`);`, invoiceID, scopeArg).Scan(&exists); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to check invoice "+invoiceID, err)
	}
	if !exists {
		return apperrors.NewNotFoundError("Invoice not found")
	}
	return apperrors.NewConflictError(message)
}

func (r *PgxInvoiceRepository) SaveInvoiceState(ctx context.Context, scope domain.Scope, invoice domain.Invoice, expected domain.InvoiceStatus) error {
	filter, scopeArg := scopeFilter(scope, "i", 10)
	cmdTag, err := r.Pool.Exec(ctx, `
		UPDATE invoices i
		SET status = $1, public_view_token = $2, email_sent_at = $3, email_sent_to = $4, pdf_key = $5,
			paid_at = $6, last_updated_at = $7, last_updated_by = $8
		WHERE i.invoice_id = $9 AND `+filter+` AND i.status = $11;`,
		string(invoice.Status), invoice.PublicViewToken, invoice.EmailSentAt, invoice.EmailSentTo, invoice.PDFKey,
		invoice.PaidAt, invoice.LastUpdatedAt, invoice.LastUpdatedBy, invoice.InvoiceID, scopeArg, string(expected),
	)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return apperrors.NewConflictError("Public link collision, please retry")
		}
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to save invoice state "+invoice.InvoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.missingOrConflict(ctx, scope, invoice.InvoiceID, "Invoice status changed concurrently, reload and retry")
	}
	return nil
}

func (r *PgxInvoiceRepository) DeleteInvoice(ctx context.Context, scope domain.Scope, invoiceID string) error {
	filter, scopeArg := scopeFilter(scope, "i", 2)
	cmdTag, err := r.Pool.Exec(ctx, `
		DELETE FROM invoices i
		WHERE i.invoice_id = $1 AND `+filter+` AND i.status IN ('DRAFT', 'CANCELLED');`, invoiceID, scopeArg)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to delete invoice "+invoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.missingOrConflict(ctx, scope, invoiceID, "Only draft or cancelled invoices can be deleted")
	}
	return nil
}

func (r *PgxInvoiceRepository) SetInvoicePDF(ctx context.Context, scope domain.Scope, invoiceID string, key string) error {
	filter, scopeArg := scopeFilter(scope, "i", 3)
	cmdTag, err := r.Pool.Exec(ctx, `
		UPDATE invoices i
		SET pdf_key = $1, last_updated_at = NOW(), last_updated_by = $4
		WHERE i.invoice_id = $2 AND `+filter+`;`, key, invoiceID, scopeArg, scope.UserID)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to set pdf for invoice "+invoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("Invoice not found")
	}
	return nil
}

func (r *PgxInvoiceRepository) RecordPayment(ctx context.Context, scope domain.Scope, payment domain.Payment, invoice domain.Invoice) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	filter, scopeArg := scopeFilter(scope, "i", 2)
	var currentPaid decimal.Decimal
	var status string
	err = tx.QueryRow(ctx, `
		SELECT i.amount_paid, i.status FROM invoices i
		WHERE i.invoice_id = $1 AND `+filter+` FOR UPDATE;`, invoice.InvoiceID, scopeArg).Scan(&currentPaid, &status)
	if err != nil {
		return notFoundOr(err, "Invoice not found", "failed to lock invoice "+invoice.InvoiceID)
	}
	if !currentPaid.Add(payment.Amount).Equal(invoice.AmountPaid) || !domain.CanTransitionInvoice(domain.InvoiceStatus(status), domain.InvoicePaid) {
		return apperrors.NewConflictError("Invoice changed while recording the payment, reload and retry")
	}

	if err := insertPayment(ctx, tx, payment); err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		UPDATE invoices
		SET amount_paid = $1, status = $2, paid_at = $3, last_updated_at = $4, last_updated_by = $5
		WHERE invoice_id = $6;`,
		invoice.AmountPaid, string(invoice.Status), invoice.PaidAt, invoice.LastUpdatedAt, invoice.LastUpdatedBy, invoice.InvoiceID,
	)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to update invoice "+invoice.InvoiceID+" after payment", err)
	}
	return r.Commit(ctx, tx)
}

func insertPayment(ctx context.Context, tx pgx.Tx, payment domain.Payment) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO payments (
			payment_id, invoice_id, user_id, organization_id, amount, method, reference, paid_at,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`,
		payment.PaymentID, payment.InvoiceID, payment.UserID, payment.OrganizationID, payment.Amount,
		payment.Method, payment.Reference, payment.PaidAt,
		payment.CreatedAt, payment.CreatedBy, payment.LastUpdatedAt, payment.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to insert payment "+payment.PaymentID, err)
	}
	return nil
}

func (r *PgxInvoiceRepository) MarkOverdueInvoices(ctx context.Context, now time.Time) ([]domain.Invoice, error) {
	rows, err := r.Pool.Query(ctx, `
		UPDATE invoices i
		SET status = 'OVERDUE', last_updated_at = $1, last_updated_by = $2
		WHERE i.status = 'SENT' AND i.due_date IS NOT NULL AND i.due_date < $3::date
		RETURNING`+invoiceColumns+`;`, now, systemActor, domain.OverdueCutoff(now))
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to mark overdue invoices", err)
	}
	return collectInvoices(rows)
}
