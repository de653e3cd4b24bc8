package pgsql

import (
	"context"
	"net/http"
	"time"

	"github.com/SscSPs/finorn_backend/internal/apperrors"
	"github.com/SscSPs/finorn_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/finorn_backend/internal/core/ports/repositories"
	"github.com/SscSPs/finorn_backend/internal/models"
	"github.com/SscSPs/finorn_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxBillingRepository struct {
	BaseRepository
}

func newPgxBillingRepository(pool *pgxpool.Pool) portsrepo.BillingRepositoryFacade {
	return &PgxBillingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BillingRepositoryFacade = (*PgxBillingRepository)(nil)

const billingPaymentMethod = "billing_provider"

func subscriptionScope(sub domain.Subscription) domain.Scope {
	if sub.OrganizationID != nil {
		return domain.OrganizationScope(sub.UserID, *sub.OrganizationID, "")
	}
	return domain.IndividualScope(sub.UserID)
}

func (r *PgxBillingRepository) FindSubscription(ctx context.Context, scope domain.Scope) (*domain.Subscription, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT subscription_id, scope_key, user_id, organization_id, plan, status, features, current_period_end, updated_at
		FROM subscriptions
		WHERE scope_key = $1;`, scope.Key())
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query subscription", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Subscription])
	if err != nil {
		return nil, notFoundOr(err, "Subscription not found", "failed to collect subscription row")
	}
	sub, err := mapping.ToDomainSubscription(m)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to decode subscription", err)
	}
	return &sub, nil
}

// claimEvent records eventID and reports whether this transaction is the first to see it.
func claimEvent(ctx context.Context, tx pgx.Tx, eventID, eventType string, now time.Time) (bool, error) {
	cmdTag, err := tx.Exec(ctx, `
		INSERT INTO processed_billing_events (event_id, event_type, processed_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id) DO NOTHING;`, eventID, eventType, now)
	if err != nil {
		return false, apperrors.NewAppError(http.StatusInternalServerError, "failed to record billing event "+eventID, err)
	}
	return cmdTag.RowsAffected() == 1, nil
}

func (r *PgxBillingRepository) ApplySubscriptionEvent(ctx context.Context, eventID string, subscription domain.Subscription) (bool, error) {
	m, err := mapping.ToModelSubscription(subscription, subscriptionScope(subscription).Key())
	if err != nil {
		return false, apperrors.NewAppError(http.StatusInternalServerError, "failed to encode subscription", err)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer r.Rollback(ctx, tx)

	claimed, err := claimEvent(ctx, tx, eventID, domain.BillingEventSubscriptionUpdated, subscription.UpdatedAt)
	if err != nil || !claimed {
		return false, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO subscriptions (
			subscription_id, scope_key, user_id, organization_id, plan, status, features, current_period_end, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (scope_key) DO UPDATE SET
			plan = EXCLUDED.plan,
			status = EXCLUDED.status,
			features = EXCLUDED.features,
			current_period_end = EXCLUDED.current_period_end,
			updated_at = EXCLUDED.updated_at;`,
		m.SubscriptionID, m.ScopeKey, m.UserID, m.OrganizationID, m.Plan, m.Status, m.Features, m.CurrentPeriodEnd, m.UpdatedAt,
	)
	if err != nil {
		return false, apperrors.NewAppError(http.StatusInternalServerError, "failed to upsert subscription", err)
	}
	if err := r.Commit(ctx, tx); err != nil {
		return false, err
	}
	return true, nil
}

// ApplyInvoicePaidEvent records a provider payment against any tenant's invoice. Invoices
// that are no longer payable keep the event recorded without a payment.
func (r *PgxBillingRepository) ApplyInvoicePaidEvent(ctx context.Context, eventID, invoiceID, paymentID string, amount decimal.Decimal) (bool, error) {
	now := time.Now().UTC()
	tx, err := r.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer r.Rollback(ctx, tx)

	claimed, err := claimEvent(ctx, tx, eventID, domain.BillingEventInvoicePaid, now)
	if err != nil || !claimed {
		return false, err
	}

	var (
		userID         string
		organizationID *string
		status         string
		total          decimal.Decimal
		paid           decimal.Decimal
	)
	err = tx.QueryRow(ctx, `
		SELECT user_id, organization_id, status, total_amount, amount_paid
		FROM invoices
		WHERE invoice_id = $1
		FOR UPDATE;`, invoiceID).Scan(&userID, &organizationID, &status, &total, &paid)
	if err != nil {
		return false, notFoundOr(err, "Invoice not found", "failed to lock invoice "+invoiceID)
	}
	if !domain.CanTransitionInvoice(domain.InvoiceStatus(status), domain.InvoicePaid) {
		if err := r.Commit(ctx, tx); err != nil {
			return false, err
		}
		return false, nil
	}

	payment := domain.Payment{
		PaymentID:      paymentID,
		InvoiceID:      invoiceID,
		UserID:         userID,
		OrganizationID: organizationID,
		Amount:         amount,
		Method:         billingPaymentMethod,
		Reference:      eventID,
		PaidAt:         now,
		AuditFields:    domain.NewAuditFields(systemActor, now),
	}
	if err := insertPayment(ctx, tx, payment); err != nil {
		return false, err
	}

	newPaid := paid.Add(amount)
	newStatus := domain.InvoiceStatus(status)
	var paidAt *time.Time
	if !newPaid.LessThan(total) {
		newStatus = domain.InvoicePaid
		paidAt = &now
	}
	_, err = tx.Exec(ctx, `
		UPDATE invoices
		SET amount_paid = $1, status = $2, paid_at = COALESCE($3, paid_at), last_updated_at = $4, last_updated_by = $5
		WHERE invoice_id = $6;`,
		newPaid, string(newStatus), paidAt, now, systemActor, invoiceID,
	)
	if err != nil {
		return false, apperrors.NewAppError(http.StatusInternalServerError, "failed to update invoice "+invoiceID+" from billing event", err)
	}
	if err := r.Commit(ctx, tx); err != nil {
		return false, err
	}
	return true, nil
}
