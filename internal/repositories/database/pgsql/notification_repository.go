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
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxNotificationRepository struct {
	BaseRepository
}

func newPgxNotificationRepository(pool *pgxpool.Pool) portsrepo.NotificationRepositoryFacade {
	return &PgxNotificationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.NotificationRepositoryFacade = (*PgxNotificationRepository)(nil)

// notificationScopeFilter matches the recipient's own notifications in scope. Organization
// notifications are still addressed to one member.
func notificationScopeFilter(scope domain.Scope, userPos, orgPos int) (string, []any) {
	if scope.IsOrganization() {
		return "n.user_id = $" + strconv.Itoa(userPos) + " AND n.organization_id = $" + strconv.Itoa(orgPos), []any{scope.UserID, scope.OrganizationID}
	}
	return "n.user_id = $" + strconv.Itoa(userPos) + " AND n.organization_id IS NULL", []any{scope.UserID}
}

func (r *PgxNotificationRepository) SaveNotification(ctx context.Context, notification domain.Notification) error {
	m, err := mapping.ToModelNotification(notification)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to encode notification", err)
	}
	_, err = r.Pool.Exec(ctx, `
		INSERT INTO notifications (
			notification_id, user_id, organization_id, type, title, message, data, channels, read_at, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`,
		m.NotificationID, m.UserID, m.OrganizationID, m.Type, m.Title, m.Message, m.Data, m.Channels, m.ReadAt, m.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to save notification "+notification.NotificationID, err)
	}
	return nil
}

func (r *PgxNotificationRepository) ListNotifications(ctx context.Context, scope domain.Scope, unreadOnly bool, limit int) ([]domain.Notification, error) {
	where, args := notificationScopeFilter(scope, 1, 2)
	if unreadOnly {
		where += " AND n.read_at IS NULL"
	}
	args = append(args, limit)
	rows, err := r.Pool.Query(ctx, `
		SELECT n.notification_id, n.user_id, n.organization_id, n.type, n.title, n.message,
			n.data, n.channels, n.read_at, n.created_at
		FROM notifications n
		WHERE `+where+`
		ORDER BY n.created_at DESC, n.notification_id DESC
		LIMIT $`+strconv.Itoa(len(args))+`;`, args...)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query notifications", err)
	}
	defer rows.Close()
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Notification])
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to collect notification rows", err)
	}
	notifications := make([]domain.Notification, len(ms))
	for i, m := range ms {
		n, err := mapping.ToDomainNotification(m)
		if err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to decode notification "+m.NotificationID, err)
		}
		notifications[i] = n
	}
	return notifications, nil
}

func (r *PgxNotificationRepository) MarkNotificationRead(ctx context.Context, scope domain.Scope, notificationID string, at time.Time) error {
	where, args := notificationScopeFilter(scope, 3, 4)
	args = append([]any{notificationID, at}, args...)
	cmdTag, err := r.Pool.Exec(ctx, `
		UPDATE notifications n
		SET read_at = COALESCE(n.read_at, $2)
		WHERE n.notification_id = $1 AND `+where+`;`, args...)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to mark notification "+notificationID+" read", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("Notification not found")
	}
	return nil
}
