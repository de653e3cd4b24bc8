package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/finorn_backend/internal/core/domain"
)

// NotificationRepositoryFacade defines persistence for notifications
type NotificationRepositoryFacade interface {
	SaveNotification(ctx context.Context, notification domain.Notification) error
	// ListNotifications returns the scope's notifications, newest first.
	ListNotifications(ctx context.Context, scope domain.Scope, unreadOnly bool, limit int) ([]domain.Notification, error)
	MarkNotificationRead(ctx context.Context, scope domain.Scope, notificationID string, at time.Time) error
}
