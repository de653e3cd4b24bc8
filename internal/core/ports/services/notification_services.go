package services

import (
	"context"

	"github.com/SscSPs/finorn_backend/internal/core/domain"
	"github.com/SscSPs/finorn_backend/internal/dto"
)

// NotifyParams describes one notification to create.
type NotifyParams struct {
	UserID         string
	OrganizationID *string
	Type           domain.NotificationType
	Data           map[string]any
	Channels       []domain.NotificationChannel
}

// Notifier creates notifications. Callers treat failures as non-fatal.
type Notifier interface {
	Notify(ctx context.Context, params NotifyParams) (*domain.Notification, error)
}

// NotificationSvcFacade adds the read side used by the API.
type NotificationSvcFacade interface {
	Notifier
	ListNotifications(ctx context.Context, scope domain.Scope, params dto.ListNotificationsParams) ([]domain.Notification, error)
	MarkRead(ctx context.Context, scope domain.Scope, notificationID string) error
}
