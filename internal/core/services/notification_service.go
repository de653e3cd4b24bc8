package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/SscSPs/finorn_backend/internal/apperrors"
	"github.com/SscSPs/finorn_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/finorn_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
	"github.com/SscSPs/finorn_backend/internal/dto"
	"github.com/google/uuid"
)

const defaultNotificationLimit = 50

// notificationService implements the NotificationSvcFacade interface.
// It is the Notifier other services are built with, so it does not notify itself.
type notificationService struct {
	BaseService
	notificationRepo portsrepo.NotificationRepositoryFacade
	userRepo         portsrepo.UserReader
	mailer           portssvc.Mailer
	now              func() time.Time
}

func NewNotificationService(notificationRepo portsrepo.NotificationRepositoryFacade, userRepo portsrepo.UserReader, mailer portssvc.Mailer) portssvc.NotificationSvcFacade {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		mailer:           mailer,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.NotificationSvcFacade = (*notificationService)(nil)

// Notify renders the catalog template for params.Type, persists the in-app copy and emails the
// recipient when the email channel is requested.
func (s *notificationService) Notify(ctx context.Context, params portssvc.NotifyParams) (*domain.Notification, error) {
	if params.UserID == "" {
		return nil, apperrors.NewValidationFailedError("notification recipient is required")
	}
	title, message, err := domain.RenderNotification(params.Type, params.Data)
	if err != nil {
		return nil, apperrors.NewValidationFailedError(err.Error())
	}
	channels := params.Channels
	if len(channels) == 0 {
		channels = []domain.NotificationChannel{domain.ChannelInApp}
	}

	notification := domain.Notification{
		NotificationID: uuid.NewString(),
		UserID:         params.UserID,
		OrganizationID: params.OrganizationID,
		Type:           params.Type,
		Title:          title,
		Message:        message,
		Data:           params.Data,
		Channels:       channels,
		CreatedAt:      s.now(),
	}

	if slices.Contains(channels, domain.ChannelInApp) {
		if err := s.notificationRepo.SaveNotification(ctx, notification); err != nil {
			return nil, fmt.Errorf("failed to save notification: %w", err)
		}
	}
	if slices.Contains(channels, domain.ChannelEmail) {
		if err := s.emailNotification(ctx, &notification); err != nil {
			return &notification, err
		}
	}

	s.LogDebug(ctx, "Notification created",
		slog.String("notification_id", notification.NotificationID),
		slog.String("type", string(notification.Type)))
	return &notification, nil
}

func (s *notificationService) emailNotification(ctx context.Context, n *domain.Notification) error {
	if s.mailer == nil {
		return nil
	}
	user, err := s.userRepo.FindUserByID(ctx, n.UserID)
	if err != nil {
		return fmt.Errorf("failed to load notification recipient: %w", err)
	}
	msg := portssvc.EmailMessage{
		To:       []string{user.Email},
		Subject:  n.Title,
		Text:     n.Message,
		Template: "notification",
		Data: map[string]any{
			"type":    string(n.Type),
			"title":   n.Title,
			"message": n.Message,
		},
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to email notification: %w", err)
	}
	return nil
}

func (s *notificationService) ListNotifications(ctx context.Context, scope domain.Scope, params dto.ListNotificationsParams) ([]domain.Notification, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	notifications, err := s.notificationRepo.ListNotifications(ctx, scope, params.Unread, limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to list notifications")
		return nil, err
	}
	if notifications == nil {
		return []domain.Notification{}, nil
	}
	return notifications, nil
}

func (s *notificationService) MarkRead(ctx context.Context, scope domain.Scope, notificationID string) error {
	if err := s.notificationRepo.MarkNotificationRead(ctx, scope, notificationID, s.now()); err != nil {
		s.LogError(ctx, err, "Failed to mark notification read", slog.String("notification_id", notificationID))
		return err
	}
	return nil
}
