package dto

import (
	"time"

	"github.com/SscSPs/finorn_backend/internal/core/domain"
)

// ListNotificationsParams defines query parameters for listing notifications.
type ListNotificationsParams struct {
	Unread bool `form:"unread"`
	Limit  int  `form:"limit" binding:"omitempty,min=1,max=200"`
}

// NotificationResponse defines data returned for a notification.
type NotificationResponse struct {
	NotificationID string                  `json:"notificationID"`
	Type           domain.NotificationType `json:"type"`
	Title          string                  `json:"title"`
	Message        string                  `json:"message"`
	Data           map[string]any          `json:"data,omitempty"`
	ReadAt         *time.Time              `json:"readAt,omitempty"`
	CreatedAt      time.Time               `json:"createdAt"`
}

// ListNotificationsResponse wraps a list of notifications.
type ListNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
}

func ToListNotificationsResponse(ns []domain.Notification) ListNotificationsResponse {
	list := make([]NotificationResponse, len(ns))
	for i, n := range ns {
		list[i] = NotificationResponse{
			NotificationID: n.NotificationID,
			Type:           n.Type,
			Title:          n.Title,
			Message:        n.Message,
			Data:           n.Data,
			ReadAt:         n.ReadAt,
			CreatedAt:      n.CreatedAt,
		}
	}
	return ListNotificationsResponse{Notifications: list}
}
