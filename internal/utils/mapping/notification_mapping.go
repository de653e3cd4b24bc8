package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/finorn_backend/internal/core/domain"
	"github.com/SscSPs/finorn_backend/internal/models"
)

func ToModelNotification(d domain.Notification) (models.Notification, error) {
	data := []byte("{}")
	if d.Data != nil {
		raw, err := json.Marshal(d.Data)
		if err != nil {
			return models.Notification{}, fmt.Errorf("encode notification data: %w", err)
		}
		data = raw
	}
	channels := make([]string, len(d.Channels))
	for i, c := range d.Channels {
		channels[i] = string(c)
	}
	return models.Notification{
		NotificationID: d.NotificationID,
		UserID:         d.UserID,
		OrganizationID: d.OrganizationID,
		Type:           string(d.Type),
		Title:          d.Title,
		Message:        d.Message,
		Data:           data,
		Channels:       channels,
		ReadAt:         d.ReadAt,
		CreatedAt:      d.CreatedAt,
	}, nil
}

func ToDomainNotification(m models.Notification) (domain.Notification, error) {
	var data map[string]any
	if len(m.Data) > 0 {
		if err := json.Unmarshal(m.Data, &data); err != nil {
			return domain.Notification{}, fmt.Errorf("decode notification data: %w", err)
		}
	}
	channels := make([]domain.NotificationChannel, len(m.Channels))
	for i, c := range m.Channels {
		channels[i] = domain.NotificationChannel(c)
	}
	return domain.Notification{
		NotificationID: m.NotificationID,
		UserID:         m.UserID,
		OrganizationID: m.OrganizationID,
		Type:           domain.NotificationType(m.Type),
		Title:          m.Title,
		Message:        m.Message,
		Data:           data,
		Channels:       channels,
		ReadAt:         m.ReadAt,
		CreatedAt:      m.CreatedAt,
	}, nil
}

func ToModelSubscription(d domain.Subscription, scopeKey string) (models.Subscription, error) {
	features, err := json.Marshal(d.Features)
	if err != nil {
		return models.Subscription{}, fmt.Errorf("encode subscription features: %w", err)
	}
	return models.Subscription{
		SubscriptionID:   d.SubscriptionID,
		ScopeKey:         scopeKey,
		UserID:           d.UserID,
		OrganizationID:   d.OrganizationID,
		Plan:             d.Plan,
		Status:           string(d.Status),
		Features:         features,
		CurrentPeriodEnd: d.CurrentPeriodEnd,
		UpdatedAt:        d.UpdatedAt,
	}, nil
}

func ToDomainSubscription(m models.Subscription) (domain.Subscription, error) {
	features := map[string]bool{}
	if len(m.Features) > 0 {
		if err := json.Unmarshal(m.Features, &features); err != nil {
			return domain.Subscription{}, fmt.Errorf("decode subscription features: %w", err)
		}
	}
	return domain.Subscription{
		SubscriptionID:   m.SubscriptionID,
		UserID:           m.UserID,
		OrganizationID:   m.OrganizationID,
		Plan:             m.Plan,
		Status:           domain.SubscriptionStatus(m.Status),
		Features:         features,
		CurrentPeriodEnd: m.CurrentPeriodEnd,
		UpdatedAt:        m.UpdatedAt,
	}, nil
}
