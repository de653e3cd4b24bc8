package models

import "time"

type Notification struct {
	NotificationID string     `db:"notification_id"`
	UserID         string     `db:"user_id"`
	OrganizationID *string    `db:"organization_id"`
	Type           string     `db:"type"`
	Title          string     `db:"title"`
	Message        string     `db:"message"`
	Data           []byte     `db:"data"`
	Channels       []string   `db:"channels"`
	ReadAt         *time.Time `db:"read_at"`
	CreatedAt      time.Time  `db:"created_at"`
}
