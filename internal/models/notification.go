package models

import "time"

// Notification is a row of notifications.
type Notification struct {
	NotificationID string     `db:"notification_id"`
	UserID         string     `db:"user_id"`
	Level          string     `db:"level"`
	Message        string     `db:"message"`
	CreatedAt      time.Time  `db:"created_at"`
	ReadAt         *time.Time `db:"read_at"`
}
