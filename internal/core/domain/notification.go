package domain

import "time"

// NotificationLevel mirrors the severity of a user-facing toast.
type NotificationLevel string

const (
	NotificationInfo    NotificationLevel = "info"
	NotificationSuccess NotificationLevel = "success"
	NotificationWarning NotificationLevel = "warning"
	NotificationError   NotificationLevel = "error"
)

// Notification is a non-blocking message addressed to one user.
type Notification struct {
	NotificationID string            `json:"id"`
	UserID         string            `json:"userId"`
	Level          NotificationLevel `json:"level"`
	Message        string            `json:"message"`
	CreatedAt      time.Time         `json:"createdAt"`
	ReadAt         *time.Time        `json:"readAt,omitempty"`
}
