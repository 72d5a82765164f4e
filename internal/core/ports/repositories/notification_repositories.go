package repositories

import (
	"context"

	"github.com/SscSPs/smb_suite/internal/core/domain"
)

// NotificationRepository persists user-facing notifications.
type NotificationRepository interface {
	SaveNotification(ctx context.Context, n domain.Notification) error
	ListNotifications(ctx context.Context, userID string, unreadOnly bool, limit int) ([]domain.Notification, error)
	MarkNotificationRead(ctx context.Context, userID, notificationID string) error
}
