package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/smb_suite/internal/apperrors"
	"github.com/SscSPs/smb_suite/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_suite/internal/core/ports/repositories"
	"github.com/SscSPs/smb_suite/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxNotificationRepository struct {
	db *pgxpool.Pool
}

func newPgxNotificationRepository(db *pgxpool.Pool) portsrepo.NotificationRepository {
	return &PgxNotificationRepository{db: db}
}

var _ portsrepo.NotificationRepository = (*PgxNotificationRepository)(nil)

func toDomainNotification(m models.Notification) domain.Notification {
	return domain.Notification{
		NotificationID: m.NotificationID,
		UserID:         m.UserID,
		Level:          domain.NotificationLevel(m.Level),
		Message:        m.Message,
		CreatedAt:      m.CreatedAt,
		ReadAt:         m.ReadAt,
	}
}

func (r *PgxNotificationRepository) SaveNotification(ctx context.Context, n domain.Notification) error {
	query := `
        INSERT INTO notifications (notification_id, user_id, level, message, created_at, read_at)
        VALUES ($1, $2, $3, $4, $5, $6);
    `
	_, err := r.db.Exec(ctx, query, n.NotificationID, n.UserID, string(n.Level), n.Message, n.CreatedAt, n.ReadAt)
	if err != nil {
		return fmt.Errorf("failed to save notification for user %s: %w", n.UserID, err)
	}
	return nil
}

func (r *PgxNotificationRepository) ListNotifications(ctx context.Context, userID string, unreadOnly bool, limit int) ([]domain.Notification, error) {
	query := `
        SELECT notification_id, user_id, level, message, created_at, read_at
        FROM notifications
        WHERE user_id = $1 AND ($2 = FALSE OR read_at IS NULL)
        ORDER BY created_at DESC
        LIMIT $3;
    `
	rows, err := r.db.Query(ctx, query, userID, unreadOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications for user %s: %w", userID, err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Notification])
	if err != nil {
		return nil, fmt.Errorf("failed to scan notifications for user %s: %w", userID, err)
	}

	notifications := make([]domain.Notification, len(ms))
	for i, m := range ms {
		notifications[i] = toDomainNotification(m)
	}
	return notifications, nil
}

func (r *PgxNotificationRepository) MarkNotificationRead(ctx context.Context, userID, notificationID string) error {
	query := `
        UPDATE notifications
        SET read_at = NOW()
        WHERE notification_id = $1 AND user_id = $2 AND read_at IS NULL;
    `
	tag, err := r.db.Exec(ctx, query, notificationID, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification %s read: %w", notificationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("notification not found or already read")
	}
	return nil
}
