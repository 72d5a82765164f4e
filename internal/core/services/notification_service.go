package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/smb_suite/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_suite/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/smb_suite/internal/core/ports/services"
	"github.com/google/uuid"
)

const (
	notificationListLimit = 50
	notificationSaveWait  = 5 * time.Second
)

// NotificationService stores the user-facing messages other services emit. Notify never
// fails its caller: storage errors are only logged.
type NotificationService struct {
	BaseService
	repo  portsrepo.NotificationRepository
	clock portssvc.Clock
}

func NewNotificationService(repo portsrepo.NotificationRepository, clock portssvc.Clock) *NotificationService {
	return &NotificationService{repo: repo, clock: clock}
}

func (s *NotificationService) Notify(ctx context.Context, userID string, level domain.NotificationLevel, message string) {
	if userID == "" || message == "" {
		return
	}
	n := domain.Notification{
		NotificationID: uuid.NewString(),
		UserID:         userID,
		Level:          level,
		Message:        message,
		CreatedAt:      s.clock.Now(),
	}
	s.LogInfo(ctx, "User notification", slog.String("user_id", userID), slog.String("level", string(level)), slog.String("message", message))

	// the request that triggered the message may already be finished
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notificationSaveWait)
	defer cancel()
	if err := s.repo.SaveNotification(saveCtx, n); err != nil {
		s.LogError(ctx, err, "Failed to store notification", slog.String("user_id", userID))
	}
}

func (s *NotificationService) ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]domain.Notification, error) {
	list, err := s.repo.ListNotifications(ctx, userID, unreadOnly, notificationListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	if list == nil {
		return []domain.Notification{}, nil
	}
	return list, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	if err := s.repo.MarkNotificationRead(ctx, userID, notificationID); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}
