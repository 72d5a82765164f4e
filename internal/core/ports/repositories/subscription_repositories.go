package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/smb_suite/internal/core/domain"
)

// SubscriptionReader defines read operations for subscriptions
type SubscriptionReader interface {
	// FindSubscriptionByUserID returns apperrors.ErrNotFound when the user has none.
	FindSubscriptionByUserID(ctx context.Context, userID string) (*domain.SubscriptionRecord, error)
}

// SubscriptionWriter defines write operations for subscriptions
type SubscriptionWriter interface {
	// UpsertSubscription inserts or replaces the user's single subscription row.
	// Running it twice with the same input leaves one row.
	UpsertSubscription(ctx context.Context, sub domain.SubscriptionRecord) error

	// ExpireSubscriptions marks active subscriptions that expired before now.
	ExpireSubscriptions(ctx context.Context, now time.Time) (int64, error)
}

// SubscriptionRepositoryFacade combines all subscription repository interfaces
type SubscriptionRepositoryFacade interface {
	SubscriptionReader
	SubscriptionWriter
}
