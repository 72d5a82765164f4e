package pgsql

import (
	portsrepo "github.com/SscSPs/smb_suite/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every repository onto dbPool. The watchers deliver
// changes received by feed, which the caller must run.
func NewRepositoryProvider(dbPool *pgxpool.Pool, feed *ChangeFeed) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		SupportedCurrencyRepo: newPgxSupportedCurrencyRepository(dbPool, feed),
		PreferenceRepo:        newPgxPreferenceRepository(dbPool, feed),
		RateCache:             newPgxRateCacheRepository(dbPool),
		PaymentRepo:           newPgxPaymentRepository(dbPool),
		SubscriptionRepo:      newPgxSubscriptionRepository(dbPool),
		NotificationRepo:      newPgxNotificationRepository(dbPool),
	}
}
