package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/smb_suite/internal/apperrors"
	"github.com/SscSPs/smb_suite/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_suite/internal/core/ports/repositories"
	"github.com/SscSPs/smb_suite/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxSubscriptionRepository struct {
	db *pgxpool.Pool
}

func newPgxSubscriptionRepository(db *pgxpool.Pool) portsrepo.SubscriptionRepositoryFacade {
	return &PgxSubscriptionRepository{db: db}
}

var _ portsrepo.SubscriptionRepositoryFacade = (*PgxSubscriptionRepository)(nil)

func toModelSubscription(d domain.SubscriptionRecord) models.Subscription {
	return models.Subscription{
		UserID:            d.UserID,
		Plan:              d.Plan,
		Status:            string(d.Status),
		ProviderPaymentID: d.ProviderPaymentID,
		Amount:            d.Amount,
		Currency:          d.Currency,
		StartedAt:         d.StartedAt,
		ExpiresAt:         d.ExpiresAt,
	}
}

func toDomainSubscription(m models.Subscription) domain.SubscriptionRecord {
	return domain.SubscriptionRecord{
		UserID:            m.UserID,
		Plan:              m.Plan,
		Status:            domain.SubscriptionStatus(m.Status),
		ProviderPaymentID: m.ProviderPaymentID,
		Amount:            m.Amount,
		Currency:          m.Currency,
		StartedAt:         m.StartedAt,
		ExpiresAt:         m.ExpiresAt,
	}
}

func (r *PgxSubscriptionRepository) FindSubscriptionByUserID(ctx context.Context, userID string) (*domain.SubscriptionRecord, error) {
	query := `
        SELECT user_id, plan, status, provider_payment_id, amount, currency, started_at, expires_at
        FROM subscriptions
        WHERE user_id = $1;
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscription for user %s: %w", userID, err)
	}
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Subscription])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan subscription for user %s: %w", userID, err)
	}
	sub := toDomainSubscription(m)
	return &sub, nil
}

func (r *PgxSubscriptionRepository) UpsertSubscription(ctx context.Context, sub domain.SubscriptionRecord) error {
	m := toModelSubscription(sub)
	query := `
        INSERT INTO subscriptions (user_id, plan, status, provider_payment_id, amount, currency, started_at, expires_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (user_id) DO UPDATE SET
            plan = EXCLUDED.plan,
            status = EXCLUDED.status,
            provider_payment_id = EXCLUDED.provider_payment_id,
            amount = EXCLUDED.amount,
            currency = EXCLUDED.currency,
            started_at = EXCLUDED.started_at,
            expires_at = EXCLUDED.expires_at;
    `
	_, err := r.db.Exec(ctx, query,
		m.UserID, m.Plan, m.Status, m.ProviderPaymentID, m.Amount, m.Currency, m.StartedAt, m.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert subscription for user %s: %w", sub.UserID, err)
	}
	return nil
}

func (r *PgxSubscriptionRepository) ExpireSubscriptions(ctx context.Context, now time.Time) (int64, error) {
	query := `
        UPDATE subscriptions
        SET status = 'expired'
        WHERE status = 'active' AND expires_at IS NOT NULL AND expires_at <= $1;
    `
	tag, err := r.db.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to expire subscriptions: %w", err)
	}
	return tag.RowsAffected(), nil
}
