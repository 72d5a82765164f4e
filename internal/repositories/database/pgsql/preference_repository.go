package pgsql

import (
	"context"
	"encoding/json"
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

type PgxPreferenceRepository struct {
	BaseRepository
	feed *ChangeFeed
}

func newPgxPreferenceRepository(pool *pgxpool.Pool, feed *ChangeFeed) portsrepo.PreferenceRepositoryFacade {
	return &PgxPreferenceRepository{BaseRepository: BaseRepository{Pool: pool}, feed: feed}
}

var _ portsrepo.PreferenceRepositoryFacade = (*PgxPreferenceRepository)(nil)

func toDomainPreference(m models.UserProfile) domain.UserCurrencyPreference {
	pref := domain.UserCurrencyPreference{UserID: m.UserID, ChangeStamp: toChangeStamp(m.ChangeFields)}
	if m.CurrencyPreference != nil {
		pref.CurrencyCode = *m.CurrencyPreference
	}
	return pref
}

func (r *PgxPreferenceRepository) FindCurrencyPreference(ctx context.Context, userID string) (*domain.UserCurrencyPreference, error) {
	query := `
        SELECT user_id, currency_preference, version, updated_at, updated_by
        FROM user_profiles
        WHERE user_id = $1;
    `
	var profile models.UserProfile
	err := r.Pool.QueryRow(ctx, query, userID).Scan(
		&profile.UserID, &profile.CurrencyPreference, &profile.Version, &profile.UpdatedAt, &profile.UpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find currency preference for user %s: %w", userID, err)
	}
	if profile.CurrencyPreference == nil || *profile.CurrencyPreference == "" {
		return nil, apperrors.ErrNotFound
	}
	pref := toDomainPreference(profile)
	return &pref, nil
}

func (r *PgxPreferenceRepository) CountUsersWithCurrency(ctx context.Context, codes []string) (int, error) {
	if len(codes) == 0 {
		return 0, nil
	}
	var count int
	query := `SELECT COUNT(*) FROM user_profiles WHERE currency_preference = ANY($1);`
	if err := r.Pool.QueryRow(ctx, query, codes).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users by currency: %w", err)
	}
	return count, nil
}

func (r *PgxPreferenceRepository) SaveCurrencyPreference(ctx context.Context, userID, currencyCode, updatedBy string) (*domain.UserCurrencyPreference, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	query := `
        INSERT INTO user_profiles (user_id, currency_preference, version, updated_at, updated_by)
        VALUES ($1, $2, 1, NOW(), $3)
        ON CONFLICT (user_id) DO UPDATE SET
            currency_preference = EXCLUDED.currency_preference,
            version = user_profiles.version + 1,
            updated_at = EXCLUDED.updated_at,
            updated_by = EXCLUDED.updated_by
        RETURNING version, updated_at;
    `
	pref := domain.UserCurrencyPreference{UserID: userID, CurrencyCode: currencyCode}
	pref.UpdatedBy = updatedBy
	if err := tx.QueryRow(ctx, query, userID, currencyCode, updatedBy).Scan(&pref.Version, &pref.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to save currency preference for user %s: %w", userID, err)
	}
	if err := r.publishPreference(ctx, tx, pref); err != nil {
		return nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &pref, nil
}

func (r *PgxPreferenceRepository) WatchCurrencyPreferences(fn func(domain.UserCurrencyPreference)) portsrepo.Unsubscriber {
	return r.feed.preferences.Subscribe(fn)
}

func (r *BaseRepository) publishPreference(ctx context.Context, tx pgx.Tx, pref domain.UserCurrencyPreference) error {
	payload, err := json.Marshal(models.CurrencyPreferenceChanged{
		UserID:             pref.UserID,
		CurrencyPreference: pref.CurrencyCode,
		ChangeFields:       toChangeFields(pref.ChangeStamp),
	})
	if err != nil {
		return fmt.Errorf("failed to encode change payload: %w", err)
	}
	return r.notify(ctx, tx, CurrencyPreferenceChannel, payload)
}

// reassignPreferences moves every user on one of fromCodes to toCode inside tx and
// publishes each moved preference.
func (r *BaseRepository) reassignPreferences(ctx context.Context, tx pgx.Tx, fromCodes []string, toCode, updatedBy string) (int64, error) {
	if len(fromCodes) == 0 {
		return 0, nil
	}

	query := `
        UPDATE user_profiles SET
            currency_preference = $2,
            version = version + 1,
            updated_at = NOW(),
            updated_by = $3
        WHERE currency_preference = ANY($1)
        RETURNING user_id, version, updated_at;
    `
	rows, err := tx.Query(ctx, query, fromCodes, toCode, updatedBy)
	if err != nil {
		return 0, fmt.Errorf("failed to reassign currency preferences: %w", err)
	}
	moved, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.UserCurrencyPreference, error) {
		var userID string
		var version int64
		var updatedAt time.Time
		if err := row.Scan(&userID, &version, &updatedAt); err != nil {
			return domain.UserCurrencyPreference{}, err
		}
		return domain.UserCurrencyPreference{
			UserID:       userID,
			CurrencyCode: toCode,
			ChangeStamp:  domain.ChangeStamp{Version: version, UpdatedAt: updatedAt, UpdatedBy: updatedBy},
		}, nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to collect reassigned preferences: %w", err)
	}

	for _, pref := range moved {
		if err := r.publishPreference(ctx, tx, pref); err != nil {
			return 0, err
		}
	}
	return int64(len(moved)), nil
}
