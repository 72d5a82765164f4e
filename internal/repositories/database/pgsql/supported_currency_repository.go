package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SscSPs/smb_suite/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_suite/internal/core/ports/repositories"
	"github.com/SscSPs/smb_suite/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxSupportedCurrencyRepository struct {
	BaseRepository
	feed *ChangeFeed
}

func newPgxSupportedCurrencyRepository(pool *pgxpool.Pool, feed *ChangeFeed) portsrepo.SupportedCurrencyRepositoryFacade {
	return &PgxSupportedCurrencyRepository{BaseRepository: BaseRepository{Pool: pool}, feed: feed}
}

var _ portsrepo.SupportedCurrencyRepositoryFacade = (*PgxSupportedCurrencyRepository)(nil)

func (r *PgxSupportedCurrencyRepository) GetSupportedCurrencies(ctx context.Context) (domain.SupportedCurrencySet, error) {
	query := `
        SELECT setting_key, setting_value, version, updated_at, updated_by
        FROM app_settings
        WHERE setting_key = $1;
    `
	var setting models.AppSetting
	err := r.Pool.QueryRow(ctx, query, models.SupportedCurrenciesSettingKey).Scan(
		&setting.Key, &setting.Value, &setting.Version, &setting.UpdatedAt, &setting.UpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DefaultSupportedCurrencies(), nil
		}
		return domain.SupportedCurrencySet{}, fmt.Errorf("failed to get supported currencies: %w", err)
	}

	var codes []string
	if err := json.Unmarshal(setting.Value, &codes); err != nil {
		return domain.SupportedCurrencySet{}, fmt.Errorf("failed to decode supported currencies: %w", err)
	}
	if len(codes) == 0 {
		return domain.DefaultSupportedCurrencies(), nil
	}
	return domain.SupportedCurrencySet{Codes: codes, ChangeStamp: toChangeStamp(setting.ChangeFields)}, nil
}

func (r *PgxSupportedCurrencyRepository) SaveSupportedCurrencies(ctx context.Context, codes, removed []string, reassignTo, updatedBy string) (domain.SupportedCurrencySet, int64, error) {
	value, err := json.Marshal(codes)
	if err != nil {
		return domain.SupportedCurrencySet{}, 0, fmt.Errorf("failed to encode supported currencies: %w", err)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return domain.SupportedCurrencySet{}, 0, err
	}
	defer r.Rollback(ctx, tx)

	query := `
        INSERT INTO app_settings (setting_key, setting_value, version, updated_at, updated_by)
        VALUES ($1, $2, 1, NOW(), $3)
        ON CONFLICT (setting_key) DO UPDATE SET
            setting_value = EXCLUDED.setting_value,
            version = app_settings.version + 1,
            updated_at = EXCLUDED.updated_at,
            updated_by = EXCLUDED.updated_by
        RETURNING version, updated_at;
    `
	set := domain.SupportedCurrencySet{Codes: append([]string(nil), codes...)}
	set.UpdatedBy = updatedBy
	if err := tx.QueryRow(ctx, query, models.SupportedCurrenciesSettingKey, value, updatedBy).Scan(&set.Version, &set.UpdatedAt); err != nil {
		return domain.SupportedCurrencySet{}, 0, fmt.Errorf("failed to save supported currencies: %w", err)
	}

	payload, err := json.Marshal(models.SupportedCurrenciesChanged{
		SettingValue: set.Codes,
		ChangeFields: toChangeFields(set.ChangeStamp),
	})
	if err != nil {
		return domain.SupportedCurrencySet{}, 0, fmt.Errorf("failed to encode change payload: %w", err)
	}
	if err := r.notify(ctx, tx, SupportedCurrenciesChannel, payload); err != nil {
		return domain.SupportedCurrencySet{}, 0, err
	}

	moved, err := r.reassignPreferences(ctx, tx, removed, reassignTo, updatedBy)
	if err != nil {
		return domain.SupportedCurrencySet{}, 0, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return domain.SupportedCurrencySet{}, 0, err
	}
	return set, moved, nil
}

func (r *PgxSupportedCurrencyRepository) WatchSupportedCurrencies(fn func(domain.SupportedCurrencySet)) portsrepo.Unsubscriber {
	return r.feed.supported.Subscribe(fn)
}
