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

// PgxRateCacheRepository stores the rate table as a jsonb document in kv_cache.
type PgxRateCacheRepository struct {
	db *pgxpool.Pool
}

func newPgxRateCacheRepository(db *pgxpool.Pool) portsrepo.RateCache {
	return &PgxRateCacheRepository{db: db}
}

var _ portsrepo.RateCache = (*PgxRateCacheRepository)(nil)

func toCacheEntry(table domain.ExchangeRateTable) models.ExchangeRateCacheEntry {
	return models.ExchangeRateCacheEntry{
		Rates:        table.Rates(),
		Timestamp:    table.FetchedAt().UnixMilli(),
		BaseCurrency: table.BaseCurrency(),
	}
}

func toDomainRateTable(entry models.ExchangeRateCacheEntry) domain.ExchangeRateTable {
	return domain.RestoreExchangeRateTable(entry.Rates, entry.BaseCurrency, time.UnixMilli(entry.Timestamp).UTC())
}

func (r *PgxRateCacheRepository) LoadRateTable(ctx context.Context, key string) (*domain.ExchangeRateTable, error) {
	var raw []byte
	err := r.db.QueryRow(ctx, `SELECT cache_value FROM kv_cache WHERE cache_key = $1;`, key).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load cached rates %s: %w", key, err)
	}

	var entry models.ExchangeRateCacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("failed to decode cached rates %s: %w", key, err)
	}
	table := toDomainRateTable(entry)
	return &table, nil
}

func (r *PgxRateCacheRepository) SaveRateTable(ctx context.Context, key string, table domain.ExchangeRateTable) error {
	raw, err := json.Marshal(toCacheEntry(table))
	if err != nil {
		return fmt.Errorf("failed to encode rates: %w", err)
	}
	query := `
        INSERT INTO kv_cache (cache_key, cache_value, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (cache_key) DO UPDATE SET
            cache_value = EXCLUDED.cache_value,
            updated_at = EXCLUDED.updated_at;
    `
	if _, err := r.db.Exec(ctx, query, key, raw); err != nil {
		return fmt.Errorf("failed to save cached rates %s: %w", key, err)
	}
	return nil
}
