package repositories

import (
	"context"

	"github.com/SscSPs/smb_suite/internal/core/domain"
)

// ExchangeRateCacheKey is the fixed key the rate table is cached under.
const ExchangeRateCacheKey = "exchange_rates_cache"

// RateCache is the durable key-value cache holding the last fetched rate table.
type RateCache interface {
	// LoadRateTable returns apperrors.ErrNotFound when nothing is cached under key.
	LoadRateTable(ctx context.Context, key string) (*domain.ExchangeRateTable, error)

	// SaveRateTable overwrites the cached value; the last writer wins.
	SaveRateTable(ctx context.Context, key string, table domain.ExchangeRateTable) error
}
