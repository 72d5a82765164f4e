package models

import (
	"github.com/shopspring/decimal"
)

// ExchangeRateCacheEntry is the jsonb value cached in kv_cache for the rate table.
// Timestamp is the fetch time in Unix milliseconds.
type ExchangeRateCacheEntry struct {
	Rates        map[string]decimal.Decimal `json:"rates"`
	Timestamp    int64                      `json:"timestamp"`
	BaseCurrency string                     `json:"baseCurrency"`
}
