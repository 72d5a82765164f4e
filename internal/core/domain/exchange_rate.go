package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateFreshnessWindow is how long a fetched table is served without a network call.
const RateFreshnessWindow = time.Hour

// ExchangeRateTable is an immutable snapshot of rates relative to BaseCurrency.
// It is replaced wholesale on refresh and never mutated after construction.
type ExchangeRateTable struct {
	rates        map[string]decimal.Decimal
	baseCurrency string
	fetchedAt    time.Time
}

// NewExchangeRateTable copies rates into a new table and pins the base currency to 1.
func NewExchangeRateTable(rates map[string]decimal.Decimal, fetchedAt time.Time) ExchangeRateTable {
	copied := make(map[string]decimal.Decimal, len(rates)+1)
	for code, rate := range rates {
		if rate.IsPositive() {
			copied[code] = rate
		}
	}
	copied[BaseCurrency] = decimal.NewFromInt(1)
	return ExchangeRateTable{rates: copied, baseCurrency: BaseCurrency, fetchedAt: fetchedAt}
}

// RestoreExchangeRateTable rebuilds a table read back from storage, keeping the recorded
// base currency so callers can reject tables priced against another base.
func RestoreExchangeRateTable(rates map[string]decimal.Decimal, baseCurrency string, fetchedAt time.Time) ExchangeRateTable {
	t := NewExchangeRateTable(rates, fetchedAt)
	if baseCurrency != "" && baseCurrency != BaseCurrency {
		t.baseCurrency = baseCurrency
		delete(t.rates, BaseCurrency)
		if rate, ok := rates[BaseCurrency]; ok && rate.IsPositive() {
			t.rates[BaseCurrency] = rate
		}
	}
	return t
}

// Rate returns the rate for code versus the base currency.
func (t ExchangeRateTable) Rate(code string) (decimal.Decimal, bool) {
	rate, ok := t.rates[code]
	return rate, ok
}

// Rates returns a copy of the rate map.
func (t ExchangeRateTable) Rates() map[string]decimal.Decimal {
	copied := make(map[string]decimal.Decimal, len(t.rates))
	for code, rate := range t.rates {
		copied[code] = rate
	}
	return copied
}

func (t ExchangeRateTable) BaseCurrency() string { return t.baseCurrency }

func (t ExchangeRateTable) FetchedAt() time.Time { return t.fetchedAt }

// IsFreshAt reports whether the table was fetched less than maxAge before now.
func (t ExchangeRateTable) IsFreshAt(now time.Time, maxAge time.Duration) bool {
	if t.fetchedAt.IsZero() {
		return false
	}
	return now.Sub(t.fetchedAt) < maxAge
}

// RateSource tells where the in-memory table came from after a load.
type RateSource string

const (
	RateSourceRemote   RateSource = "remote"
	RateSourceCache    RateSource = "cache"
	RateSourceFallback RateSource = "fallback" // previous in-memory table, possibly the seeded defaults
)

// RateLoadResult describes the outcome of a load. Degraded is true when the remote
// fetch failed and a stale cached table or the previous table is in use.
type RateLoadResult struct {
	Source   RateSource
	Degraded bool
	Error    string
	Table    ExchangeRateTable
}
