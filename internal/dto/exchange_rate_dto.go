package dto

import (
	"time"

	"github.com/SscSPs/smb_suite/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExchangeRatesResponse is the current rate table.
type ExchangeRatesResponse struct {
	BaseCurrency string                     `json:"baseCurrency"`
	Rates        map[string]decimal.Decimal `json:"rates"`
	FetchedAt    *time.Time                 `json:"fetchedAt"`
	Fresh        bool                       `json:"fresh"`
	Error        string                     `json:"error,omitempty"`
}

// RefreshRatesResponse reports the outcome of a refresh along with the resulting table.
type RefreshRatesResponse struct {
	Source   domain.RateSource `json:"source"`
	Degraded bool              `json:"degraded"`
	ExchangeRatesResponse
}

// ToExchangeRatesResponse converts a rate table; a zero fetch time is reported as null.
func ToExchangeRatesResponse(table domain.ExchangeRateTable, now time.Time, maxAge time.Duration, lastErr string) ExchangeRatesResponse {
	resp := ExchangeRatesResponse{
		BaseCurrency: table.BaseCurrency(),
		Rates:        table.Rates(),
		Fresh:        table.IsFreshAt(now, maxAge),
		Error:        lastErr,
	}
	if fetchedAt := table.FetchedAt(); !fetchedAt.IsZero() {
		resp.FetchedAt = &fetchedAt
	}
	return resp
}
