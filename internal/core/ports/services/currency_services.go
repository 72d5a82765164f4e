package services

import (
	"context"

	"github.com/SscSPs/smb_suite/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CurrencyConverterSvc defines the pure conversion and formatting operations of a session
type CurrencyConverterSvc interface {
	// GetConfig never fails; unknown codes get a synthesized config.
	GetConfig(code string) domain.CurrencyConfig

	// ConvertFromBase converts a base amount into code, or into the current currency when code is empty.
	ConvertFromBase(amount decimal.Decimal, code string) decimal.Decimal

	// ConvertToBase converts an amount in code (or the current currency) into the base currency.
	ConvertToBase(amount decimal.Decimal, code string) decimal.Decimal

	// ToDisplay converts a stored Money value into the current display currency.
	ToDisplay(m domain.Money) decimal.Decimal

	FormatAmount(amountInBase decimal.Decimal) string
	FormatAmountWithSymbol(amountInBase decimal.Decimal, showSign bool) string
}

// CurrencySessionSvc defines the stateful operations of one user's currency session
type CurrencySessionSvc interface {
	CurrencyConverterSvc

	CurrentCurrency() string
	SupportedCurrencies() domain.SupportedCurrencySet

	// SetCurrency is a no-op for unsupported codes. The change is applied locally first;
	// a persistence failure only produces a notification.
	SetCurrency(ctx context.Context, code string) error

	// LoadRates refreshes the shared rate table and notifies this user when degraded.
	LoadRates(ctx context.Context, forceRefresh bool) domain.RateLoadResult
	RatesError() string
}

// CurrencySessionProvider hands out per-user sessions.
type CurrencySessionProvider interface {
	Session(ctx context.Context, userID string) (CurrencySessionSvc, error)
}

// ExchangeRateSvc defines the process-wide rate table operations
type ExchangeRateSvc interface {
	LoadRates(ctx context.Context, forceRefresh bool) domain.RateLoadResult
	Table() domain.ExchangeRateTable
	LastError() string
}

// CurrencyAdminSvc defines administrator operations on currencies
type CurrencyAdminSvc interface {
	UpdateSupportedCurrencies(ctx context.Context, codes []string, adminUserID string) (domain.SupportedCurrencySet, error)
	SetUserCurrency(ctx context.Context, userID, code, adminUserID string) (*domain.UserCurrencyPreference, error)
	ListCurrencyConfigs() []domain.CurrencyConfig
}
