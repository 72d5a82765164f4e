package dto

import (
	"github.com/SscSPs/smb_suite/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Conversion directions accepted by ConvertAmountRequest.
const (
	DirectionFromBase = "from_base"
	DirectionToBase   = "to_base"
)

// CurrencyStateResponse describes the caller's display currency session.
type CurrencyStateResponse struct {
	CurrentCurrency     string                `json:"currentCurrency"`
	Config              domain.CurrencyConfig `json:"config"`
	SupportedCurrencies []string              `json:"supportedCurrencies"`
	SupportedVersion    int64                 `json:"supportedVersion"`
	RatesError          string                `json:"ratesError,omitempty"`
}

// SetCurrencyRequest selects a display currency.
type SetCurrencyRequest struct {
	CurrencyCode string `json:"currencyCode" binding:"required,len=3,uppercase"`
}

// ConvertAmountRequest converts an amount between the base currency and CurrencyCode.
// An empty CurrencyCode means the caller's current currency.
type ConvertAmountRequest struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode" binding:"omitempty,len=3,uppercase"`
	Direction    string          `json:"direction" binding:"required,oneof=from_base to_base"`
}

// ConvertAmountResponse is the rounded result of a conversion.
type ConvertAmountResponse struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
	Direction    string          `json:"direction"`
}

// FormatAmountRequest formats a base-currency amount in the caller's display currency.
type FormatAmountRequest struct {
	AmountInBase decimal.Decimal `json:"amountInBase"`
	WithSymbol   bool            `json:"withSymbol"`
	ShowSign     bool            `json:"showSign"`
}

// FormatAmountResponse holds the formatted amount.
type FormatAmountResponse struct {
	Formatted    string `json:"formatted"`
	CurrencyCode string `json:"currencyCode"`
}

// DisplayAmountsRequest converts stored amounts into the display currency.
type DisplayAmountsRequest struct {
	Amounts []domain.Money `json:"amounts" binding:"required,min=1,max=500"`
}

// DisplayAmountsResponse lists converted amounts in request order.
type DisplayAmountsResponse struct {
	CurrencyCode string            `json:"currencyCode"`
	Amounts      []decimal.Decimal `json:"amounts"`
}

// UpdateSupportedCurrenciesRequest replaces the tenant-wide currency list.
type UpdateSupportedCurrenciesRequest struct {
	Codes []string `json:"codes" binding:"required,min=1"`
}

// SupportedCurrenciesResponse is the saved currency list.
type SupportedCurrenciesResponse struct {
	Codes     []string `json:"codes"`
	Version   int64    `json:"version"`
	UpdatedBy string   `json:"updatedBy"`
}

// ToSupportedCurrenciesResponse converts a domain.SupportedCurrencySet to its DTO.
func ToSupportedCurrenciesResponse(set domain.SupportedCurrencySet) SupportedCurrenciesResponse {
	return SupportedCurrenciesResponse{Codes: set.Codes, Version: set.Version, UpdatedBy: set.UpdatedBy}
}
