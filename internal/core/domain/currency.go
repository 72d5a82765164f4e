package domain

import "github.com/shopspring/decimal"

// SymbolPosition controls where a currency symbol is rendered relative to the number.
type SymbolPosition string

const (
	SymbolSuffix SymbolPosition = "suffix" // "100,00 €"
	SymbolPrefix SymbolPosition = "prefix" // "$100.00"
)

// CurrencyConfig is static reference data describing how a currency is displayed.
type CurrencyConfig struct {
	Code           string         `json:"code"`
	Symbol         string         `json:"symbol"`
	DisplayName    string         `json:"displayName"`
	Locale         string         `json:"locale"`
	DecimalPlaces  int32          `json:"decimalPlaces"` // one of 0, 2, 3
	SymbolPosition SymbolPosition `json:"symbolPosition"`
}

// DefaultCurrencyConfig synthesizes the config used for codes missing from the catalog.
func DefaultCurrencyConfig(code string) CurrencyConfig {
	return CurrencyConfig{
		Code:           code,
		Symbol:         code,
		DisplayName:    code,
		Locale:         "fr-FR",
		DecimalPlaces:  2,
		SymbolPosition: SymbolSuffix,
	}
}

// Money is an amount along with the currency it is denominated in.
// A nil CurrencyCode marks legacy rows, which are always in BaseCurrency.
type Money struct {
	Value        decimal.Decimal `json:"value"`
	CurrencyCode *string         `json:"currencyCode"`
}

// Currency returns the effective currency of the amount.
func (m Money) Currency() string {
	if m.CurrencyCode == nil || *m.CurrencyCode == "" {
		return BaseCurrency
	}
	return *m.CurrencyCode
}
