package domain

import "slices"

// UserCurrencyPreference is the display currency chosen by (or forced onto) a user.
type UserCurrencyPreference struct {
	UserID       string `json:"userId"`
	CurrencyCode string `json:"currencyPreference"`
	ChangeStamp
}

// SupportedCurrencySet is the tenant-wide list of currencies users may pick from.
type SupportedCurrencySet struct {
	Codes []string `json:"settingValue"`
	ChangeStamp
}

// Contains reports whether code is part of the set.
func (s SupportedCurrencySet) Contains(code string) bool {
	return slices.Contains(s.Codes, code)
}

// DefaultSupportedCurrencies is used until an administrator saves a set.
func DefaultSupportedCurrencies() SupportedCurrencySet {
	return SupportedCurrencySet{Codes: []string{BaseCurrency, "USD", "XOF", "GNF"}}
}
