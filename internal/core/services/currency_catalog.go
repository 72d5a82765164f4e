package services

import (
	"sort"

	"github.com/SscSPs/smb_suite/internal/core/domain"
)

func suffix(code, symbol, name, locale string, places int32) domain.CurrencyConfig {
	return domain.CurrencyConfig{Code: code, Symbol: symbol, DisplayName: name, Locale: locale, DecimalPlaces: places, SymbolPosition: domain.SymbolSuffix}
}

func prefix(code, symbol, name, locale string, places int32) domain.CurrencyConfig {
	return domain.CurrencyConfig{Code: code, Symbol: symbol, DisplayName: name, Locale: locale, DecimalPlaces: places, SymbolPosition: domain.SymbolPrefix}
}

// currencyCatalog is static reference data, built once at startup and never mutated.
var currencyCatalog = func() map[string]domain.CurrencyConfig {
	entries := []domain.CurrencyConfig{
		suffix("EUR", "€", "Euro", "fr-FR", 2),
		prefix("USD", "$", "US Dollar", "en-US", 2),
		prefix("GBP", "£", "British Pound", "en-GB", 2),
		suffix("CHF", "CHF", "Swiss Franc", "de-CH", 2),
		prefix("CAD", "CA$", "Canadian Dollar", "en-CA", 2),
		prefix("AUD", "A$", "Australian Dollar", "en-AU", 2),
		prefix("JPY", "¥", "Japanese Yen", "ja-JP", 0),
		prefix("CNY", "¥", "Chinese Yuan", "zh-CN", 2),
		prefix("INR", "₹", "Indian Rupee", "en-IN", 2),
		prefix("BRL", "R$", "Brazilian Real", "pt-BR", 2),
		prefix("MXN", "MX$", "Mexican Peso", "es-MX", 2),
		prefix("ZAR", "R", "South African Rand", "en-ZA", 2),
		suffix("XOF", "FCFA", "West African CFA Franc", "fr-SN", 0),
		suffix("XAF", "FCFA", "Central African CFA Franc", "fr-CM", 0),
		suffix("GNF", "FG", "Guinean Franc", "fr-GN", 0),
		suffix("MAD", "DH", "Moroccan Dirham", "fr-MA", 2),
		suffix("DZD", "DA", "Algerian Dinar", "fr-DZ", 2),
		suffix("TND", "DT", "Tunisian Dinar", "fr-TN", 3),
		suffix("EGP", "E£", "Egyptian Pound", "ar-EG", 2),
		prefix("NGN", "₦", "Nigerian Naira", "en-NG", 2),
		prefix("GHS", "GH₵", "Ghanaian Cedi", "en-GH", 2),
		prefix("KES", "KSh", "Kenyan Shilling", "en-KE", 2),
		suffix("RWF", "RF", "Rwandan Franc", "fr-RW", 0),
		suffix("CDF", "FC", "Congolese Franc", "fr-CD", 2),
		suffix("MGA", "Ar", "Malagasy Ariary", "fr-MG", 0),
		suffix("MUR", "Rs", "Mauritian Rupee", "fr-MU", 2),
		suffix("SEK", "kr", "Swedish Krona", "sv-SE", 2),
		suffix("NOK", "kr", "Norwegian Krone", "nb-NO", 2),
		suffix("DKK", "kr", "Danish Krone", "da-DK", 2),
		suffix("KWD", "KD", "Kuwaiti Dinar", "ar-KW", 3),
		suffix("BHD", "BD", "Bahraini Dinar", "ar-BH", 3),
		suffix("AED", "AED", "UAE Dirham", "ar-AE", 2),
		suffix("SAR", "SAR", "Saudi Riyal", "ar-SA", 2),
		suffix("TRY", "₺", "Turkish Lira", "tr-TR", 2),
	}
	catalog := make(map[string]domain.CurrencyConfig, len(entries))
	for _, c := range entries {
		catalog[c.Code] = c
	}
	return catalog
}()

// LookupCurrencyConfig returns the catalog entry for code.
func LookupCurrencyConfig(code string) (domain.CurrencyConfig, bool) {
	c, ok := currencyCatalog[code]
	return c, ok
}

// CurrencyConfigFor never fails: unknown codes get a synthesized config.
func CurrencyConfigFor(code string) domain.CurrencyConfig {
	if c, ok := currencyCatalog[code]; ok {
		return c
	}
	return domain.DefaultCurrencyConfig(code)
}

// CurrencyCatalog lists every known configuration ordered by code.
func CurrencyCatalog() []domain.CurrencyConfig {
	out := make([]domain.CurrencyConfig, 0, len(currencyCatalog))
	for _, c := range currencyCatalog {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
