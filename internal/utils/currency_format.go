package utils

import (
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// separators caches the decimal separator per locale string.
var separators sync.Map

// RoundToPlaces rounds half away from zero.
// Example: 2.345 with 2 places returns 2.35, -2.345 returns -2.35
func RoundToPlaces(amount decimal.Decimal, places int32) decimal.Decimal {
	return amount.Round(places)
}

// DecimalSeparator returns the decimal separator used by a BCP 47 locale such as "fr-FR",
// taken from the CLDR data of golang.org/x/text with Latin digits.
// Unparseable locales use ".".
func DecimalSeparator(locale string) string {
	if sep, ok := separators.Load(locale); ok {
		return sep.(string)
	}
	sep := "."
	if tag, err := language.Parse(locale); err == nil {
		if latn, err := tag.SetTypeForKey("nu", "latn"); err == nil {
			tag = latn
		}
		sample := message.NewPrinter(tag).Sprint(number.Decimal(1.5, number.Scale(1), number.NoSeparator()))
		if s := strings.Trim(sample, "15"); s != "" {
			sep = s
		}
	}
	separators.Store(locale, sep)
	return sep
}

// FormatWithPrecision formats an amount with exactly precision decimals for locale.
// Digits are not grouped. Rounding is done on the decimal value, half away from zero.
// Example: 65596 with precision 0 returns "65596"
// Example: 12.3456 with precision 2 and "fr-FR" returns "12,35"
// Example: 1234.5 with precision 2 and "de-CH" returns "1234.50"
func FormatWithPrecision(amount decimal.Decimal, precision int32, locale string) string {
	s := amount.StringFixed(precision)
	if sep := DecimalSeparator(locale); sep != "." {
		s = strings.Replace(s, ".", sep, 1)
	}
	return s
}
