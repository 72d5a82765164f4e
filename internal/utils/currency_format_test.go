package utils_test

import (
	"testing"

	"github.com/SscSPs/smb_suite/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRoundToPlaces_HalfAwayFromZero(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		places int32
		want   string
	}{
		{name: "half up positive", amount: "2.345", places: 2, want: "2.35"},
		{name: "half away negative", amount: "-2.345", places: 2, want: "-2.35"},
		{name: "below half", amount: "2.344", places: 2, want: "2.34"},
		{name: "integer rounding", amount: "65595.5", places: 0, want: "65596"},
		{name: "three places", amount: "0.12345", places: 3, want: "0.123"},
		{name: "zero", amount: "0", places: 3, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := utils.RoundToPlaces(decimal.RequireFromString(tt.amount), tt.places)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestFormatWithPrecision(t *testing.T) {
	tests := []struct {
		name      string
		amount    string
		precision int32
		locale    string
		want      string
	}{
		{name: "en-US two decimals", amount: "108", precision: 2, locale: "en-US", want: "108.00"},
		{name: "fr-FR comma", amount: "12.3456", precision: 2, locale: "fr-FR", want: "12,35"},
		{name: "no decimals", amount: "65596", precision: 0, locale: "fr-FR", want: "65596"},
		{name: "three decimals", amount: "1.5", precision: 3, locale: "ar-KW", want: "1.500"},
		{name: "bad locale falls back to dot", amount: "1.5", precision: 2, locale: "??", want: "1.50"},
		{name: "es-MX uses dot", amount: "1234.5", precision: 2, locale: "es-MX", want: "1234.50"},
		{name: "de-CH uses dot", amount: "1234.5", precision: 2, locale: "de-CH", want: "1234.50"},
		{name: "de-DE uses comma", amount: "1234.5", precision: 2, locale: "de-DE", want: "1234,50"},
		{name: "pt-BR uses comma", amount: "1234.5", precision: 2, locale: "pt-BR", want: "1234,50"},
		{name: "negative keeps sign", amount: "-2.345", precision: 2, locale: "fr-FR", want: "-2,35"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := utils.FormatWithPrecision(decimal.RequireFromString(tt.amount), tt.precision, tt.locale)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecimalSeparator(t *testing.T) {
	assert.Equal(t, ",", utils.DecimalSeparator("fr-FR"))
	assert.Equal(t, ".", utils.DecimalSeparator("en-US"))
	assert.Equal(t, ".", utils.DecimalSeparator("es-MX"))
	assert.Equal(t, ".", utils.DecimalSeparator("de-CH"))
	assert.Equal(t, ",", utils.DecimalSeparator("es-ES"))
	// cached lookups answer the same
	assert.Equal(t, ".", utils.DecimalSeparator("de-CH"))
}
