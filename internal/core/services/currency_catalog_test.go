package services_test

import (
	"testing"

	"github.com/SscSPs/smb_suite/internal/core/domain"
	"github.com/SscSPs/smb_suite/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestCurrencyCatalog_Invariants(t *testing.T) {
	catalog := services.CurrencyCatalog()
	require.GreaterOrEqual(t, len(catalog), 30)

	for _, c := range catalog {
		assert.Contains(t, []int32{0, 2, 3}, c.DecimalPlaces, c.Code)
		assert.Len(t, c.Code, 3, c.Code)
		assert.NotEmpty(t, c.Symbol, c.Code)
		_, err := language.Parse(c.Locale)
		assert.NoError(t, err, "locale of %s", c.Code)
	}
}

func TestCurrencyCatalog_SortedByCode(t *testing.T) {
	catalog := services.CurrencyCatalog()
	for i := 1; i < len(catalog); i++ {
		assert.Less(t, catalog[i-1].Code, catalog[i].Code)
	}
}

func TestCurrencyConfigFor(t *testing.T) {
	usd := services.CurrencyConfigFor("USD")
	assert.Equal(t, domain.SymbolPrefix, usd.SymbolPosition)
	assert.Equal(t, "$", usd.Symbol)

	xof := services.CurrencyConfigFor("XOF")
	assert.Equal(t, int32(0), xof.DecimalPlaces)
	assert.Equal(t, "FCFA", xof.Symbol)

	unknown := services.CurrencyConfigFor("ZZZ")
	assert.Equal(t, domain.CurrencyConfig{
		Code: "ZZZ", Symbol: "ZZZ", DisplayName: "ZZZ", Locale: "fr-FR", DecimalPlaces: 2, SymbolPosition: domain.SymbolSuffix,
	}, unknown)

	_, ok := services.LookupCurrencyConfig("ZZZ")
	assert.False(t, ok)
}
