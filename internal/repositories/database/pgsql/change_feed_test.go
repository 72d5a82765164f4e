package pgsql

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/SscSPs/smb_suite/internal/core/domain"
	"github.com/SscSPs/smb_suite/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeFeed_DispatchSupportedCurrencies(t *testing.T) {
	feed := NewChangeFeed(nil, nil)
	var got []domain.SupportedCurrencySet
	unsubscribe := feed.supported.Subscribe(func(s domain.SupportedCurrencySet) { got = append(got, s) })
	defer unsubscribe()

	updatedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	payload, err := json.Marshal(models.SupportedCurrenciesChanged{
		SettingValue: []string{"EUR", "USD"},
		ChangeFields: models.ChangeFields{Version: 7, UpdatedAt: updatedAt, UpdatedBy: "admin-1"},
	})
	require.NoError(t, err)

	require.NoError(t, feed.dispatch(SupportedCurrenciesChannel, payload))
	require.Len(t, got, 1)
	assert.Equal(t, []string{"EUR", "USD"}, got[0].Codes)
	assert.Equal(t, int64(7), got[0].Version)
	assert.Equal(t, "admin-1", got[0].UpdatedBy)
	assert.True(t, got[0].UpdatedAt.Equal(updatedAt))
}

func TestChangeFeed_DispatchCurrencyPreference(t *testing.T) {
	feed := NewChangeFeed(nil, nil)
	var got []domain.UserCurrencyPreference
	feed.preferences.Subscribe(func(p domain.UserCurrencyPreference) { got = append(got, p) })

	payload := []byte(`{"userId":"user-1","currencyPreference":"XOF","version":3,"updatedAt":"2024-03-01T12:00:00Z","updatedBy":"session:abc"}`)
	require.NoError(t, feed.dispatch(CurrencyPreferenceChannel, payload))

	require.Len(t, got, 1)
	assert.Equal(t, "user-1", got[0].UserID)
	assert.Equal(t, "XOF", got[0].CurrencyCode)
	assert.Equal(t, int64(3), got[0].Version)
	assert.Equal(t, "session:abc", got[0].UpdatedBy)
}

func TestChangeFeed_DispatchRejectsBadPayloads(t *testing.T) {
	feed := NewChangeFeed(nil, nil)
	delivered := 0
	feed.supported.Subscribe(func(domain.SupportedCurrencySet) { delivered++ })
	feed.preferences.Subscribe(func(domain.UserCurrencyPreference) { delivered++ })

	assert.Error(t, feed.dispatch(SupportedCurrenciesChannel, []byte(`not json`)))
	assert.Error(t, feed.dispatch(SupportedCurrenciesChannel, []byte(`{"settingValue":[]}`)))
	assert.Error(t, feed.dispatch(CurrencyPreferenceChannel, []byte(`{"userId":"user-1"}`)))
	assert.Error(t, feed.dispatch("other_channel", []byte(`{}`)))
	assert.Zero(t, delivered)
}

func TestRateCacheEntry_RoundTripKeepsBaseAndTimestamp(t *testing.T) {
	fetchedAt := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	table := domain.NewExchangeRateTable(map[string]decimal.Decimal{
		"USD": decimal.RequireFromString("1.08"),
		"XOF": decimal.RequireFromString("655.957"),
	}, fetchedAt)

	raw, err := json.Marshal(toCacheEntry(table))
	require.NoError(t, err)

	var entry models.ExchangeRateCacheEntry
	require.NoError(t, json.Unmarshal(raw, &entry))
	assert.Equal(t, fetchedAt.UnixMilli(), entry.Timestamp)
	assert.Equal(t, domain.BaseCurrency, entry.BaseCurrency)

	restored := toDomainRateTable(entry)
	assert.True(t, restored.FetchedAt().Equal(fetchedAt))
	assert.Equal(t, domain.BaseCurrency, restored.BaseCurrency())
	usd, ok := restored.Rate("USD")
	require.True(t, ok)
	assert.True(t, usd.Equal(decimal.RequireFromString("1.08")))
}

func TestRateCacheEntry_ForeignBaseIsPreserved(t *testing.T) {
	entry := models.ExchangeRateCacheEntry{
		Rates:        map[string]decimal.Decimal{"EUR": decimal.RequireFromString("0.92")},
		Timestamp:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).UnixMilli(),
		BaseCurrency: "USD",
	}
	restored := toDomainRateTable(entry)
	assert.Equal(t, "USD", restored.BaseCurrency())
	eur, ok := restored.Rate("EUR")
	require.True(t, ok)
	assert.True(t, eur.Equal(decimal.RequireFromString("0.92")))
}
