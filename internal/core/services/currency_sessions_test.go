package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/smb_suite/internal/apperrors"
	"github.com/SscSPs/smb_suite/internal/core/domain"
	"github.com/SscSPs/smb_suite/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T, clock *fakeClock) (*services.CurrencySessionRegistry, *MockPreferenceRepository, *MockSupportedCurrencyRepository) {
	t.Helper()
	prefs := new(MockPreferenceRepository)
	supported := new(MockSupportedCurrencyRepository)
	supported.On("GetSupportedCurrencies", mock.Anything).Return(domain.DefaultSupportedCurrencies(), nil)
	prefs.On("FindCurrencyPreference", mock.Anything, mock.Anything).Return(nil, apperrors.ErrNotFound)
	rates := services.NewExchangeRateService(new(MockRateFetcher), new(MockRateCache), clock, fallbackRates())
	registry := services.NewCurrencySessionRegistry(rates, prefs, supported, &recordingNotifier{}, nil, clock, 10*time.Minute)
	return registry, prefs, supported
}

func TestCurrencySessionRegistry_ReusesSessionPerUser(t *testing.T) {
	ctx := context.Background()
	registry, prefs, _ := newTestRegistry(t, newFakeClock())

	first, err := registry.Session(ctx, "user-1")
	require.NoError(t, err)
	second, err := registry.Session(ctx, "user-1")
	require.NoError(t, err)
	other, err := registry.Session(ctx, "user-2")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
	assert.Equal(t, 2, registry.Len())
	prefs.AssertNumberOfCalls(t, "FindCurrencyPreference", 2)
}

func TestCurrencySessionRegistry_RequiresUser(t *testing.T) {
	registry, _, _ := newTestRegistry(t, newFakeClock())
	_, err := registry.Session(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestCurrencySessionRegistry_EvictIdle(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	registry, prefs, supported := newTestRegistry(t, clock)

	_, err := registry.Session(ctx, "idle-user")
	require.NoError(t, err)
	clock.Advance(8 * time.Minute)
	_, err = registry.Session(ctx, "active-user")
	require.NoError(t, err)
	clock.Advance(5 * time.Minute)

	evicted := registry.EvictIdle(clock.Now())

	assert.Equal(t, 1, evicted)
	assert.Equal(t, 1, registry.Len())
	assert.Equal(t, 1, prefs.unsubscribed)
	assert.Equal(t, 1, supported.unsubscribed)
}

func TestCurrencySessionRegistry_Close(t *testing.T) {
	ctx := context.Background()
	registry, prefs, _ := newTestRegistry(t, newFakeClock())
	_, _ = registry.Session(ctx, "a")
	_, _ = registry.Session(ctx, "b")

	registry.Close()

	assert.Equal(t, 0, registry.Len())
	assert.Equal(t, 2, prefs.unsubscribed)
}
