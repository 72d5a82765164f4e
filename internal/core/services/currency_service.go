package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/smb_suite/internal/apperrors"
	"github.com/SscSPs/smb_suite/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_suite/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/smb_suite/internal/core/ports/services"
	"github.com/SscSPs/smb_suite/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CurrencyService is one user's currency session: the display currency, the supported set
// it was validated against, and conversions over the shared rate table.
type CurrencyService struct {
	BaseService
	userID    string
	sessionID string

	rates     portssvc.ExchangeRateSvc
	prefs     portsrepo.PreferenceRepositoryFacade
	supported portsrepo.SupportedCurrencyRepositoryFacade
	notifier  portssvc.Notifier
	events    portssvc.EventTracker
	clock     portssvc.Clock

	mu            sync.RWMutex
	current       string
	supportedSet  domain.SupportedCurrencySet
	prefVersion   int64
	lastUsed      time.Time
	unsubscribers []portsrepo.Unsubscriber
	starting      bool
	closed        bool
}

// CurrencyServiceOption configures optional collaborators.
type CurrencyServiceOption func(*CurrencyService)

// WithCurrencyEvents records currency changes as product events.
func WithCurrencyEvents(events portssvc.EventTracker) CurrencyServiceOption {
	return func(s *CurrencyService) {
		if events != nil {
			s.events = events
		}
	}
}

// WithCurrencyClock replaces the wall clock used for idle tracking.
func WithCurrencyClock(clock portssvc.Clock) CurrencyServiceOption {
	return func(s *CurrencyService) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewCurrencyService creates a session for userID displaying the base currency until Start runs.
func NewCurrencyService(
	userID string,
	rates portssvc.ExchangeRateSvc,
	prefs portsrepo.PreferenceRepositoryFacade,
	supported portsrepo.SupportedCurrencyRepositoryFacade,
	notifier portssvc.Notifier,
	opts ...CurrencyServiceOption,
) *CurrencyService {
	s := &CurrencyService{
		userID:       userID,
		sessionID:    "session:" + uuid.NewString(),
		rates:        rates,
		prefs:        prefs,
		supported:    supported,
		notifier:     notifier,
		events:       noopTracker{},
		clock:        NewSystemClock(),
		current:      domain.BaseCurrency,
		supportedSet: domain.DefaultSupportedCurrencies(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.lastUsed = s.clock.Now()
	return s
}

// Start subscribes to supported-set and preference changes, then reads both. Changes
// delivered during the reads are kept when their version is newer than what was read.
// Read failures leave the defaults in place.
func (s *CurrencyService) Start(ctx context.Context) {
	s.mu.Lock()
	s.starting = true
	s.unsubscribers = append(s.unsubscribers,
		s.supported.WatchSupportedCurrencies(s.onSupportedCurrenciesChanged),
		s.prefs.WatchCurrencyPreferences(s.onPreferenceChanged),
	)
	s.mu.Unlock()

	set, err := s.supported.GetSupportedCurrencies(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load supported currencies, using defaults", slog.String("user_id", s.userID))
		set = domain.DefaultSupportedCurrencies()
	}

	pref, err := s.prefs.FindCurrencyPreference(ctx, s.userID)
	if err != nil {
		pref = nil
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load currency preference", slog.String("user_id", s.userID))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.starting = false
	if set.Version >= s.supportedSet.Version {
		s.supportedSet = set
	}
	if pref != nil && pref.Version > s.prefVersion {
		s.prefVersion = pref.Version
		s.current = pref.CurrencyCode
	}
	if !s.supportedSet.Contains(s.current) {
		s.current = domain.BaseCurrency
	}
}

// Close releases the change subscriptions. It is safe to call more than once.
func (s *CurrencyService) Close() {
	s.mu.Lock()
	unsubs := s.unsubscribers
	s.unsubscribers = nil
	s.closed = true
	s.mu.Unlock()
	for _, unsub := range unsubs {
		unsub()
	}
}

func (s *CurrencyService) touch() {
	now := s.clock.Now()
	s.mu.Lock()
	s.lastUsed = now
	s.mu.Unlock()
}

// IdleSince reports when the session was last handed out.
func (s *CurrencyService) IdleSince() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUsed
}

func (s *CurrencyService) onSupportedCurrenciesChanged(set domain.SupportedCurrencySet) {
	s.mu.Lock()
	if s.closed || set.Version <= s.supportedSet.Version {
		s.mu.Unlock()
		return
	}
	s.supportedSet = set
	removed := ""
	if !s.starting && !set.Contains(s.current) && s.current != domain.BaseCurrency {
		removed = s.current
		s.current = domain.BaseCurrency
	}
	s.mu.Unlock()

	if removed != "" {
		ctx := context.Background()
		s.LogInfo(ctx, "Display currency removed from supported set, falling back to base currency",
			slog.String("user_id", s.userID), slog.String("removed", removed))
		s.notifier.Notify(ctx, s.userID, domain.NotificationWarning,
			fmt.Sprintf("%s is no longer available. Amounts are now shown in %s.", removed, domain.BaseCurrency))
	}
}

func (s *CurrencyService) onPreferenceChanged(pref domain.UserCurrencyPreference) {
	if pref.UserID != s.userID {
		return
	}
	s.mu.Lock()
	if s.closed || pref.Version <= s.prefVersion {
		s.mu.Unlock()
		return
	}
	s.prefVersion = pref.Version
	if pref.UpdatedBy == s.sessionID || pref.CurrencyCode == s.current {
		s.mu.Unlock()
		return
	}
	s.current = pref.CurrencyCode
	starting := s.starting
	s.mu.Unlock()
	if starting {
		return
	}

	ctx := context.Background()
	s.LogInfo(ctx, "Display currency changed remotely",
		slog.String("user_id", s.userID), slog.String("currency", pref.CurrencyCode), slog.String("updated_by", pref.UpdatedBy))
	s.notifier.Notify(ctx, s.userID, domain.NotificationInfo,
		fmt.Sprintf("Your display currency was changed to %s.", pref.CurrencyCode))
}

func (s *CurrencyService) CurrentCurrency() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *CurrencyService) SupportedCurrencies() domain.SupportedCurrencySet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.supportedSet
}

// SetCurrency switches the display currency right away and then persists it. A failed write
// is reported to the user but the local change stays (last writer wins).
func (s *CurrencyService) SetCurrency(ctx context.Context, code string) error {
	s.mu.Lock()
	if !s.supportedSet.Contains(code) {
		s.mu.Unlock()
		s.LogDebug(ctx, "Ignoring unsupported currency", slog.String("currency", code))
		return nil
	}
	previous := s.current
	s.current = code
	s.mu.Unlock()

	pref, err := s.prefs.SaveCurrencyPreference(ctx, s.userID, code, s.sessionID)
	if err != nil {
		s.LogError(ctx, err, "Failed to persist currency preference", slog.String("user_id", s.userID), slog.String("currency", code))
		s.notifier.Notify(ctx, s.userID, domain.NotificationError,
			"Your currency preference could not be saved. It applies to this session only.")
		return nil
	}

	s.mu.Lock()
	if pref.Version > s.prefVersion {
		s.prefVersion = pref.Version
	}
	s.mu.Unlock()

	s.events.Track(s.userID, "currency_changed", map[string]any{"from": previous, "to": code})
	return nil
}

// LoadRates refreshes the shared table and tells this user when approximate rates are in use.
func (s *CurrencyService) LoadRates(ctx context.Context, forceRefresh bool) domain.RateLoadResult {
	res := s.rates.LoadRates(ctx, forceRefresh)
	if res.Degraded {
		s.notifier.Notify(ctx, s.userID, domain.NotificationWarning,
			"Exchange rates could not be refreshed. Cached or approximate rates are in use.")
	}
	return res
}

func (s *CurrencyService) RatesError() string {
	return s.rates.LastError()
}

func (s *CurrencyService) GetConfig(code string) domain.CurrencyConfig {
	return CurrencyConfigFor(code)
}

func (s *CurrencyService) resolve(code string) string {
	if code == "" {
		return s.CurrentCurrency()
	}
	return code
}

func rateOrOne(table domain.ExchangeRateTable, code string) decimal.Decimal {
	if rate, ok := table.Rate(code); ok {
		return rate
	}
	return decimal.NewFromInt(1)
}

// ConvertFromBase rounds once, to the target currency's decimal places.
func (s *CurrencyService) ConvertFromBase(amount decimal.Decimal, code string) decimal.Decimal {
	code = s.resolve(code)
	rate := rateOrOne(s.rates.Table(), code)
	return utils.RoundToPlaces(amount.Mul(rate), CurrencyConfigFor(code).DecimalPlaces)
}

// ConvertToBase always rounds to two places, the base currency convention.
func (s *CurrencyService) ConvertToBase(amount decimal.Decimal, code string) decimal.Decimal {
	code = s.resolve(code)
	rate := rateOrOne(s.rates.Table(), code)
	return utils.RoundToPlaces(amount.Div(rate), 2)
}

// ToDisplay converts a stored amount into the display currency. Amounts without a currency
// are base currency amounts. Only the final value is rounded.
func (s *CurrencyService) ToDisplay(m domain.Money) decimal.Decimal {
	target := s.CurrentCurrency()
	table := s.rates.Table()
	inBase := m.Value
	if source := m.Currency(); source != domain.BaseCurrency {
		inBase = m.Value.Div(rateOrOne(table, source))
	}
	return utils.RoundToPlaces(inBase.Mul(rateOrOne(table, target)), CurrencyConfigFor(target).DecimalPlaces)
}

// FormatAmount renders a base amount in the display currency without a symbol.
func (s *CurrencyService) FormatAmount(amountInBase decimal.Decimal) string {
	code := s.CurrentCurrency()
	cfg := CurrencyConfigFor(code)
	return utils.FormatWithPrecision(s.ConvertFromBase(amountInBase, code), cfg.DecimalPlaces, cfg.Locale)
}

// FormatAmountWithSymbol renders a base amount in the display currency with its symbol.
// With showSign, strictly positive values get a leading "+".
func (s *CurrencyService) FormatAmountWithSymbol(amountInBase decimal.Decimal, showSign bool) string {
	code := s.CurrentCurrency()
	cfg := CurrencyConfigFor(code)
	value := s.ConvertFromBase(amountInBase, code)

	sign := ""
	switch {
	case value.IsNegative():
		sign = "-"
	case showSign && value.IsPositive():
		sign = "+"
	}
	number := utils.FormatWithPrecision(value.Abs(), cfg.DecimalPlaces, cfg.Locale)

	if cfg.SymbolPosition == domain.SymbolPrefix {
		return sign + cfg.Symbol + number
	}
	return sign + number + " " + cfg.Symbol
}
