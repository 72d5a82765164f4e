package services

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/SscSPs/smb_suite/internal/apperrors"
	"github.com/SscSPs/smb_suite/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_suite/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/smb_suite/internal/core/ports/services"
)

var currencyCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// CurrencyAdminService implements administrator edits of the supported set and of
// individual preferences. Sessions learn about the results through the change feed.
type CurrencyAdminService struct {
	BaseService
	supported portsrepo.SupportedCurrencyRepositoryFacade
	prefs     portsrepo.PreferenceRepositoryFacade
	events    portssvc.EventTracker
}

func NewCurrencyAdminService(supported portsrepo.SupportedCurrencyRepositoryFacade, prefs portsrepo.PreferenceRepositoryFacade, events portssvc.EventTracker) *CurrencyAdminService {
	if events == nil {
		events = noopTracker{}
	}
	return &CurrencyAdminService{supported: supported, prefs: prefs, events: events}
}

// normalizeCodes upper-cases, trims and de-duplicates codes, keeping their order.
func normalizeCodes(codes []string) ([]string, error) {
	seen := make(map[string]bool, len(codes))
	out := make([]string, 0, len(codes))
	for _, raw := range codes {
		code := strings.ToUpper(strings.TrimSpace(raw))
		if !currencyCodePattern.MatchString(code) {
			return nil, fmt.Errorf("%w: invalid currency code %q", apperrors.ErrValidation, raw)
		}
		if seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, code)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: the supported currency set cannot be empty", apperrors.ErrValidation)
	}
	return out, nil
}

// UpdateSupportedCurrencies replaces the supported set. Users whose preference was removed
// are moved to the base currency. The base currency may only be dropped when no user
// would end up on it.
func (s *CurrencyAdminService) UpdateSupportedCurrencies(ctx context.Context, codes []string, adminUserID string) (domain.SupportedCurrencySet, error) {
	normalized, err := normalizeCodes(codes)
	if err != nil {
		return domain.SupportedCurrencySet{}, err
	}
	next := domain.SupportedCurrencySet{Codes: normalized}

	current, err := s.supported.GetSupportedCurrencies(ctx)
	if err != nil {
		return domain.SupportedCurrencySet{}, fmt.Errorf("failed to load supported currencies: %w", err)
	}

	var removed []string
	for _, code := range current.Codes {
		if !next.Contains(code) {
			removed = append(removed, code)
		}
	}

	if !next.Contains(domain.BaseCurrency) {
		affected := removed
		if !slices.Contains(removed, domain.BaseCurrency) {
			affected = append([]string{domain.BaseCurrency}, removed...)
		}
		count, err := s.prefs.CountUsersWithCurrency(ctx, affected)
		if err != nil {
			return domain.SupportedCurrencySet{}, fmt.Errorf("failed to count affected users: %w", err)
		}
		if count > 0 {
			return domain.SupportedCurrencySet{}, fmt.Errorf("%w: %s is still the default currency of %d user(s)", apperrors.ErrValidation, domain.BaseCurrency, count)
		}
	}

	saved, moved, err := s.supported.SaveSupportedCurrencies(ctx, normalized, removed, domain.BaseCurrency, adminUserID)
	if err != nil {
		return domain.SupportedCurrencySet{}, fmt.Errorf("failed to save supported currencies: %w", err)
	}
	if len(removed) > 0 {
		s.LogInfo(ctx, "Reassigned preferences of removed currencies", slog.Any("removed", removed), slog.Int64("users", moved))
	}

	s.events.Track(adminUserID, "supported_currencies_updated", map[string]any{"codes": normalized, "removed": removed})
	return saved, nil
}

// SetUserCurrency overrides one user's preference; the code must be supported.
func (s *CurrencyAdminService) SetUserCurrency(ctx context.Context, userID, code, adminUserID string) (*domain.UserCurrencyPreference, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	set, err := s.supported.GetSupportedCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load supported currencies: %w", err)
	}
	if !set.Contains(code) {
		return nil, fmt.Errorf("%w: currency %q is not supported", apperrors.ErrValidation, code)
	}
	pref, err := s.prefs.SaveCurrencyPreference(ctx, userID, code, adminUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to save currency preference: %w", err)
	}
	s.LogInfo(ctx, "Administrator changed user currency", slog.String("user_id", userID), slog.String("currency", code))
	return pref, nil
}

func (s *CurrencyAdminService) ListCurrencyConfigs() []domain.CurrencyConfig {
	return CurrencyCatalog()
}
