package repositories

import (
	"context"

	"github.com/SscSPs/smb_suite/internal/core/domain"
)

// PreferenceReader defines read operations for user currency preferences
type PreferenceReader interface {
	// FindCurrencyPreference returns apperrors.ErrNotFound when the user never chose one.
	FindCurrencyPreference(ctx context.Context, userID string) (*domain.UserCurrencyPreference, error)

	// CountUsersWithCurrency counts users whose preference is one of codes.
	CountUsersWithCurrency(ctx context.Context, codes []string) (int, error)
}

// PreferenceWriter defines write operations for user currency preferences
type PreferenceWriter interface {
	// SaveCurrencyPreference upserts the preference, bumps its version and publishes it.
	SaveCurrencyPreference(ctx context.Context, userID, currencyCode, updatedBy string) (*domain.UserCurrencyPreference, error)
}

// PreferenceWatcher delivers preference changes for all users; subscribers filter by user.
type PreferenceWatcher interface {
	WatchCurrencyPreferences(fn func(domain.UserCurrencyPreference)) Unsubscriber
}

// PreferenceRepositoryFacade combines all preference repository interfaces
type PreferenceRepositoryFacade interface {
	PreferenceReader
	PreferenceWriter
	PreferenceWatcher
}
