package repositories

import (
	"context"

	"github.com/SscSPs/smb_suite/internal/core/domain"
)

// Unsubscriber releases a push subscription. Calling it more than once is harmless.
type Unsubscriber func()

// SupportedCurrencyReader defines read operations for the supported-currency registry
type SupportedCurrencyReader interface {
	// GetSupportedCurrencies returns the current set, or the default set if none was saved.
	GetSupportedCurrencies(ctx context.Context) (domain.SupportedCurrencySet, error)
}

// SupportedCurrencyWriter defines write operations for the supported-currency registry
type SupportedCurrencyWriter interface {
	// SaveSupportedCurrencies replaces the whole set and, in the same transaction, moves every
	// user whose preference is one of removed to reassignTo. The set and each moved preference
	// are published on commit. It returns the saved set and the number of users moved.
	SaveSupportedCurrencies(ctx context.Context, codes, removed []string, reassignTo, updatedBy string) (domain.SupportedCurrencySet, int64, error)
}

// SupportedCurrencyWatcher delivers whole-set replacements made by any writer.
type SupportedCurrencyWatcher interface {
	WatchSupportedCurrencies(fn func(domain.SupportedCurrencySet)) Unsubscriber
}

// SupportedCurrencyRepositoryFacade combines all supported-currency repository interfaces
type SupportedCurrencyRepositoryFacade interface {
	SupportedCurrencyReader
	SupportedCurrencyWriter
	SupportedCurrencyWatcher
}
