package services

import (
	"context"
	"time"

	"github.com/SscSPs/smb_suite/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateFetcher is the remote rate-fetch function. Rates are relative to the base currency.
type RateFetcher interface {
	FetchRates(ctx context.Context) (map[string]decimal.Decimal, error)
}

// PaymentProvider is the external payment provider.
type PaymentProvider interface {
	CreatePayment(ctx context.Context, req domain.CreateProviderPayment) (*domain.ProviderPayment, error)
	GetPayment(ctx context.Context, providerPaymentID string) (*domain.ProviderPayment, error)
}

// Notifier delivers a non-blocking, user-facing message. It never fails the caller.
type Notifier interface {
	Notify(ctx context.Context, userID string, level domain.NotificationLevel, message string)
}

// Clock abstracts time so freshness and retry delays can be driven by tests.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// EventTracker records product analytics events.
type EventTracker interface {
	Track(userID, event string, properties map[string]any)
}
