package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubscriptionStatus of the single subscription row a user owns.
type SubscriptionStatus string

const (
	SubscriptionActive  SubscriptionStatus = "active"
	SubscriptionRevoked SubscriptionStatus = "revoked"
	SubscriptionExpired SubscriptionStatus = "expired"
)

// PlanFree never expires.
const PlanFree = "free"

// SubscriptionRecord is keyed by UserID; writes are upserts.
type SubscriptionRecord struct {
	UserID            string             `json:"userId"`
	Plan              string             `json:"plan"`
	Status            SubscriptionStatus `json:"status"`
	ProviderPaymentID string             `json:"providerPaymentId"`
	Amount            decimal.Decimal    `json:"amount"`
	Currency          string             `json:"currency"`
	StartedAt         time.Time          `json:"startedAt"`
	ExpiresAt         *time.Time         `json:"expiresAt"`
}

// IsActiveFor reports whether the subscription already grants plan.
func (s SubscriptionRecord) IsActiveFor(plan string) bool {
	return s.Status == SubscriptionActive && s.Plan == plan
}

// BillingPeriodEnd returns the expiry of a subscription activated at t.
// Billing periods are a fixed calendar month, without prorating.
func BillingPeriodEnd(t time.Time) time.Time {
	return t.AddDate(0, 1, 0)
}

// ActivateSubscription describes one activation write.
type ActivateSubscription struct {
	UserID            string
	Plan              string
	ProviderPaymentID string
	Amount            decimal.Decimal
	Currency          string
}
