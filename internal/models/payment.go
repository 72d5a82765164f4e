package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is a row of payments.
type Payment struct {
	PaymentID         string          `db:"payment_id"`
	UserID            string          `db:"user_id"`
	Plan              string          `db:"plan"`
	Amount            decimal.Decimal `db:"amount"`
	Currency          string          `db:"currency"`
	ProviderPaymentID string          `db:"provider_payment_id"`
	Status            string          `db:"status"`
	CreatedAt         time.Time       `db:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at"`
}

// Subscription is a row of subscriptions; user_id is the primary key.
type Subscription struct {
	UserID            string          `db:"user_id"`
	Plan              string          `db:"plan"`
	Status            string          `db:"status"`
	ProviderPaymentID string          `db:"provider_payment_id"`
	Amount            decimal.Decimal `db:"amount"`
	Currency          string          `db:"currency"`
	StartedAt         time.Time       `db:"started_at"`
	ExpiresAt         *time.Time      `db:"expires_at"`
}
