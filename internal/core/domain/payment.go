package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus progresses one way: pending -> success | failed.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentSuccess PaymentStatus = "success"
	PaymentFailed  PaymentStatus = "failed"
)

// IsTerminal reports whether no further transition is allowed.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentSuccess || s == PaymentFailed
}

// UnknownPaymentID is what the checkout return page receives when the provider
// did not echo a payment reference.
const UnknownPaymentID = "unknown"

// PaymentRecord is created when checkout starts and updated by whichever writer
// observes the provider status first.
type PaymentRecord struct {
	PaymentID         string          `json:"id"`
	UserID            string          `json:"userId"`
	Plan              string          `json:"plan"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	ProviderPaymentID string          `json:"providerPaymentId"`
	Status            PaymentStatus   `json:"status"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// ProviderPayment is the payment provider's view of a payment.
type ProviderPayment struct {
	ProviderPaymentID string
	Status            PaymentStatus
	Amount            decimal.Decimal
	Currency          string
	UserID            string
	Plan              string
	CheckoutURL       string
}

// CreateProviderPayment is what is sent to the provider to open a checkout.
type CreateProviderPayment struct {
	Amount      decimal.Decimal
	Currency    string
	Description string
	ReturnURL   string
	CancelURL   string
	UserID      string
	Plan        string
}

// CheckoutSession is returned to the caller that starts a checkout.
type CheckoutSession struct {
	PaymentID         string          `json:"paymentId"`
	ProviderPaymentID string          `json:"providerPaymentId"`
	CheckoutURL       string          `json:"checkoutUrl"`
	Plan              string          `json:"plan"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
}

// VerifyPaymentRequest is the payload of the payment-status verification call.
type VerifyPaymentRequest struct {
	ProviderPaymentID string `json:"providerPaymentId" binding:"required"`
	UserID            string `json:"userId" binding:"required"`
	Plan              string `json:"plan" binding:"required"`
}

// Verification statuses reported back to the caller.
const (
	VerifyStatusActive  = "active"
	VerifyStatusPending = "pending"
	VerifyStatusFailed  = "failed"
)

// VerifyPaymentResult is the response of the payment-status verification call.
type VerifyPaymentResult struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
}

// PaymentEvent is a decoded provider webhook delivery.
type PaymentEvent struct {
	EventID           string          `json:"eventId"`
	Type              string          `json:"type"`
	ProviderPaymentID string          `json:"paymentId"`
	Status            string          `json:"status"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	Metadata          struct {
		UserID string `json:"userId"`
		Plan   string `json:"plan"`
	} `json:"metadata"`
}
