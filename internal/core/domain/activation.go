package domain

import "time"

// ActivationState is the state of a reconciliation attempt, not of the payment.
type ActivationState string

const (
	StateCheckingAuth ActivationState = "checking_auth"
	StateNeedsAuth    ActivationState = "needs_auth"
	StateResolving    ActivationState = "resolving"
	StateActivated    ActivationState = "activated"
	// StateAwaitingConfirmation is reported when an attempt is abandoned (caller went
	// away, shutdown) while the payment was still pending.
	StateAwaitingConfirmation ActivationState = "awaiting_confirmation"
	StateFailed               ActivationState = "failed"
)

// IsRetryable reports whether a manual retry may re-enter Resolving.
func (s ActivationState) IsRetryable() bool {
	return s == StateNeedsAuth || s == StateFailed || s == StateAwaitingConfirmation
}

// ObservedStatus is the last payment status seen while resolving.
type ObservedStatus string

const (
	ObservedNone        ObservedStatus = ""
	ObservedProcessing  ObservedStatus = "processing"  // provider or payment row says pending
	ObservedUnconfirmed ObservedStatus = "unconfirmed" // verification call failed
	ObservedNotFound    ObservedStatus = "not_found"   // no payment row yet
	ObservedDeclined    ObservedStatus = "declined"
)

// Reconciliation retry budget. Both values are fixed.
const (
	ActivationRetryCap   = 5
	ActivationRetryDelay = 3 * time.Second
)

// RetryState is the explicit retry counter of one attempt.
type RetryState struct {
	Attempt int           `json:"attempt"`
	Cap     int           `json:"cap"`
	Delay   time.Duration `json:"delayMs"`
}

// NewRetryState returns a counter at zero with the fixed budget.
func NewRetryState() RetryState {
	return RetryState{Cap: ActivationRetryCap, Delay: ActivationRetryDelay}
}

// CanRetry reports whether another retry is allowed.
func (r RetryState) CanRetry() bool {
	return r.Attempt < r.Cap
}

// ActivationRequest is what the checkout return page hands over.
type ActivationRequest struct {
	Plan              string `json:"plan"`
	ProviderPaymentID string `json:"providerPaymentId"`
}

// ActivationAttempt is the inspectable state of a reconciliation attempt.
type ActivationAttempt struct {
	ID           string              `json:"id"`
	UserID       string              `json:"userId,omitempty"`
	Request      ActivationRequest   `json:"request"`
	State        ActivationState     `json:"state"`
	Observed     ObservedStatus      `json:"observed,omitempty"`
	Message      string              `json:"message,omitempty"`
	Retry        RetryState          `json:"retry"`
	Subscription *SubscriptionRecord `json:"subscription,omitempty"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}
