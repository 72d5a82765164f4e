package services

import (
	"context"

	"github.com/SscSPs/smb_suite/internal/core/domain"
)

// PaymentVerifierSvc is the payment-status verification call used by the reconciler.
// Implemented in-process by the verification service or remotely over HTTP.
type PaymentVerifierSvc interface {
	VerifyPayment(ctx context.Context, req domain.VerifyPaymentRequest) (domain.VerifyPaymentResult, error)
}

// ReconcilerSvc runs one reconciliation attempt to completion.
type ReconcilerSvc interface {
	// Reconcile never returns an error; failures are states of the returned attempt.
	// The attempt carries its id, user, request and retry counter in; observe, when
	// non-nil, is called on every state change.
	Reconcile(ctx context.Context, attempt domain.ActivationAttempt, observe func(domain.ActivationAttempt)) domain.ActivationAttempt
}

// ActivationTrackerSvc runs attempts in the background and keeps them inspectable.
type ActivationTrackerSvc interface {
	Start(userID string, req domain.ActivationRequest) domain.ActivationAttempt
	Get(attemptID, userID string) (domain.ActivationAttempt, error)
	Retry(attemptID, userID string) (domain.ActivationAttempt, error)
}

// SubscriptionSvc defines read access and activation of subscriptions
type SubscriptionSvc interface {
	GetSubscription(ctx context.Context, userID string) (*domain.SubscriptionRecord, error)
	Activate(ctx context.Context, in domain.ActivateSubscription) (*domain.SubscriptionRecord, error)
}

// CheckoutSvc opens a provider checkout for a plan
type CheckoutSvc interface {
	StartCheckout(ctx context.Context, userID, plan string) (*domain.CheckoutSession, error)
}

// PaymentWebhookSvc processes provider webhook deliveries
type PaymentWebhookSvc interface {
	HandleDelivery(ctx context.Context, payload []byte, signature string) error
}

// NotificationSvc lists and acknowledges user notifications
type NotificationSvc interface {
	Notifier
	ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]domain.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
}
