package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/smb_suite/internal/apperrors"
	"github.com/SscSPs/smb_suite/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_suite/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/smb_suite/internal/core/ports/services"
)

type resolveOutcome int

const (
	outcomeRetry resolveOutcome = iota
	outcomeActivated
	outcomeDeclined
	outcomeActivationFailed
)

var failureMessages = map[domain.ObservedStatus]string{
	domain.ObservedProcessing:  "Your payment is still being processed. Please try again in a moment.",
	domain.ObservedUnconfirmed: "Your payment has not been confirmed yet. Please try again.",
	domain.ObservedNotFound:    "We could not find your payment yet. Please try again.",
	domain.ObservedDeclined:    "Your payment was declined.",
}

// Reconciler determines the true status of a payment after a checkout redirect and makes
// sure the requested plan ends up active. It relies on the subscription upsert being
// idempotent, so concurrent attempts and webhook deliveries need no coordination.
type Reconciler struct {
	BaseService
	subscriptions portssvc.SubscriptionSvc
	verifier      portssvc.PaymentVerifierSvc
	payments      portsrepo.PaymentReader
	clock         portssvc.Clock
}

func NewReconciler(subscriptions portssvc.SubscriptionSvc, verifier portssvc.PaymentVerifierSvc, payments portsrepo.PaymentReader, clock portssvc.Clock) *Reconciler {
	return &Reconciler{subscriptions: subscriptions, verifier: verifier, payments: payments, clock: clock}
}

func (r *Reconciler) Reconcile(ctx context.Context, attempt domain.ActivationAttempt, observe func(domain.ActivationAttempt)) domain.ActivationAttempt {
	transition := func(state domain.ActivationState, message string) {
		attempt.State = state
		attempt.Message = message
		attempt.UpdatedAt = r.clock.Now()
		if observe != nil {
			observe(attempt)
		}
	}
	if attempt.Retry.Cap == 0 {
		attempt.Retry = domain.NewRetryState()
	}
	logger := r.GetLogger(ctx).With(slog.String("attempt_id", attempt.ID), slog.String("user_id", attempt.UserID))

	transition(domain.StateCheckingAuth, "")
	if attempt.UserID == "" {
		transition(domain.StateNeedsAuth, "Please sign in to activate your plan.")
		return attempt
	}
	if attempt.Request.Plan == "" || attempt.Request.ProviderPaymentID == "" {
		transition(domain.StateFailed, "The checkout did not return a plan or payment reference.")
		return attempt
	}

	transition(domain.StateResolving, "")
	existing, err := r.subscriptions.GetSubscription(ctx, attempt.UserID)
	switch {
	case err == nil && existing.IsActiveFor(attempt.Request.Plan):
		attempt.Subscription = existing
		transition(domain.StateActivated, "")
		return attempt
	case err != nil && !errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Failed to read existing subscription", slog.String("error", err.Error()))
	}

	for {
		switch r.resolveOnce(ctx, logger, &attempt) {
		case outcomeActivated:
			transition(domain.StateActivated, "")
			return attempt
		case outcomeDeclined:
			transition(domain.StateFailed, failureMessages[domain.ObservedDeclined])
			return attempt
		case outcomeActivationFailed:
			transition(domain.StateFailed, "Your payment was received but the plan could not be activated. Please try again.")
			return attempt
		}

		if !attempt.Retry.CanRetry() {
			transition(domain.StateFailed, failureMessages[attempt.Observed])
			return attempt
		}
		attempt.Retry.Attempt++
		transition(domain.StateResolving, "")

		select {
		case <-ctx.Done():
			transition(domain.StateAwaitingConfirmation, "Your payment is awaiting confirmation. We will activate your plan as soon as it is confirmed.")
			return attempt
		case <-r.clock.After(attempt.Retry.Delay):
		}
	}
}

// resolveOnce runs the verification call and then the payment-table fallback.
func (r *Reconciler) resolveOnce(ctx context.Context, logger *slog.Logger, attempt *domain.ActivationAttempt) resolveOutcome {
	req := attempt.Request

	if req.ProviderPaymentID != domain.UnknownPaymentID {
		res, err := r.verifier.VerifyPayment(ctx, domain.VerifyPaymentRequest{
			ProviderPaymentID: req.ProviderPaymentID,
			UserID:            attempt.UserID,
			Plan:              req.Plan,
		})
		switch {
		case err != nil:
			// transport errors are treated as a pending result
			logger.Warn("Payment verification failed", slog.String("error", err.Error()))
			attempt.Observed = domain.ObservedUnconfirmed
			if attempt.Retry.CanRetry() {
				return outcomeRetry
			}
		case res.Success && res.Status == domain.VerifyStatusActive:
			r.attachSubscription(ctx, logger, attempt)
			return outcomeActivated
		case res.Status == domain.VerifyStatusPending:
			attempt.Observed = domain.ObservedProcessing
			if attempt.Retry.CanRetry() {
				return outcomeRetry
			}
		}
	}

	payment, err := r.payments.FindLatestPayment(ctx, attempt.UserID, req.Plan)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			attempt.Observed = domain.ObservedNotFound
		} else {
			logger.Warn("Failed to read latest payment", slog.String("error", err.Error()))
			attempt.Observed = domain.ObservedUnconfirmed
		}
		return outcomeRetry
	}

	switch payment.Status {
	case domain.PaymentSuccess:
		sub, err := r.subscriptions.Activate(ctx, domain.ActivateSubscription{
			UserID:            attempt.UserID,
			Plan:              req.Plan,
			ProviderPaymentID: payment.ProviderPaymentID,
			Amount:            payment.Amount,
			Currency:          payment.Currency,
		})
		if err != nil {
			logger.Error("Fallback activation failed", slog.String("error", err.Error()))
			return outcomeActivationFailed
		}
		attempt.Subscription = sub
		return outcomeActivated
	case domain.PaymentFailed:
		attempt.Observed = domain.ObservedDeclined
		return outcomeDeclined
	default:
		attempt.Observed = domain.ObservedProcessing
		return outcomeRetry
	}
}

func (r *Reconciler) attachSubscription(ctx context.Context, logger *slog.Logger, attempt *domain.ActivationAttempt) {
	sub, err := r.subscriptions.GetSubscription(ctx, attempt.UserID)
	if err != nil {
		logger.Debug("Activated subscription not readable yet", slog.String("error", err.Error()))
		return
	}
	attempt.Subscription = sub
}
