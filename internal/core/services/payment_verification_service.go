package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/smb_suite/internal/apperrors"
	"github.com/SscSPs/smb_suite/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_suite/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/smb_suite/internal/core/ports/services"
)

// PaymentVerificationService asks the provider for the status of a payment, records the
// transition and activates the plan on success. The stored payment is the source of the
// amount and currency written to the subscription.
type PaymentVerificationService struct {
	BaseService
	provider      portssvc.PaymentProvider
	payments      portsrepo.PaymentRepositoryFacade
	subscriptions portssvc.SubscriptionSvc
}

func NewPaymentVerificationService(provider portssvc.PaymentProvider, payments portsrepo.PaymentRepositoryFacade, subscriptions portssvc.SubscriptionSvc) *PaymentVerificationService {
	return &PaymentVerificationService{provider: provider, payments: payments, subscriptions: subscriptions}
}

func (s *PaymentVerificationService) VerifyPayment(ctx context.Context, req domain.VerifyPaymentRequest) (domain.VerifyPaymentResult, error) {
	payment, err := s.payments.FindPaymentByProviderID(ctx, req.ProviderPaymentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.VerifyPaymentResult{Success: false, Status: string(domain.ObservedNotFound)}, nil
		}
		return domain.VerifyPaymentResult{}, fmt.Errorf("failed to load payment: %w", err)
	}
	if payment.UserID != req.UserID {
		return domain.VerifyPaymentResult{}, fmt.Errorf("%w: payment belongs to another user", apperrors.ErrForbidden)
	}

	remote, err := s.provider.GetPayment(ctx, req.ProviderPaymentID)
	if err != nil {
		return domain.VerifyPaymentResult{}, apperrors.NewUnavailableError("payment provider lookup failed", err)
	}

	switch remote.Status {
	case domain.PaymentSuccess:
		changed, err := s.payments.MarkPaymentStatus(ctx, req.ProviderPaymentID, domain.PaymentSuccess)
		if err != nil {
			return domain.VerifyPaymentResult{}, fmt.Errorf("failed to record payment success: %w", err)
		}
		if !changed {
			consumed, err := s.alreadyApplied(ctx, payment)
			if err != nil {
				return domain.VerifyPaymentResult{}, err
			}
			if consumed {
				s.LogInfo(ctx, "Payment already applied, skipping activation", slog.String("provider_payment_id", req.ProviderPaymentID))
				return domain.VerifyPaymentResult{Success: true, Status: domain.VerifyStatusActive}, nil
			}
		}
		plan := payment.Plan
		if plan == "" {
			plan = req.Plan
		}
		if _, err := s.subscriptions.Activate(ctx, domain.ActivateSubscription{
			UserID:            payment.UserID,
			Plan:              plan,
			ProviderPaymentID: req.ProviderPaymentID,
			Amount:            payment.Amount,
			Currency:          payment.Currency,
		}); err != nil {
			return domain.VerifyPaymentResult{}, err
		}
		return domain.VerifyPaymentResult{Success: true, Status: domain.VerifyStatusActive}, nil
	case domain.PaymentFailed:
		if _, err := s.payments.MarkPaymentStatus(ctx, req.ProviderPaymentID, domain.PaymentFailed); err != nil {
			return domain.VerifyPaymentResult{}, fmt.Errorf("failed to record payment failure: %w", err)
		}
		s.LogInfo(ctx, "Payment declined by provider", slog.String("provider_payment_id", req.ProviderPaymentID))
		return domain.VerifyPaymentResult{Success: false, Status: domain.VerifyStatusFailed}, nil
	default:
		return domain.VerifyPaymentResult{Success: false, Status: domain.VerifyStatusPending}, nil
	}
}

// alreadyApplied reports whether a payment that was already terminal has been written to
// the user's subscription, either directly or superseded by a later activation. Only a
// payment whose activation never landed may activate again.
func (s *PaymentVerificationService) alreadyApplied(ctx context.Context, payment *domain.PaymentRecord) (bool, error) {
	sub, err := s.subscriptions.GetSubscription(ctx, payment.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load subscription: %w", err)
	}
	if sub.ProviderPaymentID == payment.ProviderPaymentID {
		return true, nil
	}
	return sub.StartedAt.After(payment.UpdatedAt), nil
}
