package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/SscSPs/smb_suite/internal/apperrors"
	"github.com/SscSPs/smb_suite/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_suite/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/smb_suite/internal/core/ports/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutService opens a provider checkout for a paid plan and records the pending payment.
type CheckoutService struct {
	BaseService
	provider  portssvc.PaymentProvider
	payments  portsrepo.PaymentWriter
	prices    map[string]decimal.Decimal
	returnURL string
	cancelURL string
	clock     portssvc.Clock
	events    portssvc.EventTracker
}

func NewCheckoutService(
	provider portssvc.PaymentProvider,
	payments portsrepo.PaymentWriter,
	prices map[string]decimal.Decimal,
	returnURL, cancelURL string,
	clock portssvc.Clock,
	events portssvc.EventTracker,
) *CheckoutService {
	if events == nil {
		events = noopTracker{}
	}
	return &CheckoutService{
		provider:  provider,
		payments:  payments,
		prices:    prices,
		returnURL: returnURL,
		cancelURL: cancelURL,
		clock:     clock,
		events:    events,
	}
}

// withPlan adds the plan to a redirect URL so the return page can hand it to the reconciler.
func withPlan(raw, plan string) string {
	u, err := url.Parse(raw)
	if err != nil || raw == "" {
		return raw
	}
	q := u.Query()
	q.Set("plan", plan)
	u.RawQuery = q.Encode()
	return u.String()
}

func (s *CheckoutService) StartCheckout(ctx context.Context, userID, plan string) (*domain.CheckoutSession, error) {
	price, ok := s.prices[plan]
	if !ok || plan == domain.PlanFree || !price.IsPositive() {
		return nil, fmt.Errorf("%w: plan %q cannot be purchased", apperrors.ErrValidation, plan)
	}

	remote, err := s.provider.CreatePayment(ctx, domain.CreateProviderPayment{
		Amount:      price,
		Currency:    domain.BaseCurrency,
		Description: fmt.Sprintf("%s plan, 1 month", plan),
		ReturnURL:   withPlan(s.returnURL, plan),
		CancelURL:   withPlan(s.cancelURL, plan),
		UserID:      userID,
		Plan:        plan,
	})
	if err != nil {
		s.LogError(ctx, err, "Payment provider rejected checkout", slog.String("user_id", userID), slog.String("plan", plan))
		return nil, apperrors.NewUnavailableError("could not start checkout", err)
	}

	now := s.clock.Now()
	payment := domain.PaymentRecord{
		PaymentID:         uuid.NewString(),
		UserID:            userID,
		Plan:              plan,
		Amount:            price,
		Currency:          domain.BaseCurrency,
		ProviderPaymentID: remote.ProviderPaymentID,
		Status:            domain.PaymentPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.payments.SavePayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to record pending payment: %w", err)
	}

	s.LogInfo(ctx, "Checkout started", slog.String("user_id", userID), slog.String("plan", plan), slog.String("provider_payment_id", remote.ProviderPaymentID))
	s.events.Track(userID, "checkout_started", map[string]any{"plan": plan, "amount": price.String()})

	return &domain.CheckoutSession{
		PaymentID:         payment.PaymentID,
		ProviderPaymentID: remote.ProviderPaymentID,
		CheckoutURL:       remote.CheckoutURL,
		Plan:              plan,
		Amount:            price,
		Currency:          domain.BaseCurrency,
	}, nil
}
