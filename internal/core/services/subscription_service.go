package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/smb_suite/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_suite/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/smb_suite/internal/core/ports/services"
)

// SubscriptionService reads and activates the single subscription row of a user.
// Every activation path (webhook, verifier, reconciler fallback) goes through Activate.
type SubscriptionService struct {
	BaseService
	repo   portsrepo.SubscriptionRepositoryFacade
	clock  portssvc.Clock
	events portssvc.EventTracker
}

func NewSubscriptionService(repo portsrepo.SubscriptionRepositoryFacade, clock portssvc.Clock, events portssvc.EventTracker) *SubscriptionService {
	if events == nil {
		events = noopTracker{}
	}
	return &SubscriptionService{repo: repo, clock: clock, events: events}
}

func (s *SubscriptionService) GetSubscription(ctx context.Context, userID string) (*domain.SubscriptionRecord, error) {
	sub, err := s.repo.FindSubscriptionByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return sub, nil
}

// Activate upserts an active subscription starting now. Paid plans expire one calendar month
// later; the free plan never expires. Repeating it with the same input leaves one row.
func (s *SubscriptionService) Activate(ctx context.Context, in domain.ActivateSubscription) (*domain.SubscriptionRecord, error) {
	now := s.clock.Now()
	var expiresAt *time.Time
	if in.Plan != domain.PlanFree {
		end := domain.BillingPeriodEnd(now)
		expiresAt = &end
	}
	currency := in.Currency
	if currency == "" {
		currency = domain.BaseCurrency
	}

	sub := domain.SubscriptionRecord{
		UserID:            in.UserID,
		Plan:              in.Plan,
		Status:            domain.SubscriptionActive,
		ProviderPaymentID: in.ProviderPaymentID,
		Amount:            in.Amount,
		Currency:          currency,
		StartedAt:         now,
		ExpiresAt:         expiresAt,
	}
	if err := s.repo.UpsertSubscription(ctx, sub); err != nil {
		s.LogError(ctx, err, "Failed to activate subscription", slog.String("user_id", in.UserID), slog.String("plan", in.Plan))
		return nil, fmt.Errorf("failed to activate subscription: %w", err)
	}

	s.LogInfo(ctx, "Subscription activated",
		slog.String("user_id", in.UserID), slog.String("plan", in.Plan), slog.String("provider_payment_id", in.ProviderPaymentID))
	s.events.Track(in.UserID, "subscription_activated", map[string]any{
		"plan":     in.Plan,
		"amount":   in.Amount.String(),
		"currency": currency,
	})
	return &sub, nil
}

// ExpireDue marks active subscriptions whose expiry has passed as expired.
func (s *SubscriptionService) ExpireDue(ctx context.Context) (int64, error) {
	n, err := s.repo.ExpireSubscriptions(ctx, s.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to expire subscriptions: %w", err)
	}
	return n, nil
}

// RunExpirySweep calls ExpireDue every interval until ctx is done.
func (s *SubscriptionService) RunExpirySweep(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.ExpireDue(ctx)
			if err != nil {
				s.LogError(ctx, err, "Subscription expiry sweep failed")
				continue
			}
			if n > 0 {
				s.LogInfo(ctx, "Expired subscriptions", slog.Int64("count", n))
			}
		}
	}
}
