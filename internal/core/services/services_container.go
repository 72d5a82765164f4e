package services

import (
	portsrepo "github.com/SscSPs/smb_suite/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/smb_suite/internal/core/ports/services"
	"github.com/SscSPs/smb_suite/internal/platform/config"
)

// ExternalClients are the remote collaborators the services depend on.
type ExternalClients struct {
	RateFetcher     portssvc.RateFetcher
	PaymentProvider portssvc.PaymentProvider
	// RemoteVerifier, when set, replaces the in-process payment verification.
	RemoteVerifier portssvc.PaymentVerifierSvc
	Events         portssvc.EventTracker
	Clock          portssvc.Clock
}

// NewServiceContainer creates a new service container with properly initialized dependencies.
// The returned Container owns the services that run background work.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, clients ExternalClients) (*portssvc.ServiceContainer, *Container) {
	clock := clients.Clock
	if clock == nil {
		clock = NewSystemClock()
	}
	events := clients.Events
	if events == nil {
		events = noopTracker{}
	}

	container := &portssvc.ServiceContainer{Events: events}

	notifications := NewNotificationService(repos.NotificationRepo, clock)
	container.Notification = notifications

	rates := NewExchangeRateService(clients.RateFetcher, repos.RateCache, clock, cfg.FallbackExchangeRates)
	container.ExchangeRate = rates

	sessions := NewCurrencySessionRegistry(rates, repos.PreferenceRepo, repos.SupportedCurrencyRepo, notifications, events, clock, cfg.CurrencySessionIdle)
	container.CurrencySession = sessions
	container.CurrencyAdmin = NewCurrencyAdminService(repos.SupportedCurrencyRepo, repos.PreferenceRepo, events)

	subscriptions := NewSubscriptionService(repos.SubscriptionRepo, clock, events)
	container.Subscription = subscriptions

	// the HTTP verify-payment function always runs in-process
	localVerifier := NewPaymentVerificationService(clients.PaymentProvider, repos.PaymentRepo, subscriptions)
	container.Verifier = localVerifier
	reconcilerVerifier := portssvc.PaymentVerifierSvc(localVerifier)
	if clients.RemoteVerifier != nil {
		reconcilerVerifier = clients.RemoteVerifier
	}

	reconciler := NewReconciler(subscriptions, reconcilerVerifier, repos.PaymentRepo, clock)
	activations := NewActivationTracker(reconciler, notifications, clock, cfg.ActivationTimeout)
	container.Activation = activations

	container.Checkout = NewCheckoutService(clients.PaymentProvider, repos.PaymentRepo, cfg.PlanPrices,
		cfg.CheckoutReturnURL, cfg.CheckoutCancelURL, clock, events)
	container.Webhook = NewPaymentWebhookService(cfg.PaymentWebhookSecret, repos.PaymentRepo, subscriptions)

	return container, &Container{
		Rates:         rates,
		Sessions:      sessions,
		Activations:   activations,
		Subscriptions: subscriptions,
		clock:         clock,
	}
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.ExchangeRateSvc         = (*ExchangeRateService)(nil)
	_ portssvc.CurrencySessionSvc      = (*CurrencyService)(nil)
	_ portssvc.CurrencySessionProvider = (*CurrencySessionRegistry)(nil)
	_ portssvc.CurrencyAdminSvc        = (*CurrencyAdminService)(nil)
	_ portssvc.SubscriptionSvc         = (*SubscriptionService)(nil)
	_ portssvc.PaymentVerifierSvc      = (*PaymentVerificationService)(nil)
	_ portssvc.ReconcilerSvc           = (*Reconciler)(nil)
	_ portssvc.ActivationTrackerSvc    = (*ActivationTracker)(nil)
	_ portssvc.CheckoutSvc             = (*CheckoutService)(nil)
	_ portssvc.PaymentWebhookSvc       = (*PaymentWebhookService)(nil)
	_ portssvc.NotificationSvc         = (*NotificationService)(nil)
)
