package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	ExchangeRate    ExchangeRateSvc
	CurrencySession CurrencySessionProvider
	CurrencyAdmin   CurrencyAdminSvc
	Subscription    SubscriptionSvc
	Verifier        PaymentVerifierSvc
	Activation      ActivationTrackerSvc
	Checkout        CheckoutSvc
	Webhook         PaymentWebhookSvc
	Notification    NotificationSvc
	Events          EventTracker
}
