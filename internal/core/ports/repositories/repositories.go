package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	SupportedCurrencyRepo SupportedCurrencyRepositoryFacade
	PreferenceRepo        PreferenceRepositoryFacade
	RateCache             RateCache
	PaymentRepo           PaymentRepositoryFacade
	SubscriptionRepo      SubscriptionRepositoryFacade
	NotificationRepo      NotificationRepository
}
