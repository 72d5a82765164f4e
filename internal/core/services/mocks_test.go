package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/smb_suite/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_suite/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock SupportedCurrencyRepository ---
type MockSupportedCurrencyRepository struct {
	mock.Mock
	watchers     []func(domain.SupportedCurrencySet)
	unsubscribed int
}

func (m *MockSupportedCurrencyRepository) GetSupportedCurrencies(ctx context.Context) (domain.SupportedCurrencySet, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.SupportedCurrencySet), args.Error(1)
}

func (m *MockSupportedCurrencyRepository) SaveSupportedCurrencies(ctx context.Context, codes, removed []string, reassignTo, updatedBy string) (domain.SupportedCurrencySet, int64, error) {
	args := m.Called(ctx, codes, removed, reassignTo, updatedBy)
	return args.Get(0).(domain.SupportedCurrencySet), args.Get(1).(int64), args.Error(2)
}

func (m *MockSupportedCurrencyRepository) WatchSupportedCurrencies(fn func(domain.SupportedCurrencySet)) portsrepo.Unsubscriber {
	m.watchers = append(m.watchers, fn)
	return func() { m.unsubscribed++ }
}

func (m *MockSupportedCurrencyRepository) push(set domain.SupportedCurrencySet) {
	for _, fn := range m.watchers {
		fn(set)
	}
}

// --- Mock PreferenceRepository ---
type MockPreferenceRepository struct {
	mock.Mock
	watchers     []func(domain.UserCurrencyPreference)
	unsubscribed int
}

func (m *MockPreferenceRepository) FindCurrencyPreference(ctx context.Context, userID string) (*domain.UserCurrencyPreference, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserCurrencyPreference), args.Error(1)
}

func (m *MockPreferenceRepository) CountUsersWithCurrency(ctx context.Context, codes []string) (int, error) {
	args := m.Called(ctx, codes)
	return args.Int(0), args.Error(1)
}

func (m *MockPreferenceRepository) SaveCurrencyPreference(ctx context.Context, userID, currencyCode, updatedBy string) (*domain.UserCurrencyPreference, error) {
	args := m.Called(ctx, userID, currencyCode, updatedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserCurrencyPreference), args.Error(1)
}

func (m *MockPreferenceRepository) WatchCurrencyPreferences(fn func(domain.UserCurrencyPreference)) portsrepo.Unsubscriber {
	m.watchers = append(m.watchers, fn)
	return func() { m.unsubscribed++ }
}

func (m *MockPreferenceRepository) push(pref domain.UserCurrencyPreference) {
	for _, fn := range m.watchers {
		fn(pref)
	}
}

// --- Mock RateCache ---
type MockRateCache struct {
	mock.Mock
}

func (m *MockRateCache) LoadRateTable(ctx context.Context, key string) (*domain.ExchangeRateTable, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRateTable), args.Error(1)
}

func (m *MockRateCache) SaveRateTable(ctx context.Context, key string, table domain.ExchangeRateTable) error {
	args := m.Called(ctx, key, table)
	return args.Error(0)
}

// --- Mock RateFetcher ---
type MockRateFetcher struct {
	mock.Mock
}

func (m *MockRateFetcher) FetchRates(ctx context.Context) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

// --- Mock PaymentRepository ---
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindLatestPayment(ctx context.Context, userID, plan string) (*domain.PaymentRecord, error) {
	args := m.Called(ctx, userID, plan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentRecord), args.Error(1)
}

func (m *MockPaymentRepository) FindPaymentByProviderID(ctx context.Context, providerPaymentID string) (*domain.PaymentRecord, error) {
	args := m.Called(ctx, providerPaymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentRecord), args.Error(1)
}

func (m *MockPaymentRepository) SavePayment(ctx context.Context, payment domain.PaymentRecord) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) MarkPaymentStatus(ctx context.Context, providerPaymentID string, status domain.PaymentStatus) (bool, error) {
	args := m.Called(ctx, providerPaymentID, status)
	return args.Bool(0), args.Error(1)
}

// --- Mock SubscriptionRepository ---
type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) FindSubscriptionByUserID(ctx context.Context, userID string) (*domain.SubscriptionRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SubscriptionRecord), args.Error(1)
}

func (m *MockSubscriptionRepository) UpsertSubscription(ctx context.Context, sub domain.SubscriptionRecord) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) ExpireSubscriptions(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock NotificationRepository ---
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) SaveNotification(ctx context.Context, n domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListNotifications(ctx context.Context, userID string, unreadOnly bool, limit int) ([]domain.Notification, error) {
	args := m.Called(ctx, userID, unreadOnly, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkNotificationRead(ctx context.Context, userID, notificationID string) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}

// --- Mock PaymentProvider ---
type MockPaymentProvider struct {
	mock.Mock
}

func (m *MockPaymentProvider) CreatePayment(ctx context.Context, req domain.CreateProviderPayment) (*domain.ProviderPayment, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProviderPayment), args.Error(1)
}

func (m *MockPaymentProvider) GetPayment(ctx context.Context, providerPaymentID string) (*domain.ProviderPayment, error) {
	args := m.Called(ctx, providerPaymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProviderPayment), args.Error(1)
}

// --- Mock PaymentVerifier ---
type MockPaymentVerifier struct {
	mock.Mock
}

func (m *MockPaymentVerifier) VerifyPayment(ctx context.Context, req domain.VerifyPaymentRequest) (domain.VerifyPaymentResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.VerifyPaymentResult), args.Error(1)
}

// --- Mock SubscriptionSvc ---
type MockSubscriptionSvc struct {
	mock.Mock
}

func (m *MockSubscriptionSvc) GetSubscription(ctx context.Context, userID string) (*domain.SubscriptionRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SubscriptionRecord), args.Error(1)
}

func (m *MockSubscriptionSvc) Activate(ctx context.Context, in domain.ActivateSubscription) (*domain.SubscriptionRecord, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SubscriptionRecord), args.Error(1)
}

// --- Recording notifier ---
type recordingNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
}

func (n *recordingNotifier) Notify(_ context.Context, userID string, level domain.NotificationLevel, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, domain.Notification{UserID: userID, Level: level, Message: message})
}

func (n *recordingNotifier) all() []domain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.Notification(nil), n.sent...)
}

// --- Fake clock ---

// fakeClock fires After immediately and advances its own time, so retry loops run
// without sleeping. With block set, After never fires.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
	block  bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	if c.block {
		return nil
	}
	c.now = c.now.Add(d)
	ch := make(chan time.Time, 1)
	ch <- c.now
	return ch
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string {
	return &s
}
