package handlers_test

import (
	"context"

	"github.com/SscSPs/smb_suite/internal/core/domain"
	portssvc "github.com/SscSPs/smb_suite/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock currency session ---
type MockCurrencySession struct {
	mock.Mock
}

func (m *MockCurrencySession) GetConfig(code string) domain.CurrencyConfig {
	return m.Called(code).Get(0).(domain.CurrencyConfig)
}
func (m *MockCurrencySession) ConvertFromBase(amount decimal.Decimal, code string) decimal.Decimal {
	return m.Called(amount, code).Get(0).(decimal.Decimal)
}
func (m *MockCurrencySession) ConvertToBase(amount decimal.Decimal, code string) decimal.Decimal {
	return m.Called(amount, code).Get(0).(decimal.Decimal)
}
func (m *MockCurrencySession) ToDisplay(money domain.Money) decimal.Decimal {
	return m.Called(money).Get(0).(decimal.Decimal)
}
func (m *MockCurrencySession) FormatAmount(amountInBase decimal.Decimal) string {
	return m.Called(amountInBase).String(0)
}
func (m *MockCurrencySession) FormatAmountWithSymbol(amountInBase decimal.Decimal, showSign bool) string {
	return m.Called(amountInBase, showSign).String(0)
}
func (m *MockCurrencySession) CurrentCurrency() string {
	return m.Called().String(0)
}
func (m *MockCurrencySession) SupportedCurrencies() domain.SupportedCurrencySet {
	return m.Called().Get(0).(domain.SupportedCurrencySet)
}
func (m *MockCurrencySession) SetCurrency(ctx context.Context, code string) error {
	return m.Called(ctx, code).Error(0)
}
func (m *MockCurrencySession) LoadRates(ctx context.Context, forceRefresh bool) domain.RateLoadResult {
	return m.Called(ctx, forceRefresh).Get(0).(domain.RateLoadResult)
}
func (m *MockCurrencySession) RatesError() string {
	return m.Called().String(0)
}

var _ portssvc.CurrencySessionSvc = (*MockCurrencySession)(nil)

// --- Mock session provider ---
type MockSessionProvider struct {
	mock.Mock
}

func (m *MockSessionProvider) Session(ctx context.Context, userID string) (portssvc.CurrencySessionSvc, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(portssvc.CurrencySessionSvc), args.Error(1)
}

var _ portssvc.CurrencySessionProvider = (*MockSessionProvider)(nil)

// --- Mock currency admin ---
type MockCurrencyAdmin struct {
	mock.Mock
}

func (m *MockCurrencyAdmin) UpdateSupportedCurrencies(ctx context.Context, codes []string, adminUserID string) (domain.SupportedCurrencySet, error) {
	args := m.Called(ctx, codes, adminUserID)
	return args.Get(0).(domain.SupportedCurrencySet), args.Error(1)
}
func (m *MockCurrencyAdmin) SetUserCurrency(ctx context.Context, userID, code, adminUserID string) (*domain.UserCurrencyPreference, error) {
	args := m.Called(ctx, userID, code, adminUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserCurrencyPreference), args.Error(1)
}
func (m *MockCurrencyAdmin) ListCurrencyConfigs() []domain.CurrencyConfig {
	return m.Called().Get(0).([]domain.CurrencyConfig)
}

var _ portssvc.CurrencyAdminSvc = (*MockCurrencyAdmin)(nil)

// --- Mock exchange rates ---
type MockExchangeRates struct {
	mock.Mock
}

func (m *MockExchangeRates) LoadRates(ctx context.Context, forceRefresh bool) domain.RateLoadResult {
	return m.Called(ctx, forceRefresh).Get(0).(domain.RateLoadResult)
}
func (m *MockExchangeRates) Table() domain.ExchangeRateTable {
	return m.Called().Get(0).(domain.ExchangeRateTable)
}
func (m *MockExchangeRates) LastError() string {
	return m.Called().String(0)
}

var _ portssvc.ExchangeRateSvc = (*MockExchangeRates)(nil)

// --- Mock billing services ---
type MockActivations struct {
	mock.Mock
}

func (m *MockActivations) Start(userID string, req domain.ActivationRequest) domain.ActivationAttempt {
	return m.Called(userID, req).Get(0).(domain.ActivationAttempt)
}
func (m *MockActivations) Get(attemptID, userID string) (domain.ActivationAttempt, error) {
	args := m.Called(attemptID, userID)
	return args.Get(0).(domain.ActivationAttempt), args.Error(1)
}
func (m *MockActivations) Retry(attemptID, userID string) (domain.ActivationAttempt, error) {
	args := m.Called(attemptID, userID)
	return args.Get(0).(domain.ActivationAttempt), args.Error(1)
}

var _ portssvc.ActivationTrackerSvc = (*MockActivations)(nil)

type MockSubscriptions struct {
	mock.Mock
}

func (m *MockSubscriptions) GetSubscription(ctx context.Context, userID string) (*domain.SubscriptionRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SubscriptionRecord), args.Error(1)
}
func (m *MockSubscriptions) Activate(ctx context.Context, in domain.ActivateSubscription) (*domain.SubscriptionRecord, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SubscriptionRecord), args.Error(1)
}

var _ portssvc.SubscriptionSvc = (*MockSubscriptions)(nil)

type MockCheckout struct {
	mock.Mock
}

func (m *MockCheckout) StartCheckout(ctx context.Context, userID, plan string) (*domain.CheckoutSession, error) {
	args := m.Called(ctx, userID, plan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CheckoutSession), args.Error(1)
}

var _ portssvc.CheckoutSvc = (*MockCheckout)(nil)

type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) VerifyPayment(ctx context.Context, req domain.VerifyPaymentRequest) (domain.VerifyPaymentResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.VerifyPaymentResult), args.Error(1)
}

var _ portssvc.PaymentVerifierSvc = (*MockVerifier)(nil)

type MockWebhooks struct {
	mock.Mock
}

func (m *MockWebhooks) HandleDelivery(ctx context.Context, payload []byte, signature string) error {
	return m.Called(ctx, payload, signature).Error(0)
}

var _ portssvc.PaymentWebhookSvc = (*MockWebhooks)(nil)

type MockNotifications struct {
	mock.Mock
}

func (m *MockNotifications) Notify(ctx context.Context, userID string, level domain.NotificationLevel, message string) {
	m.Called(ctx, userID, level, message)
}
func (m *MockNotifications) ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]domain.Notification, error) {
	args := m.Called(ctx, userID, unreadOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}
func (m *MockNotifications) MarkRead(ctx context.Context, userID, notificationID string) error {
	return m.Called(ctx, userID, notificationID).Error(0)
}

var _ portssvc.NotificationSvc = (*MockNotifications)(nil)
