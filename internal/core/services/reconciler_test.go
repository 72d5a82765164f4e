package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/smb_suite/internal/apperrors"
	"github.com/SscSPs/smb_suite/internal/core/domain"
	"github.com/SscSPs/smb_suite/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var (
	verifyPending = domain.VerifyPaymentResult{Success: false, Status: domain.VerifyStatusPending}
	verifyActive  = domain.VerifyPaymentResult{Success: true, Status: domain.VerifyStatusActive}
)

type ReconcilerTestSuite struct {
	suite.Suite
	ctx        context.Context
	subs       *MockSubscriptionSvc
	verifier   *MockPaymentVerifier
	payments   *MockPaymentRepository
	clock      *fakeClock
	reconciler *services.Reconciler
	states     []domain.ActivationState
}

func (suite *ReconcilerTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.subs = new(MockSubscriptionSvc)
	suite.verifier = new(MockPaymentVerifier)
	suite.payments = new(MockPaymentRepository)
	suite.clock = newFakeClock()
	suite.reconciler = services.NewReconciler(suite.subs, suite.verifier, suite.payments, suite.clock)
	suite.states = nil
}

func (suite *ReconcilerTestSuite) attempt(userID, plan, paymentID string) domain.ActivationAttempt {
	return domain.ActivationAttempt{
		ID:      "attempt-1",
		UserID:  userID,
		Request: domain.ActivationRequest{Plan: plan, ProviderPaymentID: paymentID},
		Retry:   domain.NewRetryState(),
	}
}

func (suite *ReconcilerTestSuite) run(a domain.ActivationAttempt) domain.ActivationAttempt {
	return suite.reconciler.Reconcile(suite.ctx, a, func(a domain.ActivationAttempt) {
		suite.states = append(suite.states, a.State)
	})
}

func (suite *ReconcilerTestSuite) TestActiveSubscriptionShortCircuits() {
	existing := &domain.SubscriptionRecord{UserID: "u1", Plan: "pro", Status: domain.SubscriptionActive}
	suite.subs.On("GetSubscription", suite.ctx, "u1").Return(existing, nil).Once()

	got := suite.run(suite.attempt("u1", "pro", "pay_1"))

	suite.Equal(domain.StateActivated, got.State)
	suite.Equal(existing, got.Subscription)
	suite.Equal(0, got.Retry.Attempt)
	suite.verifier.AssertNotCalled(suite.T(), "VerifyPayment", mock.Anything, mock.Anything)
	suite.payments.AssertNotCalled(suite.T(), "FindLatestPayment", mock.Anything, mock.Anything, mock.Anything)
	suite.subs.AssertNotCalled(suite.T(), "Activate", mock.Anything, mock.Anything)
	suite.Equal([]domain.ActivationState{domain.StateCheckingAuth, domain.StateResolving, domain.StateActivated}, suite.states)
}

func (suite *ReconcilerTestSuite) TestNoUserNeedsAuth() {
	got := suite.run(suite.attempt("", "pro", "pay_1"))

	suite.Equal(domain.StateNeedsAuth, got.State)
	suite.Equal("pro", got.Request.Plan)
	suite.True(got.State.IsRetryable())
}

func (suite *ReconcilerTestSuite) TestMissingPlanFailsImmediately() {
	got := suite.run(suite.attempt("u1", "", "pay_1"))

	suite.Equal(domain.StateFailed, got.State)
	suite.Equal(0, got.Retry.Attempt)
	suite.Empty(suite.clock.Sleeps())
	suite.subs.AssertNotCalled(suite.T(), "GetSubscription", mock.Anything, mock.Anything)
}

func (suite *ReconcilerTestSuite) TestPendingFourTimesThenActive() {
	req := domain.VerifyPaymentRequest{ProviderPaymentID: "pay_1", UserID: "u1", Plan: "pro"}
	activated := &domain.SubscriptionRecord{UserID: "u1", Plan: "pro", Status: domain.SubscriptionActive}
	suite.subs.On("GetSubscription", suite.ctx, "u1").Return(nil, apperrors.ErrNotFound).Once()
	suite.verifier.On("VerifyPayment", suite.ctx, req).Return(verifyPending, nil).Times(4)
	suite.verifier.On("VerifyPayment", suite.ctx, req).Return(verifyActive, nil).Once()
	suite.subs.On("GetSubscription", suite.ctx, "u1").Return(activated, nil).Once()

	got := suite.run(suite.attempt("u1", "pro", "pay_1"))

	suite.Equal(domain.StateActivated, got.State)
	suite.Equal(4, got.Retry.Attempt)
	suite.Equal(activated, got.Subscription)
	suite.verifier.AssertNumberOfCalls(suite.T(), "VerifyPayment", 5)
	suite.Equal([]time.Duration{3 * time.Second, 3 * time.Second, 3 * time.Second, 3 * time.Second}, suite.clock.Sleeps())
	suite.subs.AssertNotCalled(suite.T(), "Activate", mock.Anything, mock.Anything)
	suite.payments.AssertNotCalled(suite.T(), "FindLatestPayment", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconcilerTestSuite) TestPendingSixTimesFailsThenManualRetrySucceeds() {
	req := domain.VerifyPaymentRequest{ProviderPaymentID: "pay_1", UserID: "u1", Plan: "pro"}
	pending := &domain.PaymentRecord{UserID: "u1", Plan: "pro", ProviderPaymentID: "pay_1", Status: domain.PaymentPending}
	suite.subs.On("GetSubscription", suite.ctx, "u1").Return(nil, apperrors.ErrNotFound).Twice()
	suite.verifier.On("VerifyPayment", suite.ctx, req).Return(verifyPending, nil).Times(6)
	suite.payments.On("FindLatestPayment", suite.ctx, "u1", "pro").Return(pending, nil).Once()

	got := suite.run(suite.attempt("u1", "pro", "pay_1"))

	suite.Equal(domain.StateFailed, got.State)
	suite.Equal(domain.ObservedProcessing, got.Observed)
	suite.Equal(5, got.Retry.Attempt)
	suite.NotEmpty(got.Message)
	suite.Len(suite.clock.Sleeps(), 5)
	suite.verifier.AssertNumberOfCalls(suite.T(), "VerifyPayment", 6)
	suite.True(got.State.IsRetryable())

	// manual retry resets the counter; the provider has since confirmed the payment
	suite.verifier.On("VerifyPayment", suite.ctx, req).Return(verifyActive, nil).Once()
	suite.subs.On("GetSubscription", suite.ctx, "u1").Return(&domain.SubscriptionRecord{UserID: "u1", Plan: "pro", Status: domain.SubscriptionActive}, nil).Once()
	got.Retry = domain.NewRetryState()

	again := suite.run(got)

	suite.Equal(domain.StateActivated, again.State)
	suite.Equal(0, again.Retry.Attempt)
}

func (suite *ReconcilerTestSuite) TestUnknownPaymentIDUsesFallback() {
	payment := &domain.PaymentRecord{UserID: "u1", Plan: "pro", ProviderPaymentID: "pay_9", Status: domain.PaymentSuccess, Amount: dec("9.99"), Currency: "XOF"}
	activated := &domain.SubscriptionRecord{UserID: "u1", Plan: "pro", Status: domain.SubscriptionActive, Currency: "XOF"}
	suite.subs.On("GetSubscription", suite.ctx, "u1").Return(nil, apperrors.ErrNotFound).Once()
	suite.payments.On("FindLatestPayment", suite.ctx, "u1", "pro").Return(payment, nil).Once()
	suite.subs.On("Activate", suite.ctx, domain.ActivateSubscription{
		UserID: "u1", Plan: "pro", ProviderPaymentID: "pay_9", Amount: payment.Amount, Currency: "XOF",
	}).Return(activated, nil).Once()

	got := suite.run(suite.attempt("u1", "pro", domain.UnknownPaymentID))

	suite.Equal(domain.StateActivated, got.State)
	suite.Equal(activated, got.Subscription)
	suite.verifier.AssertNotCalled(suite.T(), "VerifyPayment", mock.Anything, mock.Anything)
	suite.subs.AssertExpectations(suite.T())
}

func (suite *ReconcilerTestSuite) TestVerifierErrorsAreRetriedLikePending() {
	req := domain.VerifyPaymentRequest{ProviderPaymentID: "pay_1", UserID: "u1", Plan: "pro"}
	suite.subs.On("GetSubscription", suite.ctx, "u1").Return(nil, apperrors.ErrNotFound).Once()
	suite.verifier.On("VerifyPayment", suite.ctx, req).Return(domain.VerifyPaymentResult{}, errors.New("connection reset")).Twice()
	suite.verifier.On("VerifyPayment", suite.ctx, req).Return(verifyActive, nil).Once()
	suite.subs.On("GetSubscription", suite.ctx, "u1").Return(nil, apperrors.ErrNotFound).Once()

	got := suite.run(suite.attempt("u1", "pro", "pay_1"))

	suite.Equal(domain.StateActivated, got.State)
	suite.Equal(2, got.Retry.Attempt)
}

func (suite *ReconcilerTestSuite) TestMissingPaymentRowExhaustsRetries() {
	suite.subs.On("GetSubscription", suite.ctx, "u1").Return(nil, apperrors.ErrNotFound).Once()
	suite.payments.On("FindLatestPayment", suite.ctx, "u1", "pro").Return(nil, apperrors.ErrNotFound).Times(6)

	got := suite.run(suite.attempt("u1", "pro", domain.UnknownPaymentID))

	suite.Equal(domain.StateFailed, got.State)
	suite.Equal(domain.ObservedNotFound, got.Observed)
	suite.Equal(5, got.Retry.Attempt)
}

func (suite *ReconcilerTestSuite) TestDeclinedPaymentFailsWithoutRetry() {
	req := domain.VerifyPaymentRequest{ProviderPaymentID: "pay_1", UserID: "u1", Plan: "pro"}
	suite.subs.On("GetSubscription", suite.ctx, "u1").Return(nil, apperrors.ErrNotFound).Once()
	suite.verifier.On("VerifyPayment", suite.ctx, req).Return(domain.VerifyPaymentResult{Status: domain.VerifyStatusFailed}, nil).Once()
	suite.payments.On("FindLatestPayment", suite.ctx, "u1", "pro").Return(&domain.PaymentRecord{Status: domain.PaymentFailed}, nil).Once()

	got := suite.run(suite.attempt("u1", "pro", "pay_1"))

	suite.Equal(domain.StateFailed, got.State)
	suite.Equal(domain.ObservedDeclined, got.Observed)
	suite.Empty(suite.clock.Sleeps())
}

func (suite *ReconcilerTestSuite) TestActivationWriteFailureIsRecoverable() {
	suite.subs.On("GetSubscription", suite.ctx, "u1").Return(nil, apperrors.ErrNotFound).Once()
	suite.payments.On("FindLatestPayment", suite.ctx, "u1", "pro").Return(&domain.PaymentRecord{Status: domain.PaymentSuccess, ProviderPaymentID: "pay_1"}, nil).Once()
	suite.subs.On("Activate", suite.ctx, mock.Anything).Return(nil, errors.New("write failed")).Once()

	got := suite.run(suite.attempt("u1", "pro", domain.UnknownPaymentID))

	suite.Equal(domain.StateFailed, got.State)
	suite.True(got.State.IsRetryable())
}

func (suite *ReconcilerTestSuite) TestCancelledWhilePendingAwaitsConfirmation() {
	ctx, cancel := context.WithCancel(context.Background())
	suite.clock.block = true
	req := domain.VerifyPaymentRequest{ProviderPaymentID: "pay_1", UserID: "u1", Plan: "pro"}
	suite.subs.On("GetSubscription", ctx, "u1").Return(nil, apperrors.ErrNotFound).Once()
	suite.verifier.On("VerifyPayment", ctx, req).Run(func(mock.Arguments) { cancel() }).Return(verifyPending, nil).Once()

	got := suite.reconciler.Reconcile(ctx, suite.attempt("u1", "pro", "pay_1"), nil)

	suite.Equal(domain.StateAwaitingConfirmation, got.State)
	suite.Equal(1, got.Retry.Attempt)
	suite.True(got.State.IsRetryable())
}

func TestReconcilerTestSuite(t *testing.T) {
	suite.Run(t, new(ReconcilerTestSuite))
}

// memorySubscriptionRepo keeps one row per user, like the upsert in the database.
type memorySubscriptionRepo struct {
	rows    map[string]domain.SubscriptionRecord
	upserts int
}

func (r *memorySubscriptionRepo) FindSubscriptionByUserID(_ context.Context, userID string) (*domain.SubscriptionRecord, error) {
	row, ok := r.rows[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &row, nil
}

func (r *memorySubscriptionRepo) UpsertSubscription(_ context.Context, sub domain.SubscriptionRecord) error {
	r.rows[sub.UserID] = sub
	r.upserts++
	return nil
}

func (r *memorySubscriptionRepo) ExpireSubscriptions(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func TestReconcilerWithInProcessVerifier_SingleUpsert(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	repo := &memorySubscriptionRepo{rows: map[string]domain.SubscriptionRecord{}}
	subscriptions := services.NewSubscriptionService(repo, clock, nil)
	provider := new(MockPaymentProvider)
	payments := new(MockPaymentRepository)
	verifier := services.NewPaymentVerificationService(provider, payments, subscriptions)
	reconciler := services.NewReconciler(subscriptions, verifier, payments, clock)

	stored := &domain.PaymentRecord{UserID: "u1", Plan: "pro", ProviderPaymentID: "pay_1", Status: domain.PaymentPending, Amount: dec("15"), Currency: "EUR"}
	payments.On("FindPaymentByProviderID", ctx, "pay_1").Return(stored, nil)
	provider.On("GetPayment", ctx, "pay_1").Return(&domain.ProviderPayment{ProviderPaymentID: "pay_1", Status: domain.PaymentPending}, nil).Times(4)
	provider.On("GetPayment", ctx, "pay_1").Return(&domain.ProviderPayment{ProviderPaymentID: "pay_1", Status: domain.PaymentSuccess}, nil).Once()
	payments.On("MarkPaymentStatus", ctx, "pay_1", domain.PaymentSuccess).Return(true, nil).Once()

	got := reconciler.Reconcile(ctx, domain.ActivationAttempt{
		ID: "a", UserID: "u1", Request: domain.ActivationRequest{Plan: "pro", ProviderPaymentID: "pay_1"}, Retry: domain.NewRetryState(),
	}, nil)

	require.Equal(t, domain.StateActivated, got.State)
	require.Equal(t, 1, repo.upserts)
	require.Len(t, repo.rows, 1)
	row := repo.rows["u1"]
	assert.Equal(t, domain.SubscriptionActive, row.Status)
	assert.Equal(t, "pro", row.Plan)
	require.NotNil(t, row.ExpiresAt)
	assert.True(t, row.ExpiresAt.Equal(domain.BillingPeriodEnd(row.StartedAt)))
	provider.AssertNumberOfCalls(t, "GetPayment", 5)
}
