package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/smb_suite/internal/apperrors"
	"github.com/SscSPs/smb_suite/internal/core/domain"
	"github.com/SscSPs/smb_suite/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionService_PaidPlanExpiresAfterOneCalendarMonth(t *testing.T) {
	clock := newFakeClock() // 31 January
	repo := &memorySubscriptionRepo{rows: map[string]domain.SubscriptionRecord{}}
	svc := services.NewSubscriptionService(repo, clock, nil)

	sub, err := svc.Activate(context.Background(), domain.ActivateSubscription{UserID: "u1", Plan: "pro", ProviderPaymentID: "pay_1", Amount: dec("15")})

	require.NoError(t, err)
	require.NotNil(t, sub.ExpiresAt)
	assert.Equal(t, clock.Now().AddDate(0, 1, 0), *sub.ExpiresAt)
	assert.True(t, sub.ExpiresAt.After(sub.StartedAt))
	assert.Equal(t, domain.BaseCurrency, sub.Currency)
	assert.Equal(t, domain.SubscriptionActive, sub.Status)
}

func TestSubscriptionService_FreePlanNeverExpires(t *testing.T) {
	repo := &memorySubscriptionRepo{rows: map[string]domain.SubscriptionRecord{}}
	svc := services.NewSubscriptionService(repo, newFakeClock(), nil)

	sub, err := svc.Activate(context.Background(), domain.ActivateSubscription{UserID: "u1", Plan: domain.PlanFree})

	require.NoError(t, err)
	assert.Nil(t, sub.ExpiresAt)
}

func TestSubscriptionService_ActivateTwiceLeavesOneRow(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	repo := &memorySubscriptionRepo{rows: map[string]domain.SubscriptionRecord{}}
	svc := services.NewSubscriptionService(repo, clock, nil)
	in := domain.ActivateSubscription{UserID: "u1", Plan: "pro", ProviderPaymentID: "pay_1", Amount: dec("15"), Currency: "EUR"}

	_, err := svc.Activate(ctx, in)
	require.NoError(t, err)
	clock.Advance(2 * time.Second)
	second, err := svc.Activate(ctx, in)
	require.NoError(t, err)

	assert.Len(t, repo.rows, 1)
	got, err := svc.GetSubscription(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionActive, got.Status)
	assert.Equal(t, "pro", got.Plan)
	assert.Equal(t, *second.ExpiresAt, *got.ExpiresAt)
}

func TestSubscriptionService_GetMissingIsNotFound(t *testing.T) {
	repo := &memorySubscriptionRepo{rows: map[string]domain.SubscriptionRecord{}}
	svc := services.NewSubscriptionService(repo, newFakeClock(), nil)

	_, err := svc.GetSubscription(context.Background(), "nobody")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSubscriptionService_ExpireDue(t *testing.T) {
	clock := newFakeClock()
	repo := new(MockSubscriptionRepository)
	svc := services.NewSubscriptionService(repo, clock, nil)
	repo.On("ExpireSubscriptions", context.Background(), clock.Now()).Return(int64(2), nil).Once()

	n, err := svc.ExpireDue(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
