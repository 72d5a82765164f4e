package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/smb_suite/internal/apperrors"
	"github.com/SscSPs/smb_suite/internal/core/domain"
	portssvc "github.com/SscSPs/smb_suite/internal/core/ports/services"
	"github.com/google/uuid"
)

type trackedAttempt struct {
	attempt domain.ActivationAttempt
	running bool
}

// ActivationTracker runs reconciliation attempts in the background and keeps their latest
// state so the checkout return page can poll it.
type ActivationTracker struct {
	BaseService
	reconciler portssvc.ReconcilerSvc
	notifier   portssvc.Notifier
	clock      portssvc.Clock
	timeout    time.Duration

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu       sync.RWMutex
	attempts map[string]*trackedAttempt
}

// NewActivationTracker creates a tracker whose attempts are bounded by timeout; a timed out
// attempt ends as awaiting confirmation.
func NewActivationTracker(reconciler portssvc.ReconcilerSvc, notifier portssvc.Notifier, clock portssvc.Clock, timeout time.Duration) *ActivationTracker {
	ctx, cancel := context.WithCancel(context.Background())
	return &ActivationTracker{
		reconciler: reconciler,
		notifier:   notifier,
		clock:      clock,
		timeout:    timeout,
		baseCtx:    ctx,
		cancel:     cancel,
		attempts:   make(map[string]*trackedAttempt),
	}
}

// Start registers a new attempt and runs it in the background.
func (t *ActivationTracker) Start(userID string, req domain.ActivationRequest) domain.ActivationAttempt {
	attempt := domain.ActivationAttempt{
		ID:        uuid.NewString(),
		UserID:    userID,
		Request:   req,
		State:     domain.StateCheckingAuth,
		Retry:     domain.NewRetryState(),
		UpdatedAt: t.clock.Now(),
	}

	t.mu.Lock()
	t.attempts[attempt.ID] = &trackedAttempt{attempt: attempt, running: true}
	t.mu.Unlock()

	t.run(attempt)
	return attempt
}

// Get returns an attempt visible to userID. Attempts started before sign-in are visible to anyone holding the id.
func (t *ActivationTracker) Get(attemptID, userID string) (domain.ActivationAttempt, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	tracked, ok := t.attempts[attemptID]
	if !ok || (tracked.attempt.UserID != "" && tracked.attempt.UserID != userID) {
		return domain.ActivationAttempt{}, apperrors.NewNotFoundError("activation attempt not found")
	}
	return tracked.attempt, nil
}

// Retry resets the retry counter and re-runs a failed, abandoned or unauthenticated attempt.
// A signed-in caller adopts an attempt that was started before sign-in.
func (t *ActivationTracker) Retry(attemptID, userID string) (domain.ActivationAttempt, error) {
	t.mu.Lock()
	tracked, ok := t.attempts[attemptID]
	if !ok || (tracked.attempt.UserID != "" && tracked.attempt.UserID != userID) {
		t.mu.Unlock()
		return domain.ActivationAttempt{}, apperrors.NewNotFoundError("activation attempt not found")
	}
	if tracked.running {
		t.mu.Unlock()
		return domain.ActivationAttempt{}, apperrors.NewConflictError("activation attempt is still running")
	}
	if !tracked.attempt.State.IsRetryable() {
		t.mu.Unlock()
		return domain.ActivationAttempt{}, apperrors.NewConflictError(fmt.Sprintf("activation attempt is %s", tracked.attempt.State))
	}

	if tracked.attempt.UserID == "" {
		tracked.attempt.UserID = userID
	}
	tracked.attempt.Retry = domain.NewRetryState()
	tracked.attempt.Observed = domain.ObservedNone
	tracked.attempt.Message = ""
	tracked.attempt.State = domain.StateCheckingAuth
	tracked.attempt.UpdatedAt = t.clock.Now()
	tracked.running = true
	attempt := tracked.attempt
	t.mu.Unlock()

	t.run(attempt)
	return attempt, nil
}

func (t *ActivationTracker) run(attempt domain.ActivationAttempt) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		ctx, cancel := context.WithTimeout(t.baseCtx, t.timeout)
		defer cancel()

		final := t.reconciler.Reconcile(ctx, attempt, t.observe)
		t.finish(final)
	}()
}

func (t *ActivationTracker) observe(attempt domain.ActivationAttempt) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if tracked, ok := t.attempts[attempt.ID]; ok {
		tracked.attempt = attempt
	}
}

func (t *ActivationTracker) finish(attempt domain.ActivationAttempt) {
	t.mu.Lock()
	if tracked, ok := t.attempts[attempt.ID]; ok {
		tracked.attempt = attempt
		tracked.running = false
	}
	t.mu.Unlock()

	ctx := context.Background()
	t.LogInfo(ctx, "Activation attempt finished",
		slog.String("attempt_id", attempt.ID),
		slog.String("user_id", attempt.UserID),
		slog.String("state", string(attempt.State)),
		slog.Int("retries", attempt.Retry.Attempt))

	if attempt.UserID == "" {
		return
	}
	switch attempt.State {
	case domain.StateActivated:
		t.notifier.Notify(ctx, attempt.UserID, domain.NotificationSuccess,
			fmt.Sprintf("Your %s plan is now active.", attempt.Request.Plan))
	case domain.StateFailed:
		t.notifier.Notify(ctx, attempt.UserID, domain.NotificationError, attempt.Message)
	case domain.StateAwaitingConfirmation:
		t.notifier.Notify(ctx, attempt.UserID, domain.NotificationInfo, attempt.Message)
	}
}

// PruneFinished forgets finished attempts last updated before cutoff.
func (t *ActivationTracker) PruneFinished(cutoff time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for id, tracked := range t.attempts {
		if !tracked.running && tracked.attempt.UpdatedAt.Before(cutoff) {
			delete(t.attempts, id)
			n++
		}
	}
	return n
}

// Wait blocks until no attempt is running. Used by tests and shutdown.
func (t *ActivationTracker) Wait() {
	t.wg.Wait()
}

// Close abandons running attempts and waits for them to report.
func (t *ActivationTracker) Close() {
	t.cancel()
	t.wg.Wait()
}
