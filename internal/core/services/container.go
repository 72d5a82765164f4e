package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	portssvc "github.com/SscSPs/smb_suite/internal/core/ports/services"
)

// finishedAttemptRetention is how long finished activation attempts stay pollable.
const finishedAttemptRetention = time.Hour

// Container holds the services that own goroutines or per-user state and manages their
// lifecycle.
type Container struct {
	Rates         *ExchangeRateService
	Sessions      *CurrencySessionRegistry
	Activations   *ActivationTracker
	Subscriptions *SubscriptionService
	clock         portssvc.Clock

	wg sync.WaitGroup
}

// Intervals of the periodic jobs. A zero interval disables the job.
type Intervals struct {
	RateRefresh       time.Duration
	SubscriptionSweep time.Duration
	Housekeeping      time.Duration
}

// Start loads the initial rate table and launches the periodic jobs until ctx is done.
func (c *Container) Start(ctx context.Context, intervals Intervals) {
	res := c.Rates.LoadRates(ctx, false)
	slog.Info("Initial exchange rates loaded", slog.String("source", string(res.Source)), slog.Bool("degraded", res.Degraded))

	c.spawn(func() { c.Rates.RunAutoRefresh(ctx, intervals.RateRefresh) })
	c.spawn(func() { c.Subscriptions.RunExpirySweep(ctx, intervals.SubscriptionSweep) })
	c.spawn(func() { c.Sessions.RunEviction(ctx, intervals.Housekeeping) })
	c.spawn(func() { c.runAttemptPruning(ctx, intervals.Housekeeping) })
}

func (c *Container) spawn(fn func()) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		fn()
	}()
}

func (c *Container) runAttemptPruning(ctx context.Context, interval time.Duration) {
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
			c.Activations.PruneFinished(c.clock.Now().Add(-finishedAttemptRetention))
		}
	}
}

// Close waits for the periodic jobs (their context must already be cancelled), abandons
// running activation attempts and closes every currency session.
func (c *Container) Close() {
	c.wg.Wait()
	c.Activations.Close()
	c.Sessions.Close()
}
