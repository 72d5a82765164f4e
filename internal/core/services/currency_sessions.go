package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/smb_suite/internal/apperrors"
	portsrepo "github.com/SscSPs/smb_suite/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/smb_suite/internal/core/ports/services"
)

// CurrencySessionRegistry hands out one started CurrencyService per user and closes
// sessions that were not used for the idle timeout.
type CurrencySessionRegistry struct {
	BaseService
	rates     portssvc.ExchangeRateSvc
	prefs     portsrepo.PreferenceRepositoryFacade
	supported portsrepo.SupportedCurrencyRepositoryFacade
	notifier  portssvc.Notifier
	events    portssvc.EventTracker
	clock     portssvc.Clock
	idle      time.Duration

	mu       sync.Mutex
	sessions map[string]*CurrencyService
}

func NewCurrencySessionRegistry(
	rates portssvc.ExchangeRateSvc,
	prefs portsrepo.PreferenceRepositoryFacade,
	supported portsrepo.SupportedCurrencyRepositoryFacade,
	notifier portssvc.Notifier,
	events portssvc.EventTracker,
	clock portssvc.Clock,
	idle time.Duration,
) *CurrencySessionRegistry {
	return &CurrencySessionRegistry{
		rates:     rates,
		prefs:     prefs,
		supported: supported,
		notifier:  notifier,
		events:    events,
		clock:     clock,
		idle:      idle,
		sessions:  make(map[string]*CurrencyService),
	}
}

// Session returns the user's session, creating and starting it on first use.
func (r *CurrencySessionRegistry) Session(ctx context.Context, userID string) (portssvc.CurrencySessionSvc, error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthorized
	}

	r.mu.Lock()
	if s, ok := r.sessions[userID]; ok {
		r.mu.Unlock()
		s.touch()
		return s, nil
	}
	r.mu.Unlock()

	// Start does I/O, so it runs outside the lock; a concurrent creator may win the race.
	created := NewCurrencyService(userID, r.rates, r.prefs, r.supported, r.notifier,
		WithCurrencyEvents(r.events), WithCurrencyClock(r.clock))
	created.Start(ctx)

	r.mu.Lock()
	if existing, ok := r.sessions[userID]; ok {
		r.mu.Unlock()
		created.Close()
		existing.touch()
		return existing, nil
	}
	r.sessions[userID] = created
	r.mu.Unlock()

	r.LogDebug(ctx, "Currency session started", slog.String("user_id", userID))
	return created, nil
}

// EvictIdle closes sessions unused since before now minus the idle timeout.
func (r *CurrencySessionRegistry) EvictIdle(now time.Time) int {
	cutoff := now.Add(-r.idle)
	var evicted []*CurrencyService

	r.mu.Lock()
	for userID, s := range r.sessions {
		if s.IdleSince().Before(cutoff) {
			evicted = append(evicted, s)
			delete(r.sessions, userID)
		}
	}
	r.mu.Unlock()

	for _, s := range evicted {
		s.Close()
	}
	return len(evicted)
}

// Len reports the number of live sessions.
func (r *CurrencySessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// RunEviction evicts idle sessions every interval until ctx is done.
func (r *CurrencySessionRegistry) RunEviction(ctx context.Context, interval time.Duration) {
	if interval <= 0 || r.idle <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.EvictIdle(r.clock.Now()); n > 0 {
				r.LogDebug(ctx, "Evicted idle currency sessions", slog.Int("count", n))
			}
		}
	}
}

// Close closes every session.
func (r *CurrencySessionRegistry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*CurrencyService)
	r.mu.Unlock()
	for _, s := range sessions {
		s.Close()
	}
}
