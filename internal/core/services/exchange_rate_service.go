package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/SscSPs/smb_suite/internal/apperrors"
	"github.com/SscSPs/smb_suite/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_suite/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/smb_suite/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// ExchangeRateService owns the process-wide rate table. Readers always see a whole
// table: refreshes swap the pointer, they never mutate the table in place.
type ExchangeRateService struct {
	BaseService
	fetcher portssvc.RateFetcher
	cache   portsrepo.RateCache
	clock   portssvc.Clock

	table atomic.Pointer[domain.ExchangeRateTable]
	group singleflight.Group

	errMu   sync.RWMutex
	lastErr string
}

// NewExchangeRateService seeds the in-memory table with the degraded-mode fallback rates.
// The seeded table has no fetch time, so the first load always goes to cache or remote.
func NewExchangeRateService(fetcher portssvc.RateFetcher, cache portsrepo.RateCache, clock portssvc.Clock, fallbackRates map[string]decimal.Decimal) *ExchangeRateService {
	s := &ExchangeRateService{fetcher: fetcher, cache: cache, clock: clock}
	seed := domain.NewExchangeRateTable(fallbackRates, time.Time{})
	s.table.Store(&seed)
	return s
}

// Table returns the current snapshot.
func (s *ExchangeRateService) Table() domain.ExchangeRateTable {
	return *s.table.Load()
}

// LastError returns the message of the last failed refresh, or "" after a success.
func (s *ExchangeRateService) LastError() string {
	s.errMu.RLock()
	defer s.errMu.RUnlock()
	return s.lastErr
}

func (s *ExchangeRateService) setLastError(msg string) {
	s.errMu.Lock()
	s.lastErr = msg
	s.errMu.Unlock()
}

// LoadRates refreshes the table. Concurrent callers with the same forceRefresh share a
// single load.
func (s *ExchangeRateService) LoadRates(ctx context.Context, forceRefresh bool) domain.RateLoadResult {
	key := "load"
	if forceRefresh {
		key = "force"
	}
	v, _, _ := s.group.Do(key, func() (any, error) {
		return s.loadRates(ctx, forceRefresh), nil
	})
	return v.(domain.RateLoadResult)
}

func (s *ExchangeRateService) loadRates(ctx context.Context, forceRefresh bool) domain.RateLoadResult {
	now := s.clock.Now()

	var cached *domain.ExchangeRateTable
	cacheRead := false
	if !forceRefresh {
		if current := s.Table(); current.IsFreshAt(now, domain.RateFreshnessWindow) {
			return domain.RateLoadResult{Source: domain.RateSourceCache, Table: current}
		}
		cached, cacheRead = s.cachedTable(ctx), true
		if cached != nil && cached.IsFreshAt(now, domain.RateFreshnessWindow) {
			s.table.Store(cached)
			s.setLastError("")
			s.LogDebug(ctx, "Exchange rates served from cache", slog.Time("fetched_at", cached.FetchedAt()))
			return domain.RateLoadResult{Source: domain.RateSourceCache, Table: *cached}
		}
	}

	rates, err := s.fetcher.FetchRates(ctx)
	if err != nil {
		s.setLastError(err.Error())
		if !cacheRead {
			cached = s.cachedTable(ctx)
		}
		return s.degradedResult(ctx, cached, err)
	}

	table := domain.NewExchangeRateTable(rates, now)
	s.table.Store(&table)
	s.setLastError("")

	if err := s.cache.SaveRateTable(ctx, portsrepo.ExchangeRateCacheKey, table); err != nil {
		s.LogError(ctx, err, "Failed to persist exchange rate cache")
	}
	s.LogInfo(ctx, "Exchange rates refreshed", slog.Int("currencies", len(rates)))
	return domain.RateLoadResult{Source: domain.RateSourceRemote, Table: table}
}

// degradedResult picks the table served after a failed fetch: the persisted cache, whatever
// its age, when it is newer than the in-memory table, otherwise the in-memory table.
func (s *ExchangeRateService) degradedResult(ctx context.Context, cached *domain.ExchangeRateTable, fetchErr error) domain.RateLoadResult {
	res := domain.RateLoadResult{Degraded: true, Error: fetchErr.Error()}
	current := s.Table()
	if cached != nil && cached.FetchedAt().After(current.FetchedAt()) {
		s.table.Store(cached)
		s.LogWarn(ctx, "Exchange rate fetch failed, serving stale cached rates",
			slog.String("error", fetchErr.Error()), slog.Time("fetched_at", cached.FetchedAt()))
		res.Source = domain.RateSourceCache
		res.Table = *cached
		return res
	}
	s.LogWarn(ctx, "Exchange rate fetch failed, keeping previous rates", slog.String("error", fetchErr.Error()))
	res.Source = domain.RateSourceFallback
	res.Table = current
	return res
}

// cachedTable returns the persisted table of any age, or nil when there is none or it is
// priced against another base currency.
func (s *ExchangeRateService) cachedTable(ctx context.Context) *domain.ExchangeRateTable {
	cached, err := s.cache.LoadRateTable(ctx, portsrepo.ExchangeRateCacheKey)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to read exchange rate cache")
		}
		return nil
	}
	if cached == nil || cached.BaseCurrency() != domain.BaseCurrency {
		return nil
	}
	return cached
}

// RunAutoRefresh force-refreshes the table every interval until ctx is done.
func (s *ExchangeRateService) RunAutoRefresh(ctx context.Context, interval time.Duration) {
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
			s.LoadRates(ctx, true)
		}
	}
}
