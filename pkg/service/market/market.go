// Package market serves daily price history for portfolio valuation.
//
// History comes from the configured provider. When the provider fails or has
// nothing inside the requested range, a simulated series is used instead so
// that valuation never stalls on an unreachable upstream. Results are cached
// per symbol and range, and concurrent requests for the same key share one
// upstream fetch. Simulated series are cached only briefly so the provider is
// retried soon after it recovers.
package market

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/amirasaad/findash/pkg/cache"
	"github.com/amirasaad/findash/pkg/provider"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultCacheTTL    = time.Hour
	DefaultFallbackTTL = 5 * time.Minute
	DefaultLookback    = 365 * 24 * time.Hour

	// maxConcurrentFetches bounds the fan-out of HistoryMany.
	maxConcurrentFetches = 4
)

type Options struct {
	CacheTTL time.Duration
	// FallbackTTL is how long a simulated series stays cached. It is capped
	// at CacheTTL.
	FallbackTTL time.Duration
	Lookback    time.Duration
}

// Service is safe for concurrent use.
type Service struct {
	primary     provider.PriceHistory
	fallback    provider.PriceHistory
	cache       cache.PriceHistoryCache
	ttl         time.Duration
	fallbackTTL time.Duration
	lookback    time.Duration
	inflight    singleflight.Group
	logger      *slog.Logger
	now         func() time.Time
}

// New builds a Service. cache may be nil to disable caching; fallback may be
// nil, in which case provider errors are returned to the caller.
func New(
	primary provider.PriceHistory,
	fallback provider.PriceHistory,
	c cache.PriceHistoryCache,
	opts Options,
	logger *slog.Logger,
) *Service {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.FallbackTTL <= 0 {
		opts.FallbackTTL = DefaultFallbackTTL
	}
	if opts.FallbackTTL > opts.CacheTTL {
		opts.FallbackTTL = opts.CacheTTL
	}
	if opts.Lookback <= 0 {
		opts.Lookback = DefaultLookback
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		primary:     primary,
		fallback:    fallback,
		cache:       c,
		ttl:         opts.CacheTTL,
		fallbackTTL: opts.FallbackTTL,
		lookback:    opts.Lookback,
		logger:      logger.With("component", "market"),
		now:         time.Now,
	}
}

// Lookback is the valuation window length.
func (s *Service) Lookback() time.Duration { return s.lookback }

// LookbackDays is Lookback expressed in whole days.
func (s *Service) LookbackDays() int {
	return int(s.lookback / (24 * time.Hour))
}

func cacheKey(symbol string, start, end time.Time) string {
	return fmt.Sprintf("%s:%s:%s", symbol, start.Format(time.DateOnly), end.Format(time.DateOnly))
}

// History returns the closes of symbol between start and end inclusive,
// sorted by date.
func (s *Service) History(
	ctx context.Context,
	symbol string,
	start, end time.Time,
) ([]provider.PricePoint, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	start, end = provider.Day(start), provider.Day(end)
	key := cacheKey(symbol, start, end)

	if s.cache != nil {
		points, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("price cache read failed", "key", key, "error", err)
		} else if ok {
			return points, nil
		}
	}

	v, err, shared := s.inflight.Do(key, func() (any, error) {
		points, simulated, err := s.fetch(ctx, symbol, start, end)
		if err != nil {
			return nil, err
		}
		ttl := s.ttl
		if simulated {
			ttl = s.fallbackTTL
		}
		if s.cache != nil {
			if err := s.cache.Set(ctx, key, points, ttl); err != nil {
				s.logger.Warn("price cache write failed", "key", key, "error", err)
			}
		}
		return points, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Debug("price fetch shared", "key", key)
	}
	points := v.([]provider.PricePoint)
	out := make([]provider.PricePoint, len(points))
	copy(out, points)
	return out, nil
}

// fetch reports simulated=true when the series came from the fallback.
func (s *Service) fetch(
	ctx context.Context,
	symbol string,
	start, end time.Time,
) (points []provider.PricePoint, simulated bool, err error) {
	points, err = s.primary.History(ctx, symbol, start, end)
	if err == nil {
		points = provider.FilterRange(points, start, end)
		sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
		if len(points) > 0 {
			return points, false, nil
		}
	}
	if s.fallback == nil {
		if err == nil {
			err = provider.ErrNoData
		}
		return nil, false, fmt.Errorf("history for %s: %w", symbol, err)
	}

	s.logger.Info("using simulated prices",
		"symbol", symbol,
		"provider", s.primary.Name(),
		"error", err,
	)
	points, err = s.fallback.History(ctx, symbol, start, end)
	if err != nil {
		return nil, false, err
	}
	return points, true, nil
}

// HistoryMany fetches several symbols concurrently. The first error cancels
// the remaining fetches.
func (s *Service) HistoryMany(
	ctx context.Context,
	symbols []string,
	start, end time.Time,
) (map[string][]provider.PricePoint, error) {
	var mu sync.Mutex
	result := make(map[string][]provider.PricePoint, len(symbols))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for _, symbol := range symbols {
		g.Go(func() error {
			points, err := s.History(ctx, symbol, start, end)
			if err != nil {
				return err
			}
			mu.Lock()
			result[symbol] = points
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// LastPrices returns the latest close of each symbol within the lookback
// window ending at asOf. Symbols without history map to 0.
func (s *Service) LastPrices(
	ctx context.Context,
	symbols []string,
	asOf time.Time,
) (map[string]float64, error) {
	asOf = provider.Day(asOf)
	start := asOf.AddDate(0, 0, -s.LookbackDays())
	history, err := s.HistoryMany(ctx, symbols, start, asOf)
	if err != nil {
		return nil, err
	}

	last := make(map[string]float64, len(symbols))
	for _, symbol := range symbols {
		series := history[symbol]
		if len(series) == 0 {
			last[symbol] = 0
			continue
		}
		last[symbol] = series[len(series)-1].Close
	}
	return last, nil
}

// Warm loads the lookback window ending today for symbol into the cache.
func (s *Service) Warm(ctx context.Context, symbol string) error {
	end := provider.Day(s.now())
	_, err := s.History(ctx, symbol, end.AddDate(0, 0, -s.LookbackDays()), end)
	return err
}
