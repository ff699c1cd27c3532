package market

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	infracache "github.com/amirasaad/findash/infra/cache"
	"github.com/amirasaad/findash/pkg/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	name   string
	points map[string][]provider.PricePoint
	err    error
	delay  time.Duration
	calls  atomic.Int32
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) History(ctx context.Context, symbol string, start, end time.Time) ([]provider.PricePoint, error) {
	p.calls.Add(1)
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	return p.points[symbol], nil
}

func day(m time.Month, d int) time.Time {
	return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC)
}

func series(start time.Time, closes ...float64) []provider.PricePoint {
	out := make([]provider.PricePoint, len(closes))
	for i, c := range closes {
		out[i] = provider.PricePoint{Date: start.AddDate(0, 0, i), Close: c}
	}
	return out
}

func TestHistory_FiltersToRange(t *testing.T) {
	primary := &stubProvider{name: "stub", points: map[string][]provider.PricePoint{
		"AAPL": series(day(1, 1), 1, 2, 3, 4, 5),
	}}
	svc := New(primary, nil, nil, Options{}, nil)

	got, err := svc.History(context.Background(), "aapl", day(1, 2), day(1, 4))
	require.NoError(t, err)
	assert.Equal(t, series(day(1, 2), 2, 3, 4), got)
}

func TestHistory_FallsBackWhenProviderFails(t *testing.T) {
	primary := &stubProvider{name: "stub", err: errors.New("offline")}
	fallback := &stubProvider{name: "sim", points: map[string][]provider.PricePoint{
		"AAPL": series(day(1, 1), 100),
	}}
	svc := New(primary, fallback, nil, Options{}, nil)

	got, err := svc.History(context.Background(), "AAPL", day(1, 1), day(1, 1))
	require.NoError(t, err)
	assert.Equal(t, 100.0, got[0].Close)
	assert.EqualValues(t, 1, fallback.calls.Load())
}

func TestHistory_FallsBackWhenNothingInRange(t *testing.T) {
	primary := &stubProvider{name: "stub", points: map[string][]provider.PricePoint{
		"AAPL": series(day(1, 1), 1, 2),
	}}
	fallback := &stubProvider{name: "sim", points: map[string][]provider.PricePoint{
		"AAPL": series(day(6, 1), 100),
	}}
	svc := New(primary, fallback, nil, Options{}, nil)

	got, err := svc.History(context.Background(), "AAPL", day(6, 1), day(6, 1))
	require.NoError(t, err)
	assert.Equal(t, 100.0, got[0].Close)
}

func TestHistory_NoFallbackReturnsError(t *testing.T) {
	primary := &stubProvider{name: "stub"}
	svc := New(primary, nil, nil, Options{}, nil)

	_, err := svc.History(context.Background(), "AAPL", day(1, 1), day(1, 2))
	assert.ErrorIs(t, err, provider.ErrNoData)
}

func TestHistory_UsesCache(t *testing.T) {
	primary := &stubProvider{name: "stub", points: map[string][]provider.PricePoint{
		"AAPL": series(day(1, 1), 1, 2),
	}}
	mem := infracache.NewMemoryCache()
	defer mem.Close() //nolint:errcheck
	svc := New(primary, nil, mem, Options{CacheTTL: time.Minute}, nil)

	for i := 0; i < 3; i++ {
		_, err := svc.History(context.Background(), "AAPL", day(1, 1), day(1, 2))
		require.NoError(t, err)
	}
	assert.EqualValues(t, 1, primary.calls.Load())
}

// ttlCache records the TTL each key was stored with.
type ttlCache struct {
	*infracache.MemoryCache
	mu   sync.Mutex
	ttls map[string]time.Duration
}

func (c *ttlCache) Set(ctx context.Context, key string, points []provider.PricePoint, ttl time.Duration) error {
	c.mu.Lock()
	c.ttls[key] = ttl
	c.mu.Unlock()
	return c.MemoryCache.Set(ctx, key, points, ttl)
}

func TestHistory_SimulatedSeriesCachedBriefly(t *testing.T) {
	ctx := context.Background()
	primary := &stubProvider{name: "stub", err: errors.New("offline"), points: map[string][]provider.PricePoint{
		"AAPL": series(day(1, 1), 180, 181),
	}}
	fallback := &stubProvider{name: "sim", points: map[string][]provider.PricePoint{
		"AAPL": series(day(1, 1), 100, 101),
	}}
	mem := infracache.NewMemoryCache()
	defer mem.Close() //nolint:errcheck
	c := &ttlCache{MemoryCache: mem, ttls: map[string]time.Duration{}}
	svc := New(primary, fallback, c, Options{CacheTTL: time.Hour, FallbackTTL: 2 * time.Minute}, nil)
	key := cacheKey("AAPL", day(1, 1), day(1, 2))

	points, err := svc.History(ctx, "AAPL", day(1, 1), day(1, 2))
	require.NoError(t, err)
	assert.Equal(t, 100.0, points[0].Close)
	assert.Equal(t, 2*time.Minute, c.ttls[key])

	// Once the short-lived entry is gone the provider is asked again.
	primary.err = nil
	require.NoError(t, c.Delete(ctx, key))
	points, err = svc.History(ctx, "AAPL", day(1, 1), day(1, 2))
	require.NoError(t, err)
	assert.Equal(t, 180.0, points[0].Close)
	assert.Equal(t, time.Hour, c.ttls[key])
	assert.EqualValues(t, 2, primary.calls.Load())
	assert.EqualValues(t, 1, fallback.calls.Load())
}

func TestNew_FallbackTTLDefaults(t *testing.T) {
	svc := New(&stubProvider{}, nil, nil, Options{}, nil)
	assert.Equal(t, DefaultFallbackTTL, svc.fallbackTTL)

	svc = New(&stubProvider{}, nil, nil, Options{CacheTTL: time.Minute, FallbackTTL: time.Hour}, nil)
	assert.Equal(t, time.Minute, svc.fallbackTTL)
}

func TestHistory_ConcurrentCallsShareFetch(t *testing.T) {
	primary := &stubProvider{
		name:  "stub",
		delay: 50 * time.Millisecond,
		points: map[string][]provider.PricePoint{
			"AAPL": series(day(1, 1), 1, 2),
		},
	}
	svc := New(primary, nil, nil, Options{}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := svc.History(context.Background(), "AAPL", day(1, 1), day(1, 2))
			assert.NoError(t, err)
			assert.Len(t, got, 2)
		}()
	}
	wg.Wait()
	assert.Less(t, primary.calls.Load(), int32(8))
}

func TestLastPrices(t *testing.T) {
	primary := &stubProvider{name: "stub", points: map[string][]provider.PricePoint{
		"AAPL": series(day(3, 1), 10, 11, 12),
		"MSFT": series(day(3, 1), 400),
	}}
	svc := New(primary, nil, nil, Options{}, nil)

	got, err := svc.LastPrices(context.Background(), []string{"AAPL", "MSFT"}, day(3, 2))
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"AAPL": 11, "MSFT": 400}, got)
}

func TestHistoryMany_PropagatesError(t *testing.T) {
	primary := &stubProvider{name: "stub", err: errors.New("offline")}
	svc := New(primary, nil, nil, Options{}, nil)

	_, err := svc.HistoryMany(context.Background(), []string{"AAPL", "MSFT"}, day(1, 1), day(1, 2))
	assert.Error(t, err)
}

func TestWarm(t *testing.T) {
	primary := &stubProvider{name: "stub", err: errors.New("offline")}
	fallback := &stubProvider{name: "sim", points: map[string][]provider.PricePoint{
		"AAPL": series(day(1, 1), 100),
	}}
	mem := infracache.NewMemoryCache()
	defer mem.Close() //nolint:errcheck
	svc := New(primary, fallback, mem, Options{Lookback: 10 * 24 * time.Hour}, nil)
	svc.now = func() time.Time { return day(1, 11).Add(13 * time.Hour) }

	require.NoError(t, svc.Warm(context.Background(), "aapl"))
	_, ok, err := mem.Get(context.Background(), cacheKey("AAPL", day(1, 1), day(1, 11)))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 10, svc.LookbackDays())
}
