// Package simulated generates synthetic daily prices with geometric Brownian
// motion. It backs valuation whenever real history is unavailable.
package simulated

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/amirasaad/findash/pkg/provider"
)

const (
	Name = "simulated"

	DefaultStartPrice = 100.0
	DefaultDrift      = 0.07
	DefaultVolatility = 0.2

	tradingDaysPerYear = 252.0
)

// Provider implements provider.PriceHistory. It is safe for concurrent use.
type Provider struct {
	StartPrice float64
	Drift      float64
	Volatility float64

	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Provider with the default parameters and a random seed.
func New() *Provider {
	return NewWithRand(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}

// NewWithRand returns a Provider drawing shocks from rng.
func NewWithRand(rng *rand.Rand) *Provider {
	return &Provider{
		StartPrice: DefaultStartPrice,
		Drift:      DefaultDrift,
		Volatility: DefaultVolatility,
		rng:        rng,
	}
}

func (p *Provider) Name() string { return Name }

// History returns one point per calendar day from start to end inclusive.
// The first point is StartPrice; an empty range yields no points.
func (p *Provider) History(
	ctx context.Context,
	_ string,
	start, end time.Time,
) ([]provider.PricePoint, error) {
	start, end = provider.Day(start), provider.Day(end)
	if end.Before(start) {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dt := 1.0 / tradingDaysPerYear
	drift := (p.Drift - 0.5*p.Volatility*p.Volatility) * dt
	shock := p.Volatility * math.Sqrt(dt)

	days := int(end.Sub(start).Hours()/24) + 1
	points := make([]provider.PricePoint, 0, days)
	price := p.StartPrice

	p.mu.Lock()
	defer p.mu.Unlock()
	for i := 0; i < days; i++ {
		if i > 0 {
			price *= math.Exp(drift + shock*p.rng.NormFloat64())
		}
		points = append(points, provider.PricePoint{
			Date:  start.AddDate(0, 0, i),
			Close: price,
		})
	}
	return points, nil
}

var _ provider.PriceHistory = (*Provider)(nil)
