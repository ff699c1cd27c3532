package analytics

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/amirasaad/findash/pkg/domain"
)

const (
	DefaultExpectedReturn = 0.07
	DefaultVolatility     = 0.15
	DefaultPeriods        = 120
	DefaultSimulations    = 500

	MaxPeriods     = 600
	MaxSimulations = 10000

	monthsPerYear = 12.0
)

var (
	ErrInvalidPeriods     = fmt.Errorf("%w: periods must be between 1 and %d", domain.ErrValidation, MaxPeriods)
	ErrInvalidSimulations = fmt.Errorf("%w: simulations must be between 1 and %d", domain.ErrValidation, MaxSimulations)
	ErrInvalidVolatility  = fmt.Errorf("%w: volatility must not be negative", domain.ErrValidation)
)

// SimulationParams are resolved Monte Carlo inputs.
type SimulationParams struct {
	InitialValue   float64
	ExpectedReturn float64
	Volatility     float64
	Periods        int
	Simulations    int
}

func (p SimulationParams) Validate() error {
	if p.Periods < 1 || p.Periods > MaxPeriods {
		return ErrInvalidPeriods
	}
	if p.Simulations < 1 || p.Simulations > MaxSimulations {
		return ErrInvalidSimulations
	}
	if p.Volatility < 0 || math.IsNaN(p.Volatility) {
		return ErrInvalidVolatility
	}
	return nil
}

// Band holds the per-period percentiles of all simulated paths. Each slice
// has Periods+1 entries; index 0 is the initial value.
type Band struct {
	Median []float64
	P10    []float64
	P90    []float64
}

// Simulate runs monthly geometric Brownian motion paths.
func Simulate(rng *rand.Rand, p SimulationParams) Band {
	dt := 1.0 / monthsPerYear
	drift := (p.ExpectedReturn - 0.5*p.Volatility*p.Volatility) * dt
	shock := p.Volatility * math.Sqrt(dt)

	// paths[t][i] is the value of path i after t periods.
	paths := make([][]float64, p.Periods+1)
	for t := range paths {
		paths[t] = make([]float64, p.Simulations)
	}
	for i := 0; i < p.Simulations; i++ {
		value := p.InitialValue
		paths[0][i] = value
		for t := 1; t <= p.Periods; t++ {
			value *= math.Exp(drift + shock*rng.NormFloat64())
			paths[t][i] = value
		}
	}

	n := p.Simulations
	medianIdx := n / 2
	p10Idx := max(0, int(0.10*float64(n-1)))
	p90Idx := int(0.90 * float64(n-1))

	band := Band{
		Median: make([]float64, p.Periods+1),
		P10:    make([]float64, p.Periods+1),
		P90:    make([]float64, p.Periods+1),
	}
	for t, column := range paths {
		sort.Float64s(column)
		band.Median[t] = column[medianIdx]
		band.P10[t] = column[p10Idx]
		band.P90[t] = column[p90Idx]
	}
	return band
}
