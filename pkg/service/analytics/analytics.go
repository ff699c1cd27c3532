// Package analytics derives cashflow, portfolio value, net worth, allocation
// and Monte Carlo projections from a user's transactions.
package analytics

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/amirasaad/findash/pkg/domain/user"
	"github.com/amirasaad/findash/pkg/dto"
	"github.com/amirasaad/findash/pkg/provider"
	"github.com/amirasaad/findash/pkg/repository"
)

// PriceSource supplies closing prices for valuation.
type PriceSource interface {
	HistoryMany(ctx context.Context, symbols []string, start, end time.Time) (map[string][]provider.PricePoint, error)
	LastPrices(ctx context.Context, symbols []string, asOf time.Time) (map[string]float64, error)
	LookbackDays() int
}

type Service struct {
	uow     repository.UnitOfWork
	prices  PriceSource
	logger  *slog.Logger
	now     func() time.Time
	newRand func() *rand.Rand
}

func New(
	uow repository.UnitOfWork,
	prices PriceSource,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		uow:    uow,
		prices: prices,
		logger: logger.With("component", "analytics"),
		now:    time.Now,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
	}
}

func (s *Service) resolveAsOf(asOf time.Time) time.Time {
	if asOf.IsZero() {
		return provider.Day(s.now())
	}
	return provider.Day(asOf)
}

// transactions loads every transaction of an existing user.
func (s *Service) transactions(ctx context.Context, userID uint) (txs []*dto.TransactionRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		ok, err := users.Exists(ctx, userID)
		if err != nil {
			return err
		}
		if !ok {
			return user.ErrUserNotFound
		}
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		txs, err = repo.ListByUser(ctx, userID)
		return err
	})
	return
}

// holdings returns the cash balance and open positions of a user.
func (s *Service) holdings(ctx context.Context, userID uint) (*holdings, error) {
	txs, err := s.transactions(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &holdings{pos: HeldPositions(txs), cash: CashBalance(txs)}, nil
}

// Cashflow returns monthly income, expense and net, oldest first.
func (s *Service) Cashflow(ctx context.Context, userID uint) ([]dto.CashflowPoint, error) {
	txs, err := s.transactions(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Cashflow(txs), nil
}

// PortfolioValue returns the daily value of cash and positions over the
// lookback window ending at asOf. A zero asOf means today. Without positions
// the series is the single point {asOf, cash}.
func (s *Service) PortfolioValue(
	ctx context.Context,
	userID uint,
	asOf time.Time,
) ([]dto.PortfolioValuePoint, error) {
	asOf = s.resolveAsOf(asOf)
	h, err := s.holdings(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(h.pos) == 0 {
		return []dto.PortfolioValuePoint{{
			Date:  asOf.Format(time.DateOnly),
			Value: h.cash.InexactFloat64(),
		}}, nil
	}

	start := asOf.AddDate(0, 0, -s.prices.LookbackDays())
	history, err := s.prices.HistoryMany(ctx, h.pos.Symbols(), start, asOf)
	if err != nil {
		return nil, err
	}
	return ValueSeries(h.cash, h.pos, history, start, asOf), nil
}

// NetWorth is PortfolioValue with the value renamed to net_worth.
func (s *Service) NetWorth(
	ctx context.Context,
	userID uint,
	asOf time.Time,
) ([]dto.NetWorthPoint, error) {
	pv, err := s.PortfolioValue(ctx, userID, asOf)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NetWorthPoint, len(pv))
	for i, p := range pv {
		out[i] = dto.NetWorthPoint{Date: p.Date, NetWorth: p.Value}
	}
	return out, nil
}

// Allocation splits the value at asOf between cash and each position.
func (s *Service) Allocation(
	ctx context.Context,
	userID uint,
	asOf time.Time,
) ([]dto.AllocationSlice, error) {
	asOf = s.resolveAsOf(asOf)
	h, err := s.holdings(ctx, userID)
	if err != nil {
		return nil, err
	}
	prices := map[string]float64{}
	if len(h.pos) > 0 {
		if prices, err = s.prices.LastPrices(ctx, h.pos.Symbols(), asOf); err != nil {
			return nil, err
		}
	}
	return Allocation(h.cash, h.pos, prices), nil
}

// MonteCarlo projects the user's wealth forward. Without an explicit initial
// value the simulation starts from today's market value.
func (s *Service) MonteCarlo(
	ctx context.Context,
	params dto.MonteCarloParams,
) (*dto.MonteCarloResult, error) {
	sp := SimulationParams{
		ExpectedReturn: DefaultExpectedReturn,
		Volatility:     DefaultVolatility,
		Periods:        DefaultPeriods,
		Simulations:    DefaultSimulations,
	}
	if params.ExpectedReturn != nil {
		sp.ExpectedReturn = *params.ExpectedReturn
	}
	if params.Volatility != nil {
		sp.Volatility = *params.Volatility
	}
	if params.Periods != 0 {
		sp.Periods = params.Periods
	}
	if params.Simulations != 0 {
		sp.Simulations = params.Simulations
	}
	if err := sp.Validate(); err != nil {
		return nil, err
	}

	h, err := s.holdings(ctx, params.UserID)
	if err != nil {
		return nil, err
	}
	if params.InitialValue != nil {
		sp.InitialValue = *params.InitialValue
	} else {
		prices := map[string]float64{}
		if len(h.pos) > 0 {
			if prices, err = s.prices.LastPrices(ctx, h.pos.Symbols(), s.resolveAsOf(time.Time{})); err != nil {
				return nil, err
			}
		}
		sp.InitialValue = MarketValue(h.cash, h.pos, prices).InexactFloat64()
	}

	s.logger.Debug("running monte carlo",
		"user_id", params.UserID,
		"periods", sp.Periods,
		"simulations", sp.Simulations,
	)
	band := Simulate(s.newRand(), sp)
	return &dto.MonteCarloResult{Median: band.Median, P10: band.P10, P90: band.P90}, nil
}
