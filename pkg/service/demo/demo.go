// Package demo creates a sample user with a few months of activity.
package demo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/amirasaad/findash/pkg/domain/transaction"
	"github.com/amirasaad/findash/pkg/domain/user"
	"github.com/amirasaad/findash/pkg/dto"
	"github.com/amirasaad/findash/pkg/repository"
	txsvc "github.com/amirasaad/findash/pkg/service/transaction"
	"github.com/shopspring/decimal"
)

const (
	months       = 6
	salaryDay    = 5
	rentDay      = 10
	maxNameTries = 5
)

var (
	salary = decimal.NewFromInt(5000)
	rent   = decimal.NewFromInt(2000)
)

type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
	now    func() time.Time
	suffix func() int
}

func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		uow:    uow,
		logger: logger,
		now:    time.Now,
		suffix: func() int { return 1000 + rand.IntN(9000) },
	}
}

// Seed stores a demo user with monthly salary and rent for the last six
// months plus two trades, all in one database transaction. A collision on
// the generated email is retried with another suffix.
func (s *Service) Seed(ctx context.Context) (*dto.SeedResult, error) {
	var lastErr error
	for range maxNameTries {
		res, err := s.seedOnce(ctx, s.suffix())
		if err == nil {
			s.logger.Info("demo data seeded", "user_id", res.UserID)
			return res, nil
		}
		if !errors.Is(err, user.ErrEmailTaken) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (s *Service) seedOnce(ctx context.Context, n int) (res *dto.SeedResult, err error) {
	u, err := user.New(fmt.Sprintf("Demo %04d", n), fmt.Sprintf("demo%04d@example.com", n))
	if err != nil {
		return nil, err
	}
	today := s.now().UTC()

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		created, err := users.Create(ctx, &dto.UserCreate{Name: u.Name, Email: u.Email})
		if err != nil {
			return err
		}

		for _, p := range Plan(created.ID, today) {
			t, err := transaction.New(p)
			if err != nil {
				return err
			}
			if _, err := txsvc.Store(ctx, uow, t); err != nil {
				return err
			}
		}
		res = &dto.SeedResult{UserID: created.ID}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Plan lists the demo transactions for userID relative to today: salary on
// the 5th and rent on the 10th of the current and five previous months, then
// AAPL and MSFT purchases 120 and 90 days ago.
func Plan(userID uint, today time.Time) []transaction.Params {
	firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	plan := make([]transaction.Params, 0, months*2+2)
	for i := months - 1; i >= 0; i-- {
		month := firstOfMonth.AddDate(0, -i, 0)
		plan = append(plan,
			transaction.Params{
				UserID:   userID,
				Date:     month.AddDate(0, 0, salaryDay-1),
				Type:     transaction.TypeIncome,
				Category: "salary",
				Amount:   salary,
			},
			transaction.Params{
				UserID:   userID,
				Date:     month.AddDate(0, 0, rentDay-1),
				Type:     transaction.TypeExpense,
				Category: "rent",
				Amount:   rent,
			},
		)
	}
	plan = append(plan,
		buy(userID, day.AddDate(0, 0, -120), "AAPL", 10, 150),
		buy(userID, day.AddDate(0, 0, -90), "MSFT", 5, 400),
	)
	return plan
}

func buy(userID uint, date time.Time, symbol string, shares, price int64) transaction.Params {
	sh := decimal.NewFromInt(shares)
	pr := decimal.NewFromInt(price)
	return transaction.Params{
		UserID:       userID,
		Date:         date,
		Type:         transaction.TypeTrade,
		Category:     "buy",
		Amount:       sh.Mul(pr),
		AssetSymbol:  &symbol,
		Shares:       &sh,
		PriceAtTrade: &pr,
	}
}
