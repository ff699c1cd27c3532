package app

import (
	"io"
	"log/slog"

	"github.com/amirasaad/findash/pkg/config"
	"github.com/amirasaad/findash/pkg/eventbus"
	"github.com/amirasaad/findash/pkg/repository"
	"github.com/amirasaad/findash/pkg/service/analytics"
	"github.com/amirasaad/findash/pkg/service/demo"
	"github.com/amirasaad/findash/pkg/service/market"
	"github.com/amirasaad/findash/pkg/service/transaction"
	"github.com/amirasaad/findash/pkg/service/user"
)

// Deps contains the infrastructure the services are built on.
type Deps struct {
	Uow      repository.UnitOfWork
	EventBus eventbus.Bus
	Market   *market.Service
	Logger   *slog.Logger
	// Closers are released by App.Close in reverse order.
	Closers []io.Closer
}

type App struct {
	Deps               *Deps
	Config             *config.App
	UserService        *user.Service
	TransactionService *transaction.Service
	AnalyticsService   *analytics.Service
	MarketService      *market.Service
	DemoService        *demo.Service

	handlers *handlers
}

func New(deps *Deps, cfg *config.App) *App {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	app := &App{
		Deps:   deps,
		Config: cfg,
	}
	app.UserService = user.New(deps.Uow, deps.EventBus, deps.Logger)
	app.TransactionService = transaction.New(deps.Uow, deps.EventBus, deps.Logger)
	app.MarketService = deps.Market
	app.AnalyticsService = analytics.New(deps.Uow, deps.Market, deps.Logger)
	app.DemoService = demo.New(deps.Uow, deps.Logger)
	app.setupEventBus()
	return app
}

// Close waits for background event work and releases the closers.
func (a *App) Close() error {
	if a.handlers != nil && a.handlers.warmup != nil {
		a.handlers.warmup.Wait()
	}
	var first error
	for i := len(a.Deps.Closers) - 1; i >= 0; i-- {
		if err := a.Deps.Closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
