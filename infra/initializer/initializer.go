package initializer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/amirasaad/findash/infra"
	infracache "github.com/amirasaad/findash/infra/cache"
	infra_eventbus "github.com/amirasaad/findash/infra/eventbus"
	"github.com/amirasaad/findash/infra/provider/simulated"
	"github.com/amirasaad/findash/infra/provider/stooq"
	infra_repository "github.com/amirasaad/findash/infra/repository"
	"github.com/amirasaad/findash/pkg/app"
	"github.com/amirasaad/findash/pkg/cache"
	"github.com/amirasaad/findash/pkg/config"
	"github.com/amirasaad/findash/pkg/eventbus"
	"github.com/amirasaad/findash/pkg/provider"
	"github.com/amirasaad/findash/pkg/service/market"
)

const (
	ProviderStooq     = "stooq"
	ProviderSimulated = "simulated"
)

// InitializeDependencies initializes all the application dependencies
func InitializeDependencies(cfg *config.App) (
	deps *app.Deps,
	err error,
) {
	deps = &app.Deps{}
	logger := setupLogger(cfg.Log)
	deps.Logger = logger

	// Initialize database
	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return nil, err
	}
	if sqlDB, err := db.DB(); err == nil {
		deps.Closers = append(deps.Closers, sqlDB)
	}

	// Initialize unit of work
	deps.Uow = infra_repository.NewUoW(db)

	// Initialize event bus
	bus, err := initEventBus(cfg, logger)
	if err != nil {
		return nil, err
	}
	deps.EventBus = bus
	if c, ok := bus.(io.Closer); ok {
		deps.Closers = append(deps.Closers, c)
	}

	// Initialize price cache
	priceCache := initPriceCache(cfg, logger)
	if c, ok := priceCache.(io.Closer); ok {
		deps.Closers = append(deps.Closers, c)
	}

	primary, fallback := initPriceProviders(cfg.Market, logger)
	opts := market.Options{}
	if cfg.Market != nil {
		opts.CacheTTL = cfg.Market.CacheTTL
		opts.FallbackTTL = cfg.Market.FallbackTTL
		opts.Lookback = cfg.Market.Lookback
	}
	deps.Market = market.New(primary, fallback, priceCache, opts, logger)

	return deps, nil
}

// initEventBus uses Kafka when brokers are configured and the in-memory bus
// otherwise.
func initEventBus(cfg *config.App, logger *slog.Logger) (eventbus.Bus, error) {
	if cfg.Kafka == nil || strings.TrimSpace(cfg.Kafka.Brokers) == "" {
		return infra_eventbus.NewWithMemory(logger), nil
	}
	bus, err := infra_eventbus.NewWithKafka(infra_eventbus.KafkaConfig{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka event bus: %w", err)
	}
	return bus, nil
}

// initPriceCache uses Redis when a URL is configured and reachable. Any Redis
// failure degrades to the in-process cache.
func initPriceCache(cfg *config.App, logger *slog.Logger) cache.PriceHistoryCache {
	if cfg.Redis == nil || cfg.Redis.URL == "" {
		return infracache.NewMemoryCache()
	}
	rc, err := infracache.NewRedisPriceCache(cfg.Redis.URL, cfg.Redis.KeyPrefix, logger)
	if err != nil {
		logger.Warn("Invalid Redis URL, using in-memory price cache", "error", err)
		return infracache.NewMemoryCache()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rc.Ping(ctx); err != nil {
		logger.Warn("Redis unreachable, using in-memory price cache", "error", err)
		_ = rc.Close()
		return infracache.NewMemoryCache()
	}
	logger.Info("Using Redis price cache")
	return rc
}

// initPriceProviders returns the configured provider and the simulated
// fallback. With the simulated provider selected there is no fallback.
func initPriceProviders(cfg *config.Market, logger *slog.Logger) (primary, fallback provider.PriceHistory) {
	sim := simulated.New()
	if cfg != nil && strings.EqualFold(cfg.Provider, ProviderSimulated) {
		logger.Info("Using simulated market data")
		return sim, nil
	}
	stooqCfg := stooq.Config{}
	if cfg != nil {
		stooqCfg.BaseURL = cfg.Url
		stooqCfg.Timeout = cfg.HTTPTimeout
	}
	return stooq.New(stooqCfg, logger), sim
}
