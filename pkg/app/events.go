package app

import (
	"github.com/amirasaad/findash/pkg/domain/events"
	"github.com/amirasaad/findash/pkg/handler/audit"
	handlercommon "github.com/amirasaad/findash/pkg/handler/common"
	"github.com/amirasaad/findash/pkg/handler/market"
)

type handlers struct {
	warmup *market.WarmupHandler
}

// setupEventBus registers the event handlers with the bus.
func (a *App) setupEventBus() {
	bus := a.Deps.EventBus
	logger := a.Deps.Logger
	if bus == nil {
		return
	}

	tracker := handlercommon.NewIdempotencyTracker()
	auditHandler := handlercommon.WithIdempotency(
		audit.Handler(logger),
		tracker,
		handlercommon.ByEventID,
		"audit",
		logger,
	)
	bus.Register(events.EventTypeUserCreated, auditHandler)
	bus.Register(events.EventTypeTransactionCreated, auditHandler)

	h := &handlers{}
	if a.MarketService != nil {
		h.warmup = market.NewWarmupHandler(a.MarketService, 0, logger)
		bus.Register(events.EventTypeTransactionCreated, h.warmup.Handle)
	}
	a.handlers = h
}
