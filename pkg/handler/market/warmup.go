// Package market preloads price history for newly traded symbols.
package market

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/amirasaad/findash/pkg/domain/events"
	"github.com/amirasaad/findash/pkg/domain/transaction"
)

const DefaultWarmTimeout = 30 * time.Second

// Warmer loads a symbol's history into the price cache.
type Warmer interface {
	Warm(ctx context.Context, symbol string) error
}

// WarmupHandler starts a background cache warm-up for each trade. It returns
// before the warm-up finishes; Wait blocks until all started warm-ups end.
type WarmupHandler struct {
	warmer  Warmer
	timeout time.Duration
	logger  *slog.Logger
	wg      sync.WaitGroup
}

func NewWarmupHandler(warmer Warmer, timeout time.Duration, logger *slog.Logger) *WarmupHandler {
	if timeout <= 0 {
		timeout = DefaultWarmTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WarmupHandler{
		warmer:  warmer,
		timeout: timeout,
		logger:  logger.With("handler", "price_warmup"),
	}
}

// Handle implements eventbus.HandlerFunc.
func (h *WarmupHandler) Handle(_ context.Context, e events.Event) error {
	tc, ok := e.(*events.TransactionCreated)
	if !ok || tc.TxType != transaction.TypeTrade.String() || tc.AssetSymbol == "" {
		return nil
	}

	h.wg.Add(1)
	go func(symbol string) {
		defer h.wg.Done()
		// Detached from the request so the warm-up outlives the response.
		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()

		start := time.Now()
		if err := h.warmer.Warm(ctx, symbol); err != nil {
			h.logger.Warn("price warm-up failed", "symbol", symbol, "error", err)
			return
		}
		h.logger.Debug("price history warmed", "symbol", symbol, "took", time.Since(start))
	}(tc.AssetSymbol)
	return nil
}

// Wait blocks until every started warm-up has returned.
func (h *WarmupHandler) Wait() {
	h.wg.Wait()
}
