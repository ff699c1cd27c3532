// Package audit logs every domain event.
package audit

import (
	"context"
	"log/slog"

	"github.com/amirasaad/findash/pkg/domain/events"
	"github.com/amirasaad/findash/pkg/eventbus"
)

// Handler returns an event handler writing one structured line per event.
func Handler(logger *slog.Logger) eventbus.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("handler", "audit")
	return func(ctx context.Context, e events.Event) error {
		attrs := []any{
			"event_id", e.ID(),
			"event_type", e.Type(),
			"occurred_at", e.OccurredAt(),
		}
		switch ev := e.(type) {
		case *events.UserCreated:
			attrs = append(attrs, "user_id", ev.UserID)
		case *events.TransactionCreated:
			attrs = append(attrs,
				"transaction_id", ev.TransactionID,
				"user_id", ev.UserID,
				"type", ev.TxType,
			)
			if ev.AssetSymbol != "" {
				attrs = append(attrs, "asset_symbol", ev.AssetSymbol)
			}
		}
		logger.InfoContext(ctx, "event recorded", attrs...)
		return nil
	}
}
