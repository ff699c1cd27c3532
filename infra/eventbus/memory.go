package eventbus

import (
	"context"
	"log/slog"
	"sync"

	"github.com/amirasaad/findash/pkg/domain/events"
	"github.com/amirasaad/findash/pkg/eventbus"
)

// MemoryEventBus dispatches events synchronously to in-process handlers.
type MemoryEventBus struct {
	handlers map[string][]eventbus.HandlerFunc
	mu       sync.RWMutex
	logger   *slog.Logger

	// published holds at most keep events, oldest first.
	published []events.Event
	keep      int
}

type MemoryOption func(*MemoryEventBus)

// WithPublishedLog keeps the last n emitted events for Published. Without
// it nothing is retained.
func WithPublishedLog(n int) MemoryOption {
	return func(b *MemoryEventBus) {
		if n > 0 {
			b.keep = n
		}
	}
}

// NewWithMemory creates a new in-memory event bus.
func NewWithMemory(logger *slog.Logger, opts ...MemoryOption) *MemoryEventBus {
	if logger == nil {
		logger = slog.Default()
	}
	b := &MemoryEventBus{
		handlers: make(map[string][]eventbus.HandlerFunc),
		logger:   logger.With("bus", "memory"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Register registers a handler for a specific event type.
func (b *MemoryEventBus) Register(eventType string, handler eventbus.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Emit runs every handler registered for the event type. Handler failures
// are logged and do not stop the remaining handlers.
func (b *MemoryEventBus) Emit(ctx context.Context, event events.Event) error {
	b.mu.Lock()
	b.record(event)
	handlers := append([]eventbus.HandlerFunc(nil), b.handlers[event.Type()]...)
	b.mu.Unlock()

	dispatch(ctx, b.logger, event, handlers)
	return nil
}

func (b *MemoryEventBus) record(event events.Event) {
	if b.keep == 0 {
		return
	}
	if len(b.published) == b.keep {
		copy(b.published, b.published[1:])
		b.published = b.published[:b.keep-1]
	}
	b.published = append(b.published, event)
}

// Published returns the retained events, oldest first.
func (b *MemoryEventBus) Published() []events.Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]events.Event(nil), b.published...)
}

func dispatch(ctx context.Context, logger *slog.Logger, event events.Event, handlers []eventbus.HandlerFunc) {
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			logger.Error("event handler failed",
				"event_type", event.Type(),
				"event_id", event.ID(),
				"error", err,
			)
		}
	}
}

var _ eventbus.Bus = (*MemoryEventBus)(nil)
