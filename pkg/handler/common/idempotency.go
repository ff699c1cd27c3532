package common

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/amirasaad/findash/pkg/domain/events"
	"github.com/amirasaad/findash/pkg/eventbus"
	"golang.org/x/sync/singleflight"
)

// KeyExtractor extracts an idempotency key from an event.
type KeyExtractor func(events.Event) string

// ByEventID keys an event by its unique ID, so redelivered copies of the
// same event are handled once.
func ByEventID(e events.Event) string {
	return e.ID().String()
}

const (
	DefaultTrackerTTL     = 24 * time.Hour
	DefaultTrackerMaxKeys = 10000
)

// IdempotencyTracker remembers processed keys for a TTL, holding at most
// maxKeys of them. The oldest keys are evicted first.
type IdempotencyTracker struct {
	mu        sync.Mutex
	processed map[string]time.Time
	order     []trackedKey
	ttl       time.Duration
	maxKeys   int
	now       func() time.Time
	inflight  singleflight.Group
}

type trackedKey struct {
	key string
	at  time.Time
}

type TrackerOption func(*IdempotencyTracker)

func WithTTL(ttl time.Duration) TrackerOption {
	return func(t *IdempotencyTracker) {
		if ttl > 0 {
			t.ttl = ttl
		}
	}
}

func WithMaxKeys(n int) TrackerOption {
	return func(t *IdempotencyTracker) {
		if n > 0 {
			t.maxKeys = n
		}
	}
}

func NewIdempotencyTracker(opts ...TrackerOption) *IdempotencyTracker {
	t := &IdempotencyTracker{
		processed: make(map[string]time.Time),
		ttl:       DefaultTrackerTTL,
		maxKeys:   DefaultTrackerMaxKeys,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Store marks a key as processed.
func (t *IdempotencyTracker) Store(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	t.processed[key] = now
	t.order = append(t.order, trackedKey{key: key, at: now})
	t.evict(now)
}

// Delete forgets a key.
func (t *IdempotencyTracker) Delete(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.processed, key)
}

// Seen reports whether key was processed within the TTL.
func (t *IdempotencyTracker) Seen(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	at, ok := t.processed[key]
	return ok && t.now().Sub(at) < t.ttl
}

// Len returns the number of keys currently remembered.
func (t *IdempotencyTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.processed)
}

// evict drops expired keys and the oldest keys beyond maxKeys. A queue entry
// only removes its map entry when the key was not stored again since.
func (t *IdempotencyTracker) evict(now time.Time) {
	for len(t.order) > 0 {
		head := t.order[0]
		if len(t.order) <= t.maxKeys && now.Sub(head.at) < t.ttl {
			break
		}
		if at, ok := t.processed[head.key]; ok && at.Equal(head.at) {
			delete(t.processed, head.key)
		}
		t.order[0] = trackedKey{}
		t.order = t.order[1:]
	}
}

// WithIdempotency wraps handler so that each key is processed at most once.
// Concurrent deliveries of one key wait for the in-flight attempt and share
// its result; a failed attempt leaves the key unprocessed so a retry can
// succeed.
func WithIdempotency(
	handler eventbus.HandlerFunc,
	tracker *IdempotencyTracker,
	keyExtractor KeyExtractor,
	handlerName string,
	logger *slog.Logger,
) eventbus.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, e events.Event) error {
		key := keyExtractor(e)
		if key == "" {
			return handler(ctx, e)
		}

		log := logger.With(
			"handler", handlerName,
			"event_type", e.Type(),
			"idempotency_key", key,
		)

		if tracker.Seen(key) {
			log.Debug("event already processed, skipping")
			return nil
		}

		_, err, _ := tracker.inflight.Do(key, func() (any, error) {
			if tracker.Seen(key) {
				return nil, nil
			}
			if err := handler(ctx, e); err != nil {
				return nil, err
			}
			tracker.Store(key)
			return nil, nil
		})
		return err
	}
}
