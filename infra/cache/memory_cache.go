package cache

import (
	"context"
	"sync"
	"time"

	"github.com/amirasaad/findash/pkg/provider"
)

// MemoryCache implements PriceHistoryCache using in-memory storage.
type MemoryCache struct {
	entries map[string]*cacheEntry
	mu      sync.RWMutex
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

type cacheEntry struct {
	points    []provider.PricePoint
	expiresAt time.Time
}

// NewMemoryCache creates a new in-memory cache and starts its janitor.
// Call Close to stop the janitor.
func NewMemoryCache() *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]*cacheEntry),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go c.cleanup(5 * time.Minute)
	return c
}

// Get retrieves a series from cache.
func (c *MemoryCache) Get(_ context.Context, key string) ([]provider.PricePoint, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists || c.now().After(entry.expiresAt) {
		return nil, false, nil
	}
	out := make([]provider.PricePoint, len(entry.points))
	copy(out, entry.points)
	return out, true, nil
}

// Set stores a series with TTL.
func (c *MemoryCache) Set(_ context.Context, key string, points []provider.PricePoint, ttl time.Duration) error {
	stored := make([]provider.PricePoint, len(points))
	copy(stored, points)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &cacheEntry{
		points:    stored,
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

// Delete removes a series from cache.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// Close stops the janitor goroutine.
func (c *MemoryCache) Close() error {
	c.once.Do(func() { close(c.stop) })
	return nil
}

func (c *MemoryCache) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.evictExpired()
		}
	}
}

func (c *MemoryCache) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}
