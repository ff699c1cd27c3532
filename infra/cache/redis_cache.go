package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/findash/pkg/provider"
	"github.com/redis/go-redis/v9"
)

// RedisPriceCache implements PriceHistoryCache using Redis. Series are stored
// as JSON under prefix+key.
type RedisPriceCache struct {
	client redis.UniversalClient
	prefix string
	logger *slog.Logger
}

// NewRedisPriceCache connects to the Redis server named by url
// (redis://[:password@]host:port/db).
func NewRedisPriceCache(
	url string,
	prefix string,
	logger *slog.Logger,
) (*RedisPriceCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return NewRedisPriceCacheWithClient(redis.NewClient(opt), prefix, logger), nil
}

// NewRedisPriceCacheWithClient wraps an existing client.
func NewRedisPriceCacheWithClient(
	client redis.UniversalClient,
	prefix string,
	logger *slog.Logger,
) *RedisPriceCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisPriceCache{client: client, prefix: prefix, logger: logger}
}

func (r *RedisPriceCache) key(key string) string {
	return r.prefix + "prices:" + key
}

// Ping checks that the server is reachable.
func (r *RedisPriceCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisPriceCache) Get(ctx context.Context, key string) ([]provider.PricePoint, bool, error) {
	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		r.logger.Debug("Redis cache miss", "key", key)
		return nil, false, nil
	}
	if err != nil {
		r.logger.Error("Redis cache get error", "key", key, "error", err)
		return nil, false, err
	}
	var points []provider.PricePoint
	if err := json.Unmarshal(val, &points); err != nil {
		r.logger.Error("Redis cache unmarshal error", "key", key, "error", err)
		return nil, false, err
	}
	r.logger.Debug("Redis cache hit", "key", key, "points", len(points))
	return points, true, nil
}

func (r *RedisPriceCache) Set(
	ctx context.Context,
	key string,
	points []provider.PricePoint,
	ttl time.Duration,
) error {
	data, err := json.Marshal(points)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(key), data, ttl).Err(); err != nil {
		r.logger.Error("Redis cache set error", "key", key, "error", err)
		return err
	}
	r.logger.Debug("Redis cache set", "key", key, "points", len(points), "ttl", ttl)
	return nil
}

func (r *RedisPriceCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		r.logger.Error("Redis cache delete error", "key", key, "error", err)
		return err
	}
	return nil
}

// Close releases the underlying client.
func (r *RedisPriceCache) Close() error {
	return r.client.Close()
}
