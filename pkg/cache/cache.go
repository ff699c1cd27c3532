package cache

import (
	"context"
	"time"

	"github.com/amirasaad/findash/pkg/provider"
)

// PriceHistoryCache stores fetched price series by key.
// A miss is reported as ok == false with a nil error.
type PriceHistoryCache interface {
	Get(ctx context.Context, key string) (points []provider.PricePoint, ok bool, err error)
	Set(ctx context.Context, key string, points []provider.PricePoint, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
