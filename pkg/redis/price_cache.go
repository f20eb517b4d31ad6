package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when no cached payload exists for a key.
var ErrCacheMiss = errors.New("price cache miss")

// PriceCache stores serialized vendor pricing payloads in Redis so the
// storefront does not hit the upstream pricing API on every quote.
type PriceCache struct {
	ttl time.Duration
}

var (
	setCacheValue = Set
	getCacheValue = Get
	delCacheValue = Del
)

// NewPriceCache creates a price cache. Entries expire after ttl.
func NewPriceCache(ttl time.Duration) *PriceCache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &PriceCache{ttl: ttl}
}

// Put stores a serialized pricing payload for a product/store pair.
func (c *PriceCache) Put(ctx context.Context, productID, storeCode string, payload []byte) error {
	return setCacheValue(ctx, c.key(productID, storeCode), string(payload), c.ttl)
}

// Fetch returns the cached payload, or ErrCacheMiss when absent or expired.
func (c *PriceCache) Fetch(ctx context.Context, productID, storeCode string) ([]byte, error) {
	val, err := getCacheValue(ctx, c.key(productID, storeCode))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	return []byte(val), nil
}

// Invalidate drops the cached payload for a product/store pair.
func (c *PriceCache) Invalidate(ctx context.Context, productID, storeCode string) error {
	return delCacheValue(ctx, c.key(productID, storeCode))
}

func (c *PriceCache) key(productID, storeCode string) string {
	return "pricing:" + storeCode + ":" + productID
}
