package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tuanngo-dev/backend-delivery/internal/voucher"
)

// Cache stores per-restaurant voucher catalogs as JSON in Redis. A nil
// client disables caching entirely.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func cacheKey(restaurantID string) string {
	return "catalog:vouchers:" + restaurantID
}

// Get returns the cached catalog for a restaurant. The second return
// reports whether the key existed.
func (c *Cache) Get(ctx context.Context, restaurantID string) ([]voucher.Voucher, bool, error) {
	if c == nil || c.client == nil {
		return nil, false, nil
	}
	data, err := c.client.Get(ctx, cacheKey(restaurantID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}
	var vouchers []voucher.Voucher
	if err := json.Unmarshal(data, &vouchers); err != nil {
		return nil, false, err
	}
	return vouchers, true, nil
}

// Set stores the catalog with the configured TTL.
func (c *Cache) Set(ctx context.Context, restaurantID string, vouchers []voucher.Voucher) error {
	if c == nil || c.client == nil {
		return nil
	}
	data, err := json.Marshal(vouchers)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey(restaurantID), data, c.ttl).Err()
}

// Invalidate drops the cached catalog for a restaurant.
func (c *Cache) Invalidate(ctx context.Context, restaurantID string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, cacheKey(restaurantID)).Err()
}
