package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tuanngo-dev/backend-delivery/internal/obs"
	"github.com/tuanngo-dev/backend-delivery/internal/voucher"
)

// ServiceConfig wires the catalog service dependencies.
type ServiceConfig struct {
	Store  Store
	Cache  *Cache
	Logger zerolog.Logger
}

// Service serves voucher catalogs with a Redis cache in front of
// Postgres. Cache failures degrade to direct store reads.
type Service struct {
	store  Store
	cache  *Cache
	logger zerolog.Logger
}

// NewService validates the configuration and constructs a Service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, errors.New("catalog: store is required")
	}
	return &Service{store: cfg.Store, cache: cfg.Cache, logger: cfg.Logger}, nil
}

// Vouchers returns the voucher catalog for a restaurant, cache-aside.
func (s *Service) Vouchers(ctx context.Context, restaurantID string) ([]voucher.Voucher, error) {
	if cached, ok, err := s.cache.Get(ctx, restaurantID); err == nil && ok {
		if obs.CatalogCacheTotal != nil {
			obs.CatalogCacheTotal.WithLabelValues("hit").Inc()
		}
		return cached, nil
	} else if err != nil {
		s.logger.Warn().Err(err).Str("restaurant_id", restaurantID).Msg("catalog cache read failed")
	}
	if obs.CatalogCacheTotal != nil {
		obs.CatalogCacheTotal.WithLabelValues("miss").Inc()
	}

	vouchers, err := s.store.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, restaurantID, vouchers); err != nil {
		s.logger.Warn().Err(err).Str("restaurant_id", restaurantID).Msg("catalog cache write failed")
	}
	return vouchers, nil
}

// Ranked returns the catalog partitioned and display-ordered for the
// given subtotal: eligible vouchers first, catalog order preserved
// otherwise, with the best-voucher hints attached.
func (s *Service) Ranked(ctx context.Context, restaurantID string, subtotal int64, now time.Time) (discount, shipping []voucher.Voucher, best voucher.Best, err error) {
	catalog, err := s.Vouchers(ctx, restaurantID)
	if err != nil {
		return nil, nil, voucher.Best{}, err
	}
	discountPart, shippingPart := voucher.Partition(catalog)
	discount = voucher.Rank(discountPart, subtotal, now)
	shipping = voucher.Rank(shippingPart, subtotal, now)
	best = voucher.SelectBest(discountPart, shippingPart, subtotal, now)
	return discount, shipping, best, nil
}

// Refresh re-reads a restaurant catalog from the store and rewrites the
// cache entry. Used by the worker after admin mutations.
func (s *Service) Refresh(ctx context.Context, restaurantID string) error {
	vouchers, err := s.store.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, restaurantID, vouchers)
}

// Invalidate drops the cache entry for a restaurant.
func (s *Service) Invalidate(ctx context.Context, restaurantID string) error {
	return s.cache.Invalidate(ctx, restaurantID)
}

// RestaurantIDs lists restaurants with vouchers for warmup runs.
func (s *Service) RestaurantIDs(ctx context.Context, limit int) ([]string, error) {
	return s.store.ListRestaurantIDs(ctx, limit)
}
