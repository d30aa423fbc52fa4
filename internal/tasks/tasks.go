package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/tuanngo-dev/backend-delivery/internal/catalog"
	"github.com/tuanngo-dev/backend-delivery/internal/lock"
	"github.com/tuanngo-dev/backend-delivery/internal/obs"
)

const (
	// TypeCatalogInvalidate drops one restaurant's cached voucher catalog.
	TypeCatalogInvalidate = "catalog:invalidate"
	// TypeCatalogWarmup re-populates the cache for restaurants with vouchers.
	TypeCatalogWarmup = "catalog:warmup"
)

type catalogPayload struct {
	RestaurantID string `json:"restaurantId"`
}

// Enqueuer schedules catalog maintenance tasks on the asynq queue.
type Enqueuer struct {
	Client *asynq.Client
}

// EnqueueInvalidate schedules a cache drop for one restaurant.
func (e Enqueuer) EnqueueInvalidate(ctx context.Context, restaurantID string) error {
	if e.Client == nil {
		return errors.New("tasks: asynq client not configured")
	}
	payload, err := json.Marshal(catalogPayload{RestaurantID: restaurantID})
	if err != nil {
		return err
	}
	_, err = e.Client.EnqueueContext(ctx, asynq.NewTask(TypeCatalogInvalidate, payload), asynq.MaxRetry(3))
	return err
}

// EnqueueWarmup schedules a full cache warmup run.
func (e Enqueuer) EnqueueWarmup(ctx context.Context) error {
	if e.Client == nil {
		return errors.New("tasks: asynq client not configured")
	}
	_, err := e.Client.EnqueueContext(ctx, asynq.NewTask(TypeCatalogWarmup, nil), asynq.MaxRetry(1))
	return err
}

// warmupLockKey serialises warmup runs across worker instances.
const warmupLockKey = "catalog:warmup:lock"

// CatalogWorker processes catalog maintenance tasks.
type CatalogWorker struct {
	Catalog   *catalog.Service
	BatchSize int
	Lock      *lock.Locker
	Logger    zerolog.Logger
}

// Register attaches the worker's handlers to an asynq mux.
func (w *CatalogWorker) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeCatalogInvalidate, w.HandleInvalidate)
	mux.HandleFunc(TypeCatalogWarmup, w.HandleWarmup)
}

// HandleInvalidate drops the cached catalog and immediately re-warms it
// from Postgres so the next quote sees fresh data.
func (w *CatalogWorker) HandleInvalidate(ctx context.Context, t *asynq.Task) error {
	var payload catalogPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		// malformed payloads cannot succeed on retry
		return nil
	}
	if payload.RestaurantID == "" {
		return nil
	}
	if err := w.Catalog.Invalidate(ctx, payload.RestaurantID); err != nil {
		w.countRefresh("error")
		return err
	}
	if err := w.Catalog.Refresh(ctx, payload.RestaurantID); err != nil {
		w.countRefresh("error")
		return err
	}
	w.countRefresh("ok")
	w.Logger.Info().Str("restaurant_id", payload.RestaurantID).Msg("catalog cache refreshed")
	return nil
}

// HandleWarmup refreshes the cache for every restaurant with vouchers.
// Concurrent warmups are skipped, not queued: the run already in flight
// rewrites the same keys.
func (w *CatalogWorker) HandleWarmup(ctx context.Context, _ *asynq.Task) error {
	if w.Lock == nil {
		return w.warmup(ctx)
	}
	err := w.Lock.TryWithLock(ctx, warmupLockKey, 2*time.Minute, w.warmup)
	if errors.Is(err, lock.ErrHeld) {
		w.Logger.Info().Msg("catalog warmup already running, skipping")
		return nil
	}
	return err
}

func (w *CatalogWorker) warmup(ctx context.Context) error {
	ids, err := w.Catalog.RestaurantIDs(ctx, w.BatchSize)
	if err != nil {
		w.countRefresh("error")
		return err
	}
	for _, id := range ids {
		if err := w.Catalog.Refresh(ctx, id); err != nil {
			w.Logger.Warn().Err(err).Str("restaurant_id", id).Msg("catalog warmup failed")
			w.countRefresh("error")
			continue
		}
		w.countRefresh("ok")
	}
	return nil
}

func (w *CatalogWorker) countRefresh(result string) {
	if obs.CatalogRefreshTotal != nil {
		obs.CatalogRefreshTotal.WithLabelValues(result).Inc()
	}
}
