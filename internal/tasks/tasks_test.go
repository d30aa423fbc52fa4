package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/tuanngo-dev/backend-delivery/internal/catalog"
	"github.com/tuanngo-dev/backend-delivery/internal/lock"
	"github.com/tuanngo-dev/backend-delivery/internal/voucher"
)

type fakeStore struct {
	vouchers map[string][]voucher.Voucher
	calls    int
}

func (f *fakeStore) ListByRestaurant(_ context.Context, restaurantID string) ([]voucher.Voucher, error) {
	f.calls++
	return f.vouchers[restaurantID], nil
}

func (f *fakeStore) ListRestaurantIDs(_ context.Context, limit int) ([]string, error) {
	ids := make([]string, 0, len(f.vouchers))
	for id := range f.vouchers {
		ids = append(ids, id)
	}
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (f *fakeStore) Create(context.Context, catalog.VoucherInput) (voucher.Voucher, error) {
	return voucher.Voucher{}, errors.New("not implemented")
}

func (f *fakeStore) UpdateByCode(context.Context, string, catalog.VoucherInput) (voucher.Voucher, error) {
	return voucher.Voucher{}, errors.New("not implemented")
}

func newWorker(t *testing.T, store *fakeStore) (*CatalogWorker, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	svc, err := catalog.NewService(catalog.ServiceConfig{
		Store:  store,
		Cache:  catalog.NewCache(client, time.Minute),
		Logger: zerolog.Nop(),
	})
	require.NoError(t, err)

	return &CatalogWorker{
		Catalog:   svc,
		BatchSize: 10,
		Lock:      &lock.Locker{R: client},
		Logger:    zerolog.Nop(),
	}, client
}

func TestHandleInvalidateRefreshesCache(t *testing.T) {
	store := &fakeStore{vouchers: map[string][]voucher.Voucher{
		"r1": {{ID: "a", Code: "GIAM10", Type: voucher.DiscountPercentage, Value: 10}},
	}}
	worker, _ := newWorker(t, store)
	ctx := context.Background()

	// prime the cache, then mutate the store behind it
	_, err := worker.Catalog.Vouchers(ctx, "r1")
	require.NoError(t, err)
	store.vouchers["r1"] = append(store.vouchers["r1"], voucher.Voucher{ID: "b", Code: "NEW", Type: voucher.DiscountFixed, Value: 1})

	payload, err := json.Marshal(catalogPayload{RestaurantID: "r1"})
	require.NoError(t, err)
	require.NoError(t, worker.HandleInvalidate(ctx, asynq.NewTask(TypeCatalogInvalidate, payload)))

	got, err := worker.Catalog.Vouchers(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestHandleInvalidateIgnoresMalformedPayload(t *testing.T) {
	worker, _ := newWorker(t, &fakeStore{vouchers: map[string][]voucher.Voucher{}})

	require.NoError(t, worker.HandleInvalidate(context.Background(), asynq.NewTask(TypeCatalogInvalidate, []byte("{"))))
	require.NoError(t, worker.HandleInvalidate(context.Background(), asynq.NewTask(TypeCatalogInvalidate, []byte(`{"restaurantId":""}`))))
}

func TestHandleWarmupPopulatesCache(t *testing.T) {
	store := &fakeStore{vouchers: map[string][]voucher.Voucher{
		"r1": {{ID: "a", Code: "GIAM10", Type: voucher.DiscountPercentage, Value: 10}},
		"r2": {{ID: "b", Code: "FREESHIP", Type: voucher.DiscountFreeShip}},
	}}
	worker, _ := newWorker(t, store)
	ctx := context.Background()

	require.NoError(t, worker.HandleWarmup(ctx, asynq.NewTask(TypeCatalogWarmup, nil)))
	warmupCalls := store.calls

	// cached catalogs serve without touching the store again
	_, err := worker.Catalog.Vouchers(ctx, "r1")
	require.NoError(t, err)
	_, err = worker.Catalog.Vouchers(ctx, "r2")
	require.NoError(t, err)
	require.Equal(t, warmupCalls, store.calls)
}

func TestHandleWarmupSkipsWhenLockHeld(t *testing.T) {
	store := &fakeStore{vouchers: map[string][]voucher.Voucher{
		"r1": {{ID: "a", Code: "GIAM10", Type: voucher.DiscountPercentage, Value: 10}},
	}}
	worker, client := newWorker(t, store)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, warmupLockKey, "other-holder", time.Minute).Err())

	require.NoError(t, worker.HandleWarmup(ctx, asynq.NewTask(TypeCatalogWarmup, nil)))
	require.Equal(t, 0, store.calls)
}
