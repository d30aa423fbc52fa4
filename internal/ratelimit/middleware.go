package ratelimit

import (
	"net/http"
	"strconv"

	redis "github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"
	limiterredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/tuanngo-dev/backend-delivery/internal/common"
)

// NewRedisLimiter builds a limiter from a rate expression such as
// "60-M" (60 requests per minute) backed by Redis.
func NewRedisLimiter(client *redis.Client, formatted string) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}
	store, err := limiterredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix: "ratelimit",
	})
	if err != nil {
		return nil, err
	}
	return limiter.New(store, rate), nil
}

// Handler enforces rate limits before delegating to the next handler.
type Handler struct {
	Limiter *limiter.Limiter
	Key     func(*http.Request) string
	OnError func(error)
}

// Middleware implements the http.Handler middleware interface. Limiter
// store failures fail open so a Redis outage cannot block checkout.
func (h Handler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Limiter == nil || h.Key == nil {
			next.ServeHTTP(w, r)
			return
		}
		lctx, err := h.Limiter.Get(r.Context(), h.Key(r))
		if err != nil {
			if h.OnError != nil {
				h.OnError(err)
			}
			next.ServeHTTP(w, r)
			return
		}

		headers := w.Header()
		headers.Set("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
		headers.Set("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
		headers.Set("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))

		if lctx.Reached {
			common.JSONError(w, http.StatusTooManyRequests, "RATE_LIMITED", "rate limit exceeded", nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ClientIPKey derives the limiter key from the request's remote address.
func ClientIPKey(r *http.Request) string {
	return r.RemoteAddr
}
