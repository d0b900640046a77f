package middleware

import (
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/ulule/limiter/v3"
	stdlib "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/kolevkaloyan/jira-clone/internal/infrastructure/http/response"
)

// RateLimitConfig holds rate limit settings. Rates use the limiter format
// ("100-M" = 100/min, "5-H" = 5/hour). Empty disables that limiter.
type RateLimitConfig struct {
	PerIP   string
	Login   string
	Signup  string
	Refresh string
}

// RateLimiters are the per-route limiters built from a RateLimitConfig.
type RateLimiters struct {
	IP      func(http.Handler) http.Handler
	Login   func(http.Handler) http.Handler
	Signup  func(http.Handler) http.Handler
	Refresh func(http.Handler) http.Handler
}

// NewRateLimiters builds every limiter. With a redis client the counters are
// shared across instances; otherwise each process counts in memory.
func NewRateLimiters(cfg RateLimitConfig, client redis.UniversalClient) (*RateLimiters, error) {
	var (
		rl  RateLimiters
		err error
	)
	for _, l := range []struct {
		name string
		rate string
		dst  *func(http.Handler) http.Handler
	}{
		{"ip", cfg.PerIP, &rl.IP},
		{"login", cfg.Login, &rl.Login},
		{"signup", cfg.Signup, &rl.Signup},
		{"refresh", cfg.Refresh, &rl.Refresh},
	} {
		if *l.dst, err = NewIPRateLimiter(l.name, l.rate, client); err != nil {
			return nil, err
		}
	}
	return &rl, nil
}

// NewIPRateLimiter returns middleware that limits by client IP. name
// namespaces the counters so limiters sharing a store do not collide.
func NewIPRateLimiter(name, rateFormatted string, client redis.UniversalClient) (func(next http.Handler) http.Handler, error) {
	if rateFormatted == "" {
		return noopMiddleware, nil
	}
	rate, err := limiter.NewRateFromFormatted(rateFormatted)
	if err != nil {
		return nil, err
	}
	opts := limiter.StoreOptions{Prefix: "limiter:" + name, MaxRetry: 3}
	var store limiter.Store
	if client != nil {
		store, err = sredis.NewStoreWithOptions(client, opts)
		if err != nil {
			return nil, err
		}
	} else {
		store = memory.NewStoreWithOptions(opts)
	}
	instance := limiter.New(store, rate)
	return stdlib.NewMiddleware(instance,
		stdlib.WithLimitReachedHandler(limitReached),
		stdlib.WithErrorHandler(limiterFailed),
	).Handler, nil
}

func limitReached(w http.ResponseWriter, r *http.Request) {
	response.Fail(w, http.StatusTooManyRequests, response.ErrCodeRateLimited, "too many requests, please try again later")
}

func limiterFailed(w http.ResponseWriter, r *http.Request, err error) {
	zerolog.Ctx(r.Context()).Error().Err(err).Msg("rate limiter unavailable")
	response.Fail(w, http.StatusInternalServerError, response.ErrCodeInternal, "internal server error")
}

func noopMiddleware(next http.Handler) http.Handler {
	return next
}
