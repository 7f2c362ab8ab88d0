package middlewares

import (
	"log/slog"
	"math"
	"strconv"

	"github.com/sidequestplugins/gateway/internal/web"
	"github.com/sidequestplugins/gateway/pkg/ratelimit"
)

// RateLimitMessage is returned with 429 responses.
const RateLimitMessage = "Too many requests. Please try again later."

// RateLimit rejects clients that exceed the store's allowance, keyed by
// client IP. Store errors are logged and the request is let through.
func RateLimit(store ratelimit.Store) web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		if store == nil {
			return next
		}
		return func(c web.Context) error {
			res, err := store.Allow(c.Context(), c.Request().URL.Path+"|"+c.ClientIP())
			if err != nil {
				c.LogWarn("rate limiter unavailable", slog.Any("error", err))
				return next(c)
			}

			if !res.Allowed {
				secs := int(math.Ceil(res.RetryAfter.Seconds()))
				c.SetHeader("Retry-After", strconv.Itoa(max(secs, 1)))
				c.SetHeader("X-RateLimit-Remaining", "0")
				return web.ErrTooManyRequests(RateLimitMessage)
			}

			c.SetHeader("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			return next(c)
		}
	}
}
