package middlewares

import (
	"context"
	"time"

	"github.com/sidequestplugins/gateway/internal/web"
)

// DefaultTimeout is used when Timeout is given a non-positive duration.
const DefaultTimeout = 30 * time.Second

// Timeout attaches a deadline to the request context. Outbound calls made with
// that context are cancelled once it expires.
func Timeout(timeout time.Duration) web.Middleware {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(c web.Context) error {
			ctx, cancel := context.WithTimeout(c.Context(), timeout)
			defer cancel()

			c.SetRequest(c.Request().WithContext(ctx))

			err := next(c)
			if err != nil && ctx.Err() == context.DeadlineExceeded {
				c.LogWarn("request timeout", "timeout", timeout.String())
			}
			return err
		}
	}
}
