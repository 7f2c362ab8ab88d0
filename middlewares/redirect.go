package middlewares

import (
	"log/slog"
	"net/http"

	"github.com/sidequestplugins/gateway/internal/web"
)

// RedirectOnError turns any error escaping next into a 302 to target.
// Browser-facing endpoints use it so users land on a page instead of JSON.
func RedirectOnError(target string) web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(c web.Context) error {
			err := next(c)
			if err == nil || c.Written() {
				return err
			}
			c.LogError("request failed, redirecting", slog.String("to", target), slog.Any("error", err))
			return c.Redirect(http.StatusFound, target)
		}
	}
}
