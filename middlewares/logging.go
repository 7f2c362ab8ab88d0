package middlewares

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sidequestplugins/gateway/internal/web"
)

// RequestLogger logs one line per request after the response is complete.
func RequestLogger() web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(c web.Context) error {
			start := time.Now()
			err := next(c)

			status := 0
			if rw, ok := c.Response().(*web.ResponseWriter); ok {
				status = rw.Status()
			}
			if err != nil {
				if httpErr := web.AsHTTPError(err); httpErr != nil {
					status = httpErr.Code
				} else {
					status = http.StatusInternalServerError
				}
			}

			c.LogInfo("request",
				slog.String("method", c.Request().Method),
				slog.String("path", c.Request().URL.Path),
				slog.Int("status", status),
				slog.Duration("duration", time.Since(start)),
			)
			return err
		}
	}
}
