package middlewares

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"

	"github.com/sidequestplugins/gateway/internal/web"
)

// CORSConfig configures cross-origin access.
type CORSConfig struct {
	AllowedOrigins []string
	// PathPrefix limits CORS handling to matching paths. Empty means all paths.
	PathPrefix string
	MaxAge     int
}

// CORS answers preflight requests and sets CORS headers using go-chi/cors.
// Register it as global middleware so preflights reach it before routing.
func CORS(cfg CORSConfig) web.Middleware {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = 300
	}

	handler := web.FromHTTP(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Retry-After"},
		MaxAge:         maxAge,
	}))

	return func(next web.HandlerFunc) web.HandlerFunc {
		withCORS := handler(next)
		return func(c web.Context) error {
			if cfg.PathPrefix != "" && !strings.HasPrefix(c.Request().URL.Path, cfg.PathPrefix) {
				return next(c)
			}
			return withCORS(c)
		}
	}
}
