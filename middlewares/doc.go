// Package middlewares provides the gateway's web.Middleware set.
//
// # Request ID
//
// RequestID reuses an upstream X-Request-ID or generates a UUID, stores it in
// the request context and echoes it back. Pair it with RequestIDExtractor so
// every log line carries request_id:
//
//	log := logger.New(cfg, middlewares.RequestIDExtractor())
//	app := web.New(
//	    web.WithLogger(log),
//	    web.WithMiddleware(middlewares.RequestID(), middlewares.RequestLogger()),
//	)
//
// # Recover
//
// Recover turns panics into *PanicError so the error handler renders a
// generic 500. On browser-facing routes, combine it with RedirectOnError so
// the user is redirected instead:
//
//	r.GET("/api/confirm", h.confirm,
//	    middlewares.RedirectOnError("/subscription-error?reason=server_error"),
//	    middlewares.Recover(),
//	)
//
// # Timeout, CORS, RateLimit
//
// Timeout attaches a deadline to the request context. CORS wraps go-chi/cors
// and can be scoped to a path prefix. RateLimit consults a ratelimit.Store
// per client IP and answers 429 with a Retry-After header.
package middlewares
