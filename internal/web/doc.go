// Package web is a thin HTTP runtime over chi.
//
// Handlers have the signature func(web.Context) error. A returned *HTTPError
// is rendered as {"error": message} with its status code; any other error is
// logged and rendered as a 500 with a generic message. Middleware share the
// same signature, so cross-cutting concerns can short-circuit by returning an
// error instead of writing the response themselves.
//
//	app := web.New(
//	    web.WithLogger(log),
//	    web.WithMiddleware(middlewares.RequestID(), middlewares.Recover()),
//	    web.WithHandlers(gateway.NewHandler(deps)),
//	    web.WithHealthChecks(),
//	)
//	err := web.Run(ctx, app, web.Address(":8080"))
package web
