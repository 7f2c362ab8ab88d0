package web

import "net/http"

// Handler declares routes on a router.
//
// Example:
//
//	type ContactHandler struct {
//	    mailer *mailer.Mailer
//	}
//
//	func (h *ContactHandler) Routes(r web.Router) {
//	    r.POST("/api/contact", h.contact)
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc is the signature for route handlers.
// Returning a non-nil error hands it to the app's ErrorHandler.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc to add cross-cutting concerns.
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler renders errors returned from handlers.
type ErrorHandler func(Context, error) error

// FromHTTP adapts net/http middleware, such as go-chi/cors, into a Middleware.
// The wrapped handler sees any request modifications made by mw.
func FromHTTP(mw func(http.Handler) http.Handler) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(c Context) error {
			var err error
			mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				c.SetRequest(r)
				err = next(c)
			})).ServeHTTP(c.Response(), c.Request())
			return err
		}
	}
}
