package middlewares

import (
	"log/slog"
	"runtime"

	"github.com/sidequestplugins/gateway/internal/web"
)

// stackSize bounds the stack trace captured for a recovered panic.
const stackSize = 4096

// Recover converts panics into a *PanicError returned to the error handler,
// which renders it like any other unexpected error.
func Recover() web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(c web.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					stack := make([]byte, stackSize)
					stack = stack[:runtime.Stack(stack, false)]

					c.LogError("panic recovered",
						slog.Any("panic", r),
						slog.String("stack", string(stack)),
					)

					err = &PanicError{Value: r, Stack: stack}
				}
			}()

			return next(c)
		}
	}
}
