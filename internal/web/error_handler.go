package web

import (
	"log/slog"
	"net/http"
)

// InternalErrorMessage is rendered for any error that is not an HTTPError.
const InternalErrorMessage = "Internal server error."

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

// JSONErrorHandler renders errors as {"error": message}. HTTPErrors keep their
// status and message; anything else becomes a 500 with a generic message.
// Server-side failures are logged with their cause.
func JSONErrorHandler() ErrorHandler {
	return func(c Context, err error) error {
		httpErr := AsHTTPError(err)
		if httpErr == nil {
			c.LogError("unhandled error", slog.Any("error", err))
			return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: InternalErrorMessage})
		}

		if httpErr.Code >= http.StatusInternalServerError {
			c.LogError(httpErr.Message,
				slog.Int("status", httpErr.Code),
				slog.Any("error", httpErr.Err),
			)
		}

		return c.JSON(httpErr.Code, ErrorResponse{Error: httpErr.Message})
	}
}
