package mailgun

import (
	"errors"
	"fmt"
)

var ErrNotConfigured = errors.New("mailgun: api key and domain are required")

// APIError is returned when Mailgun answers with a non-2xx status.
// Body holds the raw response for diagnostics.
type APIError struct {
	Body       string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mailgun: API error (status %d): %s", e.StatusCode, e.Body)
}
