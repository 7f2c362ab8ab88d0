package gateway

import (
	"encoding/json"
	"errors"
	"log/slog"
	"regexp"
	"unicode/utf16"

	"github.com/sidequestplugins/gateway/internal/web"
)

// Whitespace here follows the ECMAScript \s class, which is wider than RE2's.
const jsSpace = `\s\v\x{00a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}`

var emailPattern = regexp.MustCompile(`^[^` + jsSpace + `@]+@[^` + jsSpace + `@]+\.[^` + jsSpace + `@]+$`)

// validEmail applies the same loose shape check the site's forms use.
func validEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// textLength counts UTF-16 code units, matching browser-side length checks.
func textLength(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// bindJSON decodes the request body into v. A value of the wrong JSON type
// leaves its field zeroed so the field validation reports it; malformed JSON
// is still an error.
func bindJSON(c web.Context, v any) error {
	err := c.BindJSON(v)
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		c.LogWarn("request field has wrong type",
			slog.String("field", typeErr.Field),
			slog.String("got", typeErr.Value),
		)
		return nil
	}
	return err
}
