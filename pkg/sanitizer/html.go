// Package sanitizer prepares user-supplied text for inclusion in HTML email.
package sanitizer

import (
	"html"
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	lineBreakPolicy *bluemonday.Policy
	initOnce        sync.Once
)

func initPolicies() {
	initOnce.Do(func() {
		// Only line breaks survive; everything else is text.
		lineBreakPolicy = bluemonday.NewPolicy()
		lineBreakPolicy.AllowElements("br")
	})
}

// TextToHTML escapes plain text and converts line breaks to <br>.
// The result is safe to embed in an html/template without further escaping.
func TextToHTML(s string) template.HTML {
	initPolicies()

	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	escaped := strings.ReplaceAll(html.EscapeString(s), "\n", "<br>")

	return template.HTML(lineBreakPolicy.Sanitize(escaped)) //nolint:gosec // sanitized above
}
