package sanitizer_test

import (
	"html/template"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sidequestplugins/gateway/pkg/sanitizer"
)

func TestTextToHTML(t *testing.T) {
	t.Parallel()

	t.Run("converts newlines to br", func(t *testing.T) {
		t.Parallel()

		require.Equal(t, template.HTML("line one<br>line two<br>three"),
			sanitizer.TextToHTML("line one\nline two\r\nthree"))
	})

	t.Run("escapes markup", func(t *testing.T) {
		t.Parallel()

		got := string(sanitizer.TextToHTML(`<script>alert("x")</script>`))
		require.NotContains(t, got, "<script>")
		require.Contains(t, got, "&lt;script&gt;")
	})

	t.Run("does not let injected br attributes through", func(t *testing.T) {
		t.Parallel()

		got := string(sanitizer.TextToHTML(`<br onclick="x">`))
		require.NotContains(t, got, "onclick=\"")
	})

	t.Run("plain text passes through", func(t *testing.T) {
		t.Parallel()

		require.Equal(t, template.HTML("Hello there"), sanitizer.TextToHTML("Hello there"))
	})
}
