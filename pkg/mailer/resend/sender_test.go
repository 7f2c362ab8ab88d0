package resend_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sidequestplugins/gateway/pkg/mailer"
	"github.com/sidequestplugins/gateway/pkg/mailer/resend"
)

func TestSender_Send(t *testing.T) {
	t.Parallel()

	t.Run("posts email with configured sender", func(t *testing.T) {
		t.Parallel()

		var got map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/emails", r.URL.Path)
			require.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"email_123"}`))
		}))
		t.Cleanup(srv.Close)

		s := resend.New(resend.Config{
			APIKey:      "re_test",
			SenderEmail: "noreply@example.com",
			SenderName:  "Example",
		}, resend.WithBaseURL(srv.URL+"/"))

		err := s.Send(context.Background(), &mailer.Email{
			To:      []string{"user@example.com"},
			Subject: "Hello",
			HTML:    "<p>Hi</p>",
			ReplyTo: "reply@example.com",
		})
		require.NoError(t, err)
		require.Equal(t, "Example <noreply@example.com>", got["from"])
		require.Equal(t, "Hello", got["subject"])
		require.Equal(t, "<p>Hi</p>", got["html"])
	})

	t.Run("wraps API errors", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"bad from"}`))
		}))
		t.Cleanup(srv.Close)

		s := resend.New(resend.Config{APIKey: "re_test", SenderEmail: "noreply@example.com"},
			resend.WithBaseURL(srv.URL+"/"))

		err := s.Send(context.Background(), &mailer.Email{
			To:      []string{"user@example.com"},
			Subject: "Hello",
			HTML:    "<p>Hi</p>",
		})
		require.Error(t, err)
		require.Contains(t, err.Error(), "resend: failed to send email")
	})
}

func TestConfig_Configured(t *testing.T) {
	t.Parallel()

	require.False(t, resend.Config{}.Configured())
	require.False(t, resend.Config{APIKey: "k"}.Configured())
	require.True(t, resend.Config{APIKey: "k", SenderEmail: "a@b.co"}.Configured())
}
