package gateway_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sidequestplugins/gateway/internal/gateway"
	"github.com/sidequestplugins/gateway/internal/web"
	"github.com/sidequestplugins/gateway/pkg/signer"
)

func TestSubscriptionRequest_ListName(t *testing.T) {
	t.Parallel()

	require.Equal(t, "news", gateway.SubscriptionRequest{List: "news", Product: "ae-sheets"}.ListName())
	require.Equal(t, "ae-sheets", gateway.SubscriptionRequest{Product: "ae-sheets"}.ListName())
	require.Equal(t, "general", gateway.SubscriptionRequest{}.ListName())
}

func TestSubscribe_Validation(t *testing.T) {
	t.Parallel()

	for _, email := range []string{"", "plainaddress", "a@b", "a b@c.io", "a@b c.io", "a@@b.io", "@b.io", "a@.io."} {
		t.Run(email, func(t *testing.T) {
			t.Parallel()

			sender := &recordingSender{}
			app := newApp(testConfig(), gateway.Deps{Mailer: newMailer(sender)})

			rec := postJSON(t, app, "/api/subscribe", map[string]string{"email": email})

			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.JSONEq(t, `{"error":"A valid email is required."}`, rec.Body.String())
			require.Empty(t, sender.sent())
		})
	}
}

func TestSubscribe_ValidationBeforeConfiguration(t *testing.T) {
	t.Parallel()

	app := newApp(gateway.Config{}, gateway.Deps{})
	rec := postJSON(t, app, "/api/subscribe", map[string]string{"email": "nope"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubscribe_NotConfigured(t *testing.T) {
	t.Parallel()

	t.Run("no email sender", func(t *testing.T) {
		t.Parallel()

		app := newApp(testConfig(), gateway.Deps{})
		rec := postJSON(t, app, "/api/subscribe", map[string]string{"email": "jane@example.com"})

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.JSONEq(t, `{"error":"Server configuration error."}`, rec.Body.String())
	})

	t.Run("no secret", func(t *testing.T) {
		t.Parallel()

		sender := &recordingSender{}
		cfg := testConfig()
		cfg.SubscribeSecret = ""
		app := newApp(cfg, gateway.Deps{Mailer: newMailer(sender)})
		rec := postJSON(t, app, "/api/subscribe", map[string]string{"email": "jane@example.com"})

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.JSONEq(t, `{"error":"Server configuration error."}`, rec.Body.String())
		require.Empty(t, sender.sent())
	})
}

func TestSubscribe_SendsConfirmation(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{}
	app := newApp(testConfig(), gateway.Deps{Mailer: newMailer(sender)})

	rec := postJSON(t, app, "/api/subscribe", map[string]string{"email": "jane+news@example.com", "product": "ae-sheets"})

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"message":"Confirmation email sent."}`, rec.Body.String())

	sent := sender.sent()
	require.Len(t, sent, 1)
	email := sent[0]
	require.Equal(t, []string{"jane+news@example.com"}, email.To)
	require.Equal(t, "Sidequest Plugins <noreply@mg.sidequestplugins.com>", email.From)
	require.Equal(t, "Confirm your subscription", email.Subject)
	require.Contains(t, email.HTML, "Please confirm your subscription")
	require.Contains(t, email.HTML, "Confirm my subscription")

	link := confirmLink(t, email.HTML)
	require.Equal(t, "http", link.Scheme)
	require.Equal(t, "sidequestplugins.com", link.Host)
	require.Equal(t, "/api/confirm", link.Path)
	require.Equal(t, "jane+news@example.com", link.Query().Get("email"))
	require.Equal(t, "ae-sheets", link.Query().Get("list"))
	require.Equal(t, signer.Sign("jane+news@example.com", testSecret), link.Query().Get("hash"))
}

func TestSubscribe_ConfirmationBase(t *testing.T) {
	t.Parallel()

	t.Run("public base url wins", func(t *testing.T) {
		t.Parallel()

		sender := &recordingSender{}
		cfg := testConfig()
		cfg.PublicBaseURL = "https://sidequestplugins.com/"
		app := newApp(cfg, gateway.Deps{Mailer: newMailer(sender)})

		require.Equal(t, http.StatusOK, postJSON(t, app, "/api/subscribe", map[string]string{"email": "a@b.co"}).Code)

		link := confirmLink(t, sender.sent()[0].HTML)
		require.Equal(t, "https://sidequestplugins.com/api/confirm", link.Scheme+"://"+link.Host+link.Path)
		require.Equal(t, "general", link.Query().Get("list"))
	})

	post := func(t *testing.T, app http.Handler, peer string) {
		t.Helper()

		req := httptest.NewRequest(http.MethodPost, "http://internal:8080/api/subscribe",
			strings.NewReader(`{"email":"a@b.co","list":"news"}`))
		req.RemoteAddr = peer + ":1234"
		req.Header.Set("X-Forwarded-Proto", "https")
		req.Header.Set("X-Forwarded-Host", "sidequestplugins.com")
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	t.Run("spoofed forwarded host is ignored", func(t *testing.T) {
		t.Parallel()

		sender := &recordingSender{}
		app := newApp(testConfig(), gateway.Deps{Mailer: newMailer(sender)})
		post(t, app, "203.0.113.9")

		link := confirmLink(t, sender.sent()[0].HTML)
		require.Equal(t, "http", link.Scheme)
		require.Equal(t, "internal:8080", link.Host)
		require.Equal(t, "news", link.Query().Get("list"))
	})

	t.Run("forwarded host from trusted proxy", func(t *testing.T) {
		t.Parallel()

		proxies, err := web.ParseTrustedProxies([]string{"10.0.0.0/8"})
		require.NoError(t, err)

		sender := &recordingSender{}
		app := newApp(testConfig(), gateway.Deps{Mailer: newMailer(sender)}, web.WithTrustedProxies(proxies))
		post(t, app, "10.0.0.2")

		link := confirmLink(t, sender.sent()[0].HTML)
		require.Equal(t, "https", link.Scheme)
		require.Equal(t, "sidequestplugins.com", link.Host)
	})
}

func TestSubscribe_ProviderFailure(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{err: errors.New("mailgun: 401 Forbidden")}
	app := newApp(testConfig(), gateway.Deps{Mailer: newMailer(sender)})

	rec := postJSON(t, app, "/api/subscribe", map[string]string{"email": "jane@example.com"})

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"error":"Failed to send confirmation email."}`, rec.Body.String())
}

func TestSubscribe_MalformedBody(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{}
	app := newApp(testConfig(), gateway.Deps{Mailer: newMailer(sender)})

	rec := postJSON(t, app, "/api/subscribe", `{"email":`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"error":"Internal server error."}`, rec.Body.String())
	require.Empty(t, sender.sent())
}

func TestSubscribe_WrongFieldType(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{}
	app := newApp(testConfig(), gateway.Deps{Mailer: newMailer(sender)})

	rec := postJSON(t, app, "/api/subscribe", `{"email":123}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.JSONEq(t, `{"error":"A valid email is required."}`, rec.Body.String())

	rec = postJSON(t, app, "/api/subscribe", `{"email":"jane@example.com","list":7,"product":"ae-sheets"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	link := confirmLink(t, sender.sent()[0].HTML)
	require.Equal(t, "ae-sheets", link.Query().Get("list"))
}

func TestSubscribe_Panic(t *testing.T) {
	t.Parallel()

	app := newApp(testConfig(), gateway.Deps{Mailer: panicMailer{}})
	rec := postJSON(t, app, "/api/subscribe", map[string]string{"email": "jane@example.com"})

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"error":"Internal server error."}`, rec.Body.String())
}
