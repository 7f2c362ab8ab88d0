package gateway_test

import (
	"bytes"
	"context"
	"encoding/json"
	"html"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sidequestplugins/gateway/internal/gateway"
	"github.com/sidequestplugins/gateway/internal/web"
	"github.com/sidequestplugins/gateway/middlewares"
	"github.com/sidequestplugins/gateway/pkg/mailer"
)

const (
	testSecret = "test-subscribe-secret"
	testDomain = "mg.sidequestplugins.com"
)

func testConfig() gateway.Config {
	return gateway.Config{
		SubscribeSecret: testSecret,
		SenderAddress:   "noreply@" + testDomain,
		ListDomain:      testDomain,
		SupportEmail:    "support@sidequestplugins.com",
	}
}

// recordingSender captures emails handed to the provider.
type recordingSender struct {
	mu     sync.Mutex
	emails []*mailer.Email
	err    error
}

func (s *recordingSender) Send(_ context.Context, email *mailer.Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emails = append(s.emails, email)
	return s.err
}

func (s *recordingSender) sent() []*mailer.Email {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*mailer.Email(nil), s.emails...)
}

func newMailer(sender mailer.Sender) *mailer.Mailer {
	renderer := mailer.NewRendererWithConfig(gateway.Templates(), mailer.RendererConfig{LayoutDir: "layouts"})
	return mailer.New(sender, renderer, mailer.Config{DefaultLayout: "base.html", FallbackSubject: "Notification"})
}

type panicMailer struct{}

func (panicMailer) Send(context.Context, mailer.SendParams) error {
	panic("template exploded")
}

type mockLists struct {
	mock.Mock
}

func (m *mockLists) AddMember(ctx context.Context, listAddress, address string) error {
	args := m.Called(ctx, listAddress, address)
	return args.Error(0)
}

type mockVerifier struct {
	mock.Mock
}

func (m *mockVerifier) Verify(ctx context.Context, token, remoteIP string) (bool, error) {
	args := m.Called(ctx, token, remoteIP)
	return args.Bool(0), args.Error(1)
}

func newApp(cfg gateway.Config, deps gateway.Deps, opts ...web.Option) http.Handler {
	opts = append(opts,
		web.WithMiddleware(middlewares.Recover()),
		web.WithHandlers(gateway.NewHandler(cfg, deps)),
	)
	return web.New(opts...)
}

func postJSON(t *testing.T, app http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch v := body.(type) {
	case string:
		buf.WriteString(v)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(v))
	}

	req := httptest.NewRequest(http.MethodPost, "http://sidequestplugins.com"+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func get(app http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

var hrefPattern = regexp.MustCompile(`href="([^"]+)"`)

// confirmLink extracts and parses the confirmation link from an email body.
func confirmLink(t *testing.T, body string) *url.URL {
	t.Helper()

	m := hrefPattern.FindStringSubmatch(body)
	require.Len(t, m, 2, "no link in email body")

	u, err := url.Parse(html.UnescapeString(m[1]))
	require.NoError(t, err)
	return u
}
