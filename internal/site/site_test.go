package site_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sidequestplugins/gateway/internal/site"
	"github.com/sidequestplugins/gateway/internal/web"
)

func newApp(t *testing.T, cfg site.Config) http.Handler {
	t.Helper()

	h, err := site.NewHandler(cfg, nil)
	require.NoError(t, err)
	return web.New(web.WithHandlers(h))
}

func TestRobots(t *testing.T) {
	t.Parallel()

	want := "User-agent: *\n" +
		"Allow: /\n" +
		"Disallow: /api/\n" +
		"Disallow: /admin/\n" +
		"\n" +
		"Sitemap: https://sidequestplugins.com/sitemap-index.xml\n" +
		"Sitemap: https://sidequestplugins.com/docs/sitemap.xml\n"

	require.Equal(t, want, site.Robots("https://sidequestplugins.com"))
	require.Equal(t, want, site.Robots("https://sidequestplugins.com/"))
}

func TestRobotsRoute(t *testing.T) {
	t.Parallel()

	app := newApp(t, site.Config{SiteURL: "https://staging.sidequestplugins.com", DocsOrigin: "https://docs.invalid"})

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/robots.txt", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Body.String(), "Sitemap: https://staging.sidequestplugins.com/docs/sitemap.xml\n")
}

func TestDocsPath(t *testing.T) {
	t.Parallel()

	require.Equal(t, "/", site.DocsPath("/docs"))
	require.Equal(t, "/", site.DocsPath("/docs/"))
	require.Equal(t, "/getting-started", site.DocsPath("/docs/getting-started"))
	require.Equal(t, "/a/b.css", site.DocsPath("/docs/a/b.css"))
}

func TestNewHandler_InvalidOrigin(t *testing.T) {
	t.Parallel()

	for _, origin := range []string{"", "sqp-docs.vercel.app", "::bad"} {
		_, err := site.NewHandler(site.Config{DocsOrigin: origin}, nil)
		require.ErrorIs(t, err, site.ErrInvalidOrigin, origin)
	}
}

type upstreamRequest struct {
	method string
	path   string
	query  string
	host   string
	header string
	body   string
}

func TestDocsProxy(t *testing.T) {
	t.Parallel()

	seen := make(chan upstreamRequest, 1)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		seen <- upstreamRequest{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			host:   r.Host,
			header: r.Header.Get("X-Custom"),
			body:   string(body),
		}
		w.Header().Set("X-Upstream", "docs")
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("upstream says hi"))
	}))
	t.Cleanup(upstream.Close)

	app := newApp(t, site.Config{SiteURL: "https://sidequestplugins.com", DocsOrigin: upstream.URL})
	upstreamHost := strings.TrimPrefix(upstream.URL, "http://")

	t.Run("root", func(t *testing.T) {
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs", nil))

		got := <-seen
		require.Equal(t, http.MethodGet, got.method)
		require.Equal(t, "/", got.path)
		require.Equal(t, upstreamHost, got.host)
		require.Equal(t, http.StatusTeapot, rec.Code)
		require.Equal(t, "docs", rec.Header().Get("X-Upstream"))
		require.Equal(t, "upstream says hi", rec.Body.String())
	})

	t.Run("nested path with query", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/docs/guides/install?lang=en&v=2", nil)
		req.Header.Set("X-Custom", "kept")
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, req)

		got := <-seen
		require.Equal(t, "/guides/install", got.path)
		require.Equal(t, "lang=en&v=2", got.query)
		require.Equal(t, "kept", got.header)
		require.Empty(t, got.body)
	})

	t.Run("post body forwarded", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/docs/search", strings.NewReader(`{"q":"layers"}`))
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, req)

		got := <-seen
		require.Equal(t, http.MethodPost, got.method)
		require.Equal(t, "/search", got.path)
		require.Equal(t, `{"q":"layers"}`, got.body)
	})
}

func TestDocsProxy_UpstreamDown(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.NotFoundHandler())
	origin := upstream.URL
	upstream.Close()

	app := newApp(t, site.Config{SiteURL: "https://sidequestplugins.com", DocsOrigin: origin})

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/page", nil))

	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.JSONEq(t, `{"error":"Bad gateway."}`, rec.Body.String())
}
