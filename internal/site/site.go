// Package site serves the public site's non-page routes: robots.txt and the
// /docs reverse proxy to the documentation host.
package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/sidequestplugins/gateway/internal/web"
)

const docsPrefix = "/docs"

var ErrInvalidOrigin = errors.New("site: docs origin must be an absolute URL")

// Config holds the site origins.
type Config struct {
	// SiteURL is the public origin written into robots.txt sitemap lines.
	SiteURL string
	// DocsOrigin is the upstream for /docs requests.
	DocsOrigin string
}

// Handler serves robots.txt and proxies /docs.
type Handler struct {
	robots string
	proxy  *httputil.ReverseProxy
}

// NewHandler builds the handler. transport may be nil for http.DefaultTransport.
func NewHandler(cfg Config, transport http.RoundTripper) (*Handler, error) {
	target, err := url.Parse(cfg.DocsOrigin)
	if err != nil || target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOrigin, cfg.DocsOrigin)
	}

	return &Handler{
		robots: Robots(cfg.SiteURL),
		proxy:  newDocsProxy(target, transport),
	}, nil
}

// Routes implements web.Handler.
func (h *Handler) Routes(r web.Router) {
	r.GET("/robots.txt", h.robotsTxt)
	r.Any(docsPrefix, h.docs)
	r.Any(docsPrefix+"/*", h.docs)
}

// Robots renders robots.txt for siteURL.
func Robots(siteURL string) string {
	siteURL = strings.TrimRight(siteURL, "/")

	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Disallow: /api/\n")
	b.WriteString("Disallow: /admin/\n")
	b.WriteString("\n")
	b.WriteString("Sitemap: " + siteURL + "/sitemap-index.xml\n")
	b.WriteString("Sitemap: " + siteURL + "/docs/sitemap.xml\n")
	return b.String()
}

func (h *Handler) robotsTxt(c web.Context) error {
	c.SetHeader("Cache-Control", "public, max-age=3600")
	return c.String(http.StatusOK, h.robots)
}

type proxyErrorKey struct{}

func (h *Handler) docs(c web.Context) error {
	var proxyErr error
	r := c.Request()
	r = r.WithContext(context.WithValue(r.Context(), proxyErrorKey{}, &proxyErr))

	h.proxy.ServeHTTP(c.Response(), r)

	if proxyErr != nil {
		c.LogWarn("docs upstream failed", slog.String("path", r.URL.Path), slog.Any("error", proxyErr))
		if !c.Written() {
			return web.ErrBadGateway("Bad gateway.", web.WithError(proxyErr))
		}
	}
	return nil
}

// DocsPath maps a /docs request path onto the upstream path.
func DocsPath(p string) string {
	rest := strings.TrimPrefix(p, docsPrefix)
	if rest == "" || rest[0] != '/' {
		rest = "/" + rest
	}
	return rest
}

func newDocsProxy(target *url.URL, transport http.RoundTripper) *httputil.ReverseProxy {
	base := strings.TrimRight(target.Path, "/")

	return &httputil.ReverseProxy{
		Transport: transport,
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.Out.URL.Scheme = target.Scheme
			pr.Out.URL.Host = target.Host
			pr.Out.URL.Path = base + DocsPath(pr.In.URL.Path)
			pr.Out.URL.RawPath = ""
			pr.Out.Host = target.Host
			pr.SetXForwarded()

			if pr.In.Method == http.MethodGet || pr.In.Method == http.MethodHead {
				pr.Out.Body = http.NoBody
				pr.Out.ContentLength = 0
			}
		},
		ErrorHandler: func(_ http.ResponseWriter, r *http.Request, err error) {
			if slot, ok := r.Context().Value(proxyErrorKey{}).(*error); ok {
				*slot = err
			}
		},
	}
}
