package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/netip"
	"strings"
	"time"
)

const maxJSONBodySize = 1 << 20

// Context is the per-request handle passed to handlers and middleware.
// It implements context.Context by delegating to the request context.
type Context interface {
	context.Context

	// Request returns the current request.
	Request() *http.Request

	// SetRequest replaces the request, typically to attach a derived context.
	SetRequest(r *http.Request)

	// Response returns the response writer.
	Response() http.ResponseWriter

	// Context returns the request context.
	Context() context.Context

	// Query returns a query string value.
	Query(name string) string

	// Header returns a request header value.
	Header(name string) string

	// SetHeader sets a response header.
	SetHeader(name, value string)

	// ClientIP returns the client address. Forwarding headers are honoured
	// only when the peer is a trusted proxy.
	ClientIP() string

	// Origin returns scheme://host of the request. X-Forwarded-Proto and
	// X-Forwarded-Host are honoured only when the peer is a trusted proxy.
	Origin() string

	JSON(code int, v any) error
	String(code int, s string) error
	NoContent(code int) error
	Redirect(code int, url string) error

	// BindJSON decodes the request body into v.
	BindJSON(v any) error

	// Written reports whether the response header has been sent.
	Written() bool

	Logger() *slog.Logger
	LogInfo(msg string, attrs ...any)
	LogWarn(msg string, attrs ...any)
	LogError(msg string, attrs ...any)

	// Set stores a value in the request context.
	Set(key, value any)

	// Get reads a value from the request context.
	Get(key any) any
}

type requestContext struct {
	request  *http.Request
	response *ResponseWriter
	logger   *slog.Logger
	proxies  TrustedProxies
}

// NewContext builds a Context for w and r that trusts no proxy. Handlers
// normally receive one from the App; tests for middleware construct it directly.
func NewContext(w http.ResponseWriter, r *http.Request, logger *slog.Logger) Context {
	return newContext(w, r, logger, nil)
}

func newContext(w http.ResponseWriter, r *http.Request, logger *slog.Logger, proxies TrustedProxies) *requestContext {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &requestContext{
		request:  r,
		response: NewResponseWriter(w),
		logger:   logger,
		proxies:  proxies,
	}
}

func (c *requestContext) Request() *http.Request {
	return c.request
}

func (c *requestContext) SetRequest(r *http.Request) {
	c.request = r
}

func (c *requestContext) Response() http.ResponseWriter {
	return c.response
}

func (c *requestContext) Context() context.Context {
	return c.request.Context()
}

func (c *requestContext) Deadline() (time.Time, bool) {
	return c.request.Context().Deadline()
}

func (c *requestContext) Done() <-chan struct{} {
	return c.request.Context().Done()
}

func (c *requestContext) Err() error {
	return c.request.Context().Err()
}

func (c *requestContext) Value(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Query(name string) string {
	return c.request.URL.Query().Get(name)
}

func (c *requestContext) Header(name string) string {
	return c.request.Header.Get(name)
}

func (c *requestContext) SetHeader(name, value string) {
	c.response.Header().Set(name, value)
}

func (c *requestContext) ClientIP() string {
	peer, raw := peerAddr(c.request.RemoteAddr)
	if !c.proxies.Contains(peer) {
		return raw
	}

	if fwd := c.request.Header.Get("X-Forwarded-For"); fwd != "" {
		if ip, ok := c.proxies.forwardedClient(fwd); ok {
			return ip
		}
	}
	if ip, err := netip.ParseAddr(strings.TrimSpace(c.request.Header.Get("X-Real-IP"))); err == nil {
		return ip.Unmap().String()
	}
	return raw
}

func (c *requestContext) Origin() string {
	scheme := "http"
	if c.request.TLS != nil {
		scheme = "https"
	}
	host := c.request.Host

	if peer, _ := peerAddr(c.request.RemoteAddr); c.proxies.Contains(peer) {
		first, _, _ := strings.Cut(c.request.Header.Get("X-Forwarded-Proto"), ",")
		switch proto := strings.ToLower(strings.TrimSpace(first)); proto {
		case "http", "https":
			scheme = proto
		}
		if fwd := c.request.Header.Get("X-Forwarded-Host"); fwd != "" {
			first, _, _ := strings.Cut(fwd, ",")
			if h := strings.TrimSpace(first); h != "" {
				host = h
			}
		}
	}

	return scheme + "://" + host
}

func (c *requestContext) JSON(code int, v any) error {
	c.response.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.response.WriteHeader(code)
	return json.NewEncoder(c.response).Encode(v)
}

func (c *requestContext) String(code int, s string) error {
	c.response.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.response.WriteHeader(code)
	_, err := io.WriteString(c.response, s)
	return err
}

func (c *requestContext) NoContent(code int) error {
	c.response.WriteHeader(code)
	return nil
}

func (c *requestContext) Redirect(code int, url string) error {
	http.Redirect(c.response, c.request, url, code)
	return nil
}

func (c *requestContext) BindJSON(v any) error {
	if c.request.Body == nil {
		return fmt.Errorf("bind json: %w", io.EOF)
	}
	body := http.MaxBytesReader(c.response, c.request.Body, maxJSONBodySize)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("bind json: %w", err)
	}
	return nil
}

func (c *requestContext) Written() bool {
	return c.response.Written()
}

func (c *requestContext) Logger() *slog.Logger {
	return c.logger
}

func (c *requestContext) LogInfo(msg string, attrs ...any) {
	c.logger.InfoContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogWarn(msg string, attrs ...any) {
	c.logger.WarnContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogError(msg string, attrs ...any) {
	c.logger.ErrorContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) Set(key, value any) {
	ctx := context.WithValue(c.request.Context(), key, value)
	c.request = c.request.WithContext(ctx)
}

func (c *requestContext) Get(key any) any {
	return c.request.Context().Value(key)
}
