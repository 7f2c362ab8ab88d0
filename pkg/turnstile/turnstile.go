// Package turnstile verifies Cloudflare Turnstile challenge tokens.
package turnstile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultVerifyURL is Cloudflare's siteverify endpoint.
const DefaultVerifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

const defaultTimeout = 10 * time.Second

var (
	ErrMissingSecret = errors.New("turnstile: secret key is required")
	ErrUnavailable   = errors.New("turnstile: verification service unavailable")
)

// HTTPDoer executes HTTP requests. *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Result is the siteverify response.
type Result struct {
	Hostname    string   `json:"hostname,omitempty"`
	ChallengeTS string   `json:"challenge_ts,omitempty"`
	Action      string   `json:"action,omitempty"`
	ErrorCodes  []string `json:"error-codes,omitempty"`
	Success     bool     `json:"success"`
}

// Verifier calls the siteverify API.
type Verifier struct {
	httpClient HTTPDoer
	secret     string
	verifyURL  string
}

// Option configures the Verifier.
type Option func(*Verifier)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(c HTTPDoer) Option {
	return func(v *Verifier) {
		if c != nil {
			v.httpClient = c
		}
	}
}

// WithVerifyURL overrides the siteverify endpoint.
func WithVerifyURL(u string) Option {
	return func(v *Verifier) {
		if u != "" {
			v.verifyURL = u
		}
	}
}

// New creates a Verifier for the given secret key.
func New(secret string, opts ...Option) (*Verifier, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}

	v := &Verifier{
		httpClient: &http.Client{Timeout: defaultTimeout},
		secret:     secret,
		verifyURL:  DefaultVerifyURL,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Verify checks token and reports whether the challenge passed.
// remoteIP is optional. Transport and decoding failures wrap ErrUnavailable,
// so callers can tell "service said no" apart from "service unreachable".
func (v *Verifier) Verify(ctx context.Context, token, remoteIP string) (bool, error) {
	res, err := v.verify(ctx, token, remoteIP)
	if err != nil {
		return false, err
	}
	return res.Success, nil
}

func (v *Verifier) verify(ctx context.Context, token, remoteIP string) (*Result, error) {
	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var res Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("%w: status %d: decoding response: %w", ErrUnavailable, resp.StatusCode, err)
	}
	return &res, nil
}
