// Package mailgun is a minimal Mailgun API client covering message
// delivery and mailing-list membership.
//
// Client satisfies both mailer.Sender and mailinglist.Provider.
package mailgun

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sidequestplugins/gateway/pkg/mailer"
	"github.com/sidequestplugins/gateway/pkg/mailinglist"
)

const defaultTimeout = 10 * time.Second

// maxErrorBody bounds how much of an error response is kept for logs.
const maxErrorBody = 4 << 10

// HTTPDoer executes HTTP requests. *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a Mailgun API client.
type Client struct {
	httpClient HTTPDoer
	baseURL    string
	apiKey     string
	domain     string
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(c HTTPDoer) Option {
	return func(cl *Client) {
		if c != nil {
			cl.httpClient = c
		}
	}
}

// WithBaseURL overrides the regional base URL.
func WithBaseURL(u string) Option {
	return func(cl *Client) {
		if u != "" {
			cl.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// New creates a Mailgun client. It returns ErrNotConfigured when the key
// or domain is missing.
func New(cfg Config, opts ...Option) (*Client, error) {
	if !cfg.Configured() {
		return nil, ErrNotConfigured
	}

	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    cfg.BaseURL(),
		apiKey:     cfg.APIKey,
		domain:     cfg.Domain,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Domain returns the sending domain.
func (c *Client) Domain() string {
	return c.domain
}

// Send delivers email through the messages API. It implements mailer.Sender.
func (c *Client) Send(ctx context.Context, email *mailer.Email) error {
	if len(email.To) == 0 {
		return mailer.ErrNoRecipient
	}

	from := email.From
	if from == "" {
		from = "noreply@" + c.domain
	}

	form := url.Values{}
	form.Set("from", from)
	for _, to := range email.To {
		form.Add("to", to)
	}
	form.Set("subject", email.Subject)
	form.Set("html", email.HTML)
	if email.Text != "" {
		form.Set("text", email.Text)
	}
	if email.ReplyTo != "" {
		form.Set("h:Reply-To", email.ReplyTo)
	}
	for name, value := range email.Headers {
		form.Set("h:"+name, value)
	}
	for _, tag := range email.Tags {
		form.Add("o:tag", tag)
	}

	if err := c.postForm(ctx, "/"+c.domain+"/messages", form); err != nil {
		return fmt.Errorf("sending message: %w", err)
	}
	return nil
}

// AddMember subscribes address to listAddress. A 400 response means the
// member already exists and is reported as mailinglist.ErrAlreadySubscribed.
// It implements mailinglist.Provider.
func (c *Client) AddMember(ctx context.Context, listAddress, address string) error {
	form := url.Values{}
	form.Set("address", address)
	form.Set("subscribed", "yes")

	err := c.postForm(ctx, "/lists/"+url.PathEscape(listAddress)+"/members", form)
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest {
		return fmt.Errorf("%w: %w", mailinglist.ErrAlreadySubscribed, apiErr)
	}
	return fmt.Errorf("adding list member: %w", err)
}

// postForm sends a form-encoded POST with Basic auth ("api" as username).
func (c *Client) postForm(ctx context.Context, path string, form url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.SetBasicAuth("api", c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
}
