// Package resend implements mailer.Sender on top of the Resend API.
package resend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/resend/resend-go/v3"

	"github.com/sidequestplugins/gateway/pkg/mailer"
)

// Sender implements mailer.Sender using the Resend API.
type Sender struct {
	client *resend.Client
	config Config
}

// Option configures the Sender.
type Option func(*Sender)

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Sender) {
		if c != nil {
			s.client = resend.NewCustomClient(c, s.config.APIKey)
		}
	}
}

// WithBaseURL points the client at a different API endpoint.
func WithBaseURL(raw string) Option {
	return func(s *Sender) {
		if u, err := url.Parse(raw); err == nil && raw != "" {
			s.client.BaseURL = u
		}
	}
}

// New creates a Resend sender.
func New(cfg Config, opts ...Option) *Sender {
	s := &Sender{
		client: resend.NewClient(cfg.APIKey),
		config: cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	from := email.From
	if from == "" {
		from = mailer.Address(s.config.SenderName, s.config.SenderEmail)
	}

	req := &resend.SendEmailRequest{
		From:    from,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
		ReplyTo: email.ReplyTo,
		Headers: email.Headers,
	}

	if len(email.Tags) > 0 {
		req.Tags = make([]resend.Tag, 0, len(email.Tags))
		for _, name := range email.Tags {
			// Resend tags are name/value pairs; presence-only tags become "true".
			req.Tags = append(req.Tags, resend.Tag{Name: name, Value: "true"})
		}
	}

	if _, err := s.client.Emails.SendWithContext(ctx, req); err != nil {
		return fmt.Errorf("resend: failed to send email: %w", err)
	}

	return nil
}
