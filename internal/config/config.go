// Package config loads the gateway configuration from the environment.
//
// Missing provider credentials and secrets are not errors here: the affected
// endpoints answer with a configuration error instead, so the rest of the
// service keeps running.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/sidequestplugins/gateway/internal/web"
	"github.com/sidequestplugins/gateway/pkg/logger"
	"github.com/sidequestplugins/gateway/pkg/mailer"
	"github.com/sidequestplugins/gateway/pkg/mailer/resend"
	"github.com/sidequestplugins/gateway/pkg/mailgun"
	"github.com/sidequestplugins/gateway/pkg/ratelimit"
	"github.com/sidequestplugins/gateway/pkg/redis"
)

// Email provider names accepted by EMAIL_PROVIDER.
const (
	ProviderMailgun = "mailgun"
	ProviderResend  = "resend"
)

// Config holds all gateway settings.
type Config struct {
	Address       string `env:"ADDRESS" envDefault:":8080"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`
	SiteURL       string `env:"SITE_URL" envDefault:"https://sidequestplugins.com"`
	DocsOrigin    string `env:"DOCS_ORIGIN" envDefault:"https://sqp-docs.vercel.app"`

	EmailProvider string `env:"EMAIL_PROVIDER" envDefault:"mailgun"`
	SupportEmail  string `env:"SUPPORT_EMAIL" envDefault:"support@sidequestplugins.com"`

	SubscribeSecret   string `env:"SUBSCRIBE_SECRET"`
	TurnstileSecret   string `env:"TURNSTILE_SECRET_KEY"`
	TurnstileRequired bool   `env:"TURNSTILE_REQUIRED" envDefault:"false"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	TrustedProxies     []string `env:"TRUSTED_PROXIES" envSeparator:","`

	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	HTTPClientTimeout time.Duration `env:"HTTP_CLIENT_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	Mailgun   mailgun.Config
	Resend    resend.Config
	Mailer    mailer.Config
	RateLimit ratelimit.Config
	Redis     redis.Config
	Log       logger.Config
	Sentry    logger.SentryConfig
}

// Load parses the process environment and validates the result.
func Load() (Config, error) {
	return LoadFrom(env.ToMap(os.Environ()))
}

// LoadFrom parses environ instead of the process environment.
func LoadFrom(environ map[string]string) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Environment: environ})
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ValidationError lists every invalid setting found.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Validate checks values that would make the service misbehave rather than
// degrade. Absent credentials are allowed.
func (c Config) Validate() error {
	var errs []string

	switch c.EmailProvider {
	case ProviderMailgun, ProviderResend:
	default:
		errs = append(errs, fmt.Sprintf("EMAIL_PROVIDER must be %q or %q, got %q", ProviderMailgun, ProviderResend, c.EmailProvider))
	}

	if c.PublicBaseURL != "" && !isAbsoluteURL(c.PublicBaseURL) {
		errs = append(errs, "PUBLIC_BASE_URL must be an absolute http(s) URL")
	}
	if !isAbsoluteURL(c.SiteURL) {
		errs = append(errs, "SITE_URL must be an absolute http(s) URL")
	}
	if !isAbsoluteURL(c.DocsOrigin) {
		errs = append(errs, "DOCS_ORIGIN must be an absolute http(s) URL")
	}
	if c.SupportEmail == "" {
		errs = append(errs, "SUPPORT_EMAIL must not be empty")
	}
	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		errs = append(errs, "RATE_LIMIT_RPS and RATE_LIMIT_BURST must not be negative")
	}

	if _, err := web.ParseTrustedProxies(c.TrustedProxies); err != nil {
		errs = append(errs, fmt.Sprintf("TRUSTED_PROXIES: %v", err))
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// EmailConfigured reports whether the selected transactional sender has credentials.
func (c Config) EmailConfigured() bool {
	if c.EmailProvider == ProviderResend {
		return c.Resend.Configured()
	}
	return c.Mailgun.Configured()
}

// SenderAddress is the mailbox outgoing mail is sent from.
func (c Config) SenderAddress() string {
	if c.EmailProvider == ProviderResend {
		return c.Resend.SenderEmail
	}
	if c.Mailgun.Domain == "" {
		return ""
	}
	return "noreply@" + c.Mailgun.Domain
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
