// Package gateway serves the subscription and contact endpoints.
//
// Subscription is double opt-in: POST /api/subscribe mails a link carrying an
// HMAC of the address, and GET /api/confirm checks that HMAC before adding the
// address to the mailing list. POST /api/contact forwards a contact form to
// the support mailbox.
package gateway

import (
	"context"
	"errors"

	"github.com/sidequestplugins/gateway/internal/web"
	"github.com/sidequestplugins/gateway/middlewares"
	"github.com/sidequestplugins/gateway/pkg/mailer"
	"github.com/sidequestplugins/gateway/pkg/mailinglist"
	"github.com/sidequestplugins/gateway/pkg/ratelimit"
)

// ErrNotConfigured is logged when a request needs a provider or secret that is not set.
var ErrNotConfigured = errors.New("gateway: not configured")

// Sender names used in the From header.
const (
	subscriptionSenderName = "Sidequest Plugins"
	contactSenderName      = "SideQuest Contact"
)

// EmailSender sends templated email. *mailer.Mailer satisfies it.
type EmailSender interface {
	Send(ctx context.Context, params mailer.SendParams) error
}

// ChallengeVerifier checks a bot-protection token. *turnstile.Verifier satisfies it.
type ChallengeVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) (bool, error)
}

// Config holds the values handlers read on every request.
type Config struct {
	// SubscribeSecret keys the confirmation HMAC.
	SubscribeSecret string
	// PublicBaseURL is the origin used in confirmation links. Empty means the request origin.
	PublicBaseURL string
	// SenderAddress is the mailbox outgoing mail is sent from, e.g. noreply@mg.example.com.
	SenderAddress string
	// ListDomain is the mailing-list provider domain, appended to list names.
	ListDomain string
	// SupportEmail receives contact form submissions.
	SupportEmail string
	// TurnstileRequired rejects contact submissions that cannot be verified.
	TurnstileRequired bool
}

// Deps are the external collaborators. A nil field means the provider is not
// configured and the endpoints that need it answer with a configuration error.
type Deps struct {
	Mailer      EmailSender
	Lists       mailinglist.Provider
	Verifier    ChallengeVerifier
	RateLimiter ratelimit.Store
}

// Handler registers the gateway endpoints.
type Handler struct {
	cfg  Config
	deps Deps
}

// NewHandler creates a Handler.
func NewHandler(cfg Config, deps Deps) *Handler {
	return &Handler{cfg: cfg, deps: deps}
}

// Routes implements web.Handler.
func (h *Handler) Routes(r web.Router) {
	r.POST("/api/subscribe", h.subscribe, middlewares.RateLimit(h.deps.RateLimiter))
	r.POST("/api/contact", h.contact, middlewares.RateLimit(h.deps.RateLimiter))
	r.GET("/api/confirm", h.confirm,
		middlewares.RedirectOnError(redirectServerError),
		middlewares.Recover(),
	)
}

func (h *Handler) from(name string) string {
	return mailer.Address(name, h.cfg.SenderAddress)
}
