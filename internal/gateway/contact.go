package gateway

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/sidequestplugins/gateway/internal/web"
	"github.com/sidequestplugins/gateway/pkg/mailer"
	"github.com/sidequestplugins/gateway/pkg/sanitizer"
)

const (
	minNameLength    = 2
	minMessageLength = 10
)

// ContactRequest is the body of POST /api/contact.
type ContactRequest struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	Message           string `json:"message"`
	VerificationToken string `json:"cf-turnstile-response"`
}

// Validate checks fields in form order and returns the first failure.
func (r ContactRequest) Validate() error {
	switch {
	case textLength(r.Name) < minNameLength:
		return web.ErrBadRequest("Name must be at least 2 characters.")
	case !validEmail(r.Email):
		return web.ErrBadRequest("A valid email is required.")
	case textLength(r.Message) < minMessageLength:
		return web.ErrBadRequest("Message must be at least 10 characters.")
	}
	return nil
}

type contactEmailData struct {
	Name    string
	Email   string
	Message template.HTML
}

var errBotCheckFailed = web.ErrBadRequest("Bot verification failed. Please try again.")

func (h *Handler) contact(c web.Context) error {
	var req ContactRequest
	if err := bindJSON(c, &req); err != nil {
		return fmt.Errorf("contact: %w", err)
	}

	if err := req.Validate(); err != nil {
		return err
	}

	if err := h.verifyChallenge(c, req.VerificationToken); err != nil {
		return err
	}

	if h.deps.Mailer == nil || h.cfg.SenderAddress == "" {
		return web.ErrInternal("Server configuration error.",
			web.WithError(fmt.Errorf("%w: email sender missing", ErrNotConfigured)))
	}

	err := h.deps.Mailer.Send(c.Context(), mailer.SendParams{
		To:       h.cfg.SupportEmail,
		From:     h.from(contactSenderName),
		ReplyTo:  req.Email,
		Template: contactTemplate,
		Data: contactEmailData{
			Name:    req.Name,
			Email:   req.Email,
			Message: sanitizer.TextToHTML(req.Message),
		},
		Tags: []string{"contact-form"},
	})
	if err != nil {
		return web.ErrInternal("Failed to send message.", web.WithError(err))
	}

	c.LogInfo("contact message forwarded", slog.String("email", req.Email))
	return c.JSON(http.StatusOK, messageResponse{Message: "Message sent successfully."})
}

// verifyChallenge runs the bot check. Without a configured verifier it is a
// no-op. Otherwise a missing token or unreachable verifier only fails the
// request when TurnstileRequired is set.
func (h *Handler) verifyChallenge(c web.Context, token string) error {
	if h.deps.Verifier == nil {
		if h.cfg.TurnstileRequired {
			return web.ErrInternal("Server configuration error.",
				web.WithError(fmt.Errorf("%w: turnstile required but no secret set", ErrNotConfigured)))
		}
		return nil
	}

	if token == "" {
		if h.cfg.TurnstileRequired {
			return errBotCheckFailed
		}
		return nil
	}

	ok, err := h.deps.Verifier.Verify(c.Context(), token, c.ClientIP())
	if err != nil {
		c.LogWarn("bot verification unavailable", slog.Any("error", err))
		if h.cfg.TurnstileRequired {
			return errBotCheckFailed
		}
		return nil
	}
	if !ok {
		return errBotCheckFailed
	}
	return nil
}
