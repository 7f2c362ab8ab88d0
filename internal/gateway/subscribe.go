package gateway

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/sidequestplugins/gateway/internal/web"
	"github.com/sidequestplugins/gateway/pkg/mailer"
	"github.com/sidequestplugins/gateway/pkg/signer"
)

const defaultList = "general"

// SubscriptionRequest is the body of POST /api/subscribe.
type SubscriptionRequest struct {
	Email   string `json:"email"`
	Product string `json:"product"`
	List    string `json:"list"`
}

// ListName picks the target list: List, then Product, then "general".
func (r SubscriptionRequest) ListName() string {
	switch {
	case r.List != "":
		return r.List
	case r.Product != "":
		return r.Product
	default:
		return defaultList
	}
}

type messageResponse struct {
	Message string `json:"message"`
}

type confirmEmailData struct {
	ConfirmURL string
}

func (h *Handler) subscribe(c web.Context) error {
	var req SubscriptionRequest
	if err := bindJSON(c, &req); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	if !validEmail(req.Email) {
		return web.ErrBadRequest("A valid email is required.")
	}

	if h.deps.Mailer == nil || h.cfg.SenderAddress == "" || h.cfg.SubscribeSecret == "" {
		return web.ErrInternal("Server configuration error.",
			web.WithError(fmt.Errorf("%w: email sender or subscribe secret missing", ErrNotConfigured)))
	}

	list := req.ListName()
	confirmURL, err := h.confirmationURL(c, req.Email, signer.Sign(req.Email, h.cfg.SubscribeSecret), list)
	if err != nil {
		return fmt.Errorf("subscribe: build confirmation url: %w", err)
	}

	err = h.deps.Mailer.Send(c.Context(), mailer.SendParams{
		To:       req.Email,
		From:     h.from(subscriptionSenderName),
		Template: confirmTemplate,
		Data:     confirmEmailData{ConfirmURL: confirmURL},
		Tags:     []string{"subscription-confirm"},
	})
	if err != nil {
		return web.ErrInternal("Failed to send confirmation email.", web.WithError(err))
	}

	c.LogInfo("confirmation email sent", slog.String("email", req.Email), slog.String("list", list))
	return c.JSON(http.StatusOK, messageResponse{Message: "Confirmation email sent."})
}

// confirmationURL builds {base}/api/confirm?email=..&hash=..&list=.. where base
// is PublicBaseURL or, when unset, the origin the client used.
func (h *Handler) confirmationURL(c web.Context, email, hash, list string) (string, error) {
	base := h.cfg.PublicBaseURL
	if base == "" {
		base = c.Origin()
	}

	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("email", email)
	q.Set("hash", hash)
	q.Set("list", list)

	return u.ResolveReference(&url.URL{Path: "/api/confirm", RawQuery: q.Encode()}).String(), nil
}
