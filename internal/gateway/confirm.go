package gateway

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sidequestplugins/gateway/internal/web"
	"github.com/sidequestplugins/gateway/pkg/mailinglist"
	"github.com/sidequestplugins/gateway/pkg/signer"
)

// Redirect targets of GET /api/confirm.
const (
	redirectConfirmed   = "/subscription-confirmed"
	redirectAlready     = "/subscription-confirmed?already=true"
	redirectInvalidHash = "/subscription-error?reason=invalid_hash"
	redirectServerError = "/subscription-error?reason=server_error"
)

// ConfirmationToken is the query string of a confirmation link.
type ConfirmationToken struct {
	Email     string
	Signature string
	List      string
}

func tokenFromQuery(c web.Context) ConfirmationToken {
	t := ConfirmationToken{
		Email:     c.Query("email"),
		Signature: c.Query("hash"),
		List:      c.Query("list"),
	}
	if t.List == "" {
		t.List = defaultList
	}
	return t
}

func (h *Handler) confirm(c web.Context) error {
	token := tokenFromQuery(c)
	if token.Email == "" || token.Signature == "" {
		return c.Redirect(http.StatusFound, redirectInvalidHash)
	}

	if h.cfg.SubscribeSecret == "" || h.deps.Lists == nil || h.cfg.ListDomain == "" {
		c.LogError("confirm: list provider or subscribe secret missing", slog.Any("error", ErrNotConfigured))
		return c.Redirect(http.StatusFound, redirectServerError)
	}

	if !signer.Verify(token.Email, h.cfg.SubscribeSecret, token.Signature) {
		c.LogWarn("confirm: signature mismatch", slog.String("email", token.Email))
		return c.Redirect(http.StatusFound, redirectInvalidHash)
	}

	listAddress := mailinglist.Address(token.List, h.cfg.ListDomain)
	err := h.deps.Lists.AddMember(c.Context(), listAddress, token.Email)
	switch {
	case errors.Is(err, mailinglist.ErrAlreadySubscribed):
		c.LogInfo("confirm: already subscribed", slog.String("email", token.Email), slog.String("list", listAddress))
		return c.Redirect(http.StatusFound, redirectAlready)
	case err != nil:
		c.LogError("confirm: add list member failed",
			slog.String("list", listAddress),
			slog.Any("error", err),
		)
		return c.Redirect(http.StatusFound, redirectServerError)
	}

	c.LogInfo("subscription confirmed", slog.String("email", token.Email), slog.String("list", listAddress))
	return c.Redirect(http.StatusFound, redirectConfirmed)
}
