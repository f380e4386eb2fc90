package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/ratholink/internal/gateway/google"
	"github.com/aussiebroadwan/ratholink/internal/gateway/service"
	"github.com/aussiebroadwan/ratholink/pkg/httpx"
	"github.com/aussiebroadwan/ratholink/pkg/sessionx"
	"github.com/aussiebroadwan/ratholink/pkg/slogx"
)

const loginFailedTitle = "Google Login Failed"

type AuthHandler struct {
	Auth     *service.AuthService
	Sessions *sessionx.Codec
	Views    *Views
}

// HandleLogin starts the authorization code flow.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := h.Sessions.IssueState(w)
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to issue oauth state", slog.Any("error", err))
		h.Views.RenderError(w, r, http.StatusInternalServerError, loginFailedTitle, "Please try again.")
		return
	}
	httpx.Redirect(w, r, h.Auth.LoginURL(state))
}

// HandleCallback finishes sign-in and starts a session.
func (h *AuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	q := r.URL.Query()

	if err := h.Sessions.VerifyState(w, r, q.Get("state")); err != nil {
		log.Warn("oauth state mismatch", slog.Any("error", err))
		h.Views.RenderError(w, r, http.StatusBadRequest, loginFailedTitle, "The sign-in request expired or was tampered with.")
		return
	}

	if reason := q.Get("error"); reason != "" {
		log.Info("provider declined authorization", slog.String("reason", reason))
		h.Views.RenderError(w, r, http.StatusBadRequest, loginFailedTitle, "Access was not granted.")
		return
	}

	code := q.Get("code")
	if code == "" {
		h.Views.RenderError(w, r, http.StatusBadRequest, loginFailedTitle, "Missing authorization code.")
		return
	}

	cred, accessToken, err := h.Auth.CompleteLogin(ctx, code)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrInvalidAssertion):
		h.Views.RenderError(w, r, http.StatusBadRequest, loginFailedTitle, "Google did not identify the account.")
		return
	case errors.Is(err, service.ErrEmailInUse):
		h.Views.RenderError(w, r, http.StatusConflict, loginFailedTitle, "This email is already linked to another account.")
		return
	case errors.Is(err, google.ErrTokenExchangeFailed),
		errors.Is(err, google.ErrIdentityLookupFailed),
		errors.Is(err, google.ErrUnauthorized):
		h.Views.RenderError(w, r, http.StatusBadGateway, loginFailedTitle, "Google could not complete the sign-in.")
		return
	default:
		log.Error("sign-in failed", slog.Any("error", err))
		h.Views.RenderError(w, r, http.StatusInternalServerError, loginFailedTitle, "Please try again.")
		return
	}

	if err := h.Sessions.Write(w, sessionx.Data{LocalID: cred.ID, AccessToken: accessToken}); err != nil {
		log.Error("failed to write session", slog.Any("error", err))
		h.Views.RenderError(w, r, http.StatusInternalServerError, loginFailedTitle, "Please try again.")
		return
	}

	httpx.Redirect(w, r, "/dashboard")
}

// HandleLogout ends the session. The stored record is kept.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Clear(w)
	httpx.Redirect(w, r, "/")
}
