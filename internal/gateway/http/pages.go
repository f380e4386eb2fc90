package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/ratholink/internal/gateway/service"
	"github.com/aussiebroadwan/ratholink/internal/gateway/store"
	"github.com/aussiebroadwan/ratholink/pkg/httpx"
	"github.com/aussiebroadwan/ratholink/pkg/sessionx"
	"github.com/aussiebroadwan/ratholink/pkg/slogx"
)

// MeResponse is the signed-in person's public profile.
type MeResponse struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

type PagesHandler struct {
	Identity *service.IdentityService
	Sessions *sessionx.Codec
	Views    *Views
}

// HandleHome renders the landing page.
func (h *PagesHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	h.Views.Render(w, r, http.StatusOK, pageHome, nil)
}

// HandleDashboard shows who is signed in and links to each listing.
func (h *PagesHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := SessionFromContext(ctx)

	cred, err := h.Identity.Get(ctx, sess.LocalID)
	if errors.Is(err, store.ErrNotFound) {
		// Cookie outlived its record.
		h.Sessions.Clear(w)
		httpx.Redirect(w, r, "/")
		return
	}
	if err != nil {
		slogx.FromContext(ctx).Error("failed to load credential", "error", err)
		h.Views.RenderError(w, r, http.StatusInternalServerError, "Something went wrong", "Please try again.")
		return
	}

	h.Views.Render(w, r, http.StatusOK, pageDashboard, cred)
}

// HandleMe returns the signed-in profile as JSON.
//
//	@Summary		Current profile
//	@Description	Returns the signed-in person's name, email and picture.
//	@Description	Anonymous requests receive an empty object.
//	@Tags			Profile
//	@Produce		json
//	@Success		200	{object}	http.MeResponse	"name, email, picture; {} when anonymous"
//	@Failure		500	{object}	httpx.ErrorBody	"Internal server error"
//	@Router			/api/me [get].
func (h *PagesHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := SessionFromContext(ctx)
	if sess.Anonymous() {
		httpx.WriteJSON(w, http.StatusOK, struct{}{})
		return
	}

	cred, err := h.Identity.Get(ctx, sess.LocalID)
	if errors.Is(err, store.ErrNotFound) {
		h.Sessions.Clear(w)
		httpx.WriteJSON(w, http.StatusOK, struct{}{})
		return
	}
	if err != nil {
		slogx.FromContext(ctx).Error("failed to load credential", "error", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, httpx.ErrorBody{Error: "server_error"})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, MeResponse{
		Name:    cred.DisplayName,
		Email:   cred.Email,
		Picture: cred.AvatarURL,
	})
}
