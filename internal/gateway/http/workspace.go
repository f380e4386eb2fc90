package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/ratholink/internal/gateway/domain"
	"github.com/aussiebroadwan/ratholink/internal/gateway/service"
	"github.com/aussiebroadwan/ratholink/pkg/httpx"
	"github.com/aussiebroadwan/ratholink/pkg/sessionx"
	"github.com/aussiebroadwan/ratholink/pkg/slogx"
)

// upstreamNotice is shown above an empty listing when Google failed for a
// reason other than authorization.
const upstreamNotice = "Google is not responding right now. Please try again shortly."

// ListPage is the data for every listing template.
type ListPage[T any] struct {
	Items  []T
	Notice string
}

type WorkspaceHandler struct {
	Workspace *service.WorkspaceService
	Sessions  *sessionx.Codec
	Views     *Views
}

func (h *WorkspaceHandler) HandleDrive(w http.ResponseWriter, r *http.Request) {
	serveList(h, w, r, pageDrive, h.Workspace.Files)
}

func (h *WorkspaceHandler) HandleGmail(w http.ResponseWriter, r *http.Request) {
	serveList(h, w, r, pageGmail, h.Workspace.Messages)
}

func (h *WorkspaceHandler) HandleCalendar(w http.ResponseWriter, r *http.Request) {
	serveList(h, w, r, pageCalendar, h.Workspace.Events)
}

// serveList runs one listing and maps its outcome:
//   - success: render the items
//   - sign-in required: drop the session and go home
//   - upstream failure: render an empty list with a notice
func serveList[T any](
	h *WorkspaceHandler,
	w http.ResponseWriter,
	r *http.Request,
	page string,
	list func(context.Context, *domain.Session) ([]T, error),
) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	sess := SessionFromContext(ctx)

	items, err := list(ctx, sess)

	switch {
	case err == nil:
		saveSession(w, r, h.Sessions, sess)
		h.Views.Render(w, r, http.StatusOK, page, ListPage[T]{Items: items})

	case errors.Is(err, service.ErrAuthenticationRequired):
		log.Info("session needs re-authentication", slog.Any("error", err))
		h.Sessions.Clear(w)
		httpx.Redirect(w, r, "/")

	case errors.Is(err, service.ErrUpstream):
		log.Warn("upstream listing failed", slog.String("page", page), slog.Any("error", err))
		saveSession(w, r, h.Sessions, sess)
		h.Views.Render(w, r, http.StatusOK, page, ListPage[T]{Notice: upstreamNotice})

	default:
		log.Error("listing failed", slog.String("page", page), slog.Any("error", err))
		h.Views.RenderError(w, r, http.StatusInternalServerError, "Something went wrong", "Please try again.")
	}
}
