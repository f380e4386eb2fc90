package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/ratholink/internal/gateway/service"
	"github.com/aussiebroadwan/ratholink/internal/gateway/store"
	"github.com/aussiebroadwan/ratholink/pkg/httpx"
	"github.com/aussiebroadwan/ratholink/pkg/sessionx"
	"github.com/aussiebroadwan/ratholink/pkg/slogx"

	_ "github.com/aussiebroadwan/ratholink/api/gateway" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store    store.Store
	sessions *sessionx.Codec
	views    *Views

	AuthService      *service.AuthService
	IdentityService  *service.IdentityService
	WorkspaceService *service.WorkspaceService
}

func NewRouter(
	sessions *sessionx.Codec,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		sessions:     sessions,
		views:        NewViews(),
		logger:       logger,
	}

	// Logging wraps everything so session decoding can log with the request id.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		SessionMiddleware(r.sessions),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerPages()
	r.registerAuth()
	r.registerWorkspace()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			RathoLink Gateway API
//	@version		0.1.0
//	@description	Sign in with Google and browse Drive, Gmail and Calendar from one dashboard.
//	@description
//	@description	Browser pages are HTML; only the profile and health endpoints return JSON.
//	@description	Requests are authenticated by the signed ratholink_session cookie.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/ratholink
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerPages() {
	h := &PagesHandler{
		Identity: r.IdentityService,
		Sessions: r.sessions,
		Views:    r.views,
	}

	// "GET /{$}" matches only the root, not every unmatched path.
	r.Mux.Handle("GET /{$}",
		httpx.Chain(http.HandlerFunc(h.HandleHome),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	r.Mux.Handle("GET /dashboard",
		httpx.Chain(http.HandlerFunc(h.HandleDashboard),
			RequireSession,
			httpx.RateLimitBySession(httpx.LenientLimit),
		),
	)

	// Anonymous callers get {} rather than a redirect.
	r.Mux.Handle("GET /api/me",
		httpx.Chain(http.HandlerFunc(h.HandleMe),
			httpx.RateLimitBySession(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("GET /static/",
		httpx.Chain(StaticHandler(),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		Auth:     r.AuthService,
		Sessions: r.sessions,
		Views:    r.views,
	}

	// Login initiation - moderate limit, it only sets a cookie and redirects
	r.Mux.Handle("GET /auth/google",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// Callback - strict limit, every hit costs a token exchange
	r.Mux.Handle("GET /auth/google/callback",
		httpx.Chain(http.HandlerFunc(h.HandleCallback),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("GET /logout", http.HandlerFunc(h.HandleLogout))
}

func (r *Router) registerWorkspace() {
	h := &WorkspaceHandler{
		Workspace: r.WorkspaceService,
		Sessions:  r.sessions,
		Views:     r.views,
	}

	secured := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			RequireSession,
			httpx.RateLimitBySession(httpx.LenientLimit),
		)
	}

	r.Mux.Handle("GET /drive", secured(h.HandleDrive))
	r.Mux.Handle("GET /gmail", secured(h.HandleGmail))
	r.Mux.Handle("GET /calendar", secured(h.HandleCalendar))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
