package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/ratholink/internal/gateway/domain"
	"github.com/aussiebroadwan/ratholink/pkg/httpx"
	"github.com/aussiebroadwan/ratholink/pkg/sessionx"
	"github.com/aussiebroadwan/ratholink/pkg/slogx"
)

type sessionKey struct{}

// SessionMiddleware decodes the session cookie onto the request context.
// A missing cookie is an anonymous request; a bad or expired one is cleared
// and also treated as anonymous.
func SessionMiddleware(codec *sessionx.Codec) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := codec.Read(r)
			switch {
			case err == nil:
				sess := domain.NewSession(data.LocalID, data.AccessToken, data.ExpiresAt)

				ctx := context.WithValue(r.Context(), sessionKey{}, sess)
				ctx = httpx.WithLocalID(ctx, sess.LocalID)
				ctx = slogx.WithAttrs(ctx, "local_id", sess.LocalID)
				r = r.WithContext(ctx)

			case !errors.Is(err, sessionx.ErrNoSession):
				slogx.FromContext(r.Context()).Debug("discarding invalid session cookie", "error", err)
				codec.Clear(w)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SessionFromContext returns the request's session, or nil when anonymous.
func SessionFromContext(ctx context.Context) *domain.Session {
	sess, _ := ctx.Value(sessionKey{}).(*domain.Session)
	return sess
}

// RequireSession sends anonymous requests back to the landing page.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if SessionFromContext(r.Context()).Anonymous() {
			httpx.Redirect(w, r, "/")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// saveSession re-issues the cookie when a handler changed the session, which
// only happens after a refresh. The original expiry is kept.
func saveSession(w http.ResponseWriter, r *http.Request, codec *sessionx.Codec, sess *domain.Session) {
	if !sess.Changed() {
		return
	}
	err := codec.Write(w, sessionx.Data{
		LocalID:     sess.LocalID,
		AccessToken: sess.AccessToken,
		ExpiresAt:   sess.ExpiresAt,
	})
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to re-issue session", "error", err)
	}
}
