package auth

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/ghuser/auctionhouse/pkg/httpx"
	"github.com/ghuser/auctionhouse/pkg/logger"
)

const sessionName = "auctionhouse_session"
const sessionUserKey = "username"

// RequireAuth is a chi middleware that enforces authentication via session cookies.
// It reads the session cookie, extracts the username, and injects it into the
// request context. Returns 401 Unauthorized if the session is missing,
// invalid, or lacks a username.
//
// After this middleware, handlers can safely call auth.UserFromCtx(r.Context()).
func RequireAuth(store sessions.Store, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := store.Get(r, sessionName)
			if err != nil {
				log.WarnContext(r.Context(), "invalid session cookie", "error", err)
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
				return
			}

			user, ok := session.Values[sessionUserKey].(string)
			if !ok || user == "" {
				log.WarnContext(r.Context(), "session missing username")
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
				return
			}

			ctx := WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
