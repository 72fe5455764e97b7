package middleware

import (
	"context"
	"net/http"

	"github.com/dukerupert/noticeboard/internal/auth"
)

// SessionSource reports the logged-in admin session for a request context.
type SessionSource interface {
	Current(ctx context.Context) (auth.Session, bool)
}

// RequireSession rejects requests without a logged-in session with 401 and
// otherwise puts the session in the request context.
func RequireSession(sessions SessionSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := sessions.Current(r.Context())
			if !ok {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Authentication required"})
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), sess)))
		})
	}
}
