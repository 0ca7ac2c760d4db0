package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/MrJamesThe3rd/dealdesk/internal/http/render"
	"github.com/MrJamesThe3rd/dealdesk/internal/session"
)

type Authenticator interface {
	Authenticate(token string) (session.Session, error)
}

// RequireSession rejects requests without a valid bearer token and stores
// the caller's session in the request context.
func RequireSession(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				render.Message(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			sess, err := authn.Authenticate(token)
			if err != nil {
				slog.Debug("rejected token", "path", r.URL.Path, "error", err)
				render.Message(w, http.StatusUnauthorized, "unauthorized")

				return
			}

			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}

	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}
