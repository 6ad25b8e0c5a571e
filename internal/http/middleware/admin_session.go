package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/vitornegrao/minha-landing-page/internal/auth"
	"github.com/vitornegrao/minha-landing-page/pkg/logging"
)

type contextKey string

const adminSessionKey contextKey = "adminSession"

// AdminSessionCookie carries the signed session token for browser clients.
const AdminSessionCookie = "admin_session"

// SessionValidator resolves a token into a live admin session.
type SessionValidator interface {
	Validate(ctx context.Context, token string) (*auth.Session, error)
}

// AdminSession requires a valid admin session on every request. Browser
// routes are redirected to loginPath; routes under /api/ get a JSON 401.
func AdminSession(validator SessionValidator, loginPath string, logger *logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := SessionToken(r)
			if token == "" {
				rejectSession(w, r, loginPath)
				return
			}
			sess, err := validator.Validate(r.Context(), token)
			if err != nil {
				logger.Debug("admin session rejected", "path", r.URL.Path, "error", err)
				rejectSession(w, r, loginPath)
				return
			}
			ctx := context.WithValue(r.Context(), adminSessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionToken extracts the session token from the Authorization header or
// the session cookie, in that order.
func SessionToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := r.Cookie(AdminSessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// SessionFromContext returns the admin session if present.
func SessionFromContext(ctx context.Context) (*auth.Session, bool) {
	sess, ok := ctx.Value(adminSessionKey).(*auth.Session)
	return sess, ok && sess != nil
}

func rejectSession(w http.ResponseWriter, r *http.Request, loginPath string) {
	if strings.HasPrefix(r.URL.Path, "/api/") || loginPath == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}
