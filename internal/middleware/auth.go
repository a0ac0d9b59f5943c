package middleware

import (
	"net/http"
	"strings"

	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/auth"
)

// RequireAuthMiddleware returns a mux-compatible middleware (func(http.Handler) http.Handler).
func RequireAuthMiddleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return RequireAuth(secret, next)
	}
}

// RequireAuth acepta la cookie de sesión o un header Authorization: Bearer.
func RequireAuth(secret []byte, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := extractToken(r)
		if raw == "" {
			writeJSONError(w, http.StatusUnauthorized, "No autorizado")
			return
		}
		claims, err := auth.ParseJWT(secret, raw)
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, "Sesión inválida o expirada")
			return
		}
		r = r.WithContext(auth.WithClaims(r.Context(), claims))
		next.ServeHTTP(w, r)
	})
}

func extractToken(r *http.Request) string {
	if tok := extractBearer(r); tok != "" {
		return tok
	}
	if c, err := r.Cookie(auth.SessionCookieName); err == nil {
		return strings.TrimSpace(c.Value)
	}
	return ""
}

func extractBearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}
