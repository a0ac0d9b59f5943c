package middleware

import (
	"context"
	"net/http"
	"time"
)

// Timeout cancela el contexto de la petición pasados seconds segundos; las
// consultas a Postgres y S3 lo respetan. Con seconds <= 0 no hace nada.
func Timeout(seconds int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if seconds <= 0 {
			return next
		}
		d := time.Duration(seconds) * time.Second
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
