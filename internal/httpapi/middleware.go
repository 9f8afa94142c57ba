package httpapi

import (
	"context"
	"net/http"
)

type contextKey string

const userEmailKey contextKey = "user_email"

// IdentityMiddleware reads the caller principal from the X-User-Email
// header. The header is set by the fronting gateway and trusted as-is;
// its value is treated as an opaque identifier.
func IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email := r.Header.Get("X-User-Email")
		if email == "" {
			respondError(w, http.StatusUnauthorized, "unauthenticated", "missing X-User-Email header")
			return
		}

		ctx := context.WithValue(r.Context(), userEmailKey, email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userEmailFromContext(ctx context.Context) string {
	if email, ok := ctx.Value(userEmailKey).(string); ok {
		return email
	}
	return ""
}
