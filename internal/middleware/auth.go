package middleware

import (
	"net/http"
	"strings"

	"github.com/R4Lcoding/RaduBrowserServer/internal/session"
)

// RequireSession rejects requests without a valid bearer token and stores
// the token's claims in the request context.
func RequireSession(secret []byte) func(http.Handler) http.Handler {
	return sessionMiddleware(secret, true)
}

// OptionalSession verifies a bearer token when one is sent. Requests without
// an Authorization header pass through untouched.
func OptionalSession(secret []byte) func(http.Handler) http.Handler {
	return sessionMiddleware(secret, false)
}

func sessionMiddleware(secret []byte, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
			if authHeader == "" && !required {
				next.ServeHTTP(w, r)
				return
			}
			if len(secret) == 0 {
				http.Error(w, "server auth misconfigured", http.StatusInternalServerError)
				return
			}
			if len(authHeader) < 8 || !strings.EqualFold(authHeader[:7], "bearer ") {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := session.Parse(strings.TrimSpace(authHeader[7:]), secret)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(session.WithClaims(r.Context(), claims)))
		})
	}
}
