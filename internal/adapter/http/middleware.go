package http

import (
	"net/http"
)

// AuthMiddleware returns a middleware that validates the Authorization
// header against a static token.
// If the token is missing or invalid, it responds with 401 Unauthorized.
// If valid, it calls the next handler with the original request.
// An empty validToken disables the check entirely.
func AuthMiddleware(validToken string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if validToken == "" {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				respondError(w, http.StatusUnauthorized, "missing authorization header", "unauthorized", "danger")
				return
			}
			if auth != "Bearer "+validToken {
				respondError(w, http.StatusUnauthorized, "invalid token", "unauthorized", "danger")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
