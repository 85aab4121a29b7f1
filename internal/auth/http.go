// ABOUTME: HTTP middleware guarding privileged API routes with bearer tokens
// ABOUTME: Extracts the token from the Authorization header and adds Claims to context

package auth

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Rejection messages, part of the public API contract.
const (
	msgNoToken       = "No token provided"
	msgInvalidToken  = "Invalid token"
	msgAdminRequired = "Admin access required"
)

// ExtractBearerToken reads the Authorization header and returns the token.
// The "Bearer " prefix is case-sensitive; no other header or scheme is
// recognized. Returns false when no usable token is present.
func ExtractBearerToken(headers http.Header) (string, bool) {
	authHeader := headers.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", false
	}
	return token, true
}

// Authenticate wraps a handler so it only runs for requests carrying a valid
// bearer token. On success the claim set is attached to the request context.
// Missing and invalid tokens produce distinct 401 bodies; the handler never
// runs on rejection.
func (g *Gate) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := ExtractBearerToken(r.Header)
		if !ok {
			writeAuthError(w, http.StatusUnauthorized, msgNoToken)
			return
		}

		claims, err := g.Verify(token)
		if err != nil {
			writeAuthError(w, http.StatusUnauthorized, msgInvalidToken)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// RequireAdmin wraps a handler behind Authenticate plus an admin role check.
// Authentication failures propagate untouched as 401; a valid token with the
// wrong role is a distinct 403.
func (g *Gate) RequireAdmin(next http.Handler) http.Handler {
	return g.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := MustFromContext(r.Context())
		if !claims.IsAdmin() {
			writeAuthError(w, http.StatusForbidden, msgAdminRequired)
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// writeAuthError writes the standard JSON error body used on rejection.
func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
