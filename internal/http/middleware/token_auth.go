package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
)

type contextKey string

const principalKey contextKey = "principal"

// TokenParam is the route parameter that carries the session token.
const TokenParam = "token"

// TokenVerifier validates a session token and returns who it belongs to.
type TokenVerifier interface {
	Verify(token string) (role, subject string, err error)
}

// Principal is the authenticated caller of a request.
type Principal struct {
	Role    string
	Subject string
	Token   string
}

// RequireRole admits requests whose token verifies and carries one of
// roles. The token is read from the {token} path segment, falling back to
// the Authorization header.
func RequireRole(verifier TokenVerifier, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := chi.URLParam(r, TokenParam)
			if token == "" {
				if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
					token = strings.TrimPrefix(auth, "Bearer ")
				}
			}
			if token == "" {
				deny(w, http.StatusUnauthorized, "missing token")
				return
			}
			role, subject, err := verifier.Verify(token)
			if err != nil {
				deny(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
			if len(roles) > 0 && !slices.Contains(roles, role) {
				deny(w, http.StatusForbidden, "Access denied for role "+role)
				return
			}
			ctx := context.WithValue(r.Context(), principalKey, Principal{Role: role, Subject: subject, Token: token})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFromContext returns the caller admitted by RequireRole.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

func deny(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
