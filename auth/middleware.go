package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/user/primer-backend-go/respond"
)

// The three route-gate rejections share the envelope shape but keep
// distinguishable messages for diagnostics.
const (
	msgTokenMissing   = "Token no proporcionado"
	msgTokenMalformed = "Formato de token inválido"
	msgTokenInvalid   = "Token inválido o expirado"
)

// contextKey is a private type so this package's context keys cannot collide
// with keys from other packages.
type contextKey string

const claimsContextKey contextKey = "auth_claims"

// Middleware gates protected routes on a valid bearer token. The decoded
// claims are attached to the request context for downstream handlers.
func Middleware(tokens *TokenService) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respond.ErrorMessage(w, http.StatusUnauthorized, msgTokenMissing)
				return
			}

			// Expected form: "Bearer <token>".
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				respond.ErrorMessage(w, http.StatusUnauthorized, msgTokenMalformed)
				return
			}

			claims, err := tokens.Verify(parts[1])
			if err != nil {
				respond.ErrorMessage(w, http.StatusUnauthorized, msgTokenInvalid)
				return
			}

			ctx := NewContextWithClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NewContextWithClaims returns a child context carrying the decoded claims.
func NewContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext extracts the claims attached by Middleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*Claims)
	return claims, ok
}
