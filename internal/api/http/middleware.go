package http

import (
	"context"
	"net/http"
	"strings"

	"securestore-backend/internal/security"
)

type contextKey string

const claimsContextKey contextKey = "user-claims"

// AuthMiddleware validates the Bearer token on protected routes and places the
// verified claims into the request context.
type AuthMiddleware struct {
	tokenManager security.TokenManager
}

func NewAuthMiddleware(tm security.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokenManager: tm}
}

func (m *AuthMiddleware) RequireAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := extractToken(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		claims, err := m.tokenManager.ValidateToken(token)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if claims.Type != security.TokenTypeAccess {
			writeError(w, r, security.ErrWrongTokenType)
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", security.ErrInvalidToken
	}
	// Remove Bearer prefix if present
	if len(authHeader) > 7 && strings.ToUpper(authHeader[0:7]) == "BEARER " {
		return authHeader[7:], nil
	}
	return authHeader, nil
}

// ClaimsFromContext returns the claims injected by RequireAccess. It only
// errors on routes that skipped the middleware.
func ClaimsFromContext(ctx context.Context) (*security.UserClaims, error) {
	claims, ok := ctx.Value(claimsContextKey).(*security.UserClaims)
	if !ok {
		return nil, security.ErrInvalidToken
	}
	return claims, nil
}
