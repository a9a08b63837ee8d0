package handlers

import (
	"context"
	"net/http"
	"strings"

	"gitlab.com/gradeworks/internal/core/ports/primary"
	"gitlab.com/gradeworks/internal/domain"
)

type contextKey string

const userContextKey contextKey = "authUser"

// MiddlewareProvider wires the identity seam: it verifies the bearer
// token the surrounding web application issued and puts the decoded
// payload on the request context. Login and role management live in the
// auth service, not here.
type MiddlewareProvider struct {
	tokens primary.TokenService
}

func New(tokens primary.TokenService) *MiddlewareProvider {
	return &MiddlewareProvider{tokens: tokens}
}

func (m *MiddlewareProvider) JWTMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header missing", http.StatusUnauthorized)
			return
		}

		// Extract token from "Bearer <token>"
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		payload, err := m.tokens.DecodeTokenPayload(r.Context(), tokenString)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, payload)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext returns the authenticated user the middleware stored
func UserFromContext(ctx context.Context) (domain.AuthPayload, bool) {
	payload, ok := ctx.Value(userContextKey).(domain.AuthPayload)
	return payload, ok
}
