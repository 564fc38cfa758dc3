// Package middleware provides HTTP middleware for session token checks.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// sessionIDKey is the context key for the authenticated session ID.
const sessionIDKey ContextKey = "sessionID"

// TokenValidator validates session token strings.
type TokenValidator interface {
	ValidateToken(tokenString string) (SessionIDGetter, error)
}

// SessionIDGetter extracts the session ID from token claims.
type SessionIDGetter interface {
	GetSessionID() uuid.UUID
}

// Auth creates middleware that validates Bearer tokens and adds the
// token's session ID to the request context. Ownership of a concrete
// session is checked by the handlers, not here.
func Auth(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			// "Bearer" is matched case-insensitively
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimSpace(parts[1])
			if tokenString == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.ValidateToken(tokenString)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), sessionIDKey, claims.GetSessionID())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSessionID extracts the authenticated session ID from the request context.
func GetSessionID(r *http.Request) (uuid.UUID, error) {
	sessionID, ok := r.Context().Value(sessionIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("session ID not found in request context")
	}
	return sessionID, nil
}

// SessionIDKey returns the context key for the session ID (for testing purposes).
func SessionIDKey() ContextKey {
	return sessionIDKey
}
