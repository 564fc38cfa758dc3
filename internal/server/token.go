// Package server provides the HTTP API for the mood agent.
package server

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/daniel/moodcine/internal/server/middleware"
)

// DefaultTokenTTL matches the session store's idle eviction horizon;
// a token outliving its session is harmless, it just resolves to 404.
const DefaultTokenTTL = time.Hour

// Claims binds a token to one server-side session.
type Claims struct {
	SessionID uuid.UUID `json:"session_id"`
	jwt.RegisteredClaims
}

// GetSessionID returns the session ID from the claims.
// This implements the middleware.SessionIDGetter interface.
func (c *Claims) GetSessionID() uuid.UUID {
	return c.SessionID
}

// TokenService issues and validates the signed session tokens handed
// out on session creation.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a token service. A zero ttl selects the default.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// AsTokenValidator returns a middleware.TokenValidator adapter, keeping
// the middleware package free of a dependency on this one.
func (s *TokenService) AsTokenValidator() middleware.TokenValidator {
	return &tokenServiceValidator{service: s}
}

type tokenServiceValidator struct {
	service *TokenService
}

func (v *tokenServiceValidator) ValidateToken(tokenString string) (middleware.SessionIDGetter, error) {
	claims, err := v.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// GenerateToken generates a signed token for the given session ID.
func (s *TokenService) GenerateToken(sessionID uuid.UUID) (string, error) {
	now := time.Now()

	claims := &Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates a token string and returns its claims.
func (s *TokenService) ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("token string is empty")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}

	return claims, nil
}
