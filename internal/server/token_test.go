package server

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_RoundTrip(t *testing.T) {
	service := NewTokenService("secret", 0)
	sessionID := uuid.New()

	token, err := service.GenerateToken(sessionID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, sessionID, claims.SessionID)
	assert.Equal(t, sessionID, claims.GetSessionID())
}

func TestTokenService_WrongSecret(t *testing.T) {
	token, err := NewTokenService("secret-a", 0).GenerateToken(uuid.New())
	require.NoError(t, err)

	_, err = NewTokenService("secret-b", 0).ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenService_Expired(t *testing.T) {
	service := NewTokenService("secret", time.Nanosecond)

	token, err := service.GenerateToken(uuid.New())
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	_, err = service.ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenService_EmptyToken(t *testing.T) {
	_, err := NewTokenService("secret", 0).ValidateToken("")
	assert.Error(t, err)
}
