package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClaims struct {
	sessionID uuid.UUID
}

func (c *stubClaims) GetSessionID() uuid.UUID { return c.sessionID }

type stubValidator struct {
	sessionID uuid.UUID
	err       error
}

func (v *stubValidator) ValidateToken(tokenString string) (SessionIDGetter, error) {
	if v.err != nil {
		return nil, v.err
	}
	return &stubClaims{sessionID: v.sessionID}, nil
}

func TestAuth_ValidToken(t *testing.T) {
	sessionID := uuid.New()
	validator := &stubValidator{sessionID: sessionID}

	var gotID uuid.UUID
	handler := Auth(validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := GetSessionID(r)
		require.NoError(t, err)
		gotID = id
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/sessions/x", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sessionID, gotID)
}

func TestAuth_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		validator *stubValidator
	}{
		{"missing header", "", &stubValidator{}},
		{"wrong scheme", "Basic abc", &stubValidator{}},
		{"empty token", "Bearer ", &stubValidator{}},
		{"invalid token", "Bearer bad", &stubValidator{err: errors.New("invalid")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Auth(tt.validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("handler should not be reached")
			}))

			req := httptest.NewRequest(http.MethodGet, "/sessions/x", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAuth_BearerCaseInsensitive(t *testing.T) {
	validator := &stubValidator{sessionID: uuid.New()}
	handler := Auth(validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/sessions/x", nil)
	req.Header.Set("Authorization", "bearer some-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetSessionID_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := GetSessionID(req.WithContext(context.Background()))
	assert.Error(t, err)
}
