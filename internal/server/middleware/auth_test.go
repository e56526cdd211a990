package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

// stubClaims implements UserIDGetter for tests.
type stubClaims struct {
	userID uuid.UUID
}

func (c *stubClaims) GetUserID() uuid.UUID {
	return c.userID
}

// stubValidator accepts exactly one token string.
type stubValidator struct {
	validToken string
	userID     uuid.UUID
}

func (v *stubValidator) ValidateToken(tokenString string) (UserIDGetter, error) {
	if tokenString != v.validToken {
		return nil, errors.New("invalid token")
	}
	return &stubClaims{userID: v.userID}, nil
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	validator := &stubValidator{validToken: "good-token", userID: userID}

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"no bearer prefix", "good-token", http.StatusUnauthorized},
		{"wrong scheme", "Basic good-token", http.StatusUnauthorized},
		{"too many parts", "Bearer good token extra", http.StatusUnauthorized},
		{"invalid token", "Bearer bad-token", http.StatusUnauthorized},
		{"valid token", "Bearer good-token", http.StatusOK},
		{"lowercase bearer", "bearer good-token", http.StatusOK},
		{"uppercase bearer", "BEARER good-token", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUserID uuid.UUID
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				id, err := GetUserID(r)
				if err != nil {
					t.Errorf("GetUserID failed inside handler: %v", err)
				}
				gotUserID = id
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodDelete, "/restaurants", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			AuthMiddleware(validator)(next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantStatus == http.StatusOK && gotUserID != userID {
				t.Errorf("Expected user ID %s in context, got %s", userID, gotUserID)
			}
		})
	}
}

func TestGetUserID_MissingFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/restaurants", nil)

	_, err := GetUserID(req)
	if err == nil {
		t.Fatal("Expected error when user ID is not in context")
	}
}

func TestGetUserID_WrongType(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/restaurants", nil)
	ctx := context.WithValue(req.Context(), UserIDKey(), "not-a-uuid")
	req = req.WithContext(ctx)

	_, err := GetUserID(req)
	if err == nil {
		t.Fatal("Expected error when context value is not a uuid.UUID")
	}
}
