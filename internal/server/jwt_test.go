package server

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jordan/restaurant-collector/internal/config"
)

func testJWTService() *JWTService {
	return NewJWTService(&config.JWTConfig{
		Secret:          "test-secret-key-for-unit-tests",
		ExpirationHours: 1,
	})
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := testJWTService()
	userID := uuid.New()

	token, err := svc.GenerateToken(userID)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if token == "" {
		t.Fatal("Expected non-empty token")
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, claims.UserID)
	}
	if claims.GetUserID() != userID {
		t.Errorf("Expected GetUserID %s, got %s", userID, claims.GetUserID())
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(time.Now()) {
		t.Error("Expected expiry in the future")
	}
}

func TestJWTService_ValidateToken_Empty(t *testing.T) {
	svc := testJWTService()

	if _, err := svc.ValidateToken(""); err == nil {
		t.Fatal("Expected error for empty token")
	}
}

func TestJWTService_ValidateToken_Malformed(t *testing.T) {
	svc := testJWTService()

	if _, err := svc.ValidateToken("not.a.token"); err == nil {
		t.Fatal("Expected error for malformed token")
	}
}

func TestJWTService_ValidateToken_WrongSecret(t *testing.T) {
	svc := testJWTService()
	other := NewJWTService(&config.JWTConfig{
		Secret:          "a-different-secret",
		ExpirationHours: 1,
	})

	token, err := other.GenerateToken(uuid.New())
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := svc.ValidateToken(token); err == nil {
		t.Fatal("Expected error for token signed with a different secret")
	}
}

func TestJWTService_ValidateToken_Expired(t *testing.T) {
	svc := testJWTService()

	past := time.Now().Add(-2 * time.Hour)
	claims := &Claims{
		UserID: uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(past.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(past),
			NotBefore: jwt.NewNumericDate(past),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte("test-secret-key-for-unit-tests"))
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}

	_, err = svc.ValidateToken(tokenString)
	if err == nil {
		t.Fatal("Expected error for expired token")
	}
	if !strings.Contains(err.Error(), "expired") {
		t.Errorf("Expected expiry error, got: %v", err)
	}
}

func TestJWTService_ValidateToken_WrongSigningMethod(t *testing.T) {
	svc := testJWTService()

	// Unsigned token with alg "none" must be rejected.
	token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: uuid.New()})
	tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}

	if _, err := svc.ValidateToken(tokenString); err == nil {
		t.Fatal("Expected error for token with alg none")
	}
}

func TestJWTService_AsTokenValidator(t *testing.T) {
	svc := testJWTService()
	userID := uuid.New()

	token, err := svc.GenerateToken(userID)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	validator := svc.AsTokenValidator()
	getter, err := validator.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken via adapter failed: %v", err)
	}
	if getter.GetUserID() != userID {
		t.Errorf("Expected user ID %s, got %s", userID, getter.GetUserID())
	}

	if _, err := validator.ValidateToken("garbage"); err == nil {
		t.Fatal("Expected error for garbage token via adapter")
	}
}
