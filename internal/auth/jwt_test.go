package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-key-that-is-32-bytes!"

func TestGenerateAndValidate(t *testing.T) {
	m := NewJWTManager(testSecret, time.Hour)

	token, err := m.Generate("alice")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.Principal != "alice" || claims.Subject != "alice" {
		t.Errorf("claims = %+v, want principal alice", claims)
	}
}

func TestGenerateRequiresPrincipal(t *testing.T) {
	m := NewJWTManager(testSecret, time.Hour)
	if _, err := m.Generate(""); err == nil {
		t.Fatal("expected error for empty principal")
	}
}

func TestValidateRejects(t *testing.T) {
	m := NewJWTManager(testSecret, time.Hour)
	valid, err := m.Generate("alice")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	otherKey, err := NewJWTManager("another-secret-key-of-32-bytes!!", time.Hour).Generate("alice")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Principal: "alice"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to sign unsigned token: %v", err)
	}

	noPrincipal, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"tampered", valid + "x"},
		{"wrong secret", otherKey},
		{"unsigned", none},
		{"missing principal", noPrincipal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Validate(tt.token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Validate() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestValidateExpired(t *testing.T) {
	m := NewJWTManager(testSecret, time.Hour)
	issued := time.Unix(1_700_000_000, 0)
	m.now = func() time.Time { return issued }

	token, err := m.Generate("alice")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	m.now = func() time.Time { return issued.Add(59 * time.Minute) }
	if _, err := m.Validate(token); err != nil {
		t.Fatalf("token should still be valid: %v", err)
	}

	m.now = func() time.Time { return issued.Add(2 * time.Hour) }
	if _, err := m.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Validate() error = %v, want ErrInvalidToken", err)
	}
}
