package core

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": exp.Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestTokenExpiryShouldReadExpClaim(t *testing.T) {
	exp := time.Now().Add(15 * time.Minute).Truncate(time.Second)

	got, ok := TokenExpiry(signedToken(t, exp))
	if !ok {
		t.Fatal("expected an expiry")
	}
	if !got.Equal(exp) {
		t.Errorf("expiry = %v, want %v", got, exp)
	}
}

func TestTokenExpiryShouldRejectOpaqueTokens(t *testing.T) {
	if _, ok := TokenExpiry("not-a-jwt"); ok {
		t.Error("opaque token must report no expiry")
	}
}

func TestTokenExpiryShouldHandleMissingExp(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1"})
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, ok := TokenExpiry(s); ok {
		t.Error("token without exp must report no expiry")
	}
}
