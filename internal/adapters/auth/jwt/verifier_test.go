package jwt

import (
	"context"
	"errors"
	"testing"
	"time"

	"meditrack/internal/ports/auth"

	gojwt "github.com/golang-jwt/jwt/v5"
)

func TestVerifier_SignAndVerify(t *testing.T) {
	v, err := NewVerifier("s3cret")
	if err != nil {
		t.Fatalf("NewVerifier error: %v", err)
	}

	tok, err := v.Sign("user-7", time.Hour)
	if err != nil {
		t.Fatalf("Sign error: %v", err)
	}
	c, err := v.Verify(context.Background(), tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if c.UserID != "user-7" {
		t.Fatalf("expected user-7, got %q", c.UserID)
	}
}

func TestVerifier_NumericSub(t *testing.T) {
	v, _ := NewVerifier("s3cret")
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.MapClaims{
		"sub":   float64(1),
		"email": "ana@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("s3cret"))
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}

	c, err := v.Verify(context.Background(), tok)
	if err != nil || c.UserID != "1" || c.Email != "ana@example.com" {
		t.Fatalf("unexpected claims %#v err=%v", c, err)
	}
}

func TestVerifier_Rejects(t *testing.T) {
	v, _ := NewVerifier("s3cret")
	other, _ := NewVerifier("other")

	foreign, _ := other.Sign("user-7", time.Hour)
	expired, _ := v.Sign("user-7", -time.Minute)
	noSub, _ := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("s3cret"))

	cases := map[string]string{
		"empty":      "",
		"garbage":    "not-a-token",
		"wrong key":  foreign,
		"expired":    expired,
		"no subject": noSub,
	}
	for name, tok := range cases {
		if _, err := v.Verify(context.Background(), tok); !errors.Is(err, auth.ErrInvalidToken) {
			t.Fatalf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}

	if _, err := NewVerifier("  "); !errors.Is(err, ErrSecretEmpty) {
		t.Fatalf("expected ErrSecretEmpty, got %v", err)
	}
}
