// Package jwt verifica tokens HS256 emitidos por el backend de cuentas.
package jwt

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"meditrack/internal/ports/auth"

	gojwt "github.com/golang-jwt/jwt/v5"
)

var ErrSecretEmpty = errors.New("jwt secret is empty")

// Verifier implementa auth.AuthVerifier.
type Verifier struct {
	secret []byte
	now    func() time.Time
}

func NewVerifier(secret string) (*Verifier, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, ErrSecretEmpty
	}
	return &Verifier{secret: []byte(secret), now: time.Now}, nil
}

func (v *Verifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, auth.ErrInvalidToken
	}

	t, err := gojwt.Parse(token, func(t *gojwt.Token) (any, error) {
		if t.Method != gojwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	}, gojwt.WithTimeFunc(v.now), gojwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !t.Valid {
		return auth.Claims{}, fmt.Errorf("%w: %v", auth.ErrInvalidToken, err)
	}

	mc, ok := t.Claims.(gojwt.MapClaims)
	if !ok {
		return auth.Claims{}, fmt.Errorf("%w: unexpected claims", auth.ErrInvalidToken)
	}

	uid := subject(mc["sub"])
	if uid == "" {
		return auth.Claims{}, fmt.Errorf("%w: missing sub", auth.ErrInvalidToken)
	}
	email, _ := mc["email"].(string)

	return auth.Claims{UserID: uid, Email: strings.TrimSpace(email)}, nil
}

// sub puede venir como string o número (los números de MapClaims son float64).
func subject(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		if s <= 0 {
			return ""
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return ""
	}
}

// Sign existe para dev y tests; en producción los tokens los emite otro servicio.
func (v *Verifier) Sign(userID string, ttl time.Duration) (string, error) {
	now := v.now()
	claims := gojwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	return gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(v.secret)
}
