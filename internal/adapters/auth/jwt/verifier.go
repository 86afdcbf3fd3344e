package jwt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"get-a-pet/internal/ports/auth"

	gojwt "github.com/golang-jwt/jwt/v5"
)

var ErrSecretRequired = errors.New("jwt secret required")

// tokenClaims acepta el payload histórico ({"id","name"}) y el actual ({"user_id"}).
type tokenClaims struct {
	UserID string `json:"user_id,omitempty"`
	ID     string `json:"id,omitempty"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	gojwt.RegisteredClaims
}

func (c tokenClaims) userID() string {
	if id := strings.TrimSpace(c.UserID); id != "" {
		return id
	}
	return strings.TrimSpace(c.ID)
}

// Verifier implementa auth.AuthVerifier con tokens HS256 firmados localmente.
type Verifier struct {
	secret []byte
	now    func() time.Time
}

func NewVerifier(secret string) (*Verifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrSecretRequired
	}
	return &Verifier{secret: []byte(secret), now: time.Now}, nil
}

func (v *Verifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	claims := &tokenClaims{}
	parsed, err := gojwt.ParseWithClaims(strings.TrimSpace(token), claims, func(t *gojwt.Token) (any, error) {
		if _, ok := t.Method.(*gojwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	}, gojwt.WithTimeFunc(v.now))
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", auth.ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return auth.Claims{}, auth.ErrInvalidToken
	}

	uid := claims.userID()
	if uid == "" {
		return auth.Claims{}, fmt.Errorf("%w: missing user id", auth.ErrInvalidToken)
	}
	return auth.Claims{
		UserID: uid,
		Email:  strings.TrimSpace(claims.Email),
		Name:   strings.TrimSpace(claims.Name),
	}, nil
}

// Issue firma un token para userID. Lo usan tests y el tooling de desarrollo.
func (v *Verifier) Issue(userID, name string, ttl time.Duration) (string, error) {
	now := v.now()
	claims := tokenClaims{
		UserID: userID,
		Name:   name,
		RegisteredClaims: gojwt.RegisteredClaims{
			IssuedAt: gojwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = gojwt.NewNumericDate(now.Add(ttl))
	}
	return gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(v.secret)
}
