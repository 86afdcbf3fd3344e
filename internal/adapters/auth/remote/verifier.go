package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"get-a-pet/internal/platform/httpclient"
	"get-a-pet/internal/ports/auth"
)

var ErrNotConfigured = errors.New("remote auth not configured")

// Config del proveedor de identidad externo.
type Config struct {
	BaseURL string
	APIKey  string

	// Si está vacío, se usa "X-Api-Key".
	APIKeyHeader string

	Timeout time.Duration
}

// Verifier implementa auth.AuthVerifier delegando en un servicio de identidad:
// POST /v1/tokens/verify {"token": "..."} => {"user_id","email","name"}.
type Verifier struct {
	http *httpclient.Client
}

func NewVerifier(cfg Config) (*Verifier, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" || strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}
	c, err := httpclient.New(cfg.BaseURL, cfg.Timeout, httpclient.WithAPIKey(cfg.APIKeyHeader, cfg.APIKey))
	if err != nil {
		return nil, err
	}
	return &Verifier{http: c}, nil
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, auth.ErrInvalidToken
	}

	var out struct {
		UserID string `json:"user_id"`
		Email  string `json:"email"`
		Name   string `json:"name"`
	}
	err := v.http.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/v1/tokens/verify",
		Header: http.Header{"Authorization": {"Bearer " + token}},
		Body:   map[string]string{"token": token},
	}, &out)
	switch {
	case errors.Is(err, httpclient.ErrUnauthorized):
		return auth.Claims{}, auth.ErrInvalidToken
	case err != nil:
		return auth.Claims{}, fmt.Errorf("remote verify: %w", err)
	}

	out.UserID = strings.TrimSpace(out.UserID)
	if out.UserID == "" {
		return auth.Claims{}, fmt.Errorf("%w: response missing user_id", auth.ErrInvalidToken)
	}
	return auth.Claims{
		UserID: out.UserID,
		Email:  strings.TrimSpace(out.Email),
		Name:   strings.TrimSpace(out.Name),
	}, nil
}
