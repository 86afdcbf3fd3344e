package remote

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"get-a-pet/internal/platform/httpclient"
	"get-a-pet/internal/ports/users"
)

var ErrNotConfigured = errors.New("user directory not configured")

type Config struct {
	BaseURL string
	APIKey  string

	APIKeyHeader string
	Timeout      time.Duration
}

// Directory consulta el servicio de cuentas: GET /v1/users/{id}.
type Directory struct {
	http *httpclient.Client
}

func NewDirectory(cfg Config) (*Directory, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrNotConfigured
	}
	c, err := httpclient.New(cfg.BaseURL, cfg.Timeout, httpclient.WithAPIKey(cfg.APIKeyHeader, cfg.APIKey))
	if err != nil {
		return nil, err
	}
	return &Directory{http: c}, nil
}

func (d *Directory) Get(ctx context.Context, id string) (users.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return users.User{}, users.ErrNotFound
	}

	var out users.User
	err := d.http.Get(ctx, "/v1/users/"+url.PathEscape(id), &out)
	switch {
	case errors.Is(err, httpclient.ErrNotFound):
		return users.User{}, users.ErrNotFound
	case err != nil:
		return users.User{}, fmt.Errorf("user directory: %w", err)
	}
	if strings.TrimSpace(out.ID) == "" {
		out.ID = id
	}
	return out, nil
}
