package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultTimeout = 10 * time.Second
	DefaultAPIKey  = "X-Api-Key"

	maxBody = 1 << 20
)

var (
	ErrNotFound     = errors.New("httpclient: not found")
	ErrUnauthorized = errors.New("httpclient: unauthorized")
)

// Client habla JSON con un servicio externo (identidad, cuentas) bajo una URL base fija.
type Client struct {
	base   string
	http   *http.Client
	header http.Header
}

type Option func(*Client)

// WithAPIKey agrega la API key en cada request. header vacío => X-Api-Key; key vacía no hace nada.
func WithAPIKey(header, key string) Option {
	return func(c *Client) {
		key = strings.TrimSpace(key)
		if key == "" {
			return
		}
		if strings.TrimSpace(header) == "" {
			header = DefaultAPIKey
		}
		c.header.Set(header, key)
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.header.Set("User-Agent", ua) }
}

// New valida la URL base (http/https) y arma el cliente.
func New(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("httpclient: invalid base url %q", baseURL)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		base:   strings.TrimRight(baseURL, "/"),
		http:   &http.Client{Timeout: timeout},
		header: http.Header{"Accept": {"application/json"}, "User-Agent": {"get-a-pet"}},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// StatusError es una respuesta no-2xx. errors.Is la compara con ErrNotFound (404)
// y ErrUnauthorized (401/403).
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("httpclient: status %d", e.StatusCode)
	}
	return fmt.Sprintf("httpclient: status %d: %s", e.StatusCode, e.Body)
}

func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	}
	return false
}

type Request struct {
	Method string
	Path   string // relativo a la URL base
	Header http.Header
	Body   any // nil => sin body
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path}, out)
}

// Do envía req y decodifica la respuesta en out (si out != nil y hay body).
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("httpclient: encode body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	hr, err := http.NewRequestWithContext(ctx, method, c.base+"/"+strings.TrimLeft(req.Path, "/"), body)
	if err != nil {
		return fmt.Errorf("httpclient: build request: %w", err)
	}
	for k, v := range c.header {
		hr.Header[k] = v
	}
	for k, v := range req.Header {
		hr.Header[http.CanonicalHeaderKey(k)] = v
	}
	if body != nil {
		hr.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(hr)
	if err != nil {
		return fmt.Errorf("httpclient: %s %s: %w", method, req.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("httpclient: decode body: %w", err)
	}
	return nil
}
