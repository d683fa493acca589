// authapi — HTTP-клиент внешнего API аутентификации (POST /auth/login, /auth/register).
// Клиент ничего не знает о cookie: он только пересылает учётные данные
// и разбирает ответ апстрима в Session или UpstreamError.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pribylovaa/fittrack-dashboard/internal/pkg/log"
	"github.com/pribylovaa/fittrack-dashboard/internal/pkg/redact"
	"github.com/pribylovaa/fittrack-dashboard/internal/pkg/requestid"
)

const (
	maxBodyBytes = 1 << 20

	LoginFallback    = "Login failed"
	RegisterFallback = "Registration failed"
)

// ErrUnavailable — апстрим недоступен (сеть, DNS, таймаут соединения).
var ErrUnavailable = errors.New("upstream unavailable")

// UpstreamError — ответ апстрима не 2xx: статус и сообщение для пользователя.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.Status, e.Message)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role,omitempty"`
}

// Session — успешный ответ апстрима.
// User передаётся клиенту как есть; ExpiresAt — строка апстрима
// либо exp из токена, если апстрим срок не прислал.
type Session struct {
	Token     string
	User      json.RawMessage
	ExpiresAt string
}

type sessionResponse struct {
	Token     string          `json:"token"`
	User      json.RawMessage `json:"user"`
	ExpiresAt string          `json:"expires_at"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

// WithHTTPClient подменяет http.Client (тесты, транспорт с ретраями).
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Login пересылает учётные данные в POST /auth/login.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	const op = "clients/authapi/Login"

	ctx = log.With(ctx, "op", op, "email", redact.Email(req.Email))

	s, err := c.post(ctx, "/auth/login", req, LoginFallback)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s, nil
}

// Register пересылает регистрацию в POST /auth/register.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	const op = "clients/authapi/Register"

	ctx = log.With(ctx, "op", op, "email", redact.Email(req.Email), "role", req.Role)

	s, err := c.post(ctx, "/auth/register", req, RegisterFallback)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s, nil
}

func (c *Client) post(ctx context.Context, path string, body any, fallback string) (*Session, error) {
	lg := log.From(ctx)

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if rid := requestid.From(ctx); rid != "" {
		httpReq.Header.Set(requestid.Header, rid)
	}

	start := time.Now()

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		lg.Warn("upstream_unreachable", "err", err, "dur", time.Since(start))

		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	lg.Debug("upstream_response", "status", resp.StatusCode, "dur", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fallback

		var e errorResponse
		if json.Unmarshal(raw, &e) == nil && strings.TrimSpace(e.Error) != "" {
			msg = e.Error
		}

		return nil, &UpstreamError{Status: resp.StatusCode, Message: msg}
	}

	var sr sessionResponse
	if err := json.Unmarshal(raw, &sr); err != nil || sr.Token == "" {
		lg.Error("upstream_bad_response", "status", resp.StatusCode, "err", err)

		return nil, &UpstreamError{Status: http.StatusBadGateway, Message: fallback}
	}

	if sr.ExpiresAt == "" {
		sr.ExpiresAt = tokenExpiry(sr.Token)
	}

	return &Session{Token: sr.Token, User: sr.User, ExpiresAt: sr.ExpiresAt}, nil
}

// tokenExpiry читает exp из JWT без проверки подписи (проверка — забота апстрима).
// Непрозрачный токен или отсутствие exp — пустая строка.
func tokenExpiry(token string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return ""
	}

	return exp.UTC().Format(time.RFC3339)
}
