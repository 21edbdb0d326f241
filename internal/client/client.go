// Package client is the typed HTTP client of the CRM API. One Client is
// configured per process; every call carries an explicit *Session.
package client

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

	"github.com/glanzwerk/crm/internal/config"
	"github.com/glanzwerk/crm/internal/domain"
	"go.uber.org/zap"
)

// maxResponseBytes bounds JSON responses read into memory
const maxResponseBytes = 8 << 20

var (
	// ErrTransport means the request never produced an HTTP response
	ErrTransport = errors.New("transport failure")
	// ErrMalformedResponse means a 2xx response had an absent or undecodable body
	ErrMalformedResponse = errors.New("malformed response")
	// ErrNoSession is returned before any request is issued when the session is missing
	ErrNoSession = errors.New("no session")
)

// StatusError is a non-2xx response. The fields come from the problem details
// body when the server sent one.
type StatusError struct {
	StatusCode int
	Type       string
	Detail     string
	Fields     map[string]string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("status %d", e.StatusCode)
}

// IsStatus reports whether err is a StatusError with the given code
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// Session is an authenticated identity. It replaces any notion of a global
// current user: callers pass it into every request.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      domain.SessionUserDTO
}

func (s *Session) valid() bool {
	return s != nil && s.Token != ""
}

// Client talks to one CRM API server
type Client struct {
	baseURL *url.URL
	http    *http.Client
	timeout time.Duration
	logger  *zap.Logger
}

// New creates a client for cfg.BaseURL. A zero timeout disables the per-request limit.
func New(cfg *config.ClientConfig, logger *zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("client base URL is not configured")
	}
	base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid client base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("client base URL must be http or https, got %q", cfg.BaseURL)
	}

	timeout := cfg.TimeoutDuration()
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: timeout},
		timeout: timeout,
		logger:  logger,
	}, nil
}

// BaseURL returns the configured server address
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Login opens a staff session
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	return c.login(ctx, "/api/auth/login", email, password)
}

// PortalLogin opens a customer portal session
func (c *Client) PortalLogin(ctx context.Context, email, password string) (*Session, error) {
	return c.login(ctx, "/api/portal/login", email, password)
}

func (c *Client) login(ctx context.Context, path, email, password string) (*Session, error) {
	var resp domain.LoginResponse
	body := domain.LoginRequest{Email: email, Password: password}
	if err := c.request(ctx, "", http.MethodPost, path, nil, body, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("%w: login returned no token", ErrMalformedResponse)
	}

	session := &Session{Token: resp.Token, User: resp.User}
	if t, err := time.Parse(time.RFC3339, resp.ExpiresAt); err == nil {
		session.ExpiresAt = t
	}
	c.logger.Info("logged in", zap.Int64("user_id", resp.User.ID), zap.String("role", string(resp.User.Role)))
	return session, nil
}

// Me returns the identity behind the session as the server sees it
func (c *Client) Me(ctx context.Context, s *Session) (*domain.SessionUserDTO, error) {
	var user domain.SessionUserDTO
	if err := c.do(ctx, s, http.MethodGet, "/api/auth/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// do issues an authenticated request
func (c *Client) do(ctx context.Context, s *Session, method, path string, query url.Values, body, out interface{}) error {
	if !s.valid() {
		return ErrNoSession
	}
	return c.request(ctx, s.Token, method, path, query, body, out)
}

func (c *Client) newRequest(ctx context.Context, token, method, path string, query url.Values, body interface{}) (*http.Request, error) {
	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// request sends one JSON request and decodes a 2xx body into out (when non-nil)
func (c *Client) request(ctx context.Context, token, method, path string, query url.Values, body, out interface{}) error {
	data, err := c.send(ctx, token, method, path, query, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("%w: %s %s: empty body", ErrMalformedResponse, method, path)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrMalformedResponse, method, path, err)
	}
	return nil
}

// send returns the raw body of a 2xx response
func (c *Client) send(ctx context.Context, token, method, path string, query url.Values, body interface{}) ([]byte, error) {
	req, err := c.newRequest(ctx, token, method, path, query, body)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: reading body: %w", ErrTransport, method, path, err)
	}

	c.logger.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp.StatusCode, data)
	}
	return data, nil
}

func statusError(code int, body []byte) *StatusError {
	se := &StatusError{StatusCode: code}
	var apiErr domain.APIError
	if json.Unmarshal(body, &apiErr) == nil {
		se.Type = apiErr.Type
		se.Detail = apiErr.Detail
		se.Fields = apiErr.Errors
	}
	if se.Detail == "" {
		se.Detail = http.StatusText(code)
	}
	return se
}
