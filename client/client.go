// Package client is a Go API client for the Inkwell REST API. It holds the
// session token pair and transparently refreshes the access token when the
// server answers 401.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"inkwell/internal/models"
)

// Client talks to an Inkwell server on behalf of one authenticated session.
// The zero value is not usable; construct with New.
type Client struct {
	baseURL string
	http    *http.Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	user         *models.User
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New creates a client for the API rooted at baseURL (no trailing slash
// required, "/api" is appended per request).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

type sessionResponse struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refresh_token"`
	User         *models.User `json:"user"`
}

// User returns the authenticated user, or nil before login.
func (c *Client) User() *models.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// RefreshToken returns the current refresh token so callers can persist the
// session across restarts.
func (c *Client) RefreshToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshToken
}

// Login authenticates with email and password and stores the session.
// totpCode may be empty unless the account has two-factor enabled.
func (c *Client) Login(ctx context.Context, email, password, totpCode string) error {
	var session sessionResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":     email,
		"password":  password,
		"totp_code": totpCode,
	}, &session, false)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.accessToken = session.Token
	c.refreshToken = session.RefreshToken
	c.user = session.User
	c.mu.Unlock()
	return nil
}

// ReAuthenticate restores a session from a persisted refresh token: it
// rotates the token pair and reloads the current user.
func (c *Client) ReAuthenticate(ctx context.Context, refreshToken string) error {
	c.mu.Lock()
	c.refreshToken = refreshToken
	c.mu.Unlock()

	if err := c.refresh(ctx); err != nil {
		return err
	}

	var user models.User
	if err := c.Get(ctx, "/users/me", &user); err != nil {
		return err
	}
	c.mu.Lock()
	c.user = &user
	c.mu.Unlock()
	return nil
}

// Logout revokes the session server-side and clears local state.
func (c *Client) Logout(ctx context.Context) error {
	c.mu.Lock()
	refreshToken := c.refreshToken
	c.mu.Unlock()

	err := c.do(ctx, http.MethodPost, "/auth/logout", map[string]string{
		"refresh_token": refreshToken,
	}, nil, true)

	c.mu.Lock()
	c.accessToken = ""
	c.refreshToken = ""
	c.user = nil
	c.mu.Unlock()
	return err
}

// Get performs an authenticated GET and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out, true)
}

// Post performs an authenticated POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out, true)
}

// Put performs an authenticated PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out, true)
}

// Delete performs an authenticated DELETE.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, true)
}

// do runs one request. Authenticated calls that come back 401 are retried
// exactly once after a refresh; a second 401 is returned to the caller.
func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	status, err := c.send(ctx, method, path, body, out, authed)
	if err == nil || !authed || status != http.StatusUnauthorized {
		return err
	}

	if refreshErr := c.refresh(ctx); refreshErr != nil {
		return err
	}
	_, err = c.send(ctx, method, path, body, out, authed)
	return err
}

func (c *Client) send(ctx context.Context, method, path string, body, out any, authed bool) (int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api"+path, reader)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		c.mu.Lock()
		token := c.accessToken
		c.mu.Unlock()
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, decodeAPIError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// refresh rotates the token pair using the stored refresh token.
func (c *Client) refresh(ctx context.Context) error {
	c.mu.Lock()
	refreshToken := c.refreshToken
	c.mu.Unlock()
	if refreshToken == "" {
		return &APIError{StatusCode: http.StatusUnauthorized, Message: "no refresh token"}
	}

	var session sessionResponse
	err := c.do(ctx, http.MethodPost, "/auth/refresh", map[string]string{
		"refresh_token": refreshToken,
	}, &session, false)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.accessToken = session.Token
	c.refreshToken = session.RefreshToken
	c.mu.Unlock()
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		apiErr.Message = resp.Status
		return apiErr
	}

	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if jsonErr := json.Unmarshal(raw, &body); jsonErr == nil {
		switch {
		case body.Error != "":
			apiErr.Message = body.Error
		case body.Message != "":
			apiErr.Message = body.Message
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return apiErr
}
