// Package client is a typed HTTP client for the newsdesk REST API.
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

	apperrors "newsdesk/internal/errors"
	"newsdesk/internal/model"
)

// ErrNotFound is returned when the server answers 404.
var ErrNotFound = errors.New("not found")

// StatusError is returned for any other non-2xx response.
type StatusError struct {
	StatusCode int
	Body       apperrors.ErrorResponse
}

func (e *StatusError) Error() string {
	if e.Body.Error != "" {
		return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Body.Error)
	}
	return fmt.Sprintf("server returned %d", e.StatusCode)
}

// SessionInfo mirrors the /api/session/me response.
type SessionInfo struct {
	Identity struct {
		UID         string `json:"uid"`
		DisplayName string `json:"displayName"`
		Email       string `json:"email"`
	} `json:"identity"`
	Profile *model.User `json:"profile"`
}

// Client talks to a newsdesk server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetUserByUID fetches the application profile for an identity.
func (c *Client) GetUserByUID(ctx context.Context, uid string) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodGet, "/api/users/uid/"+url.PathEscape(uid), "", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser creates an application profile.
func (c *Client) CreateUser(ctx context.Context, input model.CreateUserInput) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodPost, "/api/users", "", input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListDemoPersonas returns the personas available for demo sign-in.
func (c *Client) ListDemoPersonas(ctx context.Context) ([]model.Persona, error) {
	var personas []model.Persona
	if err := c.do(ctx, http.MethodGet, "/api/demo/personas", "", nil, &personas); err != nil {
		return nil, err
	}
	return personas, nil
}

// IssueDemoSession signs in as a demo persona.
func (c *Client) IssueDemoSession(ctx context.Context, personaID string) (*model.DemoSession, error) {
	var session model.DemoSession
	body := map[string]string{"personaId": personaID}
	if err := c.do(ctx, http.MethodPost, "/api/demo/session", "", body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Session returns the identity and profile behind a bearer token.
func (c *Client) Session(ctx context.Context, token string) (*SessionInfo, error) {
	var info SessionInfo
	if err := c.do(ctx, http.MethodGet, "/api/session/me", token, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// RevokeSession signs out a bearer token.
func (c *Client) RevokeSession(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodDelete, "/api/session", token, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{StatusCode: resp.StatusCode}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&statusErr.Body)
		return statusErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
