// Package client is the Go client of the Intlakaa API. It carries the admin
// session, typed calls for every resource, a query cache that mutations
// invalidate, and the admin shell rules (route guard and role-filtered
// navigation).
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const LoginPath = "/admin/login"

type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
	cache      *QueryCache
	logger     *zap.SugaredLogger
	navigate   func(path string)

	Auth     *AuthClient
	Requests *RequestsClient
	Users    *UsersClient
	Seo      *SeoClient
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithSession(s *Session) Option {
	return func(c *Client) { c.session = s }
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Client) { c.logger = l }
}

// WithNavigator sets the hook used for hard navigation, e.g. to the login
// route after logout.
func WithNavigator(fn func(path string)) Option {
	return func(c *Client) { c.navigate = fn }
}

// New builds a client for the API rooted at baseURL, e.g.
// "https://www.intlakaa.com/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cache:      NewQueryCache(),
		logger:     zap.NewNop().Sugar(),
		navigate:   func(string) {},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.session == nil {
		c.session = NewSession(nil)
	}

	c.Auth = &AuthClient{c: c}
	c.Requests = &RequestsClient{c: c}
	c.Users = &UsersClient{c: c}
	c.Seo = &SeoClient{c: c}
	return c
}

func (c *Client) Session() *Session { return c.session }

func (c *Client) Cache() *QueryCache { return c.cache }

type errorBody struct {
	Message string `json:"message"`
}

// do sends a JSON request and decodes a JSON response into out. A 401 clears
// the session and a 403 re-syncs the cached user from /auth/me.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		if IsUnauthorized(err) {
			c.session.Clear()
		} else if IsForbidden(err) {
			c.resync(ctx)
		}
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Status: resp.StatusCode, Message: msgServer, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

// send returns the response for 2xx and 3xx statuses. The caller closes it.
func (c *Client) send(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, &APIError{Message: msgServer, Err: fmt.Errorf("failed to encode request: %w", err)}
		}
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, &APIError{Message: msgServer, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Message: msgNetwork, Err: err}
	}
	if resp.StatusCode < 400 {
		return resp, nil
	}
	defer resp.Body.Close()

	var eb errorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(raw, &eb) != nil || eb.Message == "" {
		eb.Message = defaultMessage(resp.StatusCode)
	}
	return nil, &APIError{Status: resp.StatusCode, Message: eb.Message}
}

// resync refreshes the cached user after the server refused an action, so
// role-gated controls follow the live role.
func (c *Client) resync(ctx context.Context) {
	var resp struct {
		User *User `json:"user"`
	}
	r, err := c.send(ctx, http.MethodGet, "/auth/me", nil)
	if err != nil {
		if IsUnauthorized(err) {
			c.session.Clear()
		}
		c.logger.Warnw("session re-sync failed", "error", err)
		return
	}
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&resp); err != nil || resp.User == nil {
		return
	}
	c.session.SetUser(resp.User)
	c.cache.Invalidate(KeyAdminUsers)
}
