// Package apiclient is a small Go client for the Pay4Skill auth endpoints.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	appErr "github.com/pay4skill/server/pkg/errors"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	store      SessionStore
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithStore(s SessionStore) Option {
	return func(c *Client) { c.store = s }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		store:      NewMemoryStore(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the stored session, or nil.
func (c *Client) Session() *Session { return c.store.Get() }

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Reason  string `json:"reason"`
		Message string `json:"message"`
	} `json:"error"`
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

func (c *Client) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	return c.authenticate(ctx, "/api/auth/register", in)
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	return c.authenticate(ctx, "/api/auth/login", map[string]string{"email": email, "password": password})
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (*Session, error) {
	var s Session
	if err := c.do(ctx, http.MethodPost, path, body, &s); err != nil {
		return nil, err
	}
	if err := c.store.Set(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Me fetches the signed-in user and refreshes the stored copy.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/api/auth/user", nil, &u); err != nil {
		return nil, err
	}
	if s := c.store.Get(); s != nil {
		s.User = u
		if err := c.store.Set(s); err != nil {
			return nil, err
		}
	}
	return &u, nil
}

// Logout notifies the server and always drops the local session.
func (c *Client) Logout(ctx context.Context) error {
	callErr := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	if err := c.store.Clear(); err != nil {
		return err
	}
	return callErr
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s := c.store.Get(); s != nil {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return appErr.Wrap(err, appErr.CodeUnavailable, "pay4skill api unreachable")
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, fmt.Sprintf("unexpected response (status %d)", resp.StatusCode))
	}
	if resp.StatusCode >= 400 || !env.Success {
		if env.Error == nil {
			return appErr.New(appErr.CodeUnknown, fmt.Sprintf("request failed with status %d", resp.StatusCode))
		}
		return appErr.Domain(appErr.Code(env.Error.Code), env.Error.Reason, env.Error.Message)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}
