// Package gamebanana talks to the GameBanana public API to resolve member
// ids and usernames. Calls are a single attempt with a timeout; the caller
// decides what a failure means, nothing is retried here.
package gamebanana

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrNotFound is returned when GameBanana has no member for the given id or
// username.
var ErrNotFound = errors.New("gamebanana member not found")

// LookupError wraps a transport or protocol failure talking to GameBanana.
type LookupError struct {
	Op  string
	Err error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("gamebanana %s failed: %v", e.Op, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// Resolver resolves GameBanana member identity in both directions.
type Resolver interface {
	// UserName returns the display name for a member id.
	UserName(ctx context.Context, id int64) (string, error)
	// UserID returns the member id for a username.
	UserID(ctx context.Context, username string) (int64, error)
}

// Client is an HTTP client for the GameBanana API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new GameBanana client
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// UserName resolves a member id to a display name.
// GET /Core/Item/Data?itemtype=Member&itemid=N&fields=name → ["Name"]
func (c *Client) UserName(ctx context.Context, id int64) (string, error) {
	params := url.Values{}
	params.Set("itemtype", "Member")
	params.Set("itemid", fmt.Sprintf("%d", id))
	params.Set("fields", "name")

	body, err := c.get(ctx, "UserName", "/Core/Item/Data", params)
	if err != nil {
		return "", err
	}

	var fields []string
	if err := json.Unmarshal(body, &fields); err != nil || len(fields) == 0 {
		// GameBanana reports unknown items as an error object, not an array
		return "", ErrNotFound
	}

	if fields[0] == "" {
		return "", ErrNotFound
	}

	return fields[0], nil
}

// UserID resolves a username to a member id.
// GET /Core/Member/Identify?username=x → [id]
func (c *Client) UserID(ctx context.Context, username string) (int64, error) {
	params := url.Values{}
	params.Set("username", username)

	body, err := c.get(ctx, "UserID", "/Core/Member/Identify", params)
	if err != nil {
		return 0, err
	}

	var ids []int64
	if err := json.Unmarshal(body, &ids); err != nil || len(ids) == 0 || ids[0] == 0 {
		return 0, ErrNotFound
	}

	return ids[0], nil
}

// get performs a single GET request and returns the response body
func (c *Client) get(ctx context.Context, op, path string, params url.Values) ([]byte, error) {
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &LookupError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &LookupError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &LookupError{Op: op, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &LookupError{Op: op, Err: err}
	}

	return body, nil
}
