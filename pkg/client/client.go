// Package client is a Go SDK for the modcatalog API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client is a Go SDK for the modcatalog API
type Client struct {
	baseURL    string
	apiKey     string
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

// NewClient creates a new modcatalog client
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError is an error response from the API
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %s - %s", e.Code, e.Message)
}

// Mod represents a mod response. Difficulties is the raw display tree: a
// JSON array whose elements are strings or string arrays.
type Mod struct {
	ID                 int64           `json:"id"`
	Name               string          `json:"name"`
	Type               string          `json:"type"`
	PublisherID        int64           `json:"publisher_id"`
	GamebananaModID    *int64          `json:"gamebanana_mod_id,omitempty"`
	ContentWarning     bool            `json:"content_warning"`
	Approved           bool            `json:"approved"`
	HasSubDifficulties bool            `json:"has_sub_difficulties"`
	CreatedBy          int64           `json:"created_by"`
	CreatedAt          time.Time       `json:"created_at"`
	Difficulties       json.RawMessage `json:"difficulties,omitempty"`
}

// Map represents a map response. ModDifficulty is a string or a
// [parent, child] JSON array.
type Map struct {
	ID            int64           `json:"id"`
	ModID         int64           `json:"mod_id"`
	Name          string          `json:"name"`
	MapperName    string          `json:"mapper_name"`
	DifficultyID  int64           `json:"difficulty_id"`
	TechIDs       []int64         `json:"tech_ids,omitempty"`
	CreatedBy     int64           `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
	ModDifficulty json.RawMessage `json:"mod_difficulty"`
}

// Publisher represents a publisher response
type Publisher struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	GamebananaID *int64    `json:"gamebanana_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateModRequest creates a mod. Difficulties, when set, must be the wire
// shape the API accepts (array of strings / string arrays).
type CreateModRequest struct {
	Name                  string          `json:"name"`
	Type                  string          `json:"type"`
	PublisherID           int64           `json:"publisher_id,omitempty"`
	PublisherGamebananaID int64           `json:"publisher_gamebanana_id,omitempty"`
	GamebananaModID       *int64          `json:"gamebanana_mod_id,omitempty"`
	ContentWarning        bool            `json:"content_warning,omitempty"`
	Difficulties          json.RawMessage `json:"difficulties,omitempty"`
}

// CreateMapRequest adds a map to a mod
type CreateMapRequest struct {
	Name          string          `json:"name"`
	MapperName    string          `json:"mapper_name,omitempty"`
	ModDifficulty json.RawMessage `json:"mod_difficulty"`
	TechIDs       []int64         `json:"tech_ids,omitempty"`
}

// ListModsOptions contains options for listing mods
type ListModsOptions struct {
	PublisherID int64
	Type        string
	Limit       int
	Offset      int
}

// CreateMod creates a new mod
func (c *Client) CreateMod(ctx context.Context, req CreateModRequest) (*Mod, error) {
	var mod Mod
	if err := c.do(ctx, http.MethodPost, "/api/v1/mods", req, &mod); err != nil {
		return nil, err
	}
	return &mod, nil
}

// GetMod retrieves a mod by ID
func (c *Client) GetMod(ctx context.Context, id int64) (*Mod, error) {
	var mod Mod
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/mods/%d", id), nil, &mod); err != nil {
		return nil, err
	}
	return &mod, nil
}

// DeleteMod deletes a mod by ID
func (c *Client) DeleteMod(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/mods/%d", id), nil, nil)
}

// ListMods lists mods matching the options
func (c *Client) ListMods(ctx context.Context, opts ListModsOptions) ([]*Mod, error) {
	params := url.Values{}
	if opts.PublisherID > 0 {
		params.Set("publisher_id", strconv.FormatInt(opts.PublisherID, 10))
	}
	if opts.Type != "" {
		params.Set("type", opts.Type)
	}
	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		params.Set("offset", strconv.Itoa(opts.Offset))
	}

	path := "/api/v1/mods"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var result struct {
		Mods  []*Mod `json:"mods"`
		Total int    `json:"total"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result.Mods, nil
}

// GetModDifficulties returns a mod's display difficulty tree
func (c *Client) GetModDifficulties(ctx context.Context, modID int64) (json.RawMessage, error) {
	var result struct {
		Difficulties json.RawMessage `json:"difficulties"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/mods/%d/difficulties", modID), nil, &result); err != nil {
		return nil, err
	}
	return result.Difficulties, nil
}

// CreateMap adds a map to a mod
func (c *Client) CreateMap(ctx context.Context, modID int64, req CreateMapRequest) (*Map, error) {
	var m Map
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/v1/mods/%d/maps", modID), req, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// GetMap retrieves a map by ID
func (c *Client) GetMap(ctx context.Context, id int64) (*Map, error) {
	var m Map
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/maps/%d", id), nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMaps lists a mod's maps
func (c *Client) ListMaps(ctx context.Context, modID int64) ([]*Map, error) {
	var result struct {
		Maps  []*Map `json:"maps"`
		Total int    `json:"total"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/mods/%d/maps", modID), nil, &result); err != nil {
		return nil, err
	}
	return result.Maps, nil
}

// GetPublisher retrieves a publisher by ID
func (c *Client) GetPublisher(ctx context.Context, id int64) (*Publisher, error) {
	var p Publisher
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/publishers/%d", id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// do performs a request and unwraps the response envelope into out
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *APIError       `json:"error"`
	}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if !envelope.Success {
		if envelope.Error != nil {
			return envelope.Error
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("failed to unmarshal data: %w", err)
		}
	}

	return nil
}
