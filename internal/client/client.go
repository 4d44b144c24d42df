// Package client talks to a denote registry over HTTP.
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
)

// DefaultRegistry is the public registry.
const DefaultRegistry = "https://denote.deno.dev"

const maxConfigSize = 1 << 20

// Response is the registry's reply. Name and Token are only set by a
// successful register.
type Response struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	Name       string `json:"name,omitempty"`
	Token      string `json:"token,omitempty"`
}

// OK reports whether the registry accepted the request. Validation failures
// come back as 200 with an explanatory message, so callers should still print it.
func (r *Response) OK() bool {
	return r.StatusCode == http.StatusOK
}

// Client calls the registry API.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a Client for the registry at baseURL.
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

// Register creates or updates the page for name. config is JSON text and is
// sent as a string field.
func (c *Client) Register(ctx context.Context, name, token string, config []byte) (*Response, error) {
	return c.do(ctx, http.MethodPost, map[string]string{
		"name":   name,
		"token":  token,
		"config": string(config),
	})
}

// Unregister deletes the page for name.
func (c *Client) Unregister(ctx context.Context, name, token string) (*Response, error) {
	return c.do(ctx, http.MethodDelete, map[string]string{
		"name":  name,
		"token": token,
	})
}

func (c *Client) do(ctx context.Context, method string, body any) (*Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, c.baseURL, err)
	}
	defer resp.Body.Close()

	out := &Response{StatusCode: resp.StatusCode}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return nil, fmt.Errorf("unexpected response from registry (status %d): %w", resp.StatusCode, err)
	}
	return out, nil
}

// Fetch downloads a profile description published at url. A non-2xx reply is
// an error.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxConfigSize))
}
