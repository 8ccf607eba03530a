// Package bluesky provides a minimal client for the public Bluesky appview
// API. The feed request path uses it to fetch a subscriber's profile
// description.
package bluesky

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// DefaultAppviewURL is the public, unauthenticated Bluesky appview endpoint.
const DefaultAppviewURL = "https://public.api.bsky.app"

// Client calls the appview XRPC API. Requests are rate limited so a burst of
// feed requests cannot hammer the public endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the appview endpoint. Mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// NewClient creates an appview client with a 10s request timeout and a
// 5 req/s rate limit (burst 10).
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultAppviewURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(5), 10),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type profileResponse struct {
	DID         string `json:"did"`
	Handle      string `json:"handle"`
	Description string `json:"description"`
}

// FetchDescription returns the profile description for the given actor (a DID
// or handle). A profile without a description returns the empty string.
func (c *Client) FetchDescription(ctx context.Context, actor string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	endpoint := fmt.Sprintf("%s/xrpc/app.bsky.actor.getProfile?actor=%s",
		c.baseURL, url.QueryEscape(actor))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("get profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("get profile: unexpected status %d: %s", resp.StatusCode, body)
	}

	var profile profileResponse
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return "", fmt.Errorf("decode profile: %w", err)
	}
	return profile.Description, nil
}
