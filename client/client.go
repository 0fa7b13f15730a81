// Package client provides a typed Go SDK for a remote neighbor-lookup service.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// maxPayloadSize caps how much of a response body is read.
const maxPayloadSize = 8 << 20 // 8 MB

// Client fetches neighbor payloads from a neighbor-lookup endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *logrus.Logger
	debug      bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(log *logrus.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithDebug enables logging of every request URL and response body.
func WithDebug(enabled bool) Option {
	return func(c *Client) { c.debug = enabled }
}

// WithRateLimit bounds outbound requests to rps per second with the given burst.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// New creates a client for the given base URL (e.g. "http://localhost:3030/neighbors").
// Node IDs are appended to the base as a single escaped path segment.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	if c.log == nil {
		c.log = logrus.New()
		c.log.SetOutput(io.Discard)
	}
	return c
}

// BaseURL returns the endpoint node IDs are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// NeighborURL returns the lookup URL for a node.
func (c *Client) NeighborURL(node string) string {
	return c.baseURL + "/" + url.PathEscape(node)
}

// Fetch performs exactly one GET for node and returns the raw response body.
// Any status outside 2xx is returned as *FetchError. Failures are never retried.
func (c *Client) Fetch(ctx context.Context, node string) ([]byte, error) {
	u := c.NeighborURL(node)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &FetchError{Node: node, URL: u, Err: fmt.Errorf("rate limit: %w", err)}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, &FetchError{Node: node, URL: u, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	if c.debug {
		c.log.WithFields(logrus.Fields{"node_id": node, "url": u}).Debug("fetching neighbors")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Node: node, URL: u, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadSize+1))
	if err != nil {
		return nil, &FetchError{Node: node, URL: u, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}
	if len(body) > maxPayloadSize {
		return nil, &FetchError{Node: node, URL: u, StatusCode: resp.StatusCode, Err: ErrPayloadTooLarge}
	}

	if c.debug {
		c.log.WithFields(logrus.Fields{
			"node_id": node,
			"status":  resp.StatusCode,
			"body":    string(body),
		}).Debug("neighbors response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{Node: node, URL: u, StatusCode: resp.StatusCode, Body: snippet(body)}
	}

	return body, nil
}
