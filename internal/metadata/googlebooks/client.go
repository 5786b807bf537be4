package googlebooks

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://www.googleapis.com/books/v1/volumes"

// Client provides access to the Google Books volumes API.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
	baseURL     string
	apiKey      string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the volumes endpoint. Used by tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// NewClient creates a new Google Books client. The API key is optional;
// unauthenticated requests work with a lower quota. requestsPerSecond
// bounds outbound traffic so a burst of searches cannot exhaust the quota.
func NewClient(logger *slog.Logger, apiKey string, requestsPerSecond float64, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 5),
		logger:      logger,
		baseURL:     defaultBaseURL,
		apiKey:      apiKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close releases resources. Currently a no-op but included for interface consistency.
func (c *Client) Close() {
	// No persistent resources to close
}

// wait blocks until rate limiter allows a request.
func (c *Client) wait(ctx context.Context) error {
	return c.rateLimiter.Wait(ctx)
}
