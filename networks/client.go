package networks

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Client fetches the networks list over HTTP.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithURL overrides the list location.
func WithURL(url string) Option {
	return func(c *Client) {
		c.url = url
	}
}

// WithHTTPClient sets the HTTP client used for fetching.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger. Default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client for DefaultListURL unless overridden.
func NewClient(opts ...Option) *Client {
	c := &Client{
		url:        DefaultListURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch downloads and parses the networks list.
func (c *Client) Fetch(ctx context.Context) ([]Network, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("networks: creating request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("fetch networks list failed", zap.String("url", c.url), zap.Error(err))
		return nil, fmt.Errorf("networks: fetching %s: %w", c.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("networks: unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("networks: reading body: %w", err)
	}

	nets, err := Parse(body)
	if err != nil {
		c.logger.Error("parse networks list failed", zap.String("url", c.url), zap.Error(err))
		return nil, err
	}

	c.logger.Debug("fetched networks list",
		zap.String("url", c.url),
		zap.Int("networks", len(nets)),
		zap.Duration("took", time.Since(start)),
	)
	return nets, nil
}
