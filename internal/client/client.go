// Package client is a minimal HTTP client for the Messages API.
// A Client is immutable after construction and safe for concurrent use.
package client

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the public API host.
const DefaultBaseURL = "https://api.anthropic.com"

const (
	headerAPIKey      = "x-api-key"
	headerVersion     = "anthropic-version"
	headerContentType = "content-type"
)

// Client sends authenticated requests to the API.
type Client struct {
	apiKey     APIKey
	version    Version
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     *zap.Logger
	tracer     *Tracer
}

// Option customizes a Client at construction.
type Option func(*Client)

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if url := strings.TrimSpace(baseURL); url != "" {
			c.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// WithTimeout bounds each call. Zero leaves only the context deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.timeout = timeout }
}

// WithLogger sets the logger for request lifecycle events.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New builds a client. A nil httpClient uses http.DefaultClient.
func New(apiKey APIKey, version Version, httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if version == "" {
		version = DefaultVersion
	}
	c := &Client{
		apiKey:     apiKey,
		version:    version,
		baseURL:    DefaultBaseURL,
		httpClient: httpClient,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FromEnv builds a client from ANTHROPIC_API_KEY with the default version.
func FromEnv(opts ...Option) (*Client, error) {
	apiKey, err := APIKeyFromEnv()
	if err != nil {
		return nil, err
	}
	return New(apiKey, DefaultVersion, nil, opts...), nil
}

// FromAPIKey builds a client with the default version and HTTP client.
func FromAPIKey(apiKey APIKey, opts ...Option) *Client {
	return New(apiKey, DefaultVersion, nil, opts...)
}

func (c *Client) APIKey() APIKey   { return c.apiKey }
func (c *Client) Version() Version { return c.version }
func (c *Client) BaseURL() string  { return c.baseURL }

func (c *Client) endpoint(path string) string {
	return c.baseURL + path
}

// newPost builds a JSON POST carrying the auth and version headers.
func (c *Client) newPost(ctx context.Context, url string, body []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set(headerAPIKey, c.apiKey.Value())
	req.Header.Set(headerVersion, c.version.String())
	req.Header.Set(headerContentType, "application/json")
	return req, nil
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, nil
	}
	return context.WithTimeout(ctx, timeout)
}
