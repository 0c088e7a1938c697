package freshlearn

import (
	"maps"
	"net/http"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the Freshlearn API origin used when none is configured.
const DefaultBaseURL = "https://api.freshlearn.com/v1"

// APIKeyHeader is the header carrying the integration API key.
const APIKeyHeader = "api-key"

// HTTPDoer is the transport the client sends requests through.
// *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client represents a Freshlearn API client.
//
// A Client is immutable after construction and safe for concurrent use.
type Client struct {
	baseURL        string
	apiKey         string
	defaultHeaders map[string]string
	httpClient     HTTPDoer
	logger         zerolog.Logger
}

// NewClient creates a new Freshlearn client
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	o := clientOptions{
		baseURL:    DefaultBaseURL,
		httpClient: http.DefaultClient,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	headers := map[string]string{
		APIKeyHeader:   apiKey,
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
	if o.userAgent != "" {
		headers["User-Agent"] = o.userAgent
	}

	return &Client{
		baseURL:        o.baseURL,
		apiKey:         apiKey,
		defaultHeaders: headers,
		httpClient:     o.httpClient,
		logger:         o.logger,
	}, nil
}

// BaseURL returns the origin requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// DefaultHeaders returns a copy of the headers sent with every request.
func (c *Client) DefaultHeaders() map[string]string {
	return maps.Clone(c.defaultHeaders)
}

// mergeHeaders layers per-call overrides over a fresh copy of the defaults.
func (c *Client) mergeHeaders(overrides map[string]string) map[string]string {
	headers := make(map[string]string, len(c.defaultHeaders)+len(overrides))
	maps.Copy(headers, c.defaultHeaders)
	maps.Copy(headers, overrides)
	return headers
}
