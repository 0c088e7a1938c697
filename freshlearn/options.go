package freshlearn

import (
	"time"

	"github.com/rs/zerolog"
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	baseURL    string
	httpClient HTTPDoer
	logger     zerolog.Logger
	userAgent  string
}

// WithBaseURL overrides the default API origin.
// The value is used verbatim; paths are appended without slash normalization.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		if baseURL != "" {
			o.baseURL = baseURL
		}
	}
}

// WithHTTPClient sets the transport used to send requests.
func WithHTTPClient(client HTTPDoer) Option {
	return func(o *clientOptions) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// WithUserAgent adds a User-Agent header to the client defaults.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}

// RequestOption configures a single call.
type RequestOption func(*requestOptions)

type requestOptions struct {
	headers map[string]string
	timeout time.Duration
}

// WithHeaders merges extra headers over the client defaults for one call.
// Names are matched exactly and sent with the casing given, so an override
// that differs from a default only in case (e.g. "API-KEY" against "api-key")
// does not replace it: both headers are sent. Use the default's exact name,
// such as APIKeyHeader, to replace a value.
func WithHeaders(headers map[string]string) RequestOption {
	return func(o *requestOptions) {
		if o.headers == nil {
			o.headers = make(map[string]string, len(headers))
		}
		for k, v := range headers {
			o.headers[k] = v
		}
	}
}

// WithHeader sets a single extra header for one call.
func WithHeader(name, value string) RequestOption {
	return WithHeaders(map[string]string{name: value})
}

// WithTimeout aborts the call if no response has arrived within d.
// A zero or negative duration disables the timeout.
func WithTimeout(d time.Duration) RequestOption {
	return func(o *requestOptions) {
		o.timeout = d
	}
}

// WithTimeoutMillis is WithTimeout expressed in milliseconds.
func WithTimeoutMillis(ms int) RequestOption {
	return WithTimeout(time.Duration(ms) * time.Millisecond)
}

func buildRequestOptions(opts []RequestOption) requestOptions {
	var ro requestOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&ro)
		}
	}
	return ro
}
