package catapi

// Functional options for the client and for individual calls. Client options
// run once in New; request options run on every call after the endpoint has
// set its own query parameters, so they layer on top of them.

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a Client during construction in New.
type Option func(*Client) error

// WithIndicator routes interceptor side effects (busy flag, progress) to ind.
func WithIndicator(ind Indicator) Option {
	return func(c *Client) error {
		if ind == nil {
			return errors.New("indicator must not be nil")
		}
		c.ind = ind
		return nil
	}
}

// WithLogger replaces the global zerolog logger for this client.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) error {
		c.log = l
		return nil
	}
}

// WithTransport sets the round tripper underneath the progress wrapper.
// Tests use it to stub the network.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) error {
		if rt == nil {
			return errors.New("transport must not be nil")
		}
		c.transport = rt
		return nil
	}
}

// WithTracer sets the OpenTelemetry tracer used for request spans.
func WithTracer(t trace.Tracer) Option {
	return func(c *Client) error {
		if t == nil {
			return errors.New("tracer must not be nil")
		}
		c.tracer = t
		return nil
	}
}

// RequestOption adjusts a single call.
type RequestOption func(*resty.Request)

// WithQuery sets a query parameter, replacing an endpoint default of the same name.
func WithQuery(key, value string) RequestOption {
	return func(r *resty.Request) {
		r.SetQueryParam(key, value)
	}
}

// WithHeader adds a per-call header. The API key and content type cannot be
// replaced this way; the outbound interceptor restores them.
func WithHeader(key, value string) RequestOption {
	return func(r *resty.Request) {
		r.SetHeader(key, value)
	}
}

// WithDownloadProgress reports response body progress to fn.
func WithDownloadProgress(fn ProgressFunc) RequestOption {
	return func(r *resty.Request) {
		r.SetContext(context.WithValue(r.Context(), downloadProgressKey, fn))
	}
}

// WithUploadProgress reports request body progress to fn.
func WithUploadProgress(fn ProgressFunc) RequestOption {
	return func(r *resty.Request) {
		r.SetContext(context.WithValue(r.Context(), uploadProgressKey, fn))
	}
}
