// Package catapi wraps the remote breed catalog (TheCatAPI / TheDogAPI shape)
// behind a resty client with a fixed base address, a static API key header and
// an interceptor pipeline that drives logging, metrics, tracing and the busy /
// progress indicator.
package catapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultBaseURL    = "https://api.thecatapi.com/v1"
	DefaultImageLimit = 10

	headerAPIKey      = "x-api-key"
	headerContentType = "Content-Type"
	contentTypeJSON   = "application/json; charset=utf-8"
)

type Client struct {
	http   *resty.Client
	apiKey string

	ind       Indicator
	log       zerolog.Logger
	tracer    trace.Tracer
	transport http.RoundTripper
}

// New builds a client for baseURL. The key and content type are attached to
// every call; options may not change them afterwards.
func New(baseURL, apiKey string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("catapi: invalid base url %q", baseURL)
	}

	c := &Client{
		apiKey: strings.TrimSpace(apiKey),
		ind:    nopIndicator{},
		log:    log.Logger,
		tracer: otel.Tracer("github.com/Makepad-fr/breeds/internal/catapi"),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("catapi: %w", err)
		}
	}
	if c.apiKey == "" {
		c.log.Warn().Msg("no API key configured; favourites calls will be rejected")
	}

	rc := resty.New()
	rc.SetBaseURL(baseURL)
	rc.SetHeader(headerAPIKey, c.apiKey)
	rc.SetHeader(headerContentType, contentTypeJSON)
	rc.SetLogger(restyLogger{log: c.log})

	base := c.transport
	if base == nil {
		base = rc.GetClient().Transport
	}
	if base == nil {
		base = http.DefaultTransport
	}
	rc.SetTransport(&progressTransport{base: base})

	ic := &interceptors{apiKey: c.apiKey, ind: c.ind, log: c.log, tracer: c.tracer}
	ic.install(rc)

	c.http = rc
	return c, nil
}

// do runs one call. prepare sets the endpoint's own parameters; opts are
// applied after it. When out is non-nil the body is decoded into it.
func (c *Client) do(ctx context.Context, method, path string, prepare func(*resty.Request), out any, opts []RequestOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	req := c.http.R().SetContext(ctx)
	if prepare != nil {
		prepare(req)
	}
	for _, opt := range opts {
		opt(req)
	}

	res, err := req.Execute(method, path)
	if err != nil {
		return err
	}
	if out == nil || len(res.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(res.Body(), out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// fail logs err under op and returns it wrapped; nothing is classified here.
func (c *Client) fail(op string, err error) error {
	c.log.Error().Err(err).Str("op", op).Msg("catalog call failed")
	return fmt.Errorf("%s: %w", op, err)
}
