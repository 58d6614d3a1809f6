package catapi

import (
	"context"
	"errors"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Indicator receives the UI side effects of every call: Start when a request
// leaves, Update while a body streams, Stop once it settles.
type Indicator interface {
	Start()
	Update(percent int)
	Stop(ok bool)
}

type nopIndicator struct{}

func (nopIndicator) Start()     {}
func (nopIndicator) Update(int) {}
func (nopIndicator) Stop(bool)  {}

type interceptors struct {
	apiKey string
	ind    Indicator
	log    zerolog.Logger
	tracer trace.Tracer
}

func (i *interceptors) install(client *resty.Client) {
	client.OnBeforeRequest(i.outbound)
	client.OnAfterResponse(i.inbound)
	client.OnError(i.failed)
}

type reqCtxKeyType int

var reqCtxKey reqCtxKeyType

type reqCtx struct {
	start time.Time
	route string
}

func (i *interceptors) outbound(_ *resty.Client, req *resty.Request) error {
	// req.URL is still the path template here; resty resolves it afterwards
	route := req.URL
	i.log.Debug().Str("method", req.Method).Str("route", route).Msg("request sent")

	// per-call options run before this hook; the defaults always win
	req.SetHeader(headerAPIKey, i.apiKey)
	req.SetHeader(headerContentType, contentTypeJSON)

	ctx, _ := i.tracer.Start(req.Context(), "catapi "+req.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.template", route),
		),
	)
	ctx = context.WithValue(ctx, reqCtxKey, reqCtx{start: time.Now(), route: route})
	req.SetContext(ctx)

	i.ind.Start()
	return nil
}

func (i *interceptors) inbound(_ *resty.Client, res *resty.Response) error {
	req := res.Request
	if !res.IsSuccess() {
		// handed to OnError, which runs the failure stage
		return &HTTPError{
			StatusCode: res.StatusCode(),
			Method:     req.Method,
			URL:        req.URL,
			Body:       truncateBody(res.Body()),
		}
	}

	elapsed := i.settle(req, outcomeSuccess, nil)
	i.log.Debug().
		Str("method", req.Method).
		Str("route", routeOf(req)).
		Str("url", req.URL).
		Int("status", res.StatusCode()).
		Dur("elapsed", elapsed).
		Msg("response received")
	i.ind.Stop(true)
	return nil
}

func (i *interceptors) failed(req *resty.Request, err error) {
	var re *resty.ResponseError
	if errors.As(err, &re) {
		err = re.Err
	}
	elapsed := i.settle(req, outcomeFailure, err)
	i.log.Debug().
		Err(err).
		Str("method", req.Method).
		Str("route", routeOf(req)).
		Str("url", req.URL).
		Dur("elapsed", elapsed).
		Msg("request failed")
	i.ind.Stop(false)
}

func routeOf(req *resty.Request) string {
	if rc, ok := req.Context().Value(reqCtxKey).(reqCtx); ok {
		return rc.route
	}
	return ""
}

// settle closes the span and records metrics for a finished call.
func (i *interceptors) settle(req *resty.Request, outcome string, err error) time.Duration {
	ctx := req.Context()

	var elapsed time.Duration
	if rc, ok := ctx.Value(reqCtxKey).(reqCtx); ok {
		elapsed = time.Since(rc.start)
	}
	requestsTotal.WithLabelValues(req.Method, outcome).Inc()
	requestDuration.WithLabelValues(req.Method).Observe(elapsed.Seconds())

	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attribute.String("url.full", req.URL))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		if code := StatusCode(err); code != 0 {
			span.SetAttributes(attribute.Int("http.response.status_code", code))
		}
	}
	span.End()
	return elapsed
}

// restyLogger sends resty's own diagnostics through zerolog so they never
// hit the terminal directly.
type restyLogger struct {
	log zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) { l.log.Error().Msgf(format, v...) }
func (l restyLogger) Warnf(format string, v ...interface{})  { l.log.Warn().Msgf(format, v...) }
func (l restyLogger) Debugf(format string, v ...interface{}) { l.log.Debug().Msgf(format, v...) }
