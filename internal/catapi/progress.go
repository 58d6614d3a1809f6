package catapi

import (
	"context"
	"io"
	"math"
	"net/http"
)

// ProgressEvent carries cumulative byte counts for one transfer direction.
// Total is -1 when the size is not known up front.
type ProgressEvent struct {
	Loaded int64
	Total  int64
}

// Percent returns round(Loaded*100/Total) capped at 100. ok is false when the
// total is unknown.
func (e ProgressEvent) Percent() (pct int, ok bool) {
	if e.Total <= 0 {
		return 0, false
	}
	p := int(math.Round(float64(e.Loaded) * 100 / float64(e.Total)))
	if p > 100 {
		p = 100
	}
	return p, true
}

// ProgressFunc is invoked zero or more times while a body is transferred.
// Small payloads may never trigger it.
type ProgressFunc func(ProgressEvent)

// ProgressTo drives ind from transfer events. Events with an unknown total
// are dropped.
func ProgressTo(ind Indicator) ProgressFunc {
	return func(ev ProgressEvent) {
		if pct, ok := ev.Percent(); ok {
			ind.Update(pct)
		}
	}
}

type progressKey int

const (
	uploadProgressKey progressKey = iota
	downloadProgressKey
)

func progressFrom(ctx context.Context, k progressKey) ProgressFunc {
	fn, _ := ctx.Value(k).(ProgressFunc)
	return fn
}

// progressTransport wraps request and response bodies so that per-call
// progress callbacks stored in the request context observe the transfer.
type progressTransport struct {
	base http.RoundTripper
}

func (t *progressTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if fn := progressFrom(req.Context(), uploadProgressKey); fn != nil && req.Body != nil && req.Body != http.NoBody {
		cloned := req.Clone(req.Context())
		cloned.Body = &progressReader{rc: req.Body, total: req.ContentLength, fn: fn}
		req = cloned
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if fn := progressFrom(req.Context(), downloadProgressKey); fn != nil && resp.Body != nil {
		resp.Body = &progressReader{rc: resp.Body, total: resp.ContentLength, fn: fn}
	}
	return resp, nil
}

type progressReader struct {
	rc     io.ReadCloser
	total  int64
	loaded int64
	fn     ProgressFunc
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.rc.Read(p)
	if n > 0 {
		r.loaded += int64(n)
		r.fn(ProgressEvent{Loaded: r.loaded, Total: r.total})
	}
	return n, err
}

func (r *progressReader) Close() error { return r.rc.Close() }
