package ai

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/foodz/foodz-api/internal/logging"
	"github.com/foodz/foodz-api/internal/requestid"
)

type startTimeKey struct{}

// hookTransport runs a pre-send and a post-receive hook around every
// request sent by the provider's client.
type hookTransport struct {
	base   http.RoundTripper
	logger *zap.Logger
}

func (t *hookTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = t.onRequest(req)
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	t.onResponse(resp)
	return resp, nil
}

func (t *hookTransport) CloseIdleConnections() {
	if c, ok := t.base.(interface{ CloseIdleConnections() }); ok {
		c.CloseIdleConnections()
	}
}

// onRequest tags the outgoing request with the ambient correlation id, unless
// the caller already set one, and stamps its start time.
func (t *hookTransport) onRequest(req *http.Request) *http.Request {
	ctx := context.WithValue(req.Context(), startTimeKey{}, time.Now())
	out := req.Clone(ctx)

	if id := ambientRequestID(req.Context()); id != "" && out.Header.Get(requestid.Header) == "" {
		out.Header.Set(requestid.Header, id)
	}

	logging.FromContext(ctx, t.logger).Info("ai_http_request_start",
		zap.String("method", out.Method),
		zap.String("url", sanitizeURL(out.URL)),
	)
	return out
}

func (t *hookTransport) onResponse(resp *http.Response) {
	req := resp.Request
	if req == nil {
		return
	}
	latency := zap.String("latency_ms", "unknown")
	if ms, ok := elapsedMs(req.Context()); ok {
		latency = zap.Int64("latency_ms", ms)
	}
	logging.FromContext(req.Context(), t.logger).Info("ai_http_request_success",
		zap.String("method", req.Method),
		zap.String("url", sanitizeURL(req.URL)),
		zap.Int("status_code", resp.StatusCode),
		latency,
	)
}

// ambientRequestID never fails the send: any problem reading the id just
// means no header.
func ambientRequestID(ctx context.Context) (id string) {
	defer func() {
		if recover() != nil {
			id = ""
		}
	}()
	return requestid.From(ctx)
}

func elapsedMs(ctx context.Context) (int64, bool) {
	start, ok := ctx.Value(startTimeKey{}).(time.Time)
	if !ok {
		return 0, false
	}
	return time.Since(start).Milliseconds(), true
}

// sanitizeURL keeps scheme, host and path. Credentials and query strings are
// dropped so they never reach the logs.
func sanitizeURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	clean := url.URL{Scheme: u.Scheme, Host: u.Host, Path: u.Path}
	return clean.String()
}

func sanitizeRawURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "invalid-url"
	}
	return sanitizeURL(u)
}
