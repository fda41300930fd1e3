// Package requestid carries the per-request correlation id through a
// context.Context.
//
// The id lives only on contexts derived from the one it was set on, so a
// caller's context is unaffected once the request that set it returns, and
// concurrent requests never see each other's id.
package requestid

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// Header is the correlation header read from inbound requests, echoed on
// responses and attached to outbound provider calls.
const Header = "X-Request-ID"

type contextKey string

const requestIDKey contextKey = "request_id"

// With returns a copy of ctx carrying id.
func With(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// From returns the correlation id carried by ctx, or "" when none is set.
func From(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// New generates a fresh correlation id.
func New() string {
	return uuid.New().String()
}

// Middleware keeps the caller's X-Request-ID when present, otherwise assigns
// a new one, and exposes it to the handler chain and the response headers.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if id == "" {
			id = New()
		}
		w.Header().Set(Header, id)
		next.ServeHTTP(w, r.WithContext(With(r.Context(), id)))
	})
}
