package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	extratelimit "github.com/vnmchuo/ratelimiter"
)

// Limiter is a thin wrapper around github.com/vnmchuo/ratelimiter that
// counts AI calls per client in a one-minute window.
type Limiter struct {
	store extratelimit.Limiter
}

const window = time.Minute

func NewLimiter(rdb *redis.Client, perMinute int) *Limiter {
	store := extratelimit.NewRedisStore(rdb,
		extratelimit.WithLimit(perMinute),
		extratelimit.WithWindow(window),
	)
	return &Limiter{store: store}
}

func NewTestLimiter(store extratelimit.Limiter) *Limiter {
	return &Limiter{store: store}
}

func key(clientID string) string {
	return fmt.Sprintf("ratelimit:ai:%s", clientID)
}

// Allow consumes one call for clientID. A nil Limiter allows everything.
func (l *Limiter) Allow(ctx context.Context, clientID string) (bool, error) {
	if l == nil {
		return true, nil
	}
	res, err := l.store.Allow(ctx, key(clientID))
	if err != nil {
		return false, err
	}
	return res.Allowed, nil
}

func (l *Limiter) Status(ctx context.Context, clientID string) (*extratelimit.Result, error) {
	if l == nil {
		return &extratelimit.Result{Allowed: true}, nil
	}
	return l.store.Status(ctx, key(clientID))
}

// RetryAfter is how long clientID waits for its window to reset, rounded up
// to whole seconds. Unknown state falls back to the full window.
func (l *Limiter) RetryAfter(ctx context.Context, clientID string) time.Duration {
	res, err := l.Status(ctx, clientID)
	if err != nil || res.ResetAfter <= 0 {
		return window
	}
	return (res.ResetAfter + time.Second - 1).Truncate(time.Second)
}
