package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/foodz/foodz-api/internal/logging"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrCacheMiss    = errors.New("user not cached")
)

const RoleAdmin = "admin"

type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"-"`
	Role           string    `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
}

func (u *User) IsAdmin() bool {
	return strings.EqualFold(u.Role, RoleAdmin)
}

// MarshalBinary implements encoding.BinaryMarshaler for Redis
func (u *User) MarshalBinary() ([]byte, error) {
	return json.Marshal(u)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler for Redis
func (u *User) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, u)
}

type Store interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	// Upsert creates the user or replaces its password and role.
	Upsert(ctx context.Context, user *User) error
}

// Cache holds recently authenticated users. Get returns ErrCacheMiss when
// the user is not cached.
type Cache interface {
	Get(ctx context.Context, username string) (*User, error)
	Set(ctx context.Context, user *User) error
}

type Middleware func(next http.Handler) http.Handler

type contextKey string

const userKey contextKey = "user"

// RequireAdmin authenticates the bearer token and lets only admin users
// through.
func RequireAdmin(tokens *TokenManager, store Store, cache Cache, logger *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				unauthorized(w)
				return
			}
			username, err := tokens.Parse(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				unauthorized(w)
				return
			}

			user, err := cache.Get(ctx, username)
			if err != nil {
				if !errors.Is(err, ErrCacheMiss) {
					logging.FromContext(ctx, logger).Warn("auth: cache error", zap.Error(err))
				}

				// Cache miss or error: lookup in store
				user, err = store.GetByUsername(ctx, username)
				if err != nil {
					if errors.Is(err, ErrUserNotFound) {
						unauthorized(w)
						return
					}
					logging.FromContext(ctx, logger).Error("auth: user lookup failed", zap.Error(err))
					writeDetail(w, http.StatusInternalServerError, "Internal Server Error")
					return
				}
				if err := cache.Set(ctx, user); err != nil {
					logging.FromContext(ctx, logger).Warn("auth: cache write failed", zap.Error(err))
				}
			}

			if !user.IsAdmin() {
				writeDetail(w, http.StatusForbidden, "admin privileges required")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(ctx, user)))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}

func UserFromContext(ctx context.Context) *User {
	if u, ok := ctx.Value(userKey).(*User); ok {
		return u
	}
	return nil
}

func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userKey, user)
}
