package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const userCacheTTL = 5 * time.Minute

type RedisCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisCache(rdb redis.Cmdable) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: userCacheTTL}
}

func cacheKey(username string) string {
	return fmt.Sprintf("auth:user:%s", username)
}

func (c *RedisCache) Get(ctx context.Context, username string) (*User, error) {
	var u User
	err := c.rdb.Get(ctx, cacheKey(username)).Scan(&u)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	return &u, nil
}

func (c *RedisCache) Set(ctx context.Context, user *User) error {
	return c.rdb.Set(ctx, cacheKey(user.Username), user, c.ttl).Err()
}
