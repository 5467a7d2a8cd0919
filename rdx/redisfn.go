package rdx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"mingle/models"
)

const (
	revokedPrefix = "auth:revoked:"
	userPrefix    = "users:"
	userCacheTTL  = 5 * time.Minute
)

// Client wraps the Redis connection. A nil *Client is valid and turns every
// call into a no-op, which is how the server runs without REDIS_ADDR.
type Client struct {
	Conn *redis.Client
}

// Connect dials Redis and pings it.
func Connect(ctx context.Context, addr, password string) (*Client, error) {
	conn := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	if err := conn.Ping(ctx).Err(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Client{Conn: conn}, nil
}

func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.Conn.Close()
}

// RevokeToken records jti as revoked until the token would have expired anyway.
func (c *Client) RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error {
	if c == nil || jti == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return c.Conn.Set(ctx, revokedPrefix+jti, 1, ttl).Err()
}

func (c *Client) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if c == nil || jti == "" {
		return false, nil
	}
	n, err := c.Conn.Exists(ctx, revokedPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CacheUser stores the public view of u. The password hash is never part of it.
func (c *Client) CacheUser(ctx context.Context, u *models.User) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return c.Conn.Set(ctx, userPrefix+u.UserID, data, userCacheTTL).Err()
}

// CachedUser returns the cached user, or ok=false on a miss.
func (c *Client) CachedUser(ctx context.Context, id string) (*models.User, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	data, err := c.Conn.Get(ctx, userPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var u models.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, false, err
	}
	return &u, true, nil
}

func (c *Client) InvalidateUser(ctx context.Context, ids ...string) error {
	if c == nil || len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = userPrefix + id
	}
	return c.Conn.Del(ctx, keys...).Err()
}
