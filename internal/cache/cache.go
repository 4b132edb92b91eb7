package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is the backend contract the tagged layer needs: a key-value store
// plus set operations for tag membership tracking.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	AddToSet(ctx context.Context, key string, members ...string) error
	RemoveFromSet(ctx context.Context, key string, members ...string) error
	SetMembers(ctx context.Context, key string) ([]string, error)
}

// Client wraps redis.Client but fails safe by swallowing connectivity errors:
// an unreachable redis degrades every read into a miss instead of failing
// requests.
type Client struct {
	client *redis.Client
}

var _ Store = (*Client)(nil)

// New creates a new Redis client.
func New(addr, password string, db int) *Client {
	opts := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
	return &Client{client: redis.NewClient(opts)}
}

// Get returns value or nil if missing or redis unavailable.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	res, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		// fail safe: behave like cache miss
		return nil, nil
	}
	return res, nil
}

// Set stores value with TTL (0 = no expiry), ignoring redis errors.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		// fail safe: ignore redis errors
		return nil
	}
	return nil
}

// Delete removes keys, ignoring redis errors.
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if c == nil || c.client == nil || len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return nil
	}
	return nil
}

// AddToSet records members in the set stored at key.
func (c *Client) AddToSet(ctx context.Context, key string, members ...string) error {
	if c == nil || c.client == nil || len(members) == 0 {
		return nil
	}
	args := make([]interface{}, 0, len(members))
	for _, m := range members {
		args = append(args, m)
	}
	if err := c.client.SAdd(ctx, key, args...).Err(); err != nil {
		return nil
	}
	return nil
}

// RemoveFromSet drops members from the set stored at key.
func (c *Client) RemoveFromSet(ctx context.Context, key string, members ...string) error {
	if c == nil || c.client == nil || len(members) == 0 {
		return nil
	}
	args := make([]interface{}, 0, len(members))
	for _, m := range members {
		args = append(args, m)
	}
	if err := c.client.SRem(ctx, key, args...).Err(); err != nil {
		return nil
	}
	return nil
}

// SetMembers returns the members of the set stored at key, or nil if redis
// is unavailable.
func (c *Client) SetMembers(ctx context.Context, key string) ([]string, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	members, err := c.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, nil
	}
	return members, nil
}
