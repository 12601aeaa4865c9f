package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/treasury/internal/infrastructure/metrics"
)

// Cache implements usecase.Cache using Redis.
type Cache struct {
	client  *redis.Client
	prefix  string
	metrics *metrics.Metrics
}

// NewCache creates a new Cache. m may be nil.
func NewCache(client *redis.Client, m *metrics.Metrics) *Cache {
	return &Cache{
		client:  client,
		prefix:  "treasury:cache:",
		metrics: m,
	}
}

// Get retrieves a value by key. A missing key yields nil and no error.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	c.observe("cache_get")

	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		c.observeError("cache_get")
		return nil, err
	}

	return val, nil
}

// Set stores a value with TTL.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.observe("cache_set")

	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		c.observeError("cache_set")
		return err
	}

	return nil
}

// Delete removes a key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	c.observe("cache_delete")

	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		c.observeError("cache_delete")
		return err
	}

	return nil
}

func (c *Cache) observe(op string) {
	if c.metrics != nil {
		c.metrics.RedisOperations.WithLabelValues(op).Inc()
	}
}

func (c *Cache) observeError(op string) {
	if c.metrics != nil {
		c.metrics.RedisErrors.WithLabelValues(op).Inc()
	}
}
