// Package cache holds a best-effort Redis cache for the product list view.
// Mutating routes invalidate the key; a miss or any Redis error falls
// through to the database, so the cache never fails a request.
package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v9"
	"github.com/pkg/errors"
)

const productListKey = "products:list"

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(addr string, ttl time.Duration) *Cache {
	return &Cache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

// ProductListGet returns the cached list as raw JSON, or nil on a miss.
func (c *Cache) ProductListGet(ctx context.Context) ([]byte, error) {
	bs, err := c.client.Get(ctx, productListKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "error getting product list from cache")
	}
	return bs, nil
}

func (c *Cache) ProductListSet(ctx context.Context, data []byte) error {
	err := c.client.Set(ctx, productListKey, data, c.ttl).Err()
	return errors.Wrap(err, "error setting product list in cache")
}

func (c *Cache) ProductListInvalidate(ctx context.Context) error {
	err := c.client.Del(ctx, productListKey).Err()
	return errors.Wrap(err, "error invalidating product list in cache")
}

func (c *Cache) Close() error {
	return c.client.Close()
}
