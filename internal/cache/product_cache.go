package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/store-service/internal/domain"
)

const productKeyPrefix = "product:"

// ProductCache keeps products by id in Redis.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProductCache returns nil when client is nil; a nil cache is a no-op.
func NewProductCache(client *redis.Client, ttl time.Duration) *ProductCache {
	if client == nil {
		return nil
	}
	return &ProductCache{client: client, ttl: ttl}
}

func productKey(id int64) string {
	return productKeyPrefix + strconv.FormatInt(id, 10)
}

// Get returns the cached product and whether it was present.
func (c *ProductCache) Get(ctx context.Context, id int64) (*domain.Product, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	raw, err := c.client.Get(ctx, productKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get product %d: %w", id, err)
	}
	var product domain.Product
	if err := json.Unmarshal(raw, &product); err != nil {
		return nil, false, fmt.Errorf("cache decode product %d: %w", id, err)
	}
	return &product, true, nil
}

// Set stores the product for the configured TTL.
func (c *ProductCache) Set(ctx context.Context, product domain.Product) error {
	if c == nil {
		return nil
	}
	raw, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("cache encode product %d: %w", product.ID, err)
	}
	if err := c.client.Set(ctx, productKey(product.ID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set product %d: %w", product.ID, err)
	}
	return nil
}

// Invalidate drops the cached product.
func (c *ProductCache) Invalidate(ctx context.Context, id int64) error {
	if c == nil {
		return nil
	}
	if err := c.client.Del(ctx, productKey(id)).Err(); err != nil {
		return fmt.Errorf("cache invalidate product %d: %w", id, err)
	}
	return nil
}
