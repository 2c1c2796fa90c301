package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Daffa964/api-edutrash/internal/repository"
)

const keyPrefix = "funfact:"

// RedisFunFactCache implements FunFactCache backed by Redis.
type RedisFunFactCache struct {
	client redis.UniversalClient
}

var _ repository.FunFactCache = (*RedisFunFactCache)(nil)

// NewRedisFunFactCache constructs a Redis-backed fun fact cache.
func NewRedisFunFactCache(client redis.UniversalClient) *RedisFunFactCache {
	return &RedisFunFactCache{client: client}
}

// Get loads a cached fact for the category.
func (c *RedisFunFactCache) Get(ctx context.Context, category string) (string, bool, error) {
	fact, err := c.client.Get(ctx, key(category)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("load fun fact: %w", err)
	}
	return fact, true, nil
}

// Set stores the fact for ttl. A non-positive ttl is a no-op.
func (c *RedisFunFactCache) Set(ctx context.Context, category, fact string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := c.client.Set(ctx, key(category), fact, ttl).Err(); err != nil {
		return fmt.Errorf("persist fun fact: %w", err)
	}
	return nil
}

func key(category string) string {
	return keyPrefix + strings.ToLower(strings.TrimSpace(category))
}
