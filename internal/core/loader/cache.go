// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package loader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/smartimage/internal/platform/constants"
)

// ErrCacheMiss is returned by [Cache.Get] when the key is absent or expired.
var ErrCacheMiss = errors.New("loader: cache miss")

// Cache stores loaded image bytes by provider cache key.
type Cache interface {
	Get(context context.Context, key string) ([]byte, error)
	Set(context context.Context, key string, data []byte, ttl time.Duration) error
}

// # No-op Cache

// NopCache never stores anything. It is used when no Redis is configured.
type NopCache struct{}

// Get always misses.
func (NopCache) Get(context.Context, string) ([]byte, error) { return nil, ErrCacheMiss }

// Set discards the data.
func (NopCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

// # Redis Cache

// RedisCache implements [Cache] using Redis string values with a TTL.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a Redis-backed image cache.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

/*
Get returns cached bytes for key.

Parameters:
  - context: context.Context
  - key: string (provider cache key)

Returns:
  - []byte: Cached image bytes
  - error: ErrCacheMiss or connectivity errors
*/
func (cache *RedisCache) Get(context context.Context, key string) ([]byte, error) {
	data, err := cache.client.Get(context, constants.RedisPrefixImage+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis_image_get_failed: %w", err)
	}

	return data, nil
}

/*
Set stores bytes under key with a TTL.

Parameters:
  - context: context.Context
  - key: string
  - data: []byte
  - ttl: time.Duration (0 keeps the entry until evicted)

Returns:
  - error: Execution errors
*/
func (cache *RedisCache) Set(context context.Context, key string, data []byte, ttl time.Duration) error {
	if err := cache.client.Set(context, constants.RedisPrefixImage+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis_image_set_failed: %w", err)
	}

	return nil
}
