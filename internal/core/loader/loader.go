// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package loader drives [asset.DataProvider] sources to completion and caches
their output.

It plays the part of the image-loading library around the providers:

  - Cache: results are stored under the provider's cache key.
  - Coalescing: concurrent loads of the same key share one provider call.
  - Delivery: the provider's callback is bridged to a one-shot channel.

Providers themselves never cache and never coalesce.
*/
package loader

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/taibuivan/smartimage/internal/core/asset"
	"github.com/taibuivan/smartimage/internal/platform/ctxutil"
)

// DefaultFetchTimeout bounds a shared provider call when none is configured.
const DefaultFetchTimeout = 60 * time.Second

// Image is a loaded image ready to be written to a client.
type Image struct {
	Data        []byte
	ContentType string
	CacheKey    string
	FromCache   bool
}

// Loader loads provider-backed images through a cache.
type Loader struct {
	cache        Cache
	ttl          time.Duration
	fetchTimeout time.Duration
	group        singleflight.Group
	logger       *slog.Logger
}

// New creates a Loader. A nil cache disables caching.
func New(cache Cache, ttl, fetchTimeout time.Duration, logger *slog.Logger) *Loader {
	if cache == nil {
		cache = NopCache{}
	}
	if fetchTimeout <= 0 {
		fetchTimeout = DefaultFetchTimeout
	}

	return &Loader{
		cache:        cache,
		ttl:          ttl,
		fetchTimeout: fetchTimeout,
		logger:       logger,
	}
}

/*
Load returns the image produced by provider.

Description: Checks the cache first, then joins or starts the single in-flight
call for the provider's cache key. The caller stops waiting as soon as ctx is
done; the shared call keeps running for other waiters up to the fetch timeout.

Parameters:
  - ctx: context.Context
  - provider: asset.DataProvider

Returns:
  - *Image: Loaded image
  - error: The provider's error (asset.ErrLoadFailed) or ctx.Err()
*/
func (loader *Loader) Load(ctx context.Context, provider asset.DataProvider) (*Image, error) {
	key := provider.CacheKey()
	logger := ctxutil.GetLogger(ctx)

	data, err := loader.cache.Get(ctx, key)
	if err == nil {
		return newImage(key, data, true), nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		logger.WarnContext(ctx, "image_cache_read_failed", slog.String("key", key), slog.Any("error", err))
	}

	results := loader.group.DoChan(key, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loader.fetchTimeout)
		defer cancel()

		data, err := asset.Await(fetchCtx, provider)
		if err != nil {
			return nil, err
		}

		if err := loader.cache.Set(fetchCtx, key, data, loader.ttl); err != nil {
			logger.WarnContext(ctx, "image_cache_write_failed", slog.String("key", key), slog.Any("error", err))
		}

		return data, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result := <-results:
		if result.Err != nil {
			return nil, result.Err
		}
		return newImage(key, result.Val.([]byte), false), nil
	}
}

func newImage(key string, data []byte, fromCache bool) *Image {
	return &Image{
		Data:        data,
		ContentType: http.DetectContentType(data),
		CacheKey:    key,
		FromCache:   fromCache,
	}
}
