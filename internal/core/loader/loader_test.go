// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package loader_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/smartimage/internal/core/asset"
	"github.com/taibuivan/smartimage/internal/core/loader"
)

// pngHeader is enough for content sniffing.
var pngHeader = []byte("\x89PNG\r\n\x1a\n0000")

// memoryCache is an in-memory [loader.Cache].
type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
	sets  int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string][]byte{}}
}

func (cache *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	data, ok := cache.items[key]
	if !ok {
		return nil, loader.ErrCacheMiss
	}
	return data, nil
}

func (cache *memoryCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	cache.items[key] = data
	cache.sets++
	return nil
}

// stubProvider delivers a fixed result after release is closed.
type stubProvider struct {
	key     string
	result  asset.Result
	release chan struct{}
	calls   atomic.Int32
}

func newStub(key string, result asset.Result) *stubProvider {
	release := make(chan struct{})
	close(release)
	return &stubProvider{key: key, result: result, release: release}
}

func (provider *stubProvider) CacheKey() string { return provider.key }

func (provider *stubProvider) Data(ctx context.Context, handler asset.DataHandler) {
	provider.calls.Add(1)
	go func() {
		select {
		case <-ctx.Done():
		case <-provider.release:
			handler(provider.result)
		}
	}()
}

func newLoader(cache loader.Cache) *loader.Loader {
	return loader.New(cache, time.Hour, time.Second, slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

/*
TestLoader_MissThenHit verifies that a loaded image is cached and then served
without calling the provider.
*/
func TestLoader_MissThenHit(t *testing.T) {
	cache := newMemoryCache()
	imageLoader := newLoader(cache)
	provider := newStub("asset-catalog://hero?delay=0.0", asset.Result{Data: pngHeader})

	first, err := imageLoader.Load(context.Background(), provider)
	require.NoError(t, err)
	assert.False(t, first.FromCache)
	assert.Equal(t, "image/png", first.ContentType)
	assert.Equal(t, "asset-catalog://hero?delay=0.0", first.CacheKey)

	second, err := imageLoader.Load(context.Background(), provider)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, pngHeader, second.Data)

	assert.Equal(t, int32(1), provider.calls.Load())
	assert.Equal(t, 1, cache.sets)
}

/*
TestLoader_ErrorsAreNotCached verifies that failures reach the caller and are retried.
*/
func TestLoader_ErrorsAreNotCached(t *testing.T) {
	cache := newMemoryCache()
	imageLoader := newLoader(cache)
	provider := newStub("asset-catalog://missing?delay=0.0", asset.Result{Err: asset.ErrLoadFailed})

	for range 2 {
		_, err := imageLoader.Load(context.Background(), provider)
		assert.ErrorIs(t, err, asset.ErrLoadFailed)
	}

	assert.Equal(t, int32(2), provider.calls.Load())
	assert.Zero(t, cache.sets)
}

/*
TestLoader_Coalesces verifies that concurrent loads of one key share a provider call.
*/
func TestLoader_Coalesces(t *testing.T) {
	imageLoader := newLoader(nil)
	provider := &stubProvider{
		key:     "asset-catalog://hero?delay=1.0",
		result:  asset.Result{Data: pngHeader},
		release: make(chan struct{}),
	}

	const waiters = 8
	var (
		wg     sync.WaitGroup
		failed atomic.Int32
	)
	for range waiters {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := imageLoader.Load(context.Background(), provider); err != nil {
				failed.Add(1)
			}
		}()
	}

	// Let every waiter join the in-flight call before it completes.
	time.Sleep(50 * time.Millisecond)
	close(provider.release)
	wg.Wait()

	assert.Zero(t, failed.Load())
	assert.Equal(t, int32(1), provider.calls.Load())
}

/*
TestLoader_CallerCancel verifies that a caller stops waiting on cancellation.
*/
func TestLoader_CallerCancel(t *testing.T) {
	imageLoader := newLoader(nil)
	provider := &stubProvider{key: "slow", release: make(chan struct{})}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := imageLoader.Load(ctx, provider)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

/*
TestLoader_FetchTimeout verifies that the shared call is bounded by the fetch timeout.
*/
func TestLoader_FetchTimeout(t *testing.T) {
	imageLoader := loader.New(nil, 0, 20*time.Millisecond, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	provider := &stubProvider{key: "stuck", release: make(chan struct{})}

	_, err := imageLoader.Load(context.Background(), provider)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

/*
TestNopCache verifies that the disabled cache never hits.
*/
func TestNopCache(t *testing.T) {
	var cache loader.NopCache

	require.NoError(t, cache.Set(context.Background(), "k", []byte("v"), time.Minute))
	_, err := cache.Get(context.Background(), "k")
	assert.ErrorIs(t, err, loader.ErrCacheMiss)
}
