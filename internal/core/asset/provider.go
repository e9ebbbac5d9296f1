// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package asset

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/taibuivan/smartimage/internal/platform/ctxutil"
)

// # Data Provider Contract

// Result is the single value delivered to a [DataHandler]: either Data or Err.
type Result struct {
	Data []byte
	Err  error
}

// DataHandler receives the outcome of a [DataProvider.Data] call.
type DataHandler func(Result)

// DataProvider is a pluggable source of raw image bytes that an image loader
// can use in place of a network fetch.
type DataProvider interface {
	// CacheKey identifies the produced data for caching and deduplication.
	CacheKey() string

	// Data starts loading and returns immediately. The handler is invoked at
	// most once; it is never invoked if ctx is cancelled while waiting.
	Data(ctx context.Context, handler DataHandler)
}

// # Catalog Provider

// Provider loads a single catalog asset, optionally after an artificial delay.
//
// # Concurrency
//
// A Provider is immutable and holds no shared state; concurrent Data calls are
// fully independent and are not coalesced.
type Provider struct {
	reference Reference
	lookup    Lookup
}

// NewProvider creates a provider for ref backed by lookup.
func NewProvider(ref Reference, lookup Lookup) (*Provider, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	if lookup == nil {
		return nil, errors.New("asset: provider requires a lookup")
	}

	return &Provider{reference: ref, lookup: lookup}, nil
}

// Reference returns the asset reference this provider loads.
func (provider *Provider) Reference() Reference {
	return provider.reference
}

// CacheKey implements [DataProvider].
func (provider *Provider) CacheKey() string {
	return provider.reference.CacheKey()
}

// Data implements [DataProvider].
//
// # Flow
//  1. Wait for the configured delay (abandon silently on cancellation).
//  2. Look the asset up exactly once.
//  3. Deliver the bytes, or [ErrLoadFailed] for any failure, unless ctx was
//     cancelled in the meantime.
func (provider *Provider) Data(ctx context.Context, handler DataHandler) {
	go provider.run(ctx, handler)
}

// Fetch is the blocking form of [Provider.Data]. It returns ctx.Err() when the
// caller gives up before delivery.
func (provider *Provider) Fetch(ctx context.Context) ([]byte, error) {
	return Await(ctx, provider)
}

func (provider *Provider) run(ctx context.Context, handler DataHandler) {
	if delay := provider.reference.Delay; delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
	}

	data, err := provider.lookup.Lookup(ctx, provider.reference.Name)

	// Nothing is delivered once the caller has gone away.
	if ctx.Err() != nil {
		return
	}

	if err != nil {
		ctxutil.GetLogger(ctx).DebugContext(ctx, "asset_lookup_failed",
			slog.String("asset", provider.reference.Name),
			slog.Any("error", err),
		)
		handler(Result{Err: ErrLoadFailed})
		return
	}

	handler(Result{Data: data})
}

// Await drives any [DataProvider] to completion through a one-shot channel.
func Await(ctx context.Context, provider DataProvider) ([]byte, error) {
	delivery := make(chan Result, 1)
	provider.Data(ctx, func(result Result) {
		// Only the first delivery counts.
		select {
		case delivery <- result:
		default:
		}
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result := <-delivery:
		return result.Data, result.Err
	}
}
