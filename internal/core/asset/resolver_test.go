// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package asset_test

import (
	"context"
	"net/url"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/smartimage/internal/core/asset"
)

/*
TestResolver_Resolve verifies dispatch between the provider and the remote path.
*/
func TestResolver_Resolve(t *testing.T) {
	catalog := asset.NewDirCatalog(fstest.MapFS{"foo.png": {Data: pngBytes(t)}})

	var remoteCalls []*url.URL
	remote := func(u *url.URL) asset.Source {
		remoteCalls = append(remoteCalls, u)
		return asset.NetworkSource(u)
	}
	resolver := asset.NewResolver(catalog, remote)

	t.Run("asset url yields a provider", func(t *testing.T) {
		source := resolver.Resolve(mustParse(t, "asset-catalog://foo?delay=2.5"))

		require.Equal(t, asset.SourceProvider, source.Kind)
		assert.Equal(t, "asset-catalog://foo?delay=2.5", source.Provider.CacheKey())

		provider, ok := source.Provider.(*asset.Provider)
		require.True(t, ok)
		assert.Equal(t, asset.Reference{Name: "foo", Delay: 2500 * time.Millisecond}, provider.Reference())
		assert.Empty(t, remoteCalls)
	})

	t.Run("remote url passes through unchanged", func(t *testing.T) {
		u := mustParse(t, "https://example.com/a.png")
		source := resolver.Resolve(u)

		assert.Equal(t, asset.SourceRemote, source.Kind)
		assert.Same(t, u, source.URL)
		require.NotEmpty(t, remoteCalls)
		assert.Same(t, u, remoteCalls[len(remoteCalls)-1])
	})

	t.Run("absent url goes to the remote path", func(t *testing.T) {
		source := resolver.Resolve(nil)

		assert.Equal(t, asset.SourceRemote, source.Kind)
		assert.Nil(t, source.URL)
	})
}

/*
TestResolver_ResolveString verifies string input handling.
*/
func TestResolver_ResolveString(t *testing.T) {
	resolver := asset.NewResolver(asset.Chain{}, nil)

	assert.Nil(t, resolver.ResolveString("").URL)
	assert.Nil(t, resolver.ResolveString("   ").URL)

	broken := resolver.ResolveString("%zz")
	assert.Equal(t, asset.SourceRemote, broken.Kind)
	assert.Nil(t, broken.URL)
	assert.Equal(t, "%zz", broken.Raw)

	assert.Equal(t, asset.SourceProvider, resolver.ResolveString("asset-catalog://bar").Kind)

	escaped := resolver.ResolveString("asset-catalog://hero%20banner.png?delay=1")
	require.Equal(t, asset.SourceProvider, escaped.Kind)
	assert.Equal(t, "asset-catalog://hero banner.png?delay=1.0", escaped.Provider.CacheKey())
}

/*
TestResolver_EndToEnd verifies that a resolved provider delivers the asset.
*/
func TestResolver_EndToEnd(t *testing.T) {
	catalog := asset.NewDirCatalog(fstest.MapFS{"bar.png": {Data: pngBytes(t)}})
	source := asset.NewResolver(catalog, nil).ResolveString("asset-catalog://bar")
	require.Equal(t, asset.SourceProvider, source.Kind)

	data, err := asset.Await(context.Background(), source.Provider)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
