// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package asset_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/smartimage/internal/core/asset"
	"github.com/taibuivan/smartimage/internal/platform/apperr"
)

// memoryStore is an in-memory [asset.Store].
type memoryStore struct {
	mu      sync.Mutex
	entries map[string]*asset.Entry
	data    map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: map[string]*asset.Entry{}, data: map[string][]byte{}}
}

func (store *memoryStore) Lookup(_ context.Context, name string) ([]byte, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	raw, ok := store.data[name]
	if !ok {
		return nil, asset.ErrNotFound
	}
	return asset.EncodePNG(raw)
}

func (store *memoryStore) List(context.Context) ([]*asset.Entry, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	entries := make([]*asset.Entry, 0, len(store.entries))
	for _, entry := range store.entries {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (store *memoryStore) Put(_ context.Context, name, mimeType string, data []byte) (*asset.Entry, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	now := time.Now()
	entry := &asset.Entry{Name: name, MimeType: mimeType, SizeBytes: int64(len(data)), CreatedAt: now, UpdatedAt: now}
	store.entries[name] = entry
	store.data[name] = data
	return entry, nil
}

func (store *memoryStore) Delete(_ context.Context, name string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.entries[name]; !ok {
		return apperr.NotFound("Asset")
	}
	delete(store.entries, name)
	delete(store.data, name)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func codeOf(err error) string {
	if appError := apperr.As(err); appError != nil {
		return appError.Code
	}
	return ""
}

/*
TestService_Put covers upload validation and storage.
*/
func TestService_Put(t *testing.T) {
	image := pngBytes(t)

	tests := []struct {
		name      string
		assetName string
		data      []byte
		code      string
	}{
		{"stores png", "logo", image, ""},
		{"trims name", "  logo  ", image, ""},
		{"empty name", " ", image, apperr.CodeValidation},
		{"slash in name", "a/b", image, apperr.CodeValidation},
		{"query in name", "a?b", image, apperr.CodeValidation},
		{"fragment in name", "a#b", image, apperr.CodeValidation},
		{"control character", "a\tb", image, apperr.CodeValidation},
		{"long name", strings.Repeat("x", asset.MaxNameLength+1), image, apperr.CodeValidation},
		{"empty body", "logo", nil, apperr.CodeValidation},
		{"too large", "logo", make([]byte, 2048), apperr.CodeValidation},
		{"not an image", "logo", []byte("hello"), apperr.CodeUnprocessable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemoryStore()
			service := asset.NewService(store, nil, 1024, discardLogger())

			entry, err := service.Put(context.Background(), tt.assetName, tt.data)
			if tt.code != "" {
				assert.Equal(t, tt.code, codeOf(err))
				assert.Empty(t, store.entries)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "logo", entry.Name)
			assert.Equal(t, "image/png", entry.MimeType)

			_, err = store.Lookup(context.Background(), "logo")
			assert.NoError(t, err)
		})
	}
}

/*
TestService_PutReachable verifies that every accepted name is served back
through the smart URL reported for it.
*/
func TestService_PutReachable(t *testing.T) {
	for _, name := range []string{"my hero", "hero:2x", "ops@logo", "50%", "[wide]", "café"} {
		t.Run(name, func(t *testing.T) {
			store := newMemoryStore()
			service := asset.NewService(store, nil, 0, discardLogger())

			entry, err := service.Put(context.Background(), name, pngBytes(t))
			require.NoError(t, err)

			source := asset.NewResolver(store, nil).ResolveString(entry.URL)
			require.Equal(t, asset.SourceProvider, source.Kind, entry.URL)

			data, err := asset.Await(context.Background(), source.Provider)
			require.NoError(t, err)
			assert.NotEmpty(t, data)
		})
	}
}

/*
TestService_List verifies that stored assets shadow bundled files.
*/
func TestService_List(t *testing.T) {
	store := newMemoryStore()
	_, err := store.Put(context.Background(), "logo.png", "image/png", pngBytes(t))
	require.NoError(t, err)

	bundled := asset.NewDirCatalog(fstest.MapFS{
		"logo.png":  {Data: pngBytes(t)},
		"hero.png":  {Data: pngBytes(t)},
		"notes.txt": {Data: []byte("x")},
	})

	entries, err := asset.NewService(store, bundled, 0, discardLogger()).List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "logo.png", entries[0].Name)
	assert.Equal(t, "image/png", entries[0].MimeType)
	assert.Equal(t, "asset-catalog://logo.png", entries[0].URL)
	assert.Equal(t, "hero.png", entries[1].Name)
	assert.Empty(t, entries[1].MimeType)
	assert.Equal(t, "asset-catalog://hero.png", entries[1].URL)
}

/*
TestService_WithoutStore verifies that management is disabled without a database.
*/
func TestService_WithoutStore(t *testing.T) {
	service := asset.NewService(nil, nil, 0, discardLogger())

	entries, err := service.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = service.Put(context.Background(), "logo", pngBytes(t))
	assert.Equal(t, apperr.CodeServiceUnavailable, codeOf(err))

	assert.Equal(t, apperr.CodeServiceUnavailable, codeOf(service.Delete(context.Background(), "logo")))
}

/*
TestService_Delete verifies removal and the not-found case.
*/
func TestService_Delete(t *testing.T) {
	store := newMemoryStore()
	service := asset.NewService(store, nil, 0, discardLogger())

	_, err := service.Put(context.Background(), "logo", pngBytes(t))
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), "logo"))
	assert.Equal(t, apperr.CodeNotFound, codeOf(service.Delete(context.Background(), "logo")))

	// Names are trimmed the same way on both paths.
	_, err = service.Put(context.Background(), "  padded ", pngBytes(t))
	require.NoError(t, err)
	require.NoError(t, service.Delete(context.Background(), "  padded "))
	assert.Empty(t, store.entries)
}
