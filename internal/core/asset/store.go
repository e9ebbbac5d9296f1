// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package asset

import (
	"context"
	"time"
)

// Entry is the stored metadata of a managed catalog asset.
type Entry struct {
	Name      string    `json:"name"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	SHA256    string    `json:"sha256"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// URL is the smart URL serving the asset. It is derived, not stored.
	URL string `json:"url"`
}

// Store is the management contract for a writable catalog.
type Store interface {
	Lookup

	/*
		List returns metadata for every stored asset.

		Parameters:
		  - context: context.Context

		Returns:
		  - []*Entry: Asset metadata ordered by name
		  - error: Storage failures
	*/
	List(context context.Context) ([]*Entry, error)

	/*
		Put inserts or replaces an asset.

		Parameters:
		  - context: context.Context
		  - name: string
		  - mimeType: string
		  - data: []byte

		Returns:
		  - *Entry: Stored metadata
		  - error: Storage failures
	*/
	Put(context context.Context, name, mimeType string, data []byte) (*Entry, error)

	/*
		Delete removes an asset by name.

		Parameters:
		  - context: context.Context
		  - name: string

		Returns:
		  - error: NotFound or storage failures
	*/
	Delete(context context.Context, name string) error
}
