// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package asset resolves smart image URLs and loads bundled images from the
local asset catalog.

A smart URL either names a catalog asset through the "asset-catalog" scheme
or points at a remote resource:

	asset-catalog://hero_banner.png?delay=3   -> catalog asset, 3s artificial delay
	https://cdn.example.com/hero_banner.png   -> remote, passed through unchanged

Architecture:

  - Reference: the immutable (name, delay) pair and its cache key.
  - Provider: single-shot asynchronous delivery of an asset's bytes.
  - Lookup: the injectable catalog backend (directory, PostgreSQL, chain).
  - Resolver: the pure classification of a URL into a [Source].

The delay exists to simulate network latency for previews and loading-state
tests. It is part of the cache key so delayed and immediate variants of the
same asset never share a cache entry.
*/
package asset

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/taibuivan/smartimage/internal/platform/validate"
)

// Scheme is the URL scheme that designates a catalog asset.
const Scheme = "asset-catalog"

// DelayParam is the query parameter carrying the artificial delay in seconds.
const DelayParam = "delay"

// Validation constraints for asset names.
const (
	FieldName     = "name"
	FieldDelay    = "delay"
	MaxNameLength = 255

	// DefaultMaxUploadBytes caps uploaded images when no limit is configured.
	DefaultMaxUploadBytes = 16 << 20
)

var (
	// ErrLoadFailed is the only error a [Provider] ever delivers. It covers
	// both a missing asset and one that could not be encoded.
	ErrLoadFailed = errors.New("asset loading failed")

	// ErrNotFound is returned by a [Lookup] when no asset has the given name.
	ErrNotFound = errors.New("asset: not found")

	// ErrUnencodable is returned when stored bytes cannot be decoded as an image.
	ErrUnencodable = errors.New("asset: image could not be encoded")
)

// Reference identifies a catalog asset together with its artificial delay.
type Reference struct {
	Name  string
	Delay time.Duration
}

// CacheKey returns the identity used by caches to deduplicate loaded data.
//
// The delay is rendered as a real number of seconds ("0.0", "2.5") so the key
// format matches the URL surface.
func (r Reference) CacheKey() string {
	return Scheme + "://" + r.Name + "?" + DelayParam + "=" + formatSeconds(r.Delay)
}

// URL returns the smart URL that addresses r. The name is escaped so that
// [ClassifyString] gives it back unchanged; a zero delay is left out.
func (r Reference) URL() string {
	smartURL := assetPrefix + nameEscaper.Replace(url.PathEscape(r.Name))
	if r.Delay > 0 {
		smartURL += "?" + DelayParam + "=" + formatSeconds(r.Delay)
	}
	return smartURL
}

// PathEscape leaves the userinfo and port separators alone.
var nameEscaper = strings.NewReplacer(":", "%3A", "@", "%40")

// Validate reports an empty name or a negative delay.
func (r Reference) Validate() error {
	validator := &validate.Validator{}
	validator.Custom(FieldName, r.Name == "", "This field is required").
		Custom(FieldDelay, r.Delay < 0, "Must not be negative")

	return validator.Err()
}

// formatSeconds renders d as the shortest decimal that round-trips, always
// with a fractional part.
func formatSeconds(d time.Duration) string {
	seconds := strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
	if !strings.Contains(seconds, ".") {
		seconds += ".0"
	}
	return seconds
}
