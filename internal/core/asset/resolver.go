// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package asset

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// # Smart URL Classification

// Kind is the variant of a classified smart URL.
type Kind int

const (
	// KindAbsent means no URL was given.
	KindAbsent Kind = iota
	// KindRemote means the URL is handed to the standard remote path.
	KindRemote
	// KindLocalAsset means the URL names a catalog asset.
	KindLocalAsset
)

// String returns the wire name of the kind.
func (kind Kind) String() string {
	switch kind {
	case KindRemote:
		return "remote"
	case KindLocalAsset:
		return "local_asset"
	default:
		return "absent"
	}
}

// SmartURL is the result of [Classify]: exactly one of Asset (for
// [KindLocalAsset]) or URL (for [KindRemote]) is meaningful.
type SmartURL struct {
	Kind  Kind
	Asset Reference
	URL   *url.URL
}

// Classify sorts u into absent, remote or local asset. It is a pure function.
//
// A URL is a local asset when its scheme is [Scheme] and it carries a
// non-empty host. Everything else, including an asset-catalog URL with no
// host, is remote.
func Classify(u *url.URL) SmartURL {
	if u == nil {
		return SmartURL{Kind: KindAbsent}
	}

	if u.Scheme != Scheme {
		return SmartURL{Kind: KindRemote, URL: u}
	}

	// url.Parse has already percent-decoded the host.
	name := u.Hostname()
	if name == "" {
		return SmartURL{Kind: KindRemote, URL: u}
	}

	return SmartURL{
		Kind: KindLocalAsset,
		Asset: Reference{
			Name:  name,
			Delay: ParseDelay(u.Query().Get(DelayParam)),
		},
	}
}

// ClassifyString is [Classify] for text. Blank text is absent.
//
// Asset URLs are split by hand: url.Parse refuses percent-escaped ASCII in a
// host, so "asset-catalog://hero%20banner.png" would never name "hero
// banner.png". Any other text goes through url.Parse and its error is
// returned.
func ClassifyString(raw string) (SmartURL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return SmartURL{Kind: KindAbsent}, nil
	}

	if ref, ok := parseAssetURL(raw); ok {
		return SmartURL{Kind: KindLocalAsset, Asset: ref}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return SmartURL{}, err
	}

	return Classify(u), nil
}

const assetPrefix = Scheme + "://"

// parseAssetURL reads the host of an asset-catalog URL up to the first
// "/", "?" or "#", drops userinfo and port, and percent-decodes the rest.
func parseAssetURL(raw string) (Reference, bool) {
	if len(raw) < len(assetPrefix) || !strings.EqualFold(raw[:len(assetPrefix)], assetPrefix) {
		return Reference{}, false
	}
	rest := raw[len(assetPrefix):]

	authority, tail := rest, ""
	if index := strings.IndexAny(rest, "/?#"); index >= 0 {
		authority, tail = rest[:index], rest[index:]
	}

	if index := strings.LastIndexByte(authority, '@'); index >= 0 {
		authority = authority[index+1:]
	}
	if strings.HasPrefix(authority, "[") {
		if end := strings.IndexByte(authority, ']'); end >= 0 {
			authority = authority[1:end]
		}
	} else if index := strings.LastIndexByte(authority, ':'); index >= 0 {
		authority = authority[:index]
	}

	name, err := url.PathUnescape(authority)
	if err != nil || name == "" {
		return Reference{}, false
	}

	var delay time.Duration
	tail, _, _ = strings.Cut(tail, "#")
	if _, query, found := strings.Cut(tail, "?"); found {
		values, _ := url.ParseQuery(query)
		delay = ParseDelay(values.Get(DelayParam))
	}

	return Reference{Name: name, Delay: delay}, true
}

// Addressable reports whether name comes back unchanged from the smart URL
// built by [Reference.URL].
func Addressable(name string) bool {
	smart, err := ClassifyString(Reference{Name: name}.URL())
	return err == nil && smart.Kind == KindLocalAsset && smart.Asset.Name == name
}

// ParseDelay converts a decimal number of seconds into a duration.
//
// Missing, malformed, negative, non-finite or out-of-range values yield zero.
func ParseDelay(raw string) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}

	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return 0
	}

	nanos := seconds * float64(time.Second)
	if nanos >= math.MaxInt64 {
		return 0
	}

	return time.Duration(nanos)
}

// # Image Sources

// SourceKind is the variant of a [Source].
type SourceKind int

const (
	// SourceRemote loads from a URL through the standard remote path.
	SourceRemote SourceKind = iota
	// SourceProvider loads through a [DataProvider].
	SourceProvider
)

// Source is what an image view consumes: either a remote URL (possibly nil)
// or a data provider.
type Source struct {
	Kind     SourceKind
	URL      *url.URL
	Provider DataProvider

	// Raw holds the original text when a string could not be parsed as a URL.
	Raw string
}

// RemoteFunc is the standard remote source construction path. It accepts an
// optional URL and yields a ready-to-use source.
type RemoteFunc func(u *url.URL) Source

// NetworkSource is the default [RemoteFunc]: it wraps u unchanged.
func NetworkSource(u *url.URL) Source {
	return Source{Kind: SourceRemote, URL: u}
}

// # Resolver

// Resolver turns smart URLs into image sources.
//
// Resolution is synchronous and side-effect free; all asynchronous work
// happens later inside the chosen source.
type Resolver struct {
	lookup Lookup
	remote RemoteFunc
}

// NewResolver creates a resolver whose providers read from lookup. A nil
// remote uses [NetworkSource].
func NewResolver(lookup Lookup, remote RemoteFunc) *Resolver {
	if remote == nil {
		remote = NetworkSource
	}
	return &Resolver{lookup: lookup, remote: remote}
}

// Resolve returns a provider-backed source for asset URLs and defers to the
// remote path for everything else, including a nil URL.
func (resolver *Resolver) Resolve(u *url.URL) Source {
	return resolver.ResolveSmart(Classify(u))
}

// ResolveSmart builds the source for an already classified URL.
func (resolver *Resolver) ResolveSmart(smart SmartURL) Source {
	if smart.Kind != KindLocalAsset {
		return resolver.remote(smart.URL)
	}

	provider, err := NewProvider(smart.Asset, resolver.lookup)
	if err != nil {
		// Classification guarantees a valid reference; keep resolution infallible.
		return resolver.remote(nil)
	}

	return Source{Kind: SourceProvider, Provider: provider}
}

// ResolveString classifies raw with [ClassifyString] and resolves it. Text
// that does not parse as a URL goes to the remote path as an absent URL with
// Raw preserved.
func (resolver *Resolver) ResolveString(raw string) Source {
	smart, err := ClassifyString(raw)
	if err != nil {
		source := resolver.remote(nil)
		source.Raw = raw
		return source
	}

	return resolver.ResolveSmart(smart)
}
