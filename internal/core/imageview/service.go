// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package imageview serves images addressed by smart URLs.

It is the consumer of [asset.Source] values: a provider-backed source is
loaded through the [loader.Loader] and streamed to the client, a remote
source is answered with a redirect so the client fetches it directly.

# Routing Strategy

  - GET /images?url=...          -> image bytes, redirect or 204
  - GET /images/resolve?url=...  -> JSON description of the classification
*/
package imageview

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/taibuivan/smartimage/internal/core/asset"
	"github.com/taibuivan/smartimage/internal/core/loader"
	"github.com/taibuivan/smartimage/internal/platform/apperr"
)

// FieldURL is the query parameter carrying the smart URL.
const FieldURL = "url"

// View is the outcome of opening a smart URL: exactly one of Image (local
// asset) or Redirect (remote) is set; both are nil for an absent URL.
type View struct {
	Image    *loader.Image
	Redirect *url.URL
}

// Resolution describes how a smart URL was classified.
type Resolution struct {
	Kind         string   `json:"kind"`
	AssetName    string   `json:"asset_name,omitempty"`
	DelaySeconds *float64 `json:"delay_seconds,omitempty"`
	CacheKey     string   `json:"cache_key,omitempty"`
	URL          string   `json:"url,omitempty"`
}

// Service resolves smart URLs and loads the resulting sources.
type Service struct {
	resolver     *asset.Resolver
	loader       *loader.Loader
	allowedHosts []string
}

// NewService creates an image view service. Remote URLs are only redirected
// to allowedHosts: "*" matches any host, any other entry matches that host
// and its subdomains.
func NewService(resolver *asset.Resolver, imageLoader *loader.Loader, allowedHosts []string) *Service {
	return &Service{resolver: resolver, loader: imageLoader, allowedHosts: allowedHosts}
}

/*
Open resolves raw and loads the chosen source.

Parameters:
  - ctx: context.Context
  - raw: string (smart URL; empty means no image)

Returns:
  - *View: Image, redirect or empty view
  - error: ValidationError for malformed URLs, NotFound for failed assets,
    Forbidden for remote hosts outside the allowlist, or the context error
    when the client gave up
*/
func (service *Service) Open(ctx context.Context, raw string) (*View, error) {
	smart, err := classify(raw)
	if err != nil {
		return nil, err
	}

	source := service.resolver.ResolveSmart(smart)

	switch source.Kind {
	case asset.SourceProvider:
		image, err := service.loader.Load(ctx, source.Provider)
		if err != nil {
			switch {
			case errors.Is(err, asset.ErrLoadFailed):
				return nil, apperr.NotFound("Asset")
			case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
				return nil, apperr.GatewayTimeout("Asset load timed out", err)
			}
			return nil, err
		}
		return &View{Image: image}, nil

	default:
		if source.URL == nil {
			return &View{}, nil
		}
		if source.URL.Scheme != "http" && source.URL.Scheme != "https" {
			return nil, apperr.Unprocessable("Only http and https remote URLs can be served")
		}
		if !service.redirectAllowed(source.URL.Hostname()) {
			return nil, apperr.Forbidden("Remote host is not allowed")
		}
		return &View{Redirect: source.URL}, nil
	}
}

/*
Resolve classifies raw without loading anything.

Parameters:
  - raw: string (smart URL)

Returns:
  - *Resolution: Classification summary
  - error: ValidationError for malformed URLs
*/
func (service *Service) Resolve(raw string) (*Resolution, error) {
	smart, err := classify(raw)
	if err != nil {
		return nil, err
	}

	resolution := &Resolution{Kind: smart.Kind.String()}

	switch smart.Kind {
	case asset.KindLocalAsset:
		seconds := smart.Asset.Delay.Seconds()
		resolution.AssetName = smart.Asset.Name
		resolution.DelaySeconds = &seconds
		resolution.CacheKey = smart.Asset.CacheKey()
	case asset.KindRemote:
		resolution.URL = smart.URL.String()
	}

	return resolution, nil
}

func (service *Service) redirectAllowed(host string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if host == "" {
		return false
	}

	for _, allowed := range service.allowedHosts {
		allowed = strings.ToLower(strings.TrimSpace(allowed))
		switch {
		case allowed == "*":
			return true
		case allowed == "":
			continue
		case host == allowed, strings.HasSuffix(host, "."+allowed):
			return true
		}
	}
	return false
}

// classify sorts the query value. Empty means absent.
func classify(raw string) (asset.SmartURL, error) {
	smart, err := asset.ClassifyString(raw)
	if err != nil {
		return smart, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   FieldURL,
			Message: "Must be a valid URL",
		})
	}

	return smart, nil
}
