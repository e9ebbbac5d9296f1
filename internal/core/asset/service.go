// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package asset

import (
	"context"
	"log/slog"
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"

	"github.com/taibuivan/smartimage/internal/platform/apperr"
	"github.com/taibuivan/smartimage/internal/platform/ctxutil"
	"github.com/taibuivan/smartimage/internal/platform/validate"
)

// FieldData is the validation field name of an uploaded image body.
const FieldData = "data"

// reservedNameChars would make a name unreachable through an asset-catalog URL.
const reservedNameChars = "/\\?#"

// Service manages the writable catalog and lists what the read-only
// directory catalog bundles.
type Service struct {
	store    Store
	bundled  *DirCatalog
	maxBytes int64
	logger   *slog.Logger
}

// NewService creates the management service. store and bundled may each be
// nil when the corresponding backend is not configured.
func NewService(store Store, bundled *DirCatalog, maxBytes int64, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		bundled:  bundled,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

/*
List returns every asset known to the configured catalogs.

Description: Stored assets come first with full metadata; bundled files that
are not shadowed by a stored asset are appended with their name only.

Parameters:
  - context: context.Context

Returns:
  - []*Entry: Asset metadata
  - error: Storage failures
*/
func (service *Service) List(context context.Context) ([]*Entry, error) {
	entries := make([]*Entry, 0)
	seen := make(map[string]bool)

	if service.store != nil {
		stored, err := service.store.List(context)
		if err != nil {
			return nil, err
		}
		for _, entry := range stored {
			entry.URL = Reference{Name: entry.Name}.URL()
			seen[entry.Name] = true
		}
		entries = append(entries, stored...)
	}

	if service.bundled != nil {
		names, err := service.bundled.List(context)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		for _, name := range names {
			if !seen[name] {
				entries = append(entries, &Entry{Name: name, URL: Reference{Name: name}.URL()})
			}
		}
	}

	return entries, nil
}

/*
Put validates and stores an uploaded image.

Parameters:
  - context: context.Context
  - name: string
  - data: []byte (raw upload body)

Returns:
  - *Entry: Stored metadata
  - error: Validation, disabled-uploads or storage errors
*/
func (service *Service) Put(context context.Context, name string, data []byte) (*Entry, error) {
	if service.store == nil {
		return nil, apperr.ServiceUnavailable("Asset uploads are disabled")
	}

	name = canonicalName(name)

	validator := &validate.Validator{}
	validator.Required(FieldName, name).
		MaxLen(FieldName, name, MaxNameLength).
		ExcludesAny(FieldName, name, reservedNameChars).
		Custom(FieldName, strings.ContainsFunc(name, unicode.IsControl), "Must not contain control characters").
		Custom(FieldName, name != "" && !Addressable(name), "Must be reachable through an asset-catalog URL").
		Custom(FieldData, len(data) == 0, "Image body is required").
		MaxBytes(FieldData, int64(len(data)), service.maxBytes)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	format, err := DetectFormat(data)
	if err != nil {
		return nil, apperr.Unprocessable("Body is not a supported image")
	}

	entry, err := service.store.Put(context, name, "image/"+format, data)
	if err != nil {
		return nil, err
	}
	entry.URL = Reference{Name: entry.Name}.URL()

	service.logger.InfoContext(context, "asset_stored",
		slog.String("asset", entry.Name),
		slog.String("actor", actor(context)),
		slog.String("size", humanize.Bytes(uint64(entry.SizeBytes))),
		slog.String("mime_type", entry.MimeType),
	)

	return entry, nil
}

/*
Delete removes a stored asset.

Parameters:
  - context: context.Context
  - name: string

Returns:
  - error: NotFound, disabled-uploads or storage errors
*/
func (service *Service) Delete(context context.Context, name string) error {
	if service.store == nil {
		return apperr.ServiceUnavailable("Asset uploads are disabled")
	}

	name = canonicalName(name)
	if err := service.store.Delete(context, name); err != nil {
		return err
	}

	service.logger.InfoContext(context, "asset_deleted",
		slog.String("asset", name),
		slog.String("actor", actor(context)),
	)
	return nil
}

// canonicalName is the form in which names are validated and stored.
func canonicalName(name string) string {
	return NormalizeName(strings.TrimSpace(name))
}

// actor names the authenticated caller for audit log lines.
func actor(context context.Context) string {
	if claims := ctxutil.GetAuthUser(context); claims != nil {
		return claims.UserID
	}
	return "anonymous"
}
