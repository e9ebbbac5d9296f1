// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package asset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/text/unicode/norm"
)

// # Catalog Lookup

// Lookup is the platform asset store: given a name, it returns encoded image
// bytes or reports [ErrNotFound].
//
// Implementations are interchangeable; the provider does not know which one
// backs it.
type Lookup interface {
	Lookup(context context.Context, name string) ([]byte, error)
}

// LookupFunc adapts an ordinary function to the [Lookup] interface.
type LookupFunc func(context context.Context, name string) ([]byte, error)

// Lookup implements [Lookup].
func (fn LookupFunc) Lookup(context context.Context, name string) ([]byte, error) {
	return fn(context, name)
}

// Chain tries each lookup in order and returns the first hit.
//
// Only [ErrNotFound] moves on to the next lookup; any other failure stops the
// chain so a broken backend is not masked by a later one.
type Chain []Lookup

// Lookup implements [Lookup].
func (chain Chain) Lookup(context context.Context, name string) ([]byte, error) {
	for _, lookup := range chain {
		data, err := lookup.Lookup(context, name)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	return nil, ErrNotFound
}

// # Encoding

// EncodePNG decodes raw image bytes in any registered format and re-encodes
// them losslessly as PNG.
func EncodePNG(raw []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnencodable, err)
	}

	var buffer bytes.Buffer
	if err := imaging.Encode(&buffer, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnencodable, err)
	}

	return buffer.Bytes(), nil
}

// DetectFormat reports the registered format name of raw image bytes
// ("png", "jpeg", ...) without decoding the pixel data.
func DetectFormat(raw []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnencodable, err)
	}
	return format, nil
}

// NormalizeName converts an asset name to Unicode NFC so that names typed on
// different platforms map to the same catalog entry.
func NormalizeName(name string) string {
	return norm.NFC.String(name)
}
