// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package asset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
)

// ImageExtensions are tried, in order, when a name has no exact match.
var ImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp", ".tif", ".tiff"}

// DirCatalog serves assets from a file system tree (a directory on disk or an
// embedded FS).
//
// # Name Resolution
//
//  1. The exact file name ("hero.png").
//  2. The name plus each of [ImageExtensions] ("hero" -> "hero.png").
//
// Names are NFC-normalized. Names that would escape the root are treated as
// missing.
type DirCatalog struct {
	files fs.FS
}

// NewDirCatalog creates a catalog over an arbitrary [fs.FS].
func NewDirCatalog(files fs.FS) *DirCatalog {
	return &DirCatalog{files: files}
}

// OpenDirCatalog creates a catalog rooted at a directory on disk.
func OpenDirCatalog(root string) (*DirCatalog, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("asset: catalog directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("asset: catalog path %q is not a directory", root)
	}

	return NewDirCatalog(os.DirFS(root)), nil
}

// Lookup implements [Lookup].
func (catalog *DirCatalog) Lookup(context context.Context, name string) ([]byte, error) {
	raw, err := catalog.read(NormalizeName(name))
	if err != nil {
		return nil, err
	}

	if err := context.Err(); err != nil {
		return nil, err
	}

	return EncodePNG(raw)
}

// List returns the file names available in the catalog root.
func (catalog *DirCatalog) List(context context.Context) ([]string, error) {
	entries, err := fs.ReadDir(catalog.files, ".")
	if err != nil {
		return nil, fmt.Errorf("asset: list catalog: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if !hasImageExtension(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}

	sort.Strings(names)
	return names, nil
}

// read returns the raw bytes for the first candidate file that exists.
func (catalog *DirCatalog) read(name string) ([]byte, error) {
	if !fs.ValidPath(name) || name == "." {
		return nil, ErrNotFound
	}

	candidates := []string{name}
	if !hasImageExtension(name) {
		for _, extension := range ImageExtensions {
			candidates = append(candidates, name+extension)
		}
	}

	for _, candidate := range candidates {
		data, err := fs.ReadFile(catalog.files, candidate)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) && !isDirectoryError(catalog.files, candidate) {
			return nil, fmt.Errorf("asset: read %q: %w", candidate, err)
		}
	}

	return nil, ErrNotFound
}

func hasImageExtension(name string) bool {
	extension := strings.ToLower(path.Ext(name))
	for _, known := range ImageExtensions {
		if extension == known {
			return true
		}
	}
	return false
}

// isDirectoryError reports whether candidate exists but is a directory.
func isDirectoryError(files fs.FS, candidate string) bool {
	info, err := fs.Stat(files, candidate)
	return err == nil && info.IsDir()
}
