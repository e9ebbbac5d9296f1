// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package asset

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/smartimage/internal/platform/apperr"
	"github.com/taibuivan/smartimage/internal/platform/database/schema"
	"github.com/taibuivan/smartimage/internal/platform/dberr"
)

// # PostgreSQL Catalog

// PostgresCatalog stores catalog assets in the core.asset table.
//
// It implements both [Lookup] (read path used by providers) and [Store]
// (management path used by the HTTP API and the import command).
type PostgresCatalog struct {
	pool *pgxpool.Pool
}

// NewPostgresCatalog creates a catalog backed by the given pool.
func NewPostgresCatalog(pool *pgxpool.Pool) *PostgresCatalog {
	return &PostgresCatalog{pool: pool}
}

/*
Lookup returns the PNG encoding of the named asset.

Parameters:
  - context: context.Context
  - name: string (asset name)

Returns:
  - []byte: PNG bytes
  - error: ErrNotFound, ErrUnencodable or storage failures
*/
func (catalog *PostgresCatalog) Lookup(context context.Context, name string) ([]byte, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.CoreAsset.Data, schema.CoreAsset.Table, schema.CoreAsset.Name,
	)

	var raw []byte
	err := catalog.pool.QueryRow(context, query, NormalizeName(name)).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("postgres: failed to read asset: %w", err)
	}

	return EncodePNG(raw)
}

/*
List returns metadata for every stored asset, ordered by name.

Parameters:
  - context: context.Context

Returns:
  - []*Entry: Asset metadata (no payload)
  - error: Storage failures
*/
func (catalog *PostgresCatalog) List(context context.Context) ([]*Entry, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s ASC`,
		strings.Join(schema.CoreAsset.Columns(), ", "),
		schema.CoreAsset.Table,
		schema.CoreAsset.Name,
	)

	rows, err := catalog.pool.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_assets")
	}
	defer rows.Close()

	entries := make([]*Entry, 0)
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(
			&entry.Name,
			&entry.MimeType,
			&entry.SizeBytes,
			&entry.SHA256,
			&entry.CreatedAt,
			&entry.UpdatedAt,
		); err != nil {
			return nil, dberr.Wrap(err, "scan_asset")
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "iterate_assets")
	}

	return entries, nil
}

/*
Put inserts or replaces an asset.

Parameters:
  - context: context.Context
  - name: string
  - mimeType: string
  - data: []byte (raw image bytes as uploaded)

Returns:
  - *Entry: Stored metadata
  - error: Storage failures
*/
func (catalog *PostgresCatalog) Put(context context.Context, name, mimeType string, data []byte) (*Entry, error) {
	digest := sha256.Sum256(data)

	query := fmt.Sprintf(`
		INSERT INTO %[1]s (%[2]s, %[3]s, %[4]s, %[5]s, %[6]s)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (%[2]s) DO UPDATE SET
			%[3]s = EXCLUDED.%[3]s,
			%[4]s = EXCLUDED.%[4]s,
			%[5]s = EXCLUDED.%[5]s,
			%[6]s = EXCLUDED.%[6]s,
			%[7]s = now()
		RETURNING %[8]s
	`,
		schema.CoreAsset.Table,
		schema.CoreAsset.Name,
		schema.CoreAsset.Data,
		schema.CoreAsset.MimeType,
		schema.CoreAsset.SizeBytes,
		schema.CoreAsset.SHA256,
		schema.CoreAsset.UpdatedAt,
		strings.Join(schema.CoreAsset.Columns(), ", "),
	)

	var entry Entry
	err := catalog.pool.QueryRow(context, query,
		NormalizeName(name), data, mimeType, int64(len(data)), hex.EncodeToString(digest[:]),
	).Scan(
		&entry.Name,
		&entry.MimeType,
		&entry.SizeBytes,
		&entry.SHA256,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "put_asset")
	}

	return &entry, nil
}

/*
Delete removes an asset by name.

Parameters:
  - context: context.Context
  - name: string

Returns:
  - error: apperr.NotFound when nothing was deleted, or storage failures
*/
func (catalog *PostgresCatalog) Delete(context context.Context, name string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreAsset.Table, schema.CoreAsset.Name)

	tag, err := catalog.pool.Exec(context, query, NormalizeName(name))
	if err != nil {
		return dberr.Wrap(err, "delete_asset")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Asset")
	}

	return nil
}
