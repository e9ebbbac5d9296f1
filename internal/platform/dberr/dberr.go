// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr maps PostgreSQL driver errors onto [apperr.AppError] values.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/smartimage/internal/platform/apperr"
)

// ErrNotFound is returned for a query that matched no row.
var ErrNotFound = apperr.NotFound("Resource")

/*
Wrap classifies err for the API.

Description: pgx.ErrNoRows becomes NotFound, constraint violations caused by
client input become ValidationError, anything else becomes Internal with the
action recorded in the cause for the server log.

Parameters:
  - err: error (may be nil)
  - action: string (e.g. "upsert asset")

Returns:
  - error: nil or an *apperr.AppError
*/
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		switch pgError.Code {
		case pgerrcode.CheckViolation, pgerrcode.StringDataRightTruncationDataException:
			return apperr.ValidationError("Value rejected by storage constraints",
				apperr.FieldError{Field: pgError.ColumnName, Message: pgError.Message})
		}
	}

	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}
