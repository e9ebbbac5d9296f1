// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil extracts input from HTTP requests.

It hides chi's parameter lookup and the body size limiting used by uploads so
handlers report every input problem through [apperr].
*/
package requestutil

import (
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/smartimage/internal/platform/apperr"
)

/*
Param returns the named route parameter, percent-decoded.

A value that cannot be decoded is returned as chi matched it.
*/
func Param(request *http.Request, name string) string {
	raw := chi.URLParam(request, name)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

/*
ReadBody reads the whole request body, refusing more than limit bytes.

Parameters:
  - writer: http.ResponseWriter (needed by http.MaxBytesReader)
  - request: *http.Request
  - field: string (reported in the validation error)
  - limit: int64

Returns:
  - []byte: Body
  - error: ValidationError when the body is too large or unreadable
*/
func ReadBody(writer http.ResponseWriter, request *http.Request, field string, limit int64) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(writer, request.Body, limit))
	if err == nil {
		return data, nil
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return nil, apperr.ValidationError("Validation failed",
			apperr.FieldError{Field: field, Message: "Request body is too large"})
	}

	return nil, apperr.ValidationError("Unreadable request body")
}
