// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package respond writes HTTP responses for the API handlers.

JSON responses use one of two envelopes: {"data": ...} on success and
{"error", "code", "details"} on failure. Images are written raw by [Image]
with the headers describing where the bytes came from.
*/
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/taibuivan/smartimage/internal/platform/apperr"
	"github.com/taibuivan/smartimage/internal/platform/constants"
	"github.com/taibuivan/smartimage/internal/platform/ctxutil"
)

// SuccessEnvelope wraps successful JSON payloads.
type SuccessEnvelope struct {
	Data interface{} `json:"data"`
}

// ErrorEnvelope is the JSON body of every error response.
type ErrorEnvelope struct {
	Error   string              `json:"error"`
	Code    string              `json:"code"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// JSON writes payload with statusCode.
func JSON(writer http.ResponseWriter, statusCode int, payload interface{}) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK writes a 200 with data in the success envelope.
func OK(writer http.ResponseWriter, data interface{}) {
	JSON(writer, http.StatusOK, SuccessEnvelope{Data: data})
}

// NoContent writes a 204.
func NoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

// ImageMeta describes a binary image response.
type ImageMeta struct {
	ContentType string
	CacheKey    string
	FromCache   bool
}

// Image writes raw image bytes with caching and provenance headers.
func Image(writer http.ResponseWriter, data []byte, meta ImageMeta) {
	header := writer.Header()
	header.Set("Content-Type", meta.ContentType)
	header.Set("Content-Length", strconv.Itoa(len(data)))
	header.Set("Cache-Control", constants.ImageCacheControl)
	header.Set("X-Content-Type-Options", "nosniff")

	if meta.CacheKey != "" {
		header.Set(constants.HeaderXCacheKey, meta.CacheKey)
		if meta.FromCache {
			header.Set(constants.HeaderXCache, "HIT")
		} else {
			header.Set(constants.HeaderXCache, "MISS")
		}
	}

	writer.WriteHeader(http.StatusOK)
	_, _ = writer.Write(data)
}

// Error renders err as the error envelope. Errors that are not
// [*apperr.AppError] are logged and hidden behind a generic 500.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	ctx := request.Context()
	logger := ctxutil.GetLogger(ctx)

	appError := apperr.As(err)
	if appError == nil {
		logger.ErrorContext(ctx, "unhandled_error_swallowed",
			slog.String("error", err.Error()),
			slog.String("request_id", ctxutil.GetRequestID(ctx)),
		)
		appError = apperr.Internal(err)
	}

	if appError.HTTPStatus >= 500 {
		logger.ErrorContext(ctx, "api_server_error",
			slog.String("code", appError.Code),
			slog.String("request_id", ctxutil.GetRequestID(ctx)),
			slog.Any("cause", appError.Cause),
		)
	}

	JSON(writer, appError.HTTPStatus, ErrorEnvelope{
		Error:   appError.Message,
		Code:    appError.Code,
		Details: appError.Details,
	})
}
