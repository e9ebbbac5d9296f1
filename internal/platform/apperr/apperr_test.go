// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/smartimage/internal/platform/apperr"
)

/*
TestConstructors verifies the status and code of each constructor.
*/
func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *apperr.AppError
		status int
		code   string
	}{
		{"not found", apperr.NotFound("Asset"), http.StatusNotFound, apperr.CodeNotFound},
		{"unauthorized", apperr.Unauthorized("x"), http.StatusUnauthorized, apperr.CodeUnauthorized},
		{"forbidden", apperr.Forbidden("x"), http.StatusForbidden, apperr.CodeForbidden},
		{"validation", apperr.ValidationError("x"), http.StatusBadRequest, apperr.CodeValidation},
		{"rate limited", apperr.RateLimited(3), http.StatusTooManyRequests, apperr.CodeRateLimited},
		{"unprocessable", apperr.Unprocessable("x"), http.StatusUnprocessableEntity, apperr.CodeUnprocessable},
		{"internal", apperr.Internal(errors.New("db down")), http.StatusInternalServerError, apperr.CodeInternal},
		{"unavailable", apperr.ServiceUnavailable("x"), http.StatusServiceUnavailable, apperr.CodeServiceUnavailable},
		{"timeout", apperr.GatewayTimeout("x", nil), http.StatusGatewayTimeout, apperr.CodeGatewayTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}

	assert.Equal(t, "Asset not found", apperr.NotFound("Asset").Error())
}

/*
TestAs verifies extraction through wrapping and cause traversal.
*/
func TestAs(t *testing.T) {
	cause := errors.New("connection reset")
	wrapped := fmt.Errorf("store: %w", apperr.Internal(cause))

	appError := apperr.As(wrapped)
	require.NotNil(t, appError)
	assert.Equal(t, apperr.CodeInternal, appError.Code)
	assert.ErrorIs(t, wrapped, cause)

	assert.Nil(t, apperr.As(cause))
	assert.Nil(t, apperr.As(nil))
}
