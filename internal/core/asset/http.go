// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package asset

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/smartimage/internal/platform/middleware"
	requestutil "github.com/taibuivan/smartimage/internal/platform/request"
	"github.com/taibuivan/smartimage/internal/platform/respond"
	"github.com/taibuivan/smartimage/internal/platform/sec"
)

// # Handler Implementation

// Handler exposes catalog management over HTTP.
type Handler struct {
	service  *Service
	maxBytes int64
}

// NewHandler constructs a catalog [Handler]. maxBytes caps upload bodies.
func NewHandler(service *Service, maxBytes int64) *Handler {
	return &Handler{service: service, maxBytes: maxBytes}
}

// Routes returns a [chi.Router] with the catalog endpoints.
//
//   - Listing (Public): GET /
//   - Management (Admin): PUT and DELETE /{name}
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listAssets)

	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))

		admin.Put("/{name}", handler.putAsset)
		admin.Delete("/{name}", handler.deleteAsset)
	})

	return router
}

/*
GET /api/v1/assets.

Description: Lists stored and bundled catalog assets.

Response:
  - 200: []Entry: Catalog listing
*/
func (handler *Handler) listAssets(writer http.ResponseWriter, request *http.Request) {
	entries, err := handler.service.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entries)
}

/*
PUT /api/v1/assets/{name}.

Description: Stores the raw request body as the named asset, replacing any
existing asset with that name.

Request:
  - name: string
  - body: image bytes (png, jpeg, gif, bmp, webp, tiff)

Response:
  - 200: Entry: Stored metadata
  - 400: ValidationError: Bad name or empty/oversized body
  - 401: Unauthorized: Authentication required
  - 403: Forbidden: Admin role required
  - 422: Unprocessable: Body is not an image
  - 503: ServiceUnavailable: No writable catalog configured
*/
func (handler *Handler) putAsset(writer http.ResponseWriter, request *http.Request) {
	name := requestutil.Param(request, "name")

	limit := handler.maxBytes
	if limit <= 0 {
		limit = DefaultMaxUploadBytes
	}

	data, err := requestutil.ReadBody(writer, request, FieldData, limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.service.Put(request.Context(), name, data)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entry)
}

/*
DELETE /api/v1/assets/{name}.

Response:
  - 204: No Content
  - 401: Unauthorized: Authentication required
  - 403: Forbidden: Admin role required
  - 404: NotFound: Asset not found
*/
func (handler *Handler) deleteAsset(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.Param(request, "name")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
