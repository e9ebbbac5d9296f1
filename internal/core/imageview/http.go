// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package imageview

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/smartimage/internal/platform/respond"
)

// Handler implements the HTTP layer for smart URL image delivery.
type Handler struct {
	service *Service
}

// NewHandler constructs an image [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with the image endpoints. All are public.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.getImage)
	router.Get("/resolve", handler.resolveImage)

	return router
}

/*
GET /api/v1/images.

Description: Loads the image a smart URL designates. Catalog assets are
served directly (after their artificial delay); remote URLs are redirected.

Request:
  - url: string (smart URL, optional)

Response:
  - 200: image bytes
  - 204: No Content: No URL given
  - 307: Redirect: Remote URL
  - 400: ValidationError: Malformed URL
  - 403: Forbidden: Remote host outside REDIRECT_ALLOWED_HOSTS
  - 404: NotFound: Asset could not be loaded
  - 422: Unprocessable: Remote URL is not http(s)
  - 504: GatewayTimeout: Asset load exceeded the fetch timeout
*/
func (handler *Handler) getImage(writer http.ResponseWriter, request *http.Request) {
	view, err := handler.service.Open(request.Context(), request.URL.Query().Get(FieldURL))
	if err != nil {
		// The client left or the timeout middleware already answered.
		if request.Context().Err() != nil {
			return
		}
		respond.Error(writer, request, err)
		return
	}

	switch {
	case view.Image != nil:
		respond.Image(writer, view.Image.Data, respond.ImageMeta{
			ContentType: view.Image.ContentType,
			CacheKey:    view.Image.CacheKey,
			FromCache:   view.Image.FromCache,
		})

	case view.Redirect != nil:
		http.Redirect(writer, request, view.Redirect.String(), http.StatusTemporaryRedirect)

	default:
		respond.NoContent(writer)
	}
}

/*
GET /api/v1/images/resolve.

Description: Reports how a smart URL is classified without loading it.

Request:
  - url: string (smart URL, optional)

Response:
  - 200: Resolution
  - 400: ValidationError: Malformed URL
*/
func (handler *Handler) resolveImage(writer http.ResponseWriter, request *http.Request) {
	resolution, err := handler.service.Resolve(request.URL.Query().Get(FieldURL))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, resolution)
}
