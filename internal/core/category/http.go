// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	requestutil "github.com/taibuivan/inkpress/internal/platform/request"
	"github.com/taibuivan/inkpress/internal/platform/respond"
	"github.com/taibuivan/inkpress/internal/platform/visibility"
)

// Handler implements the HTTP layer for categories.
type Handler struct {
	service *Service
}

// NewHandler constructs a new category [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the category endpoints.
//
// POST on a single category appends a tag to it.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listCategories)
	router.Post("/", handler.createCategory)

	router.Get("/{id}", handler.getCategory)
	router.Put("/{id}", handler.updateCategory)
	router.Post("/{id}", handler.pushTag)
	router.Delete("/{id}", handler.deleteCategory)

	return router
}

// listCategories serves the menu tree to the public client and the raw
// joined documents to the CMS.
func (handler *Handler) listCategories(writer http.ResponseWriter, request *http.Request) {
	audience := visibility.FromQuery(request)

	if audience.Public() {
		items, err := handler.service.Navigation(request.Context())
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, items)
		return
	}

	details, err := handler.service.GetAll(request.Context(), audience)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, details)
}

func (handler *Handler) createCategory(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	category, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, category)
}

func (handler *Handler) getCategory(writer http.ResponseWriter, request *http.Request) {
	detail, err := handler.service.GetDetails(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, detail)
}

func (handler *Handler) updateCategory(writer http.ResponseWriter, request *http.Request) {
	var patch Patch
	if err := requestutil.DecodeJSON(request, &patch); err != nil {
		respond.Error(writer, request, err)
		return
	}

	category, err := handler.service.Update(request.Context(), requestutil.ID(request, "id"), patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, category)
}

func (handler *Handler) pushTag(writer http.ResponseWriter, request *http.Request) {
	var input PushTagInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	category, err := handler.service.PushTag(request.Context(), requestutil.ID(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, category)
}

func (handler *Handler) deleteCategory(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
