// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	requestutil "github.com/taibuivan/inkpress/internal/platform/request"
	"github.com/taibuivan/inkpress/internal/platform/respond"
	"github.com/taibuivan/inkpress/internal/platform/visibility"
	"github.com/taibuivan/inkpress/pkg/pagination"
)

// Handler serves /tags.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listTags)
	router.Post("/", handler.createTag)
	router.Get("/{id}", handler.getTag)
	router.Put("/{id}", handler.updateTag)
	router.Delete("/{id}", handler.deleteTag)

	return router
}

func (handler *Handler) listTags(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request, pagination.DefaultLimit)

	page, err := handler.service.GetAll(request.Context(), visibility.FromQuery(request), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Page(writer, page)
}

func (handler *Handler) createTag(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tag, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, tag)
}

func (handler *Handler) getTag(writer http.ResponseWriter, request *http.Request) {
	tag, err := handler.service.GetDetails(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tag)
}

func (handler *Handler) updateTag(writer http.ResponseWriter, request *http.Request) {
	var patch Patch
	if err := requestutil.DecodeJSON(request, &patch); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tag, err := handler.service.Update(request.Context(), requestutil.ID(request, "id"), patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tag)
}

func (handler *Handler) deleteTag(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
