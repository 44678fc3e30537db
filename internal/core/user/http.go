// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	requestutil "github.com/taibuivan/inkpress/internal/platform/request"
	"github.com/taibuivan/inkpress/internal/platform/respond"
)

// Handler serves /users.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/login", handler.login)

	router.Get("/{id}", handler.getUser)
	router.Put("/{id}", handler.updateUser)
	router.Post("/{id}/bookmarks", handler.bookmark)
	router.Post("/{id}/history", handler.visitPost)

	return router
}

// login answers 201 for a first sign-in and 200 afterwards.
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input LoginInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, created, err := handler.service.Login(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if created {
		respond.Created(writer, user)
		return
	}
	respond.OK(writer, user)
}

func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.service.GetByID(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

func (handler *Handler) updateUser(writer http.ResponseWriter, request *http.Request) {
	var patch Patch
	if err := requestutil.DecodeJSON(request, &patch); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Update(request.Context(), requestutil.ID(request, "id"), patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

func (handler *Handler) bookmark(writer http.ResponseWriter, request *http.Request) {
	var input BookmarkInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Bookmark(request.Context(), requestutil.ID(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

func (handler *Handler) visitPost(writer http.ResponseWriter, request *http.Request) {
	var input HistoryInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.VisitPost(request.Context(), requestutil.ID(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}
