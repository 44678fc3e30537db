// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/taibuivan/inkpress/internal/platform/constants"
	requestutil "github.com/taibuivan/inkpress/internal/platform/request"
	"github.com/taibuivan/inkpress/internal/platform/respond"
	"github.com/taibuivan/inkpress/internal/platform/visibility"
	"github.com/taibuivan/inkpress/pkg/convert"
	"github.com/taibuivan/inkpress/pkg/pagination"
	"github.com/taibuivan/inkpress/pkg/pointer"
)

// formFields are the multipart text fields accepted on create and update.
var formFields = []string{
	FieldTitle,
	FieldDescription,
	FieldCategoryID,
	FieldTagID,
	FieldContent,
	FieldPopular,
}

// # Handler Implementation

// Handler implements the HTTP layer for posts.
// It translates web requests into domain service calls.
type Handler struct {
	service *Service
}

// NewHandler constructs a new post [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the post endpoints.
//
// # Routing Strategy
//
//   - Listing and management: "/" and "/{id}".
//   - Public site helpers: "/supports/...", registered before "/{slug}" so
//     that a static segment always wins.
//   - Reading by slug: "/{slug}" counts a view.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Listing & Creation
	router.Get("/", handler.listPosts)
	router.Post("/", handler.createPost)

	// ## Public Site Helpers
	router.Route("/supports", func(supports chi.Router) {
		supports.Get("/get-all-tag-and-category", handler.getAllTagAndCategory)
		supports.Get("/find-by-slug-category", handler.findBySlugCategory)
		supports.Get("/find-by-slug-tag", handler.findBySlugTag)
		supports.Get("/popular", handler.listPopular)
		supports.Get("/by-slug-tag", handler.listBySlugTag)
		supports.Get("/search", handler.search)
		supports.Get("/details/{id}", handler.getPost)
	})

	// ## Single Post
	router.Get("/{slug}", handler.getPostBySlug)
	router.Put("/{id}", handler.updatePost)
	router.Put("/{id}/update-post", handler.updatePostWithThumbnail)
	router.Delete("/{id}", handler.deletePost)

	return router
}

// # Listing

func (handler *Handler) listPosts(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request, pagination.DefaultLimit)

	page, err := handler.service.GetAll(request.Context(), visibility.FromQuery(request), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Page(writer, page)
}

func (handler *Handler) listPopular(writer http.ResponseWriter, request *http.Request) {
	posts, err := handler.service.GetPopular(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, posts)
}

func (handler *Handler) listBySlugTag(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request, pagination.DefaultLimit)

	page, err := handler.service.GetAllBySlugTag(request.Context(), requestutil.Query(request, FieldSlug), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Page(writer, page)
}

/*
search serves keyword search.

Response:
  - {posts, meta} for a real keyword.
  - {data, meta} when the keyword is blank and the regular feed is returned.
*/
func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	keyword := requestutil.Query(request, FieldKeyword)
	params := pagination.FromRequest(request, pagination.SearchLimit)

	page, err := handler.service.Search(request.Context(), keyword, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if IsBlankKeyword(keyword) {
		respond.Page(writer, page)
		return
	}
	respond.Page(writer, pagination.SearchPage[*Detail]{Posts: page.Data, Meta: page.Meta})
}

// # Landing Pages

func (handler *Handler) getAllTagAndCategory(writer http.ResponseWriter, request *http.Request) {
	data, err := handler.service.GetAllTagAndCategory(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, data)
}

func (handler *Handler) findBySlugCategory(writer http.ResponseWriter, request *http.Request) {
	data, err := handler.service.FindBySlugCategory(request.Context(), requestutil.Query(request, FieldSlug))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, data)
}

func (handler *Handler) findBySlugTag(writer http.ResponseWriter, request *http.Request) {
	data, err := handler.service.FindBySlugTag(request.Context(),
		requestutil.Query(request, "slugTag"),
		requestutil.Query(request, "slugCategory"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, data)
}

// # Single Post

func (handler *Handler) getPost(writer http.ResponseWriter, request *http.Request) {
	detail, err := handler.service.GetDetails(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, detail)
}

func (handler *Handler) getPostBySlug(writer http.ResponseWriter, request *http.Request) {
	detail, err := handler.service.GetDetailsBySlug(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, detail)
}

// # Post Management

/*
createPost handles POST /posts.

Request: multipart/form-data with the thumbnail in "file" and the post
fields as text parts. Any other text part is rejected.
*/
func (handler *Handler) createPost(writer http.ResponseWriter, request *http.Request) {
	if err := requestutil.ParseMultipart(writer, request, formFields...); err != nil {
		respond.Error(writer, request, err)
		return
	}

	file, err := requestutil.FormFile(request, constants.FormFileCreate)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	input := CreateInput{
		Title:       pointer.Val(requestutil.FormValue(request, FieldTitle)),
		Description: pointer.Val(requestutil.FormValue(request, FieldDescription)),
		CategoryID:  pointer.Val(requestutil.FormValue(request, FieldCategoryID)),
		TagID:       pointer.Val(requestutil.FormValue(request, FieldTagID)),
		Content:     pointer.Val(requestutil.FormValue(request, FieldContent)),
		Popular:     convert.ToBool(pointer.Val(requestutil.FormValue(request, FieldPopular))),
	}

	post, err := handler.service.Create(request.Context(), input, file)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, post)
}

func (handler *Handler) updatePost(writer http.ResponseWriter, request *http.Request) {
	var patch Patch
	if err := requestutil.DecodeJSON(request, &patch); err != nil {
		respond.Error(writer, request, err)
		return
	}

	post, err := handler.service.Update(request.Context(), requestutil.ID(request, "id"), patch, nil)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, post)
}

// updatePostWithThumbnail handles the multipart update. The new thumbnail,
// when present, is read from the "thumbnail" part.
func (handler *Handler) updatePostWithThumbnail(writer http.ResponseWriter, request *http.Request) {
	if err := requestutil.ParseMultipart(writer, request, formFields...); err != nil {
		respond.Error(writer, request, err)
		return
	}

	file, err := requestutil.FormFile(request, constants.FormFileUpdate)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	patch := Patch{
		Title:       requestutil.FormValue(request, FieldTitle),
		Description: requestutil.FormValue(request, FieldDescription),
		CategoryID:  requestutil.FormValue(request, FieldCategoryID),
		TagID:       requestutil.FormValue(request, FieldTagID),
		Content:     requestutil.FormValue(request, FieldContent),
	}
	if popular := requestutil.FormValue(request, FieldPopular); popular != nil {
		patch.Popular = pointer.To(convert.ToBool(*popular))
	}

	post, err := handler.service.Update(request.Context(), requestutil.ID(request, "id"), patch, file)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, post)
}

func (handler *Handler) deletePost(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
