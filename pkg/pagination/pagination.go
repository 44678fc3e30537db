// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// It standardizes how page-based navigation is requested via query parameters
// and how the resulting metadata is delivered in the API response envelope.
// Listings always run two queries (one page fetch, one count under the same
// filter) and combine them with [NewPage].
package pagination

import (
	"net/http"

	"github.com/taibuivan/inkpress/pkg/convert"
)

const (
	// DefaultLimit is the number of items per page for listings.
	DefaultLimit = 7
	// SearchLimit is the number of items per page for keyword search.
	SearchLimit = 10
	// MaxLimit is the upper bound for items per page to prevent system abuse.
	MaxLimit = 100
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
)

// Params holds the parsed page and limit from a request's query string.
type Params struct {
	Page  int
	Limit int
}

// Offset returns the number of documents to skip for [Page] and [Limit].
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Meta is the pagination metadata included in API list responses.
type Meta struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	TotalCount  int `json:"totalCount"`
	Limit       int `json:"limit"`
}

// NewMeta constructs pagination metadata for a response.
//
// TotalPages is ceil(total/limit).
func NewMeta(page, limit, total int) Meta {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return Meta{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
		Limit:       limit,
	}
}

// Page is one page of a listing together with its metadata.
type Page[T any] struct {
	Data []T  `json:"data"`
	Meta Meta `json:"meta"`
}

// NewPage combines a fetched page and the total count into a [Page].
// A nil slice is replaced by an empty one so a page past the end encodes as [].
func NewPage[T any](data []T, params Params, total int) Page[T] {
	if data == nil {
		data = []T{}
	}
	return Page[T]{Data: data, Meta: NewMeta(params.Page, params.Limit, total)}
}

// SearchPage is the search result envelope, keyed by "posts" instead of "data".
type SearchPage[T any] struct {
	Posts []T  `json:"posts"`
	Meta  Meta `json:"meta"`
}

// FromRequest parses "page" and "limit" query parameters from an HTTP request.
//
// # Clamping
//
// Invalid or negative values fall back to [DefaultPage] and defaultLimit.
// Limits above [MaxLimit] are clamped to it.
func FromRequest(r *http.Request, defaultLimit int) Params {
	query := r.URL.Query()
	page := convert.ToIntD(query.Get("page"), DefaultPage)
	limit := convert.ToIntD(query.Get("limit"), defaultLimit)

	if page < 1 {
		page = DefaultPage
	}

	if limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{Page: page, Limit: limit}
}
