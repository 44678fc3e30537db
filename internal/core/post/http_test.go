// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/inkpress/internal/core/post"
)

// multipartBody builds a form with fields and, when fileField is set, a small JPEG part.
func multipartBody(t *testing.T, fields map[string]string, fileField string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, form.WriteField(key, value))
	}
	if fileField != "" {
		part, err := form.CreateFormFile(fileField, "cover.jpg")
		require.NoError(t, err)
		_, err = part.Write([]byte("jpeg"))
		require.NoError(t, err)
	}
	require.NoError(t, form.Close())

	return body, form.FormDataContentType()
}

func decodeKeys(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

/*
TestHandler_Search verifies both search envelopes.
*/
func TestHandler_Search(t *testing.T) {
	f := newFixture()
	_, err := f.service.Create(context.Background(), f.input("Hà Nội"), thumbnail())
	require.NoError(t, err)

	router := post.NewHandler(f.service).Routes()

	tests := []struct {
		name    string
		target  string
		wantKey string
		notKey  string
	}{
		{"blank_keyword_falls_back_to_feed", "/supports/search?keyword=", "data", "posts"},
		{"keyword_search", "/supports/search?keyword=ha+noi", "posts", "data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			require.Equal(t, http.StatusOK, rec.Code)
			payload := decodeKeys(t, rec)
			assert.Contains(t, payload, tt.wantKey)
			assert.Contains(t, payload, "meta")
			assert.NotContains(t, payload, tt.notKey)
		})
	}
}

/*
TestHandler_CreatePost covers the multipart contract of POST /posts.
*/
func TestHandler_CreatePost(t *testing.T) {
	valid := func(f fixture) map[string]string {
		return map[string]string{
			post.FieldTitle:       "Task 1 Writing",
			post.FieldDescription: "How to describe a chart",
			post.FieldCategoryID:  f.category.ID.Hex(),
			post.FieldTagID:       f.tag.ID.Hex(),
			post.FieldContent:     "<p>Body</p>",
			post.FieldPopular:     "true",
		}
	}

	tests := []struct {
		name      string
		mutate    func(fields map[string]string)
		fileField string
		wantCode  int
	}{
		{"created", func(map[string]string) {}, "file", http.StatusCreated},
		{"missing_file", func(map[string]string) {}, "", http.StatusBadRequest},
		{"file_under_wrong_field", func(map[string]string) {}, "thumbnail", http.StatusBadRequest},
		{"unknown_field", func(fields map[string]string) { fields["views"] = "1000" }, "file", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			router := post.NewHandler(f.service).Routes()

			fields := valid(f)
			tt.mutate(fields)
			body, contentType := multipartBody(t, fields, tt.fileField)

			req := httptest.NewRequest(http.MethodPost, "/", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantCode != http.StatusCreated {
				assert.Empty(t, f.posts.posts)
				return
			}

			require.Len(t, f.posts.posts, 1)
			assert.True(t, f.posts.posts[0].Popular)
			assert.Equal(t, 1, f.posts.posts[0].Views)
		})
	}
}

/*
TestHandler_UpdateRejectsDerivedFields verifies that slug cannot be written.
*/
func TestHandler_UpdateRejectsDerivedFields(t *testing.T) {
	f := newFixture()
	created, err := f.service.Create(context.Background(), f.input("Original"), thumbnail())
	require.NoError(t, err)

	router := post.NewHandler(f.service).Routes()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/"+created.ID.Hex(), strings.NewReader(`{"slug":"forced"}`))
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "slug")
	assert.Equal(t, "original", f.posts.posts[0].Slug)
}

/*
TestHandler_SupportsBeatSlug verifies the static helper paths are not read as slugs.
*/
func TestHandler_SupportsBeatSlug(t *testing.T) {
	f := newFixture()
	router := post.NewHandler(f.service).Routes()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/supports/popular", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/no-such-post", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
