// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package imageproxy_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/inkpress/internal/platform/apperr"
	"github.com/taibuivan/inkpress/internal/platform/imageproxy"
	"github.com/taibuivan/inkpress/internal/platform/storage"
)

type fakeFetcher struct {
	objects map[string]*storage.Object
}

func (f *fakeFetcher) Fetch(_ context.Context, path string) (*storage.Object, error) {
	object, ok := f.objects[path]
	if !ok {
		return nil, apperr.NotFound("Image")
	}
	return object, nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.NRGBA{R: 255, A: 255})
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newRouter(t *testing.T) http.Handler {
	fetcher := &fakeFetcher{objects: map[string]*storage.Object{
		"covers/wide.png": {ContentType: "image/png", Data: pngBytes(t, 400, 200)},
		"covers/raw":      {Data: []byte("not an image")},
	}}

	r := chi.NewRouter()
	r.Mount("/images", imageproxy.NewHandler(fetcher).Routes())
	return r
}

/*
TestServe_Resize checks fit-inside scaling without enlargement.
*/
func TestServe_Resize(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantWidth  int
		wantHeight int
	}{
		{"original", "", 400, 200},
		{"width_only", "?width=100", 100, 50},
		{"height_only", "?height=50", 100, 50},
		{"box", "?width=300&height=50", 100, 50},
		{"no_enlargement", "?width=1000&height=1000", 400, 200},
	}

	router := newRouter(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/images/covers/wide.png"+tt.query, nil))

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

			cfg, err := png.DecodeConfig(rec.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.wantWidth, cfg.Width)
			assert.Equal(t, tt.wantHeight, cfg.Height)
		})
	}
}

/*
TestServe_Passthrough verifies undecodable payloads and the default content type.
*/
func TestServe_Passthrough(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/images/covers/raw?width=10", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
	assert.Equal(t, "not an image", rec.Body.String())
}

/*
TestServe_NotFound verifies that a missing origin yields 404.
*/
func TestServe_NotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/images/covers/missing.png", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}
