// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package imageproxy serves thumbnails from the storage worker, optionally
// resized on the fly.
//
// # Resizing
//
// "width" and "height" query parameters bound the output. The image is scaled
// to fit inside the box while keeping its aspect ratio, and is never enlarged.
// A missing dimension does not constrain the result.
package imageproxy

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"path"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/inkpress/internal/platform/constants"
	"github.com/taibuivan/inkpress/internal/platform/ctxutil"
	"github.com/taibuivan/inkpress/internal/platform/respond"
	"github.com/taibuivan/inkpress/internal/platform/storage"
	"github.com/taibuivan/inkpress/pkg/convert"
)

// Fetcher reads blobs from the storage worker.
type Fetcher interface {
	Fetch(ctx context.Context, path string) (*storage.Object, error)
}

// Handler serves GET /images/*.
type Handler struct {
	fetcher Fetcher
}

// NewHandler constructs an image proxy over fetcher.
func NewHandler(fetcher Fetcher) *Handler {
	return &Handler{fetcher: fetcher}
}

// Routes returns the router for the image proxy.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/*", h.serve)
	return r
}

func (h *Handler) serve(writer http.ResponseWriter, request *http.Request) {
	blobPath := chi.URLParam(request, "*")

	object, err := h.fetcher.Fetch(request.Context(), blobPath)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	contentType := object.ContentType
	if contentType == "" {
		contentType = constants.DefaultImageContentType
	}

	width := convert.ToInt(request.URL.Query().Get("width"))
	height := convert.ToInt(request.URL.Query().Get("height"))

	body := object.Data
	if width > 0 || height > 0 {
		resized, err := Resize(object.Data, blobPath, contentType, width, height)
		if err != nil {
			// Undecodable payloads are passed through untouched.
			ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "image_resize_skipped",
				slog.String("path", blobPath),
				slog.String("error", err.Error()),
			)
		} else {
			body = resized
		}
	}

	writer.Header().Set("Content-Type", contentType)
	writer.Header().Set("Content-Length", strconv.Itoa(len(body)))
	writer.WriteHeader(http.StatusOK)
	_, _ = writer.Write(body)
}

// Resize fits data inside width x height without enlarging it.
// A non-positive dimension is replaced by the source dimension.
func Resize(data []byte, name, contentType string, width, height int) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}

	bounds := src.Bounds()
	if width <= 0 {
		width = bounds.Dx()
	}
	if height <= 0 {
		height = bounds.Dy()
	}

	dst := imaging.Fit(src, width, height, imaging.Lanczos)

	var out bytes.Buffer
	if err := imaging.Encode(&out, dst, formatOf(name, contentType)); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// formatOf picks the output encoding, preferring the declared content type.
func formatOf(name, contentType string) imaging.Format {
	switch contentType {
	case "image/png":
		return imaging.PNG
	case "image/gif":
		return imaging.GIF
	case "image/bmp":
		return imaging.BMP
	case "image/tiff":
		return imaging.TIFF
	case "image/jpeg", "image/jpg":
		return imaging.JPEG
	}

	if format, err := imaging.FormatFromFilename(path.Base(name)); err == nil {
		return format
	}
	return imaging.JPEG
}
