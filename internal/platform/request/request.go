// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/taibuivan/inkpress/internal/platform/apperr"
	"github.com/taibuivan/inkpress/internal/platform/constants"
	"github.com/taibuivan/inkpress/internal/platform/storage"
	"github.com/taibuivan/inkpress/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Unknown fields are rejected, so a body carrying "_id" or "slug" fails instead of
being silently ignored.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: a VALIDATION_ERROR describing the problem, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	decoder := json.NewDecoder(request.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(target); err != nil {
		if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
			return apperr.ValidationError("Invalid JSON payload", apperr.FieldError{
				Field:   strings.Trim(field, `"`),
				Message: "Field is not allowed",
			})
		}
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
ID retrieves a named URL parameter (ObjectId/Slug) from the request.
*/
func ID(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Query retrieves a single query string value, trimmed.
*/
func Query(request *http.Request, name string) string {
	return strings.TrimSpace(request.URL.Query().Get(name))
}

/*
ParseMultipart parses a multipart/form-data body bounded by [constants.MaxUploadSize]
and rejects any text field outside allowed.
*/
func ParseMultipart(writer http.ResponseWriter, request *http.Request, allowed ...string) error {
	request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxUploadSize)

	if err := request.ParseMultipartForm(constants.MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.ValidationError(fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit))
		}
		return apperr.ValidationError("Invalid multipart payload")
	}

	v := &validate.Validator{}
	for key := range request.MultipartForm.Value {
		v.Custom(key, !slices.Contains(allowed, key), "Field is not allowed")
	}
	return v.Err()
}

/*
FormValue returns a pointer to a multipart text value, or nil when the field is absent.
Call [ParseMultipart] first.
*/
func FormValue(request *http.Request, name string) *string {
	values, ok := request.MultipartForm.Value[name]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

/*
FormFile reads an uploaded file into memory.

Returns:
  - *storage.File: nil when the field is absent
  - error: a VALIDATION_ERROR if the part cannot be read
*/
func FormFile(request *http.Request, name string) (*storage.File, error) {
	part, header, err := request.FormFile(name)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.ValidationError("Invalid file upload", apperr.FieldError{Field: name, Message: err.Error()})
	}
	defer part.Close()

	data, err := io.ReadAll(part)
	if err != nil {
		return nil, apperr.ValidationError("Invalid file upload", apperr.FieldError{Field: name, Message: err.Error()})
	}

	return &storage.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
