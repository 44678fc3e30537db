// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/inkpress/internal/platform/apperr"
	"github.com/taibuivan/inkpress/internal/platform/storage"
)

/*
TestClient_Upload verifies that the file is PUT under a fresh key below the base URL.
*/
func TestClient_Upload(t *testing.T) {
	var gotMethod, gotPath, gotBody, gotType string

	worker := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotMethod, gotPath, gotBody, gotType = r.Method, r.URL.Path, string(body), r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusCreated)
	}))
	defer worker.Close()

	client := storage.NewClient(worker.URL+"/", time.Second)
	url, err := client.Upload(context.Background(), &storage.File{ContentType: "image/png", Data: []byte("png-bytes")})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "png-bytes", gotBody)
	assert.Equal(t, "image/png", gotType)
	assert.True(t, strings.HasPrefix(url, worker.URL+"/"))
	assert.Equal(t, url, worker.URL+gotPath)
	assert.Len(t, strings.TrimPrefix(gotPath, "/"), 36)
}

/*
TestClient_Failures verifies that worker failures surface as upstream errors.
*/
func TestClient_Failures(t *testing.T) {
	worker := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer worker.Close()

	client := storage.NewClient(worker.URL, time.Second)

	tests := []struct {
		name string
		call func() error
	}{
		{"upload", func() error {
			_, err := client.Upload(context.Background(), &storage.File{Data: []byte("x")})
			return err
		}},
		{"update", func() error {
			return client.Update(context.Background(), worker.URL+"/abc", &storage.File{Data: []byte("x")})
		}},
		{"delete", func() error {
			return client.Delete(context.Background(), worker.URL+"/abc")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ae := apperr.As(tt.call())
			require.NotNil(t, ae)
			assert.Equal(t, "UPSTREAM_ERROR", ae.Code)
		})
	}
}

/*
TestClient_Unreachable verifies that transport errors are upstream errors.
*/
func TestClient_Unreachable(t *testing.T) {
	worker := httptest.NewServer(http.NotFoundHandler())
	url := worker.URL
	worker.Close()

	client := storage.NewClient(url, time.Second)
	err := client.Delete(context.Background(), url+"/abc")

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UPSTREAM_ERROR", ae.Code)
}

/*
TestClient_Fetch checks reads, including the not-found mapping.
*/
func TestClient_Fetch(t *testing.T) {
	worker := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/covers/a.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png"))
	}))
	defer worker.Close()

	client := storage.NewClient(worker.URL, time.Second)

	object, err := client.Fetch(context.Background(), "/covers/a.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", object.ContentType)
	assert.Equal(t, []byte("png"), object.Data)

	_, err = client.Fetch(context.Background(), "missing.png")
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
}
