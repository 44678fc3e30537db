// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package storage talks to the external file-storage worker that owns post
// thumbnails.
//
// # Protocol
//
// The worker is a plain key/value blob store over HTTP:
//
//	PUT    {base}/{id}   body = file bytes   (create or overwrite)
//	DELETE {url}                             (remove)
//	GET    {base}/{path}                     (read, used by the image proxy)
//
// The public URL of a blob is the same URL it was written to, so it is stored
// verbatim as the post's thumbnail.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/taibuivan/inkpress/internal/platform/apperr"
	"github.com/taibuivan/inkpress/pkg/uuid"
)

// File is an uploaded file held in memory.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Object is a blob read back from the worker.
type Object struct {
	ContentType string
	Data        []byte
}

// Client is the HTTP client of the storage worker.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a worker client rooted at baseURL.
// timeout bounds every individual call.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// # Write Operations

// Upload stores file under a fresh UUIDv7 key and returns its public URL.
func (c *Client) Upload(ctx context.Context, file *File) (string, error) {
	url := c.baseURL + "/" + uuid.New()
	if err := c.Update(ctx, url, file); err != nil {
		return "", err
	}
	return url, nil
}

// Update overwrites the blob at url with file.
func (c *Client) Update(ctx context.Context, url string, file *File) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(file.Data))
	if err != nil {
		return apperr.Upstream("Failed to upload file", err)
	}
	if file.ContentType != "" {
		req.Header.Set("Content-Type", file.ContentType)
	}

	return c.do(req, "upload")
}

// Delete removes the blob at url.
func (c *Client) Delete(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return apperr.Upstream("Failed to delete file", err)
	}

	return c.do(req, "delete")
}

// # Read Operations

// Fetch reads the blob at {base}/{path}.
// A non-200 answer is reported as [apperr.NotFound].
func (c *Client) Fetch(ctx context.Context, path string) (*Object, error) {
	url := c.baseURL + "/" + strings.TrimLeft(path, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperr.Upstream("Failed to fetch file", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperr.Upstream("Failed to fetch file", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperr.NotFound("Image")
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Upstream("Failed to fetch file", err)
	}

	return &Object{ContentType: resp.Header.Get("Content-Type"), Data: data}, nil
}

// do sends req and treats any non-2xx answer as an upstream failure.
func (c *Client) do(req *http.Request, action string) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return apperr.Upstream("Failed to "+action+" file", err)
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperr.Upstream("Failed to "+action+" file",
			fmt.Errorf("storage: %s %s returned status %d", req.Method, req.URL, resp.StatusCode))
	}
	return nil
}
