// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taibuivan/inkpress/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried document doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// action names the failed operation (e.g. "post.create") and is kept in the
// cause for server-side logs.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}

	// 2. Unique index violations (E11000)
	if mongo.IsDuplicateKeyError(err) {
		conflict := apperr.Conflict("Resource already exists")
		conflict.Cause = fmt.Errorf("%s: %w", action, err)
		return conflict
	}

	// 3. Everything else becomes an Internal Server Error
	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}

// IsNotFound reports whether err is the not-found sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
