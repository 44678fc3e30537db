// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taibuivan/inkpress/internal/core/tag"
	"github.com/taibuivan/inkpress/internal/platform/visibility"
)

// # Category Data Access

// Repository defines the data access contract for categories.
type Repository interface {
	/*
		CreateNew inserts a category. Its tag list is stored as given.

		Returns:
		  - error: Storage failures
	*/
	CreateNew(context context.Context, category *Category) error

	/*
		GetDetails returns the category with its tags joined.

		Returns:
		  - *Detail: The hydrated category
		  - error: dberr.ErrNotFound if missing
	*/
	GetDetails(context context.Context, id primitive.ObjectID) (*Detail, error)

	/*
		GetAll returns every category visible to audience, with tags joined.
		The listing is not paginated.
	*/
	GetAll(context context.Context, audience visibility.Type) ([]*Detail, error)

	/*
		Update applies changes, re-deriving the slug from a new title.

		Returns:
		  - *Category: The document after the update
		  - error: dberr.ErrNotFound if missing
	*/
	Update(context context.Context, id primitive.ObjectID, changes Changes) (*Category, error)

	/*
		PushTagID appends tagID to the tag list atomically.

		Returns:
		  - *Category: The document after the update
		  - error: dberr.ErrNotFound if missing
	*/
	PushTagID(context context.Context, id, tagID primitive.ObjectID) (*Category, error)

	// DeleteOneByID removes a category and reports how many documents were deleted.
	DeleteOneByID(context context.Context, id primitive.ObjectID) (int64, error)

	FindOneByID(context context.Context, id primitive.ObjectID) (*Category, error)
	FindOneBySlug(context context.Context, slug string) (*Category, error)
	FindOneByTitle(context context.Context, title string) (*Category, error)
}

// TagStore is the part of the tag repository categories depend on.
type TagStore interface {
	FindOneByID(context context.Context, id primitive.ObjectID) (*tag.Tag, error)
	FindManyByIDs(context context.Context, ids []primitive.ObjectID) ([]*tag.Tag, error)
	DeleteManyTags(context context.Context, ids []primitive.ObjectID) (int64, error)
}
