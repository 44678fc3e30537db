// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taibuivan/inkpress/internal/core/category"
	"github.com/taibuivan/inkpress/internal/core/tag"
	"github.com/taibuivan/inkpress/internal/platform/storage"
	"github.com/taibuivan/inkpress/internal/platform/visibility"
	"github.com/taibuivan/inkpress/pkg/pagination"
)

// # Post Data Access

// Repository defines the data access contract for posts.
type Repository interface {
	/*
		CreateNew inserts a fully built post.

		Parameters:
		  - context: context.Context
		  - post: *Post (References already resolved to ObjectIDs)

		Returns:
		  - error: Storage failures
	*/
	CreateNew(context context.Context, post *Post) error

	/*
		GetDetails returns a non-destroyed post with its category and tag joined.

		Returns:
		  - *Detail: The hydrated post
		  - error: dberr.ErrNotFound if missing or destroyed
	*/
	GetDetails(context context.Context, id primitive.ObjectID) (*Detail, error)

	/*
		GetAll lists the posts visible to audience, newest first.

		Parameters:
		  - context: context.Context
		  - audience: visibility.Type
		  - params: pagination.Params

		Returns:
		  - []*Detail: The requested page, joined
		  - int: Number of posts visible to audience
		  - error: Storage failures
	*/
	GetAll(context context.Context, audience visibility.Type, params pagination.Params) ([]*Detail, int, error)

	/*
		Update applies changes, re-deriving the slug and search key from a new title.

		Returns:
		  - *Post: The document after the update
		  - error: dberr.ErrNotFound if missing
	*/
	Update(context context.Context, id primitive.ObjectID, changes Changes) (*Post, error)

	// SetViews overwrites the view counter. It leaves updateAt untouched.
	SetViews(context context.Context, id primitive.ObjectID, views int) error

	// DeleteOneByID removes a post and reports how many documents were deleted.
	DeleteOneByID(context context.Context, id primitive.ObjectID) (int64, error)

	// FindOneBySlug and FindOneByTitle ignore destroyed posts.
	FindOneBySlug(context context.Context, slug string) (*Post, error)
	FindOneByID(context context.Context, id primitive.ObjectID) (*Post, error)
	FindOneByTitle(context context.Context, title string) (*Post, error)

	/*
		GetAllByCategoryID and GetAllByTagID list the non-destroyed posts of a
		reference, joined. A nil params returns every match and the total is
		the length of the result.
	*/
	GetAllByCategoryID(context context.Context, id primitive.ObjectID, params *pagination.Params) ([]*Detail, int, error)
	GetAllByTagID(context context.Context, id primitive.ObjectID, params *pagination.Params) ([]*Detail, int, error)

	// GetPopular returns every non-destroyed post flagged popular, joined.
	GetPopular(context context.Context) ([]*Detail, error)

	/*
		Search matches keyword against the post, its category and its tag.

		Description: The keyword is normalized and escaped, then matched
		case-insensitively as a substring of the title, description and search
		key of the post, and of the title, slug and search key of the joined
		category and tag. Results are ordered by views, highest first.

		Returns:
		  - []*Detail: The requested page
		  - int: Number of matching posts
		  - error: Storage failures
	*/
	Search(context context.Context, keyword string, params pagination.Params) ([]*Detail, int, error)
}

// # Collaborators

// CategoryReader is the part of the category layer posts depend on.
type CategoryReader interface {
	FindOneByID(context context.Context, id primitive.ObjectID) (*category.Category, error)
	FindOneBySlug(context context.Context, slug string) (*category.Category, error)
	GetAll(context context.Context, audience visibility.Type) ([]*category.Detail, error)
}

// TagReader is the part of the tag layer posts depend on.
type TagReader interface {
	FindOneByID(context context.Context, id primitive.ObjectID) (*tag.Tag, error)
	FindOneBySlug(context context.Context, slug string) (*tag.Tag, error)
	GetAll(context context.Context, audience visibility.Type, params pagination.Params) ([]*tag.Tag, int, error)
}

// Storage is the thumbnail store.
type Storage interface {
	Upload(context context.Context, file *storage.File) (string, error)
	Update(context context.Context, url string, file *storage.File) error
	Delete(context context.Context, url string) error
}
