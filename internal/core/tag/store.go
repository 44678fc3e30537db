// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taibuivan/inkpress/internal/platform/visibility"
	"github.com/taibuivan/inkpress/pkg/pagination"
)

// Repository is the data access contract for tags.
//
// Lookups return dberr.ErrNotFound when nothing matches.
type Repository interface {
	CreateNew(context context.Context, tag *Tag) error
	GetAll(context context.Context, audience visibility.Type, params pagination.Params) ([]*Tag, int, error)
	Update(context context.Context, id primitive.ObjectID, patch Patch) (*Tag, error)
	DeleteTag(context context.Context, id primitive.ObjectID) (int64, error)
	DeleteManyTags(context context.Context, ids []primitive.ObjectID) (int64, error)

	FindOneByID(context context.Context, id primitive.ObjectID) (*Tag, error)
	FindOneBySlug(context context.Context, slug string) (*Tag, error)
	FindOneByTitle(context context.Context, title string) (*Tag, error)
	FindManyByIDs(context context.Context, ids []primitive.ObjectID) ([]*Tag, error)
}
