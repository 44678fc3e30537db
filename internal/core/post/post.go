// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package post manages articles, the central resource of the CMS.

A post references exactly one category and one tag. Both references are
resolved at query time with a $lookup, never embedded, so renaming a category
or a tag is immediately visible on every post.

# Derived Fields

The slug and the accent-insensitive search key (vietnameseTitle) are always
re-derived from the title. Clients cannot write them directly.

# Thumbnails

Thumbnails live in the external storage worker. The post stores the worker URL
verbatim and the service keeps the blob in step with the document on create,
update and delete.
*/
package post

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taibuivan/inkpress/internal/core/category"
	"github.com/taibuivan/inkpress/internal/core/tag"
	"github.com/taibuivan/inkpress/pkg/pagination"
	"github.com/taibuivan/inkpress/pkg/slug"
)

// # Domain Entities

// Post is an article as stored in the 'posts' collection.
type Post struct {
	ID              primitive.ObjectID `json:"_id"             bson:"_id"`
	Title           string             `json:"title"           bson:"title"`
	Description     string             `json:"description"     bson:"description"`
	CategoryID      primitive.ObjectID `json:"categoryId"      bson:"categoryId"`
	TagID           primitive.ObjectID `json:"tagId"           bson:"tagId"`
	Thumbnail       string             `json:"thumbnail"       bson:"thumbnail"`
	Content         string             `json:"detail"          bson:"detail"`
	Slug            string             `json:"slug"            bson:"slug"`
	VietnameseTitle string             `json:"vietnameseTitle" bson:"vietnameseTitle"`
	Views           int                `json:"views"           bson:"views"`
	Popular         bool               `json:"popular"         bson:"popular"`
	Destroy         bool               `json:"_destroy"        bson:"_destroy"`
	CreateAt        time.Time          `json:"createAt"        bson:"createAt"`
	UpdateAt        *time.Time         `json:"updateAt"        bson:"updateAt"`
}

/*
Detail is a post with its category and tag joined.

Both joins produce arrays, holding zero or one element, because that is what
$lookup emits for a single reference. Clients already read them as arrays.
*/
type Detail struct {
	Post     `bson:",inline"`
	Category []*category.Category `json:"category" bson:"category"`
	Tags     []*tag.Tag           `json:"tags"     bson:"tags"`
}

// New builds a post with its derived fields filled in.
// A new post starts with one view.
func New(input CreateInput, categoryID, tagID primitive.ObjectID, thumbnail string, now time.Time) *Post {
	return &Post{
		ID:              primitive.NewObjectID(),
		Title:           input.Title,
		Description:     input.Description,
		CategoryID:      categoryID,
		TagID:           tagID,
		Thumbnail:       thumbnail,
		Content:         input.Content,
		Slug:            slug.From(input.Title),
		VietnameseTitle: slug.Keyword(input.Title),
		Views:           InitialViews,
		Popular:         input.Popular,
		CreateAt:        now,
	}
}

// # Composite Results

// SupportData feeds the public layout: the first page of tags and the menu.
type SupportData struct {
	Tags       pagination.Page[*tag.Tag] `json:"tags"`
	Categories []category.NavItem        `json:"categories"`
}

// CategoryPosts is a category landing page.
type CategoryPosts struct {
	Category *category.Category `json:"category"`
	Posts    []*Detail          `json:"posts"`
}

// TagPosts is a tag landing page inside its category.
type TagPosts struct {
	Category *category.Category `json:"category"`
	Tag      *tag.Tag           `json:"tag"`
	Posts    []*Detail          `json:"posts"`
}

// # Inputs

// CreateInput carries the text fields of a multipart POST /posts.
type CreateInput struct {
	Title       string
	Description string
	CategoryID  string
	TagID       string
	Content     string
	Popular     bool
}

// Patch is the body of PUT /posts/{id}. Nil fields are left untouched.
type Patch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	CategoryID  *string `json:"categoryId"`
	TagID       *string `json:"tagId"`
	Content     *string `json:"detail"`
	Popular     *bool   `json:"popular"`
}

// Changes is a validated [Patch] with its references resolved.
type Changes struct {
	Title       *string
	Description *string
	CategoryID  *primitive.ObjectID
	TagID       *primitive.ObjectID
	Content     *string
	Popular     *bool
}

// Global field names for validation and multipart forms
const (
	FieldID          = "id"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldCategoryID  = "categoryId"
	FieldTagID       = "tagId"
	FieldContent     = "detail"
	FieldPopular     = "popular"
	FieldFile        = "file"
	FieldSlug        = "slug"
	FieldKeyword     = "keyword"
)

// Limits
const (
	// MaxTitleLen bounds titles and slugs.
	MaxTitleLen = 50

	// InitialViews is the view count of a freshly created post.
	InitialViews = 1
)
