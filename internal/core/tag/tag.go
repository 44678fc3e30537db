// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taibuivan/inkpress/pkg/slug"
)

// Tag is a sub-topic label. Every post references exactly one tag, and every
// tag is listed by the category that owns it.
type Tag struct {
	ID              primitive.ObjectID `json:"_id"             bson:"_id"`
	Title           string             `json:"title"           bson:"title"`
	Slug            string             `json:"slug"            bson:"slug"`
	VietnameseTitle string             `json:"vietnameseTitle" bson:"vietnameseTitle"`
	Destroy         bool               `json:"_destroy"        bson:"_destroy"`
	CreateAt        time.Time          `json:"createAt"        bson:"createAt"`
	UpdateAt        *time.Time         `json:"updateAt"        bson:"updateAt"`
}

// New builds a tag with its derived fields filled in.
func New(title string, now time.Time) *Tag {
	return &Tag{
		ID:              primitive.NewObjectID(),
		Title:           title,
		Slug:            slug.From(title),
		VietnameseTitle: slug.Keyword(title),
		CreateAt:        now,
	}
}

// CreateInput is the body of POST /tags.
type CreateInput struct {
	Title string `json:"title"`
}

// Patch is the body of PUT /tags/{id}. Nil fields are left untouched.
type Patch struct {
	Title *string `json:"title"`
}

// Global field names for validation
const (
	FieldID    = "id"
	FieldTitle = "title"

	// MaxTitleLen bounds titles and slugs.
	MaxTitleLen = 50
)
