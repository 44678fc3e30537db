// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taibuivan/inkpress/internal/core/tag"
	"github.com/taibuivan/inkpress/pkg/slice"
	"github.com/taibuivan/inkpress/pkg/slug"
)

// # Domain Entities

// Category is a top-level topic. It owns an ordered list of tags, and deleting
// a category deletes every tag in that list.
type Category struct {
	ID       primitive.ObjectID   `json:"_id"      bson:"_id"`
	Title    string               `json:"title"    bson:"title"`
	Slug     string               `json:"slug"     bson:"slug"`
	Tags     []primitive.ObjectID `json:"tags"     bson:"tags"`
	Destroy  bool                 `json:"_destroy" bson:"_destroy"`
	CreateAt time.Time            `json:"createAt" bson:"createAt"`
	UpdateAt *time.Time           `json:"updateAt" bson:"updateAt"`
}

// Detail is a category with its tag references resolved.
type Detail struct {
	ID       primitive.ObjectID `json:"_id"      bson:"_id"`
	Title    string             `json:"title"    bson:"title"`
	Slug     string             `json:"slug"     bson:"slug"`
	Tags     []*tag.Tag         `json:"tags"     bson:"tags"`
	Destroy  bool               `json:"_destroy" bson:"_destroy"`
	CreateAt time.Time          `json:"createAt" bson:"createAt"`
	UpdateAt *time.Time         `json:"updateAt" bson:"updateAt"`
}

// NavItem is one entry of the public navigation menu.
type NavItem struct {
	ID       primitive.ObjectID `json:"_id"`
	Title    string             `json:"title"`
	URL      string             `json:"url"`
	Children []NavItem          `json:"children,omitempty"`
}

// New builds a category with its derived fields filled in.
func New(title string, tags []primitive.ObjectID, now time.Time) *Category {
	if tags == nil {
		tags = []primitive.ObjectID{}
	}

	return &Category{
		ID:       primitive.NewObjectID(),
		Title:    title,
		Slug:     slug.From(title),
		Tags:     tags,
		CreateAt: now,
	}
}

// Navigation turns joined categories into the menu tree: one item per
// category linking to "/{category}", with one child per tag linking to
// "/{category}/{tag}".
func Navigation(details []*Detail) []NavItem {
	items := make([]NavItem, 0, len(details))

	for _, detail := range details {
		item := NavItem{
			ID:    detail.ID,
			Title: detail.Title,
			URL:   "/" + detail.Slug,
		}

		item.Children = slice.Map(detail.Tags, func(child *tag.Tag) NavItem {
			return NavItem{
				ID:    child.ID,
				Title: child.Title,
				URL:   "/" + detail.Slug + "/" + child.Slug,
			}
		})

		items = append(items, item)
	}

	return items
}

// # Inputs

// CreateInput is the body of POST /categorys.
type CreateInput struct {
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

// Patch is the body of PUT /categorys/{id}. Nil fields are left untouched.
type Patch struct {
	Title *string   `json:"title"`
	Tags  *[]string `json:"tags"`
}

// PushTagInput is the body of POST /categorys/{id}.
type PushTagInput struct {
	TagID string `json:"tagId"`
}

// Changes is a validated [Patch] with its tag ids resolved.
type Changes struct {
	Title *string
	Tags  []primitive.ObjectID // nil leaves the list untouched
}

// Global field names for validation
const (
	FieldID    = "id"
	FieldTitle = "title"
	FieldTags  = "tags"
	FieldTagID = "tagId"

	// MaxTitleLen bounds titles and slugs.
	MaxTitleLen = 50
)
