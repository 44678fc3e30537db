// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taibuivan/inkpress/internal/platform/apperr"
	"github.com/taibuivan/inkpress/internal/platform/dberr"
	"github.com/taibuivan/inkpress/internal/platform/mongodb"
	"github.com/taibuivan/inkpress/internal/platform/validate"
	"github.com/taibuivan/inkpress/internal/platform/visibility"
	"github.com/taibuivan/inkpress/pkg/slice"
)

// # Service Layer

// Service orchestrates categories and the tags they own.
type Service struct {
	repo   Repository
	tags   TagStore
	logger *slog.Logger
}

// NewService constructs a new [Service] with its required repositories.
func NewService(repo Repository, tags TagStore, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		tags:   tags,
		logger: logger,
	}
}

// # Lookups

// GetDetails returns one category with its tags joined.
func (service *Service) GetDetails(context context.Context, id string) (*Detail, error) {
	categoryID, err := mongodb.ParseID(FieldID, id)
	if err != nil {
		return nil, err
	}

	detail, err := service.repo.GetDetails(context, categoryID)
	return detail, notFound(err, "Category")
}

// GetAll returns the raw joined categories visible to audience.
func (service *Service) GetAll(context context.Context, audience visibility.Type) ([]*Detail, error) {
	return service.repo.GetAll(context, audience)
}

// Navigation returns the public menu tree.
func (service *Service) Navigation(context context.Context) ([]NavItem, error) {
	details, err := service.repo.GetAll(context, visibility.TypeWEB)
	if err != nil {
		return nil, err
	}
	return Navigation(details), nil
}

// # Mutations

/*
Create inserts a category after checking that its title is free.

Description: The title check is a pre-check, not an index: two concurrent
creates with the same title can both succeed. Tags given on creation must
already exist.
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Category, error) {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).MaxLen(FieldTitle, input.Title, MaxTitleLen)
	validator.ObjectIDs(FieldTags, input.Tags)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	_, err := service.repo.FindOneByTitle(context, input.Title)
	switch {
	case err == nil:
		return nil, apperr.Conflict("Category already exists")
	case !dberr.IsNotFound(err):
		return nil, err
	}

	tagIDs, err := service.resolveTags(context, input.Tags)
	if err != nil {
		return nil, err
	}

	category := New(input.Title, tagIDs, time.Now().UTC())
	if err := service.repo.CreateNew(context, category); err != nil {
		return nil, err
	}

	service.logger.Info("category_created",
		slog.String("category_id", category.ID.Hex()),
		slog.String("title", category.Title),
	)
	return category, nil
}

// Update applies a patch. A new tag list replaces the old one entirely.
func (service *Service) Update(context context.Context, id string, patch Patch) (*Category, error) {
	categoryID, err := mongodb.ParseID(FieldID, id)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if patch.Title != nil {
		validator.Required(FieldTitle, *patch.Title).MaxLen(FieldTitle, *patch.Title, MaxTitleLen)
	}
	if patch.Tags != nil {
		validator.ObjectIDs(FieldTags, *patch.Tags)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	changes := Changes{Title: patch.Title}
	if patch.Tags != nil {
		if changes.Tags, err = service.resolveTags(context, *patch.Tags); err != nil {
			return nil, err
		}
	}

	category, err := service.repo.Update(context, categoryID, changes)
	if err != nil {
		return nil, notFound(err, "Category")
	}

	service.logger.Info("category_updated", slog.String("category_id", id))
	return category, nil
}

// PushTag appends an existing tag to the category's tag list.
func (service *Service) PushTag(context context.Context, id string, input PushTagInput) (*Category, error) {
	categoryID, err := mongodb.ParseID(FieldID, id)
	if err != nil {
		return nil, err
	}
	tagID, err := mongodb.ParseID(FieldTagID, input.TagID)
	if err != nil {
		return nil, err
	}

	if _, err := service.tags.FindOneByID(context, tagID); err != nil {
		return nil, notFound(err, "Tag")
	}

	category, err := service.repo.PushTagID(context, categoryID, tagID)
	if err != nil {
		return nil, notFound(err, "Category")
	}

	service.logger.Info("category_tag_pushed",
		slog.String("category_id", id),
		slog.String("tag_id", input.TagID),
	)
	return category, nil
}

/*
Delete removes a category and then every tag it lists.

Description: The two deletes are sequenced, not transactional. A failure
between them leaves orphan tags behind.
*/
func (service *Service) Delete(context context.Context, id string) error {
	categoryID, err := mongodb.ParseID(FieldID, id)
	if err != nil {
		return err
	}

	category, err := service.repo.FindOneByID(context, categoryID)
	if err != nil {
		return notFound(err, "Category")
	}

	if _, err := service.repo.DeleteOneByID(context, categoryID); err != nil {
		return err
	}

	deletedTags, err := service.tags.DeleteManyTags(context, category.Tags)
	if err != nil {
		return err
	}

	service.logger.Warn("category_deleted",
		slog.String("category_id", id),
		slog.Int64("tags_deleted", deletedTags),
	)
	return nil
}

// resolveTags converts tag ids and checks that every one of them exists.
func (service *Service) resolveTags(context context.Context, hexes []string) ([]primitive.ObjectID, error) {
	ids, err := mongodb.ParseIDs(FieldTags, hexes)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return ids, nil
	}

	found, err := service.tags.FindManyByIDs(context, ids)
	if err != nil {
		return nil, err
	}

	known := make(map[primitive.ObjectID]bool, len(found))
	for _, t := range found {
		known[t.ID] = true
	}

	missing := slice.Filter(ids, func(id primitive.ObjectID) bool { return !known[id] })

	validator := &validate.Validator{}
	for _, id := range missing {
		validator.Custom(FieldTags, true, "Tag "+id.Hex()+" does not exist")
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}

// notFound names the resource in a repository not-found error.
func notFound(err error, resource string) error {
	if dberr.IsNotFound(err) {
		return apperr.NotFound(resource)
	}
	return err
}
