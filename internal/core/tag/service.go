// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

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
	"github.com/taibuivan/inkpress/pkg/pagination"
)

// Service applies the tag rules on top of a [Repository].
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (service *Service) Create(context context.Context, input CreateInput) (*Tag, error) {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).MaxLen(FieldTitle, input.Title, MaxTitleLen)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.ensureTitleFree(context, input.Title, nil); err != nil {
		return nil, err
	}

	tag := New(input.Title, time.Now().UTC())
	if err := service.repo.CreateNew(context, tag); err != nil {
		return nil, err
	}

	service.logger.Info("tag_created", slog.String("tag_id", tag.ID.Hex()), slog.String("title", tag.Title))
	return tag, nil
}

func (service *Service) GetAll(context context.Context, audience visibility.Type, params pagination.Params) (pagination.Page[*Tag], error) {
	tags, total, err := service.repo.GetAll(context, audience, params)
	if err != nil {
		return pagination.Page[*Tag]{}, err
	}
	return pagination.NewPage(tags, params, total), nil
}

func (service *Service) GetDetails(context context.Context, id string) (*Tag, error) {
	tagID, err := mongodb.ParseID(FieldID, id)
	if err != nil {
		return nil, err
	}

	tag, err := service.repo.FindOneByID(context, tagID)
	return tag, notFound(err)
}

// Update renames a tag. A new title must not belong to another tag.
func (service *Service) Update(context context.Context, id string, patch Patch) (*Tag, error) {
	tagID, err := mongodb.ParseID(FieldID, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		validator := &validate.Validator{}
		validator.Required(FieldTitle, *patch.Title).MaxLen(FieldTitle, *patch.Title, MaxTitleLen)
		if err := validator.Err(); err != nil {
			return nil, err
		}

		if err := service.ensureTitleFree(context, *patch.Title, &tagID); err != nil {
			return nil, err
		}
	}

	tag, err := service.repo.Update(context, tagID, patch)
	if err != nil {
		return nil, notFound(err)
	}

	service.logger.Info("tag_updated", slog.String("tag_id", id))
	return tag, nil
}

func (service *Service) Delete(context context.Context, id string) error {
	tagID, err := mongodb.ParseID(FieldID, id)
	if err != nil {
		return err
	}

	if _, err := service.repo.FindOneByID(context, tagID); err != nil {
		return notFound(err)
	}

	if _, err := service.repo.DeleteTag(context, tagID); err != nil {
		return err
	}

	service.logger.Warn("tag_deleted", slog.String("tag_id", id))
	return nil
}

// ensureTitleFree is a pre-check only: two concurrent writers can both pass it.
func (service *Service) ensureTitleFree(context context.Context, title string, self *primitive.ObjectID) error {
	existing, err := service.repo.FindOneByTitle(context, title)
	switch {
	case dberr.IsNotFound(err):
		return nil
	case err != nil:
		return err
	case self != nil && existing.ID == *self:
		return nil
	default:
		return apperr.Conflict("Tag already exists")
	}
}

// notFound names the resource in a repository not-found error.
func notFound(err error) error {
	if dberr.IsNotFound(err) {
		return apperr.NotFound("Tag")
	}
	return err
}
