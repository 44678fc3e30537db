// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taibuivan/inkpress/internal/platform/apperr"
	"github.com/taibuivan/inkpress/internal/platform/dberr"
	"github.com/taibuivan/inkpress/internal/platform/mongodb"
	"github.com/taibuivan/inkpress/internal/platform/validate"
)

// Service manages reader profiles, bookmarks and reading history.
type Service struct {
	repo   Repository
	posts  PostFinder
	logger *slog.Logger
}

func NewService(repo Repository, posts PostFinder, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		posts:  posts,
		logger: logger,
	}
}

/*
Login upserts the profile handed over by the sign-in provider.

Description: An unknown email creates the user. A known email refreshes the
name and avatar that the provider sent. When two first logins race, the loser hits the unique email
index and falls back to the refresh.

Returns:
  - *User: The stored profile
  - bool: True when the user was created
  - error: Validation or storage failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*User, bool, error) {
	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).MaxLen(FieldEmail, input.Email, MaxEmailLen).Email(FieldEmail, input.Email)
	validator.MaxLen(FieldGivenName, input.GivenName, MaxNameLen)
	validator.MaxLen(FieldAvatar, input.Avatar, MaxAvatarLen)
	if err := validator.Err(); err != nil {
		return nil, false, err
	}

	existing, err := service.repo.FindOneByEmail(context, input.Email)
	switch {
	case dberr.IsNotFound(err):
		user := New(input, time.Now().UTC())
		err := service.repo.CreateNew(context, user)
		if err == nil {
			service.logger.Info("user_created", slog.String("user_id", user.ID.Hex()))
			return user, true, nil
		}
		if ae := apperr.As(err); ae == nil || ae.Code != "CONFLICT" {
			return nil, false, err
		}
		if existing, err = service.repo.FindOneByEmail(context, input.Email); err != nil {
			return nil, false, err
		}
	case err != nil:
		return nil, false, err
	}

	// A provider that omits a field leaves the stored value alone.
	var patch Patch
	if input.GivenName != "" {
		patch.GivenName = &input.GivenName
	}
	if input.Avatar != "" {
		patch.Avatar = &input.Avatar
	}
	if patch.GivenName == nil && patch.Avatar == nil {
		return existing, false, nil
	}

	user, err := service.repo.Update(context, existing.ID, patch)
	if err != nil {
		return nil, false, err
	}
	return user, false, nil
}

func (service *Service) GetByID(context context.Context, id string) (*User, error) {
	userID, err := mongodb.ParseID(FieldID, id)
	if err != nil {
		return nil, err
	}

	user, err := service.repo.FindOneByID(context, userID)
	return user, notFound(err, "User")
}

func (service *Service) Update(context context.Context, id string, patch Patch) (*User, error) {
	userID, err := mongodb.ParseID(FieldID, id)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if patch.GivenName != nil {
		validator.MaxLen(FieldGivenName, *patch.GivenName, MaxNameLen)
	}
	if patch.Avatar != nil {
		validator.MaxLen(FieldAvatar, *patch.Avatar, MaxAvatarLen)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.repo.Update(context, userID, patch)
	if err != nil {
		return nil, notFound(err, "User")
	}

	service.logger.Info("user_updated", slog.String("user_id", id))
	return user, nil
}

// Bookmark adds or removes a post from the user's bookmarks.
// Adding requires the post to exist; removing a stale id is always allowed.
func (service *Service) Bookmark(context context.Context, id string, input BookmarkInput) (*User, error) {
	validator := &validate.Validator{}
	validator.Required(FieldAction, input.Action).OneOf(FieldAction, input.Action, ActionAdd, ActionRemove)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	userID, postID, err := service.parseIDs(id, input.PostID)
	if err != nil {
		return nil, err
	}

	if input.Action == ActionAdd {
		if _, err := service.posts.FindOneByID(context, postID); err != nil {
			return nil, notFound(err, "Post")
		}
	}

	user, err := service.repo.Bookmark(context, userID, postID, input.Action)
	return user, notFound(err, "User")
}

// VisitPost records a read at the front of the user's history.
func (service *Service) VisitPost(context context.Context, id string, input HistoryInput) (*User, error) {
	userID, postID, err := service.parseIDs(id, input.PostID)
	if err != nil {
		return nil, err
	}

	if _, err := service.posts.FindOneByID(context, postID); err != nil {
		return nil, notFound(err, "Post")
	}

	user, err := service.repo.PushHistory(context, userID, postID)
	return user, notFound(err, "User")
}

func (service *Service) parseIDs(id, postHex string) (primitive.ObjectID, primitive.ObjectID, error) {
	userID, err := mongodb.ParseID(FieldID, id)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	postID, err := mongodb.ParseID(FieldPostID, postHex)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	return userID, postID, nil
}

func notFound(err error, resource string) error {
	if dberr.IsNotFound(err) {
		return apperr.NotFound(resource)
	}
	return err
}
