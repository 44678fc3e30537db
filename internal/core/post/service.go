// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/inkpress/internal/core/category"
	"github.com/taibuivan/inkpress/internal/core/tag"
	"github.com/taibuivan/inkpress/internal/platform/apperr"
	"github.com/taibuivan/inkpress/internal/platform/dberr"
	"github.com/taibuivan/inkpress/internal/platform/mongodb"
	"github.com/taibuivan/inkpress/internal/platform/storage"
	"github.com/taibuivan/inkpress/internal/platform/validate"
	"github.com/taibuivan/inkpress/internal/platform/visibility"
	"github.com/taibuivan/inkpress/pkg/pagination"
	"github.com/taibuivan/inkpress/pkg/slug"
)

// # Service Layer

// Service orchestrates posts, their references and their thumbnails.
// It is the only component that talks to the storage worker.
type Service struct {
	repo       Repository
	categories CategoryReader
	tags       TagReader
	storage    Storage
	logger     *slog.Logger
}

// NewService constructs a new [Service] with its required collaborators.
func NewService(repo Repository, categories CategoryReader, tags TagReader, storage Storage, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		tags:       tags,
		storage:    storage,
		logger:     logger,
	}
}

// # Post Lookups

/*
GetAll retrieves one page of posts for audience.

Parameters:
  - context: context.Context
  - audience: visibility.Type (CMS sees destroyed posts, WEB does not)
  - params: pagination.Params

Returns:
  - pagination.Page[*Detail]: The joined page and its metadata
  - error: Repository failures
*/
func (service *Service) GetAll(context context.Context, audience visibility.Type, params pagination.Params) (pagination.Page[*Detail], error) {
	details, total, err := service.repo.GetAll(context, audience, params)
	if err != nil {
		return pagination.Page[*Detail]{}, err
	}
	return pagination.NewPage(details, params, total), nil
}

/*
GetDetails fetches one post by id and counts the visit.

Description: The view counter is read, then written back incremented. The two
steps are not atomic, so concurrent visits can be lost. A failed write is
logged and ignored. The returned post carries the value read, before the
increment.

Parameters:
  - context: context.Context
  - id: string (Hex ObjectID)

Returns:
  - *Detail: The joined post
  - error: ValidationError for a malformed id, NotFound if missing
*/
func (service *Service) GetDetails(context context.Context, id string) (*Detail, error) {
	postID, err := mongodb.ParseID(FieldID, id)
	if err != nil {
		return nil, err
	}

	detail, err := service.repo.GetDetails(context, postID)
	if err != nil {
		return nil, notFound(err, "Post")
	}

	service.countView(context, &detail.Post)
	return detail, nil
}

/*
GetDetailsBySlug fetches one post by slug and counts the visit.
See [Service.GetDetails] for the view counting rules.
*/
func (service *Service) GetDetailsBySlug(context context.Context, value string) (*Detail, error) {
	if value == "" {
		return nil, validate.RequiredError(FieldSlug, "Slug is required")
	}

	post, err := service.repo.FindOneBySlug(context, value)
	if err != nil {
		return nil, notFound(err, "Post")
	}

	detail, err := service.repo.GetDetails(context, post.ID)
	if err != nil {
		return nil, notFound(err, "Post")
	}

	service.countView(context, &detail.Post)
	return detail, nil
}

// GetPopular returns every visible post flagged popular.
func (service *Service) GetPopular(context context.Context) ([]*Detail, error) {
	return service.repo.GetPopular(context)
}

/*
Search finds the visible posts matching keyword, most viewed first.

Description: A keyword that normalizes to nothing is not a search. The call
falls back to the public listing, newest first, so an empty search box shows
the regular feed.

Parameters:
  - context: context.Context
  - keyword: string (Free text, accents and case ignored)
  - params: pagination.Params

Returns:
  - pagination.Page[*Detail]: The matches and their metadata
  - error: Repository failures
*/
func (service *Service) Search(context context.Context, keyword string, params pagination.Params) (pagination.Page[*Detail], error) {
	if IsBlankKeyword(keyword) {
		return service.GetAll(context, visibility.TypeWEB, params)
	}

	details, total, err := service.repo.Search(context, keyword, params)
	if err != nil {
		return pagination.Page[*Detail]{}, err
	}
	return pagination.NewPage(details, params, total), nil
}

// IsBlankKeyword reports whether keyword normalizes to an empty search key.
func IsBlankKeyword(keyword string) bool {
	return slug.Keyword(keyword) == ""
}

// # Landing Pages

/*
GetAllTagAndCategory loads the data of the public layout.

Description: The first page of tags and the category menu are independent, so
they are fetched concurrently. The first failure cancels the other fetch.

Returns:
  - *SupportData: Tags page (page 1, default limit) and the menu tree
  - error: The first repository failure
*/
func (service *Service) GetAllTagAndCategory(context context.Context) (*SupportData, error) {
	group, groupContext := errgroup.WithContext(context)
	params := pagination.Params{Page: pagination.DefaultPage, Limit: pagination.DefaultLimit}

	var (
		tags       []*tag.Tag
		totalTags  int
		categories []*category.Detail
	)

	group.Go(func() error {
		var err error
		tags, totalTags, err = service.tags.GetAll(groupContext, visibility.TypeWEB, params)
		return err
	})

	group.Go(func() error {
		var err error
		categories, err = service.categories.GetAll(groupContext, visibility.TypeWEB)
		return err
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return &SupportData{
		Tags:       pagination.NewPage(tags, params, totalTags),
		Categories: category.Navigation(categories),
	}, nil
}

// FindBySlugCategory returns a category and all of its visible posts.
func (service *Service) FindBySlugCategory(context context.Context, slugCategory string) (*CategoryPosts, error) {
	found, err := service.categoryBySlug(context, slugCategory)
	if err != nil {
		return nil, err
	}

	posts, _, err := service.repo.GetAllByCategoryID(context, found.ID, nil)
	if err != nil {
		return nil, err
	}

	return &CategoryPosts{Category: found, Posts: posts}, nil
}

// FindBySlugTag returns a tag, its category and all of the tag's visible posts.
func (service *Service) FindBySlugTag(context context.Context, slugTag, slugCategory string) (*TagPosts, error) {
	found, err := service.categoryBySlug(context, slugCategory)
	if err != nil {
		return nil, err
	}

	label, err := service.tagBySlug(context, slugTag)
	if err != nil {
		return nil, err
	}

	posts, _, err := service.repo.GetAllByTagID(context, label.ID, nil)
	if err != nil {
		return nil, err
	}

	return &TagPosts{Category: found, Tag: label, Posts: posts}, nil
}

// GetAllBySlugTag returns one page of the visible posts of a tag.
func (service *Service) GetAllBySlugTag(context context.Context, slugTag string, params pagination.Params) (pagination.Page[*Detail], error) {
	label, err := service.tagBySlug(context, slugTag)
	if err != nil {
		return pagination.Page[*Detail]{}, err
	}

	posts, total, err := service.repo.GetAllByTagID(context, label.ID, &params)
	if err != nil {
		return pagination.Page[*Detail]{}, err
	}
	return pagination.NewPage(posts, params, total), nil
}

// # Post Management

/*
Create publishes a new post together with its thumbnail.

Description: The steps run in order and stop at the first failure:

 1. The thumbnail file is required.
 2. Fields are validated and the title must be free. The title check is a
    pre-check, so two concurrent creates with one title can both succeed.
 3. The referenced category and tag must exist.
 4. The file is uploaded. A worker failure aborts with UPSTREAM_ERROR and
    nothing is inserted.
 5. The post is inserted with one view and the worker URL as thumbnail.

Parameters:
  - context: context.Context
  - input: CreateInput
  - file: *storage.File (nil when the client sent none)

Returns:
  - *Post: The inserted post
  - error: Validation, conflict, not found, upstream or storage errors
*/
func (service *Service) Create(context context.Context, input CreateInput, file *storage.File) (*Post, error) {
	if file == nil {
		return nil, validate.RequiredError(FieldFile, "Thumbnail file is required")
	}

	// Business attribute validation
	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).MaxLen(FieldTitle, input.Title, MaxTitleLen)
	validator.Required(FieldDescription, input.Description)
	validator.Required(FieldContent, input.Content)
	validator.Required(FieldCategoryID, input.CategoryID).ObjectID(FieldCategoryID, input.CategoryID)
	validator.Required(FieldTagID, input.TagID).ObjectID(FieldTagID, input.TagID)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Title uniqueness pre-check
	_, err := service.repo.FindOneByTitle(context, input.Title)
	switch {
	case err == nil:
		return nil, apperr.Conflict("Post already exists")
	case !dberr.IsNotFound(err):
		return nil, err
	}

	// Reference resolution
	categoryID, tagID, err := service.resolveReferences(context, &input.CategoryID, &input.TagID)
	if err != nil {
		return nil, err
	}

	// Thumbnail upload
	url, err := service.storage.Upload(context, file)
	if err != nil {
		return nil, err
	}

	post := New(input, *categoryID, *tagID, url, time.Now().UTC())
	if err := service.repo.CreateNew(context, post); err != nil {
		service.discardThumbnail(context, url)
		return nil, err
	}

	service.logger.Info("post_created",
		slog.String("post_id", post.ID.Hex()),
		slog.String("title", post.Title),
		slog.String("thumbnail", url),
	)
	return post, nil
}

/*
Update applies a patch and, when file is given, replaces the thumbnail.

Description: The new file is written over the existing thumbnail URL before
the document changes, so the URL itself never changes. A worker failure
aborts the update.

Parameters:
  - context: context.Context
  - id: string (Hex ObjectID)
  - patch: Patch
  - file: *storage.File (Optional)

Returns:
  - *Post: The document after the update
  - error: Validation, not found, upstream or storage errors
*/
func (service *Service) Update(context context.Context, id string, patch Patch, file *storage.File) (*Post, error) {
	postID, err := mongodb.ParseID(FieldID, id)
	if err != nil {
		return nil, err
	}

	changes, err := service.resolvePatch(context, patch)
	if err != nil {
		return nil, err
	}

	if file != nil {
		existing, err := service.repo.FindOneByID(context, postID)
		if err != nil {
			return nil, notFound(err, "Post")
		}
		if err := service.storage.Update(context, existing.Thumbnail, file); err != nil {
			return nil, err
		}
	}

	post, err := service.repo.Update(context, postID, changes)
	if err != nil {
		return nil, notFound(err, "Post")
	}

	service.logger.Info("post_updated",
		slog.String("post_id", id),
		slog.Bool("thumbnail_replaced", file != nil),
	)
	return post, nil
}

/*
Delete removes a post and then its thumbnail.

Description: The thumbnail is only deleted when the document delete removed
something. A worker failure is reported as UPSTREAM_ERROR even though the post
is already gone.
*/
func (service *Service) Delete(context context.Context, id string) error {
	postID, err := mongodb.ParseID(FieldID, id)
	if err != nil {
		return err
	}

	post, err := service.repo.FindOneByID(context, postID)
	if err != nil {
		return notFound(err, "Post")
	}

	deleted, err := service.repo.DeleteOneByID(context, postID)
	if err != nil {
		return err
	}

	if deleted > 0 && post.Thumbnail != "" {
		if err := service.storage.Delete(context, post.Thumbnail); err != nil {
			return err
		}
	}

	service.logger.Warn("post_deleted", slog.String("post_id", id), slog.Int64("deleted", deleted))
	return nil
}

// # Internal Helpers

// countView writes views+1 for post. Failures are only logged.
func (service *Service) countView(context context.Context, post *Post) {
	if err := service.repo.SetViews(context, post.ID, post.Views+1); err != nil {
		service.logger.Warn("post_view_count_failed",
			slog.String("post_id", post.ID.Hex()),
			slog.Any("error", err),
		)
	}
}

// discardThumbnail removes a blob whose post could not be stored.
func (service *Service) discardThumbnail(context context.Context, url string) {
	if err := service.storage.Delete(context, url); err != nil {
		service.logger.Warn("post_thumbnail_orphaned", slog.String("thumbnail", url), slog.Any("error", err))
	}
}

// resolvePatch validates a patch and resolves its references.
func (service *Service) resolvePatch(context context.Context, patch Patch) (Changes, error) {
	validator := &validate.Validator{}
	if patch.Title != nil {
		validator.Required(FieldTitle, *patch.Title).MaxLen(FieldTitle, *patch.Title, MaxTitleLen)
	}
	if patch.Description != nil {
		validator.Required(FieldDescription, *patch.Description)
	}
	if patch.Content != nil {
		validator.Required(FieldContent, *patch.Content)
	}
	if patch.CategoryID != nil {
		validator.ObjectID(FieldCategoryID, *patch.CategoryID)
	}
	if patch.TagID != nil {
		validator.ObjectID(FieldTagID, *patch.TagID)
	}
	if err := validator.Err(); err != nil {
		return Changes{}, err
	}

	categoryID, tagID, err := service.resolveReferences(context, patch.CategoryID, patch.TagID)
	if err != nil {
		return Changes{}, err
	}

	return Changes{
		Title:       patch.Title,
		Description: patch.Description,
		CategoryID:  categoryID,
		TagID:       tagID,
		Content:     patch.Content,
		Popular:     patch.Popular,
	}, nil
}

// resolveReferences parses the given ids and checks that they exist.
// A nil id is skipped and resolves to nil.
func (service *Service) resolveReferences(context context.Context, categoryHex, tagHex *string) (*primitive.ObjectID, *primitive.ObjectID, error) {
	var categoryID, tagID *primitive.ObjectID

	if categoryHex != nil {
		id, err := mongodb.ParseID(FieldCategoryID, *categoryHex)
		if err != nil {
			return nil, nil, err
		}
		if _, err := service.categories.FindOneByID(context, id); err != nil {
			return nil, nil, notFound(err, "Category")
		}
		categoryID = &id
	}

	if tagHex != nil {
		id, err := mongodb.ParseID(FieldTagID, *tagHex)
		if err != nil {
			return nil, nil, err
		}
		if _, err := service.tags.FindOneByID(context, id); err != nil {
			return nil, nil, notFound(err, "Tag")
		}
		tagID = &id
	}

	return categoryID, tagID, nil
}

func (service *Service) categoryBySlug(context context.Context, value string) (*category.Category, error) {
	if value == "" {
		return nil, validate.RequiredError(FieldSlug, "Category slug is required")
	}

	found, err := service.categories.FindOneBySlug(context, value)
	return found, notFound(err, "Category")
}

func (service *Service) tagBySlug(context context.Context, value string) (*tag.Tag, error) {
	if value == "" {
		return nil, validate.RequiredError(FieldSlug, "Tag slug is required")
	}

	found, err := service.tags.FindOneBySlug(context, value)
	return found, notFound(err, "Tag")
}

// notFound names the resource in a repository not-found error.
func notFound(err error, resource string) error {
	if dberr.IsNotFound(err) {
		return apperr.NotFound(resource)
	}
	return err
}
