// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taibuivan/inkpress/internal/platform/database/schema"
	"github.com/taibuivan/inkpress/internal/platform/dberr"
	"github.com/taibuivan/inkpress/internal/platform/mongodb"
	"github.com/taibuivan/inkpress/internal/platform/visibility"
	"github.com/taibuivan/inkpress/pkg/pagination"
	"github.com/taibuivan/inkpress/pkg/slug"
)

// MongoRepository implements [Repository] on the 'posts' collection.
type MongoRepository struct {
	collection *mongo.Collection
}

// NewMongoRepository constructs a [MongoRepository].
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{collection: db.Collection(schema.Post.Collection)}
}

// # Pipeline Stages

// joins resolves the category and tag references.
func joins() []bson.D {
	return []bson.D{
		mongodb.Lookup(schema.Category.Collection, schema.Post.CategoryID, schema.Category.ID, schema.Post.AsCategory),
		mongodb.Lookup(schema.Tag.Collection, schema.Post.TagID, schema.Tag.ID, schema.Post.AsTags),
	}
}

// live is the filter of every non-destroyed post, merged with extra.
func live(extra bson.M) bson.M {
	return visibility.And(visibility.TypeWEB, extra)
}

// searchFilter matches pattern against the post and its joined references.
func searchFilter(pattern string) bson.M {
	regex := primitive.Regex{Pattern: pattern, Options: "i"}

	fields := []string{
		schema.Post.Title,
		schema.Post.Description,
		schema.Post.VietnameseTitle,
		schema.Post.AsCategory + "." + schema.Category.Title,
		schema.Post.AsCategory + "." + schema.Category.Slug,
		schema.Post.AsTags + "." + schema.Tag.Title,
		schema.Post.AsTags + "." + schema.Tag.VietnameseTitle,
		schema.Post.AsTags + "." + schema.Tag.Slug,
	}

	or := make(bson.A, 0, len(fields))
	for _, field := range fields {
		or = append(or, bson.M{field: regex})
	}
	return bson.M{"$or": or}
}

// # Write Operations

func (repository *MongoRepository) CreateNew(context context.Context, post *Post) error {
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}

	_, err := repository.collection.InsertOne(context, post)
	return dberr.Wrap(err, "create_post")
}

func (repository *MongoRepository) Update(context context.Context, id primitive.ObjectID, changes Changes) (*Post, error) {
	set := bson.M{schema.Post.UpdateAt: time.Now().UTC()}
	if changes.Title != nil {
		set[schema.Post.Title] = *changes.Title
		set[schema.Post.Slug] = slug.From(*changes.Title)
		set[schema.Post.VietnameseTitle] = slug.Keyword(*changes.Title)
	}
	if changes.Description != nil {
		set[schema.Post.Description] = *changes.Description
	}
	if changes.CategoryID != nil {
		set[schema.Post.CategoryID] = *changes.CategoryID
	}
	if changes.TagID != nil {
		set[schema.Post.TagID] = *changes.TagID
	}
	if changes.Content != nil {
		set[schema.Post.Detail] = *changes.Content
	}
	if changes.Popular != nil {
		set[schema.Post.Popular] = *changes.Popular
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	post := &Post{}
	err := repository.collection.FindOneAndUpdate(context, bson.M{schema.Post.ID: id}, bson.M{"$set": set}, opts).Decode(post)
	if err != nil {
		return nil, dberr.Wrap(err, "update_post")
	}
	return post, nil
}

func (repository *MongoRepository) SetViews(context context.Context, id primitive.ObjectID, views int) error {
	update := bson.M{"$set": bson.M{schema.Post.Views: views}}

	result, err := repository.collection.UpdateOne(context, bson.M{schema.Post.ID: id}, update)
	if err != nil {
		return dberr.Wrap(err, "set_post_views")
	}
	if result.MatchedCount == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *MongoRepository) DeleteOneByID(context context.Context, id primitive.ObjectID) (int64, error) {
	result, err := repository.collection.DeleteOne(context, bson.M{schema.Post.ID: id})
	if err != nil {
		return 0, dberr.Wrap(err, "delete_post")
	}
	return result.DeletedCount, nil
}

// # Joined Reads

func (repository *MongoRepository) GetDetails(context context.Context, id primitive.ObjectID) (*Detail, error) {
	pipeline := mongo.Pipeline{mongodb.Match(live(bson.M{schema.Post.ID: id}))}
	pipeline = append(pipeline, joins()...)

	details, err := mongodb.Aggregate[*Detail](context, repository.collection, pipeline)
	if err != nil {
		return nil, dberr.Wrap(err, "get_post")
	}
	if len(details) == 0 {
		return nil, dberr.ErrNotFound
	}
	return details[0], nil
}

func (repository *MongoRepository) GetAll(context context.Context, audience visibility.Type, params pagination.Params) ([]*Detail, int, error) {
	return repository.list(context, visibility.Filter(audience), &params, "list_posts")
}

func (repository *MongoRepository) GetAllByCategoryID(context context.Context, id primitive.ObjectID, params *pagination.Params) ([]*Detail, int, error) {
	return repository.list(context, live(bson.M{schema.Post.CategoryID: id}), params, "list_posts_by_category")
}

func (repository *MongoRepository) GetAllByTagID(context context.Context, id primitive.ObjectID, params *pagination.Params) ([]*Detail, int, error) {
	return repository.list(context, live(bson.M{schema.Post.TagID: id}), params, "list_posts_by_tag")
}

func (repository *MongoRepository) GetPopular(context context.Context) ([]*Detail, error) {
	details, _, err := repository.list(context, live(bson.M{schema.Post.Popular: true}), nil, "list_popular_posts")
	return details, err
}

/*
list runs the joined listing of filter, newest first.

Description: The filter only reads post fields, so the total comes from
CountDocuments on the same filter instead of a second aggregation. A nil
params skips both pagination and counting.
*/
func (repository *MongoRepository) list(context context.Context, filter bson.M, params *pagination.Params, action string) ([]*Detail, int, error) {
	pipeline := mongo.Pipeline{mongodb.Match(filter)}
	pipeline = append(pipeline, joins()...)
	pipeline = append(pipeline, mongodb.Sort(schema.Post.CreateAt, -1))
	if params != nil {
		pipeline = append(pipeline, mongodb.Page(*params)...)
	}

	details, err := mongodb.Aggregate[*Detail](context, repository.collection, pipeline)
	if err != nil {
		return nil, 0, dberr.Wrap(err, action)
	}
	if params == nil {
		return details, len(details), nil
	}

	total, err := repository.collection.CountDocuments(context, filter)
	if err != nil {
		return nil, 0, dberr.Wrap(err, action+"_count")
	}
	return details, int(total), nil
}

func (repository *MongoRepository) Search(context context.Context, keyword string, params pagination.Params) ([]*Detail, int, error) {

	// The keyword filter reads joined fields, so it runs after the joins.
	prefix := mongo.Pipeline{mongodb.Match(live(nil))}
	prefix = append(prefix, joins()...)
	prefix = append(prefix, mongodb.Match(searchFilter(slug.Pattern(keyword))))

	pipeline := append(mongo.Pipeline{}, prefix...)
	pipeline = append(pipeline, mongodb.Sort(schema.Post.Views, -1))
	pipeline = append(pipeline, mongodb.Page(params)...)

	details, err := mongodb.Aggregate[*Detail](context, repository.collection, pipeline)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "search_posts")
	}

	total, err := mongodb.Count(context, repository.collection, prefix)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "search_posts_count")
	}
	return details, total, nil
}

// # Existence Checks

func (repository *MongoRepository) FindOneBySlug(context context.Context, value string) (*Post, error) {
	return repository.findOne(context, live(bson.M{schema.Post.Slug: value}), "get_post_by_slug")
}

func (repository *MongoRepository) FindOneByID(context context.Context, id primitive.ObjectID) (*Post, error) {
	return repository.findOne(context, bson.M{schema.Post.ID: id}, "get_post")
}

func (repository *MongoRepository) FindOneByTitle(context context.Context, title string) (*Post, error) {
	return repository.findOne(context, live(bson.M{schema.Post.Title: title}), "get_post_by_title")
}

func (repository *MongoRepository) findOne(context context.Context, filter bson.M, action string) (*Post, error) {
	post := &Post{}
	if err := repository.collection.FindOne(context, filter).Decode(post); err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return post, nil
}
