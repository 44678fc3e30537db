// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

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
	"github.com/taibuivan/inkpress/pkg/slug"
)

// MongoRepository implements [Repository] on the 'categorys' collection.
type MongoRepository struct {
	collection *mongo.Collection
}

// NewMongoRepository constructs a [MongoRepository].
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{collection: db.Collection(schema.Category.Collection)}
}

// joinTags replaces the tag id list with the referenced tag documents.
func joinTags() bson.D {
	return mongodb.Lookup(schema.Tag.Collection, schema.Category.Tags, schema.Tag.ID, schema.Category.Tags)
}

func (repository *MongoRepository) CreateNew(context context.Context, category *Category) error {
	if category.ID.IsZero() {
		category.ID = primitive.NewObjectID()
	}
	if category.Tags == nil {
		category.Tags = []primitive.ObjectID{}
	}

	_, err := repository.collection.InsertOne(context, category)
	return dberr.Wrap(err, "create_category")
}

func (repository *MongoRepository) GetDetails(context context.Context, id primitive.ObjectID) (*Detail, error) {
	pipeline := mongo.Pipeline{
		mongodb.Match(bson.M{schema.Category.ID: id}),
		joinTags(),
	}

	details, err := mongodb.Aggregate[*Detail](context, repository.collection, pipeline)
	if err != nil {
		return nil, dberr.Wrap(err, "get_category")
	}
	if len(details) == 0 {
		return nil, dberr.ErrNotFound
	}
	return details[0], nil
}

func (repository *MongoRepository) GetAll(context context.Context, audience visibility.Type) ([]*Detail, error) {
	pipeline := mongo.Pipeline{
		mongodb.Match(visibility.Filter(audience)),
		joinTags(),
	}

	details, err := mongodb.Aggregate[*Detail](context, repository.collection, pipeline)
	return details, dberr.Wrap(err, "list_categories")
}

func (repository *MongoRepository) Update(context context.Context, id primitive.ObjectID, changes Changes) (*Category, error) {
	set := bson.M{schema.Category.UpdateAt: time.Now().UTC()}
	if changes.Title != nil {
		set[schema.Category.Title] = *changes.Title
		set[schema.Category.Slug] = slug.From(*changes.Title)
	}
	if changes.Tags != nil {
		set[schema.Category.Tags] = changes.Tags
	}

	return repository.findOneAndUpdate(context, id, bson.M{"$set": set}, "update_category")
}

func (repository *MongoRepository) PushTagID(context context.Context, id, tagID primitive.ObjectID) (*Category, error) {
	update := bson.M{"$push": bson.M{schema.Category.Tags: tagID}}
	return repository.findOneAndUpdate(context, id, update, "push_category_tag")
}

func (repository *MongoRepository) DeleteOneByID(context context.Context, id primitive.ObjectID) (int64, error) {
	result, err := repository.collection.DeleteOne(context, bson.M{schema.Category.ID: id})
	if err != nil {
		return 0, dberr.Wrap(err, "delete_category")
	}
	return result.DeletedCount, nil
}

func (repository *MongoRepository) FindOneByID(context context.Context, id primitive.ObjectID) (*Category, error) {
	return repository.findOne(context, bson.M{schema.Category.ID: id}, "get_category")
}

func (repository *MongoRepository) FindOneBySlug(context context.Context, value string) (*Category, error) {
	return repository.findOne(context, bson.M{schema.Category.Slug: value}, "get_category_by_slug")
}

func (repository *MongoRepository) FindOneByTitle(context context.Context, title string) (*Category, error) {
	return repository.findOne(context, bson.M{schema.Category.Title: title}, "get_category_by_title")
}

func (repository *MongoRepository) findOne(context context.Context, filter bson.M, action string) (*Category, error) {
	category := &Category{}
	if err := repository.collection.FindOne(context, filter).Decode(category); err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return category, nil
}

func (repository *MongoRepository) findOneAndUpdate(context context.Context, id primitive.ObjectID, update bson.M, action string) (*Category, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	category := &Category{}
	err := repository.collection.FindOneAndUpdate(context, bson.M{schema.Category.ID: id}, update, opts).Decode(category)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return category, nil
}
