// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taibuivan/inkpress/internal/platform/database/schema"
	"github.com/taibuivan/inkpress/internal/platform/dberr"
	"github.com/taibuivan/inkpress/internal/platform/visibility"
	"github.com/taibuivan/inkpress/pkg/pagination"
	"github.com/taibuivan/inkpress/pkg/slug"
)

// MongoRepository is the MongoDB implementation of [Repository].
type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{collection: db.Collection(schema.Tag.Collection)}
}

func (repository *MongoRepository) CreateNew(context context.Context, tag *Tag) error {
	if tag.ID.IsZero() {
		tag.ID = primitive.NewObjectID()
	}

	_, err := repository.collection.InsertOne(context, tag)
	return dberr.Wrap(err, "create_tag")
}

func (repository *MongoRepository) GetAll(context context.Context, audience visibility.Type, params pagination.Params) ([]*Tag, int, error) {
	filter := visibility.Filter(audience)

	opts := options.Find().
		SetSort(bson.D{{Key: schema.Tag.ID, Value: 1}}).
		SetSkip(int64(params.Offset())).
		SetLimit(int64(params.Limit))

	cursor, err := repository.collection.Find(context, filter, opts)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_tags")
	}
	defer cursor.Close(context)

	tags := []*Tag{}
	if err := cursor.All(context, &tags); err != nil {
		return nil, 0, dberr.Wrap(err, "scan_tags")
	}

	total, err := repository.collection.CountDocuments(context, filter)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "count_tags")
	}

	return tags, int(total), nil
}

func (repository *MongoRepository) Update(context context.Context, id primitive.ObjectID, patch Patch) (*Tag, error) {
	set := bson.M{schema.Tag.UpdateAt: time.Now().UTC()}
	if patch.Title != nil {
		set[schema.Tag.Title] = *patch.Title
		set[schema.Tag.Slug] = slug.From(*patch.Title)
		set[schema.Tag.VietnameseTitle] = slug.Keyword(*patch.Title)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	tag := &Tag{}
	err := repository.collection.FindOneAndUpdate(context, bson.M{schema.Tag.ID: id}, bson.M{"$set": set}, opts).Decode(tag)
	if err != nil {
		return nil, dberr.Wrap(err, "update_tag")
	}
	return tag, nil
}

func (repository *MongoRepository) DeleteTag(context context.Context, id primitive.ObjectID) (int64, error) {
	result, err := repository.collection.DeleteOne(context, bson.M{schema.Tag.ID: id})
	if err != nil {
		return 0, dberr.Wrap(err, "delete_tag")
	}
	return result.DeletedCount, nil
}

func (repository *MongoRepository) DeleteManyTags(context context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result, err := repository.collection.DeleteMany(context, bson.M{schema.Tag.ID: bson.M{"$in": ids}})
	if err != nil {
		return 0, dberr.Wrap(err, "delete_tags")
	}
	return result.DeletedCount, nil
}

func (repository *MongoRepository) FindOneByID(context context.Context, id primitive.ObjectID) (*Tag, error) {
	return repository.findOne(context, bson.M{schema.Tag.ID: id}, "get_tag")
}

func (repository *MongoRepository) FindOneBySlug(context context.Context, slug string) (*Tag, error) {
	return repository.findOne(context, bson.M{schema.Tag.Slug: slug}, "get_tag_by_slug")
}

func (repository *MongoRepository) FindOneByTitle(context context.Context, title string) (*Tag, error) {
	return repository.findOne(context, bson.M{schema.Tag.Title: title}, "get_tag_by_title")
}

func (repository *MongoRepository) FindManyByIDs(context context.Context, ids []primitive.ObjectID) ([]*Tag, error) {
	tags := []*Tag{}
	if len(ids) == 0 {
		return tags, nil
	}

	cursor, err := repository.collection.Find(context, bson.M{schema.Tag.ID: bson.M{"$in": ids}})
	if err != nil {
		return nil, dberr.Wrap(err, "list_tags_by_ids")
	}
	defer cursor.Close(context)

	if err := cursor.All(context, &tags); err != nil {
		return nil, dberr.Wrap(err, "scan_tags")
	}
	return tags, nil
}

func (repository *MongoRepository) findOne(context context.Context, filter bson.M, action string) (*Tag, error) {
	tag := &Tag{}
	if err := repository.collection.FindOne(context, filter).Decode(tag); err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return tag, nil
}
