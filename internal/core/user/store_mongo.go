// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taibuivan/inkpress/internal/platform/database/schema"
	"github.com/taibuivan/inkpress/internal/platform/dberr"
)

// MongoRepository is the MongoDB implementation of [Repository].
type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{collection: db.Collection(schema.User.Collection)}
}

func (repository *MongoRepository) CreateNew(context context.Context, user *User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}

	_, err := repository.collection.InsertOne(context, user)
	return dberr.Wrap(err, "create_user")
}

func (repository *MongoRepository) FindOneByEmail(context context.Context, email string) (*User, error) {
	return repository.findOne(context, bson.M{schema.User.Email: email}, "get_user_by_email")
}

func (repository *MongoRepository) FindOneByID(context context.Context, id primitive.ObjectID) (*User, error) {
	return repository.findOne(context, bson.M{schema.User.ID: id}, "get_user")
}

func (repository *MongoRepository) Update(context context.Context, id primitive.ObjectID, patch Patch) (*User, error) {
	set := bson.M{schema.User.UpdateAt: time.Now().UTC()}
	if patch.GivenName != nil {
		set[schema.User.GivenName] = *patch.GivenName
	}
	if patch.Avatar != nil {
		set[schema.User.Avatar] = *patch.Avatar
	}

	return repository.findOneAndUpdate(context, id, bson.M{"$set": set}, "update_user")
}

func (repository *MongoRepository) Bookmark(context context.Context, id, postID primitive.ObjectID, action string) (*User, error) {
	operator := "$addToSet"
	if action == ActionRemove {
		operator = "$pull"
	}

	update := bson.M{
		operator: bson.M{schema.User.Bookmarked: postID},
		"$set":   bson.M{schema.User.UpdateAt: time.Now().UTC()},
	}
	return repository.findOneAndUpdate(context, id, update, "bookmark_post")
}

func (repository *MongoRepository) PushHistory(context context.Context, id, postID primitive.ObjectID) (*User, error) {
	history := "$" + schema.User.History

	// [postID] ++ (history without postID)
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: schema.User.History, Value: bson.D{{Key: "$concatArrays", Value: bson.A{
				bson.A{postID},
				bson.D{{Key: "$filter", Value: bson.D{
					{Key: "input", Value: bson.D{{Key: "$ifNull", Value: bson.A{history, bson.A{}}}}},
					{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$this", postID}}}},
				}}},
			}}}},
			{Key: schema.User.UpdateAt, Value: time.Now().UTC()},
		}}},
	}

	return repository.findOneAndUpdate(context, id, update, "push_user_history")
}

func (repository *MongoRepository) findOne(context context.Context, filter bson.M, action string) (*User, error) {
	user := &User{}
	if err := repository.collection.FindOne(context, filter).Decode(user); err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return user, nil
}

func (repository *MongoRepository) findOneAndUpdate(context context.Context, id primitive.ObjectID, update any, action string) (*User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	user := &User{}
	err := repository.collection.FindOneAndUpdate(context, bson.M{schema.User.ID: id}, update, opts).Decode(user)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return user, nil
}
