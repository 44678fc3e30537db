// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taibuivan/inkpress/internal/core/post"
)

// Repository defines the persistence contract for users.
type Repository interface {
	// CreateNew inserts a user. A taken email is reported as a conflict.
	CreateNew(context context.Context, user *User) error

	FindOneByEmail(context context.Context, email string) (*User, error)
	FindOneByID(context context.Context, id primitive.ObjectID) (*User, error)

	// Update applies patch and returns the document after the update.
	Update(context context.Context, id primitive.ObjectID, patch Patch) (*User, error)

	/*
		Bookmark adds postID to the bookmark set or removes it from it.

		Parameters:
		  - context: context.Context
		  - id: primitive.ObjectID (User)
		  - postID: primitive.ObjectID
		  - action: string (ActionAdd or ActionRemove)

		Returns:
		  - *User: The document after the update
		  - error: dberr.ErrNotFound if the user is missing
	*/
	Bookmark(context context.Context, id, postID primitive.ObjectID, action string) (*User, error)

	/*
		PushHistory moves postID to the front of the history, removing any
		earlier occurrence, in a single update.
	*/
	PushHistory(context context.Context, id, postID primitive.ObjectID) (*User, error)
}

// PostFinder is the part of the post layer users depend on.
type PostFinder interface {
	FindOneByID(context context.Context, id primitive.ObjectID) (*post.Post, error)
}
