// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package user keeps reader profiles: identity from the sign-in provider,
bookmarked posts and reading history.

Sign-in itself happens upstream. The API only receives the verified profile
and upserts it by email.
*/
package user

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a reader profile.
type User struct {
	ID         primitive.ObjectID   `json:"_id"        bson:"_id"`
	GivenName  string               `json:"given_name" bson:"given_name"`
	Email      string               `json:"email"      bson:"email"`
	Avatar     string               `json:"avatar"     bson:"avatar"`
	Bookmarked []primitive.ObjectID `json:"bookmarked" bson:"bookmarked"`
	History    []primitive.ObjectID `json:"history"    bson:"history"` // most recent first
	CreateAt   time.Time            `json:"createAt"   bson:"createAt"`
	UpdateAt   *time.Time           `json:"updateAt"   bson:"updateAt"`
}

// New builds a user with empty bookmark and history lists.
func New(input LoginInput, now time.Time) *User {
	return &User{
		ID:         primitive.NewObjectID(),
		GivenName:  input.GivenName,
		Email:      input.Email,
		Avatar:     input.Avatar,
		Bookmarked: []primitive.ObjectID{},
		History:    []primitive.ObjectID{},
		CreateAt:   now,
	}
}

// LoginInput is the profile handed over by the sign-in provider.
type LoginInput struct {
	GivenName string `json:"given_name"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar"`
}

// Patch is the body of PUT /users/{id}. Email is immutable.
type Patch struct {
	GivenName *string `json:"given_name"`
	Avatar    *string `json:"avatar"`
}

// BookmarkInput is the body of POST /users/{id}/bookmarks.
type BookmarkInput struct {
	PostID string `json:"postId"`
	Action string `json:"action"`
}

// HistoryInput is the body of POST /users/{id}/history.
type HistoryInput struct {
	PostID string `json:"postId"`
}

// Bookmark actions
const (
	ActionAdd    = "add"
	ActionRemove = "remove"
)

// Global field names for validation
const (
	FieldID        = "id"
	FieldGivenName = "given_name"
	FieldEmail     = "email"
	FieldAvatar    = "avatar"
	FieldPostID    = "postId"
	FieldAction    = "action"

	MaxNameLen   = 50
	MaxEmailLen  = 50
	MaxAvatarLen = 500
)
