// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema holds the collection and field names of the document store.
//
// Field names match the documents written by the previous deployment, so they
// are not always camelCase (e.g. "given_name", "_destroy").
package schema

// Fields shared by every collection.
const (
	FieldID       = "_id"
	FieldDestroy  = "_destroy"
	FieldCreateAt = "createAt"
	FieldUpdateAt = "updateAt"
)
