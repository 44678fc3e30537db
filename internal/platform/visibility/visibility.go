// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package visibility decides which documents a client may see.

Every collection carries a "_destroy" flag. The CMS client sees everything,
the public WEB client only sees documents whose flag is false. The decision is
expressed as a MongoDB match filter so repositories can drop it straight into
a Find call or a $match stage.
*/
package visibility

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/taibuivan/inkpress/internal/platform/database/schema"
)

// Type is the audience of a query.
type Type string

const (
	// TypeAny applies no filter. Used for joins where visibility was decided upstream.
	TypeAny Type = ""
	// TypeCMS is the administrative client.
	TypeCMS Type = "cms"
	// TypeWEB is the public client.
	TypeWEB Type = "web"
	// TypeDestroyed selects only soft-deleted documents (the CMS trash view).
	TypeDestroyed Type = "isDestroy"
)

// Filter returns the match condition for t.
//
// Unknown values are treated as [TypeWEB].
func Filter(t Type) bson.M {
	switch t {
	case TypeAny, TypeCMS:
		return bson.M{}
	case TypeDestroyed:
		return bson.M{schema.FieldDestroy: true}
	default:
		return bson.M{schema.FieldDestroy: false}
	}
}

// And merges the visibility condition of t into an existing filter.
// The input map is not modified.
func And(t Type, filter bson.M) bson.M {
	merged := Filter(t)
	for k, v := range filter {
		merged[k] = v
	}
	return merged
}

// FromQuery reads the "type" query parameter.
// An absent parameter means the public client.
func FromQuery(r *http.Request) Type {
	raw := r.URL.Query().Get("type")
	if raw == "" {
		return TypeWEB
	}
	return Type(raw)
}

// Public reports whether t hides destroyed documents.
func (t Type) Public() bool {
	switch t {
	case TypeAny, TypeCMS, TypeDestroyed:
		return false
	default:
		return true
	}
}
