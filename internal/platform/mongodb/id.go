// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mongodb

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taibuivan/inkpress/internal/platform/apperr"
)

// ParseID converts a hex string into an ObjectID.
// A malformed value is reported as a validation error on field.
func ParseID(field, hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, apperr.ValidationError("Invalid identifier",
			apperr.FieldError{Field: field, Message: "must be a 24 character hex ObjectId"})
	}
	return id, nil
}

// ParseIDs converts every hex string of hexes, failing on the first malformed one.
func ParseIDs(field string, hexes []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(hexes))
	for _, hex := range hexes {
		id, err := ParseID(field, hex)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
