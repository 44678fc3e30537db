// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taibuivan/inkpress/pkg/pagination"
)

// # Aggregation Stages

// Match builds a $match stage.
func Match(filter any) bson.D {
	return bson.D{{Key: "$match", Value: filter}}
}

// Lookup builds a $lookup stage joining from.foreignField against localField.
// The joined documents always land in an array named as, even for a single reference.
func Lookup(from, localField, foreignField, as string) bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: from},
		{Key: "localField", Value: localField},
		{Key: "foreignField", Value: foreignField},
		{Key: "as", Value: as},
	}}}
}

// Sort builds a $sort stage on a single field. Use -1 for descending order.
func Sort(field string, order int) bson.D {
	return bson.D{{Key: "$sort", Value: bson.D{{Key: field, Value: order}}}}
}

// Page returns the $skip and $limit stages for params.
func Page(params pagination.Params) []bson.D {
	return []bson.D{
		{{Key: "$skip", Value: int64(params.Offset())}},
		{{Key: "$limit", Value: int64(params.Limit)}},
	}
}

// # Aggregation Helpers

// Aggregate runs pipeline against collection and decodes every result into T.
// An empty result is returned as an empty, non-nil slice.
func Aggregate[T any](ctx context.Context, collection *mongo.Collection, pipeline mongo.Pipeline) ([]T, error) {
	cursor, err := collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := []T{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// Count appends a $count stage to prefix and returns the number of documents
// the prefix produces. Used when the filter depends on joined fields and
// CountDocuments cannot see them.
func Count(ctx context.Context, collection *mongo.Collection, prefix mongo.Pipeline) (int, error) {
	pipeline := make(mongo.Pipeline, 0, len(prefix)+1)
	pipeline = append(pipeline, prefix...)
	pipeline = append(pipeline, bson.D{{Key: "$count", Value: "total"}})

	var rows []struct {
		Total int `bson:"total"`
	}

	cursor, err := collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("mongodb: decode count: %w", err)
	}

	// $count emits no document at all when the prefix matches nothing.
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}
