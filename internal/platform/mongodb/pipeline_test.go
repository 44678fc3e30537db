// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mongodb_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/taibuivan/inkpress/internal/platform/apperr"
	"github.com/taibuivan/inkpress/internal/platform/mongodb"
	"github.com/taibuivan/inkpress/pkg/pagination"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		name    string
		hex     string
		wantErr bool
	}{
		{"valid", "64b7f0c2a1b2c3d4e5f60718", false},
		{"short", "64b7f0", true},
		{"not_hex", "zzzzzzzzzzzzzzzzzzzzzzzz", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := mongodb.ParseID("id", tt.hex)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.hex, id.Hex())
		})
	}
}

func TestPage(t *testing.T) {
	stages := mongodb.Page(pagination.Params{Page: 4, Limit: 7})
	require.Len(t, stages, 2)
	assert.Equal(t, bson.D{{Key: "$skip", Value: int64(21)}}, stages[0])
	assert.Equal(t, bson.D{{Key: "$limit", Value: int64(7)}}, stages[1])
}

func TestAggregateAndCount(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("aggregate_decodes_rows", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "title", Value: "a"}},
			bson.D{{Key: "title", Value: "b"}},
		))

		type row struct {
			Title string `bson:"title"`
		}
		rows, err := mongodb.Aggregate[row](context.Background(), mt.Coll, mongo.Pipeline{mongodb.Match(bson.M{})})
		require.NoError(t, err)
		assert.Equal(t, []row{{"a"}, {"b"}}, rows)
	})

	mt.Run("count_reads_total", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "total", Value: 23}}))

		total, err := mongodb.Count(context.Background(), mt.Coll, mongo.Pipeline{mongodb.Match(bson.M{})})
		require.NoError(t, err)
		assert.Equal(t, 23, total)
	})

	mt.Run("count_without_rows_is_zero", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		total, err := mongodb.Count(context.Background(), mt.Coll, nil)
		require.NoError(t, err)
		assert.Zero(t, total)
	})
}
