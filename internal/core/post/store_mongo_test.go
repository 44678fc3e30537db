// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/taibuivan/inkpress/internal/core/post"
	"github.com/taibuivan/inkpress/internal/platform/apperr"
	"github.com/taibuivan/inkpress/internal/platform/dberr"
	"github.com/taibuivan/inkpress/internal/platform/visibility"
	"github.com/taibuivan/inkpress/pkg/pagination"
	"github.com/taibuivan/inkpress/pkg/pointer"
)

var testTime = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func postDoc(id primitive.ObjectID, title string, views int) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "title", Value: title},
		{Key: "slug", Value: "slug-" + id.Hex()},
		{Key: "views", Value: views},
		{Key: "thumbnail", Value: "https://worker.test/" + id.Hex()},
		{Key: "_destroy", Value: false},
		{Key: "createAt", Value: primitive.NewDateTimeFromTime(testTime)},
		{Key: "category", Value: bson.A{bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "title", Value: "Writing"}}}},
		{Key: "tags", Value: bson.A{}},
	}
}

/*
TestMongoRepository exercises the post queries against the mock deployment.
*/
func TestMongoRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	ns := func(mt *mtest.T) string { return mt.DB.Name() + ".posts" }

	mt.Run("get_all_pages_and_counts", func(mt *mtest.T) {
		repo := post.NewMongoRepository(mt.DB)

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch,
				postDoc(primitive.NewObjectID(), "One", 1),
				postDoc(primitive.NewObjectID(), "Two", 4),
			),
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, bson.D{{Key: "n", Value: 23}}),
		)

		details, total, err := repo.GetAll(ctx, visibility.TypeWEB, pagination.Params{Page: 4, Limit: 7})
		require.NoError(t, err)
		assert.Equal(t, 23, total)
		require.Len(t, details, 2)
		assert.Equal(t, "One", details[0].Title)
		require.Len(t, details[0].Category, 1)
		assert.Equal(t, "Writing", details[0].Category[0].Title)
	})

	mt.Run("search_counts_the_same_prefix", func(mt *mtest.T) {
		repo := post.NewMongoRepository(mt.DB)

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, postDoc(primitive.NewObjectID(), "Hà Nội", 9)),
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, bson.D{{Key: "total", Value: 11}}),
		)

		details, total, err := repo.Search(ctx, "ha noi", pagination.Params{Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 11, total)
		require.Len(t, details, 1)
		assert.Equal(t, 9, details[0].Views)
	})

	mt.Run("search_without_matches", func(mt *mtest.T) {
		repo := post.NewMongoRepository(mt.DB)

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch),
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch),
		)

		details, total, err := repo.Search(ctx, "nothing", pagination.Params{Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.NotNil(t, details)
		assert.Empty(t, details)
	})

	mt.Run("get_details_missing", func(mt *mtest.T) {
		repo := post.NewMongoRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch))

		_, err := repo.GetDetails(ctx, primitive.NewObjectID())
		assert.ErrorIs(t, err, dberr.ErrNotFound)
	})

	mt.Run("popular_is_not_paginated", func(mt *mtest.T) {
		repo := post.NewMongoRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch,
			postDoc(primitive.NewObjectID(), "One", 1),
		))

		details, err := repo.GetPopular(ctx)
		require.NoError(t, err)
		assert.Len(t, details, 1)
	})

	mt.Run("find_by_title_missing", func(mt *mtest.T) {
		repo := post.NewMongoRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch))

		_, err := repo.FindOneByTitle(ctx, "Nope")
		assert.True(t, dberr.IsNotFound(err))
	})

	mt.Run("set_views_unknown_post", func(mt *mtest.T) {
		repo := post.NewMongoRepository(mt.DB)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}, {Key: "nModified", Value: 0}})

		err := repo.SetViews(ctx, primitive.NewObjectID(), 2)
		assert.ErrorIs(t, err, dberr.ErrNotFound)
	})

	mt.Run("update_returns_new_document", func(mt *mtest.T) {
		repo := post.NewMongoRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: postDoc(id, "Renamed", 3)}})

		updated, err := repo.Update(ctx, id, post.Changes{Title: pointer.To("Renamed")})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Title)
	})

	mt.Run("delete_reports_count", func(mt *mtest.T) {
		repo := post.NewMongoRepository(mt.DB)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 1}})

		deleted, err := repo.DeleteOneByID(ctx, primitive.NewObjectID())
		require.NoError(t, err)
		assert.EqualValues(t, 1, deleted)
	})

	mt.Run("create_duplicate_key", func(mt *mtest.T) {
		repo := post.NewMongoRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := repo.CreateNew(ctx, &post.Post{Title: "Dup"})
		require.Error(t, err)
		assert.Equal(t, "CONFLICT", apperr.As(err).Code)
	})
}

// sentPipeline pops the next command sent to the mock deployment and
// returns its aggregation stages.
func sentPipeline(t *testing.T, mt *mtest.T) []bson.M {
	t.Helper()

	started := mt.GetStartedEvent()
	require.NotNil(t, started, "no command was sent")

	var command struct {
		Pipeline []bson.M `bson:"pipeline"`
	}
	require.NoError(t, bson.Unmarshal(started.Command, &command))
	return command.Pipeline
}

// stageNames lists the operator of every stage, in order.
func stageNames(stages []bson.M) []string {
	names := make([]string, 0, len(stages))
	for _, stage := range stages {
		for name := range stage {
			names = append(names, name)
		}
	}
	return names
}

/*
TestMongoRepository_Queries verifies the pipelines sent for listings and search.
*/
func TestMongoRepository_Queries(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	ns := func(mt *mtest.T) string { return mt.DB.Name() + ".posts" }

	mt.Run("get_all_filters_by_audience", func(mt *mtest.T) {
		repo := post.NewMongoRepository(mt.DB)

		tests := []struct {
			audience visibility.Type
			want     bson.M
		}{
			{visibility.TypeCMS, bson.M{}},
			{visibility.TypeWEB, bson.M{"_destroy": false}},
			{visibility.TypeDestroyed, bson.M{"_destroy": true}},
			{visibility.Type("bogus"), bson.M{"_destroy": false}},
		}

		for _, tt := range tests {
			mt.AddMockResponses(
				mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch),
				mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, bson.D{{Key: "n", Value: 23}}),
			)

			_, _, err := repo.GetAll(ctx, tt.audience, pagination.Params{Page: 4, Limit: 7})
			require.NoError(t, err)

			page := sentPipeline(t, mt)
			require.Equal(t, []string{"$match", "$lookup", "$lookup", "$sort", "$skip", "$limit"}, stageNames(page), tt.audience)
			assert.Equal(t, tt.want, page[0]["$match"], tt.audience)
			assert.Equal(t, "categorys", page[1]["$lookup"].(bson.M)["from"])
			assert.Equal(t, "category", page[1]["$lookup"].(bson.M)["as"])
			assert.Equal(t, "tags", page[2]["$lookup"].(bson.M)["from"])
			assert.EqualValues(t, -1, page[3]["$sort"].(bson.M)["createAt"])
			assert.EqualValues(t, 21, page[4]["$skip"])
			assert.EqualValues(t, 7, page[5]["$limit"])

			count := sentPipeline(t, mt)
			require.NotEmpty(t, count)
			assert.Equal(t, tt.want, count[0]["$match"], tt.audience)
		}
	})

	mt.Run("search_matches_after_joins", func(mt *mtest.T) {
		repo := post.NewMongoRepository(mt.DB)

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch),
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, bson.D{{Key: "total", Value: 11}}),
		)

		_, _, err := repo.Search(ctx, "  Hà   Nội ", pagination.Params{Page: 2, Limit: 10})
		require.NoError(t, err)

		page := sentPipeline(t, mt)
		require.Equal(t, []string{"$match", "$lookup", "$lookup", "$match", "$sort", "$skip", "$limit"}, stageNames(page))
		assert.Equal(t, bson.M{"_destroy": false}, page[0]["$match"])

		or := page[3]["$match"].(bson.M)["$or"].(bson.A)
		require.Len(t, or, 8)
		regex := primitive.Regex{Pattern: "ha noi", Options: "i"}
		assert.Equal(t, bson.M{"title": regex}, or[0])
		assert.Contains(t, or, bson.M{"category.slug": regex})
		assert.Contains(t, or, bson.M{"tags.vietnameseTitle": regex})

		assert.EqualValues(t, -1, page[4]["$sort"].(bson.M)["views"])
		assert.EqualValues(t, 10, page[5]["$skip"])
		assert.EqualValues(t, 10, page[6]["$limit"])

		count := sentPipeline(t, mt)
		require.Equal(t, []string{"$match", "$lookup", "$lookup", "$match", "$count"}, stageNames(count))
		assert.Equal(t, page[:4], count[:4])
	})

	mt.Run("by_tag_filters_live_posts", func(mt *mtest.T) {
		repo := post.NewMongoRepository(mt.DB)
		tagID := primitive.NewObjectID()

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch),
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, bson.D{{Key: "n", Value: 0}}),
		)

		_, _, err := repo.GetAllByTagID(ctx, tagID, &pagination.Params{Page: 1, Limit: 7})
		require.NoError(t, err)

		want := bson.M{"_destroy": false, "tagId": tagID}
		page := sentPipeline(t, mt)
		assert.Equal(t, want, page[0]["$match"])
		assert.EqualValues(t, 0, page[len(page)-2]["$skip"])

		count := sentPipeline(t, mt)
		assert.Equal(t, want, count[0]["$match"])
	})

	mt.Run("by_tag_without_params_is_one_query", func(mt *mtest.T) {
		repo := post.NewMongoRepository(mt.DB)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch,
			postDoc(primitive.NewObjectID(), "One", 1),
		))

		details, total, err := repo.GetAllByTagID(ctx, primitive.NewObjectID(), nil)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Len(t, details, 1)

		page := sentPipeline(t, mt)
		assert.Equal(t, []string{"$match", "$lookup", "$lookup", "$sort"}, stageNames(page))
		assert.Nil(t, mt.GetStartedEvent())
	})
}
