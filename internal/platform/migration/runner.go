// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration brings the document store indexes up to date.
//
// # Architecture
//
// This package belongs to the Infrastructure layer. It runs during application
// startup, before traffic is served. Index creation in MongoDB is idempotent,
// so running it on every boot is safe.
package migration

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taibuivan/inkpress/internal/platform/database/schema"
)

// Index describes one single-field ascending index.
type Index struct {
	Collection string
	Field      string
	Unique     bool
}

// Name returns the index name, matching the server's default naming.
func (i Index) Name() string {
	return i.Field + "_1"
}

// Indexes lists every index the application relies on.
//
// Titles are deliberately not indexed as unique: uniqueness is a service-level
// pre-check only.
func Indexes() []Index {
	indexes := []Index{}

	for _, field := range schema.User.Unique() {
		indexes = append(indexes, Index{Collection: schema.User.Collection, Field: field, Unique: true})
	}
	for _, field := range schema.Post.Indexed() {
		indexes = append(indexes, Index{Collection: schema.Post.Collection, Field: field})
	}
	for _, field := range schema.Tag.Indexed() {
		indexes = append(indexes, Index{Collection: schema.Tag.Collection, Field: field})
	}
	for _, field := range schema.Category.Indexed() {
		indexes = append(indexes, Index{Collection: schema.Category.Collection, Field: field})
	}

	return indexes
}

// RunUp creates every missing index of [Indexes].
//
// # Parameters
//   - ctx: Context bounding the whole run.
//   - db: The application database.
//   - logger: Structured logger for migration events.
func RunUp(ctx context.Context, db *mongo.Database, logger *slog.Logger) error {
	logger.Info("migration_started", slog.Int("indexes", len(Indexes())))

	for _, index := range Indexes() {
		model := mongo.IndexModel{
			Keys:    bson.D{{Key: index.Field, Value: 1}},
			Options: options.Index().SetName(index.Name()).SetUnique(index.Unique),
		}

		name, err := db.Collection(index.Collection).Indexes().CreateOne(ctx, model)
		if err != nil {
			return fmt.Errorf("migration: create index %s.%s failed: %w", index.Collection, index.Name(), err)
		}

		logger.Debug("migration_index_ready",
			slog.String("collection", index.Collection),
			slog.String("index", name),
			slog.Bool("unique", index.Unique),
		)
	}

	logger.Info("migration_successful")
	return nil
}
