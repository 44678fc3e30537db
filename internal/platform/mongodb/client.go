// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package mongodb provides the managed MongoDB client for the Inkpress
// application.
//
// # Architecture
//
// This package is part of the Infrastructure layer. It owns the single
// [*mongo.Client] of the process: [Connect] creates it at startup, [Store.Close]
// disconnects it at shutdown, and repositories receive the [*mongo.Database]
// handle through their constructors.
package mongodb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Opinionated client settings for the Inkpress workload.
const (
	// maxPoolSize is the maximum number of connections per server.
	maxPoolSize = 25
	// minPoolSize keeps a warm set of connections to avoid cold-start latency.
	minPoolSize = 5
	// maxConnIdleTime closes connections that have been idle too long.
	maxConnIdleTime = 10 * time.Minute
	// connectTimeout is the maximum time allowed to establish the client.
	connectTimeout = 15 * time.Second
	// disconnectTimeout bounds the graceful disconnect at shutdown.
	disconnectTimeout = 10 * time.Second
	// pingTimeout is the maximum duration for a health check ping.
	pingTimeout = 2 * time.Second
)

// Store bundles the client and the application database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect creates and validates a new MongoDB client.
//
// # Parameters
//   - ctx: Context for the initial connection attempt.
//   - uri: A mongodb:// or mongodb+srv:// connection string.
//   - database: Name of the application database.
//   - logger: Structured logger for client-level events.
func Connect(ctx context.Context, uri, database string, logger *slog.Logger) (*Store, error) {
	clientOptions := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(maxPoolSize).
		SetMinPoolSize(minPoolSize).
		SetMaxConnIdleTime(maxConnIdleTime)

	if err := clientOptions.Validate(); err != nil {
		return nil, fmt.Errorf("mongodb: invalid URI: %w", err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongodb: failed to create client: %w", err)
	}

	store := &Store{client: client, db: client.Database(database)}

	// Validate that we can actually reach the database.
	if err := store.Ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Info("mongodb client connected",
		slog.String("database", database),
		slog.Int("max_pool_size", maxPoolSize),
	)

	return store, nil
}

// Database returns the application database handle.
func (s *Store) Database() *mongo.Database {
	return s.db
}

// Ping verifies that the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := s.client.Ping(pingCtx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongodb: ping failed: %w", err)
	}

	return nil
}

// Close disconnects the client, waiting for in-flight operations.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()

	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("mongodb: disconnect failed: %w", err)
	}
	return nil
}
