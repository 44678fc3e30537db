// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Inkpress HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to MongoDB.
//  4. Ensure indexes (idempotent).
//  5. Wire repositories, services and HTTP handlers.
//  6. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/inkpress/internal/api"
	"github.com/taibuivan/inkpress/internal/core/category"
	"github.com/taibuivan/inkpress/internal/core/post"
	"github.com/taibuivan/inkpress/internal/core/tag"
	"github.com/taibuivan/inkpress/internal/core/user"
	"github.com/taibuivan/inkpress/internal/platform/config"
	"github.com/taibuivan/inkpress/internal/platform/constants"
	"github.com/taibuivan/inkpress/internal/platform/imageproxy"
	"github.com/taibuivan/inkpress/internal/platform/migration"
	"github.com/taibuivan/inkpress/internal/platform/mongodb"
	"github.com/taibuivan/inkpress/internal/platform/storage"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("[Inkpress] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("database", cfg.DatabaseName),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. MongoDB ────────────────────────────────────────────────────────
	store, err := mongodb.Connect(startupCtx, cfg.MongoURI, cfg.DatabaseName, log)
	must(log, err, "connect to mongodb")
	defer func() {
		log.Info("closing mongodb client")
		if cerr := store.Close(); cerr != nil {
			log.Error("mongodb close error", slog.Any("error", cerr))
		}
	}()

	// ── 4. Indexes ────────────────────────────────────────────────────────
	must(log, migration.RunUp(startupCtx, store.Database(), log), "ensure indexes")

	// ── 5. Health handlers ────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: store.Ping,
	}, log)

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	db := store.Database()
	thumbnails := storage.NewClient(cfg.WorkerAPIURL, cfg.StorageTimeout)

	tagRepository := tag.NewMongoRepository(db)
	categoryRepository := category.NewMongoRepository(db)
	postRepository := post.NewMongoRepository(db)
	userRepository := user.NewMongoRepository(db)

	tagService := tag.NewService(tagRepository, log)
	categoryService := category.NewService(categoryRepository, tagRepository, log)
	postService := post.NewService(postRepository, categoryRepository, tagRepository, thumbnails, log)
	userService := user.NewService(userRepository, postRepository, log)

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Post:      post.NewHandler(postService),
		Category:  category.NewHandler(categoryService),
		Tag:       tag.NewHandler(tagService),
		User:      user.NewHandler(userService),
		Images:    imageproxy.NewHandler(thumbnails),
	})

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		return
	}

	log.Info("server stopped cleanly")
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String(constants.FieldApp, constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
