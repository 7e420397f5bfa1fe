package main

import (
	"context"
	"log"

	"github.com/dhima/recipe-list-platform/internal/api"
	"github.com/dhima/recipe-list-platform/internal/app"
	"github.com/dhima/recipe-list-platform/internal/logging"
	"github.com/dhima/recipe-list-platform/pkg/config"
	"go.uber.org/zap"
)

// @title Recipe List Platform API
// @version 1.0
// @description Saved recipe management. Every list, update and removal publishes a recipe list event.
// @description
// @description Events are fanned out in process and forwarded to Kafka and Redis pub/sub when configured.

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(logging.Options{
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
		Encoding:    cfg.LogEncoding,
	})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to wire application", zap.Error(err))
	}
	a.Start(ctx)

	srv := api.NewServer(a)
	if err := srv.Serve(); err != nil {
		logger.Error("api server stopped", zap.Error(err))
	}

	if err := a.Close(); err != nil {
		logger.Error("failed to close application", zap.Error(err))
	}
}
