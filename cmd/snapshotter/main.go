package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/dhima/recipe-list-platform/internal/app"
	"github.com/dhima/recipe-list-platform/internal/logging"
	"github.com/dhima/recipe-list-platform/internal/scheduler"
	"github.com/dhima/recipe-list-platform/pkg/config"
	"go.uber.org/zap"
)

// snapshotter periodically posts a full READ snapshot of the saved recipes
// to the configured sinks.
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to wire application", zap.Error(err))
	}
	a.Start(context.Background())
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error("failed to close application", zap.Error(err))
		}
	}()

	engine, err := scheduler.NewEngine(time.Second, cfg.SnapshotCron, cfg.SnapshotTimezone, a.RecipeList, logger)
	if err != nil {
		logger.Error("invalid snapshot schedule",
			zap.String("cron", cfg.SnapshotCron),
			zap.String("timezone", cfg.SnapshotTimezone),
			zap.Error(err))
		return
	}

	if err := engine.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("snapshot scheduler stopped", zap.Error(err))
	}
}
