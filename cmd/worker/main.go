package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/quoteroom/quoteroom/internal/app"
	jobmetrics "github.com/quoteroom/quoteroom/internal/jobs"
	"github.com/quoteroom/quoteroom/internal/platform/storage"
	"github.com/quoteroom/quoteroom/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	if !cfg.StorageConfigured() {
		logger.Error("object storage not configured, nothing to clean up")
		os.Exit(1)
	}
	store, err := storage.NewS3(ctx, cfg.Storage())
	if err != nil {
		logger.Error("init object storage", slog.Any("error", err))
		os.Exit(1)
	}
	assets := storage.NewAssets(store, cfg.PublicDir, nil, logger)

	cleanupJob := jobs.NewStorageCleanupJob(assets, logger, jobmetrics.NewMetrics(nil))

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskStorageCleanup, Handler: cleanupJob.Handle},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("starting worker", slog.String("redis", cfg.RedisAddr))
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
