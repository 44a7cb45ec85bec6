package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"rentbook/internal/amqp"
	"rentbook/internal/config"
	"rentbook/internal/log"
	"rentbook/internal/services"
	"rentbook/internal/sheets"
	gsheet "rentbook/internal/sheets/google"
	mem "rentbook/internal/sheets/memory"
	"rentbook/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	logger.Info("Starting rentbook-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository",
			log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var mirror sheets.SnapshotMirror
	switch cfg.MirrorBackend {
	case "google":
		client, err := gsheet.NewFromEnv(ctx)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
			os.Exit(1)
		}
		mirror = client
		logger.Info("Google Sheets mirror initialized",
			"spreadsheet_id", cfg.GoogleSpreadsheetID)
	default:
		mirror = mem.New()
		logger.Info("In-memory mirror initialized", "backend", cfg.MirrorBackend)
	}

	processor := services.NewSnapshotSyncProcessor(repo, mirror, logger)

	// Catch up on anything that went dirty while the worker was down.
	if count, err := processor.ProcessDirtySnapshots(ctx, cfg.MirrorBatchSize); err != nil {
		logger.Error("Startup backfill failed", log.FieldError, err)
	} else if count > 0 {
		logger.Info("Startup backfill complete", log.FieldCount, count)
	}

	g, ctx := errgroup.WithContext(ctx)

	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
		defer amqpClient.Close()

		g.Go(func() error {
			return amqpClient.ConsumeSnapshotChanged(ctx, func(msg *amqp.SnapshotChangedMessage) error {
				return processor.HandleSnapshotChanged(ctx, msg.Domain)
			})
		})
		logger.Info("Consuming snapshot change messages", "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - relying on the periodic backfill only")
	}

	g.Go(func() error {
		ticker := time.NewTicker(cfg.MirrorInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				count, err := processor.ProcessDirtySnapshots(ctx, cfg.MirrorBatchSize)
				if err != nil {
					logger.Error("Periodic backfill failed", log.FieldError, err)
					continue
				}
				if count > 0 {
					logger.Info("Periodic backfill complete", log.FieldCount, count)
				}
			}
		}
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("Worker stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Rentbook-worker shutdown complete")
}
