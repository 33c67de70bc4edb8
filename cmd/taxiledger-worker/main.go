package main

import (
	"context"
	"errors"
	"os"
	"time"

	"taxiledger/internal/amqp"
	"taxiledger/internal/backend"
	"taxiledger/internal/cli"
	"taxiledger/internal/log"
	"taxiledger/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	logger.Info("Starting taxiledger-worker")
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.DataBackend != string(backend.SQLiteBackend) {
		logger.Warn("Worker is not sharing a database with the server; the mirror will only see this process's records",
			"backend", cfg.DataBackend)
	}

	factory := backend.NewFactory(logger)
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	// The server owns category seeding.
	backendCfg.SeedDefaults = false

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, err := factory.CreateStore(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize record store", log.FieldError, err)
		os.Exit(1)
	}
	defer stores.Cleanup()

	mirror, err := factory.CreateMirror(ctx, backend.MirrorFromAppConfig(cfg))
	if err != nil {
		logger.Error("Failed to initialize expense mirror", log.FieldError, err)
		os.Exit(1)
	}

	syncWorker := worker.NewSyncWorker(stores.Store, mirror, cfg.SyncInterval, logger)
	if err := syncWorker.Start(ctx); err != nil {
		logger.Error("Failed to start sync worker", log.FieldError, err)
		os.Exit(1)
	}

	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
		go func() {
			if err := amqpClient.ConsumeWithRetry(ctx, syncWorker.HandleEvent); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Message consumption failed", log.FieldError, err)
			}
		}()
		logger.Info("Consuming expense events", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("No AMQP_URL provided, relying on periodic export only", "interval", cfg.SyncInterval)
	}

	shutdownCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func(stopCtx context.Context) {
		cancel()
		if err := syncWorker.Stop(stopCtx); err != nil {
			logger.Warn("Sync worker did not stop cleanly", log.FieldError, err)
		}
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Warn("Failed to close AMQP client", log.FieldError, err)
			}
		}
	})
	cli.WaitForShutdown(shutdownCtx, done)
	logger.Info("Worker shutdown complete")
}
