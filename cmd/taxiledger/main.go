package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"taxiledger/internal/amqp"
	"taxiledger/internal/assistant"
	"taxiledger/internal/backend"
	"taxiledger/internal/cache"
	"taxiledger/internal/calendar"
	"taxiledger/internal/cli"
	apphttp "taxiledger/internal/http"
	"taxiledger/internal/ledger"
	"taxiledger/internal/log"
	"taxiledger/internal/services"
)

const reportCacheSize = 64

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)
	ctx := context.Background()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	stores, err := backend.NewFactory(logger).CreateStore(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize record store", log.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	system, err := calendar.Parse(cfg.LedgerCalendar)
	if err != nil {
		logger.Error("Invalid ledger calendar", log.FieldError, err)
		os.Exit(1)
	}
	clock := calendar.NewClock(system)

	// Publishing is optional; without a broker the mirror is only refreshed
	// by the worker's periodic export.
	var publisher services.EventPublisher
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without events", log.FieldError, err)
		} else {
			publisher = amqpClient
			logger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	extractor, closeExtractor, err := assistant.New(ctx, assistant.Config{
		Provider:      cfg.AssistantProvider,
		GeminiAPIKey:  cfg.GeminiAPIKey,
		GeminiModel:   cfg.GeminiModel,
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
		OpenAIModel:   cfg.OpenAIModel,
	})
	if err != nil {
		logger.Error("Failed to initialize line-item assistant", log.FieldError, err, log.FieldProvider, cfg.AssistantProvider)
		os.Exit(1)
	}

	cacheManager := cache.NewManager(logger)
	var reportCache cache.Cache[ledger.Report]
	if cfg.ReportCacheTTL > 0 {
		lru := cache.NewLRUCache[ledger.Report](reportCacheSize, cfg.ReportCacheTTL)
		cacheManager.Register(lru)
		cacheManager.StartCleanup(cfg.ReportCacheTTL)
		reportCache = lru
	}

	store := stores.Store
	reports := services.NewReportService(store, clock, reportCache, logger)
	svc := apphttp.Services{
		Expenses:  services.NewExpenseService(store, publisher, reports, logger),
		Reports:   reports,
		Invoices:  services.NewInvoiceService(store, extractor, clock, logger),
		Customers: services.NewCustomerService(store, logger),
		Backup:    services.NewBackupService(store, reports, logger),
		Clock:     clock,
	}

	serverCfg := apphttp.DefaultConfig()
	serverCfg.Ready = stores.Ready
	srv := apphttp.NewServer(":"+cfg.Port, svc, serverCfg, logger)

	shutdownCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		cacheManager.Stop()
		if err := closeExtractor(); err != nil {
			logger.Warn("Failed to close assistant", log.FieldError, err)
		}
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Warn("Failed to close AMQP client", log.FieldError, err)
			}
		}
		if stores.Cleanup != nil {
			if err := stores.Cleanup(); err != nil {
				logger.Warn("Failed to close record store", log.FieldError, err)
			}
		}
	})

	logger.Info("Starting taxiledger server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"calendar", string(system),
		log.FieldProvider, cfg.AssistantProvider,
		"amqp_enabled", publisher != nil)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(shutdownCtx, done)
	logger.Info("Server stopped gracefully")
}
