package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"soldi/internal/amqp"
	"soldi/internal/cli"
	"soldi/internal/export"
	apphttp "soldi/internal/http"
	"soldi/internal/prefs"
	"soldi/internal/services"
	"soldi/internal/storage"
)

func main() {
	logger := cli.SetupLogger()
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(logger)

	// The AMQP mirror is optional: with no URL configured the store
	// simply skips publishing.
	var events storage.EventPublisher
	var broker *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		broker, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to connect to AMQP", "error", err)
			os.Exit(1)
		}
		defer broker.Close()
		events = broker
	}

	store := cli.InitStore(logger, cfg.SQLiteDBPath, events)
	defer store.Close()

	preferences, err := prefs.Open(cfg.PrefsPath)
	if err != nil {
		logger.Error("Failed to open preferences", "error", err, "path", cfg.PrefsPath)
		os.Exit(1)
	}

	records := services.NewRecordService(store)
	summary := services.NewSummaryService(store)
	loans := services.NewLoanService(store)

	srv := apphttp.NewServer(":"+cfg.Port, records, summary, loans, preferences, logger)

	rootCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	g, ctx := errgroup.WithContext(rootCtx)

	g.Go(func() error {
		logger.Info("Starting soldi server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.ExportEnabled {
		g.Go(func() error {
			appender, err := export.NewSheetsFromEnv(ctx)
			if err != nil {
				return err
			}
			worker := export.NewWorker(broker, store, appender)
			logger.Info("Starting sheets export worker", "queue", cfg.AMQPQueue)
			return worker.Run(ctx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Runtime error", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(rootCtx, done)
	logger.Info("Stopped gracefully")
}
