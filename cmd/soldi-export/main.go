package main

import (
	"context"
	"errors"
	"os"
	"time"

	"soldi/internal/amqp"
	"soldi/internal/cli"
	"soldi/internal/export"
)

// soldi-export consumes record-change events from the broker and
// appends newly inserted transactions to a Google Sheet. It runs
// alongside the main server when exports should live in their own
// process.
func main() {
	logger := cli.SetupLogger()
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the export worker")
		os.Exit(1)
	}

	broker, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", "error", err)
		os.Exit(1)
	}
	defer broker.Close()

	store := cli.InitStore(logger, cfg.SQLiteDBPath, nil)
	defer store.Close()

	appender, err := export.NewSheetsFromEnv(context.Background())
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	worker := export.NewWorker(broker, store, appender)
	logger.Info("Starting sheets export worker", "queue", cfg.AMQPQueue)
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Export worker error", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Stopped gracefully")
}
