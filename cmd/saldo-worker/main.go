package main

import (
	"context"
	"errors"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"saldo/internal/amqp"
	"saldo/internal/cli"
	"saldo/internal/config"
	"saldo/internal/log"
	"saldo/internal/metrics"
	"saldo/internal/sheets"
	gsheet "saldo/internal/sheets/google"
	"saldo/internal/sheets/memory"
	"saldo/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg, logger := cli.LoadAndValidateConfig(log.ComponentWorker, (*config.Config).ValidateWorker)
	logger.Info("Starting saldo-worker")

	ctx, stop := cli.ShutdownContext(logger)
	defer stop()

	be := cli.InitBackend(ctx, logger, cfg)
	defer be.Cleanup()

	var writer sheets.MonthWriter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.New(ctx, cfg.GoogleSpreadsheetID)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		writer = client
		logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		writer = memory.New()
		logger.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided, exporting to memory")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	wcfg := worker.DefaultConfig()
	wcfg.RefreshInterval = cfg.ExportInterval
	w := worker.NewExportWorker(be.Store, writer, metrics.New(prometheus.DefaultRegisterer), logger, wcfg)

	if err := w.StartupExport(ctx); err != nil {
		logger.LogError(ctx, "Startup export failed", err, log.OpStartup, nil)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.ConsumeLedgerChanged(gctx, w.HandleLedgerChanged)
	})
	g.Go(func() error {
		return w.Run(gctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.LogError(context.Background(), "Worker stopped with error", err, log.OpShutdown, nil)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}
