package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"saldo/internal/amqp"
	"saldo/internal/cache"
	"saldo/internal/cli"
	"saldo/internal/config"
	"saldo/internal/core"
	apphttp "saldo/internal/http"
	"saldo/internal/log"
	"saldo/internal/metrics"
	"saldo/internal/services"
)

const (
	viewCacheTTL    = 10 * time.Minute
	shutdownTimeout = 30 * time.Second
)

func main() {
	cli.LoadEnvFile()
	cfg, logger := cli.LoadAndValidateConfig(log.ComponentApp, (*config.Config).Validate)

	ctx, stop := cli.ShutdownContext(logger)
	defer stop()

	be := cli.InitBackend(ctx, logger, cfg)
	defer func() {
		if err := be.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", "error", err)
		}
	}()

	m := metrics.New(prometheus.DefaultRegisterer)

	opts := services.Options{
		Metrics:     m,
		Logger:      logger,
		SaveTimeout: cfg.SaveTimeout,
	}

	// Change events are optional; the app keeps working without a broker.
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without change events", "error", err)
		} else {
			defer client.Close()
			opts.Publisher = client
			logger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	views := cache.NewLRUCache[core.MonthView](cfg.ViewCacheSize, viewCacheTTL)
	opts.ViewCache = views
	cacheManager := cache.NewManager()
	cacheManager.Register(views)
	cacheManager.StartCleanup(viewCacheTTL)
	defer cacheManager.Stop()

	svc, err := services.Open(ctx, be.Store, opts)
	if err != nil {
		logger.Error("Failed to open ledger", "error", err)
		os.Exit(1)
	}

	srv := apphttp.NewServer(":"+cfg.Port, svc, apphttp.Options{
		Logger:  logger,
		Ready:   be.Ready,
		Metrics: m,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting saldo server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		if err := svc.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		logger.LogError(context.Background(), "Server stopped with error", err, log.OpShutdown, nil)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
