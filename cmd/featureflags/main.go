package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vultisig/featureflags/config"
	"github.com/vultisig/featureflags/internal/api"
	"github.com/vultisig/featureflags/internal/flagstore"
	"github.com/vultisig/featureflags/internal/health"
	"github.com/vultisig/featureflags/internal/logging"
	"github.com/vultisig/featureflags/internal/metrics"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.ReadConfig()
	if err != nil {
		panic(fmt.Errorf("config.ReadConfig: %w", err))
	}

	logger, err := logging.NewLogger(cfg.LogFormat, cfg.LogLevel, os.Stdout)
	if err != nil {
		panic(fmt.Errorf("logging.NewLogger: %w", err))
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatalf("feature flags service failed: %v", err)
	}
	logger.Info("feature flags service stopped")
}

func run(ctx context.Context, cfg *config.FeatureFlagsConfig, logger *logrus.Logger) error {
	seed := flagstore.DefaultSeed()
	if cfg.SeedFile != "" {
		var err error
		seed, err = flagstore.LoadSeed(cfg.SeedFile)
		if err != nil {
			return fmt.Errorf("flagstore.LoadSeed: %w", err)
		}
	}

	store, err := flagstore.New(seed)
	if err != nil {
		return fmt.Errorf("flagstore.New: %w", err)
	}
	logger.WithField("flags", store.Len()).Info("flag store seeded")

	var (
		flagMetrics metrics.FlagMetrics
		httpMetrics *metrics.HTTPMetrics
	)

	eg, ctx := errgroup.WithContext(ctx)

	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		metrics.RegisterMetrics([]string{metrics.ServiceHTTP, metrics.ServiceStore}, registry, logger)

		storeMetrics := metrics.NewStoreMetrics()
		flagMetrics = storeMetrics
		httpMetrics = metrics.NewHTTPMetrics()

		collector := metrics.NewFlagStoreCollector(store, storeMetrics, logger, cfg.Metrics.CollectInterval)
		collector.Start()
		defer collector.Stop()

		metricsServer := metrics.NewServer(cfg.Metrics, logger, registry)
		eg.Go(func() error {
			return metricsServer.Run(ctx)
		})
	} else {
		logger.Info("Metrics server disabled")
	}

	if cfg.HealthPort > 0 {
		healthServer := health.New(cfg.HealthPort, health.StoreCheck(store, time.Second), logger)
		eg.Go(func() error {
			return healthServer.Run(ctx)
		})
	}

	server := api.NewServer(cfg.Server, store, logger, flagMetrics, httpMetrics)
	eg.Go(func() error {
		return server.Start(ctx)
	})

	return eg.Wait()
}
