package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/quantpulse/polygon-data/internal/api"
	"github.com/quantpulse/polygon-data/internal/bus"
	"github.com/quantpulse/polygon-data/internal/config"
	"github.com/quantpulse/polygon-data/internal/coverage"
	"github.com/quantpulse/polygon-data/internal/export"
	"github.com/quantpulse/polygon-data/internal/httpapi"
	"github.com/quantpulse/polygon-data/internal/ingest"
	"github.com/quantpulse/polygon-data/internal/model"
	"github.com/quantpulse/polygon-data/internal/state"
	"github.com/quantpulse/polygon-data/internal/store"
	"github.com/quantpulse/polygon-data/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/ingestd.local.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting ingestd",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"api_url", cfg.API.BaseURL,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to database
	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)

	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := store.EnsureSchema(ctx, pool); err != nil {
		logger.Error("failed to apply schema", "error", err)
		os.Exit(1)
	}
	logger.Info("database connected")

	// Connect to the state store
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Error("failed to connect to redis", "error", err, "addr", cfg.Redis.Addr)
		os.Exit(1)
	}
	defer rdb.Close()
	logger.Info("state store connected", "addr", cfg.Redis.Addr)

	// Create API client
	apiClient := api.NewClient(
		cfg.API.BaseURL,
		cfg.API.APIKey,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout.Std()),
		api.WithRetries(cfg.API.MaxRetries, time.Second),
	)

	stateStore := state.NewRedisStore(rdb)
	tracker := coverage.NewTracker(stateStore)
	tickers := store.NewTickerStore(pool)
	aggs := store.NewAggregationStore(pool)
	completions := bus.NewRedisBus(rdb, cfg.Bus.Channel, logger)

	startDate, err := model.ParseDate(cfg.Backfill.StartDate)
	if err != nil {
		logger.Error("invalid start_date", "error", err)
		os.Exit(1)
	}
	migrationDate, err := model.ParseDate(cfg.Backfill.MigrationDate)
	if err != nil {
		logger.Error("invalid migration_date", "error", err)
		os.Exit(1)
	}
	policy := ingest.WindowPolicy{StartDate: startDate, MigrationDate: migrationDate}

	discovery := ingest.NewDiscovery(apiClient, stateStore, tickers,
		cfg.Discovery.PageLimit, cfg.Discovery.RediscoverAfter.Std(), logger)
	backfill := ingest.NewBackfill(apiClient, tracker, tickers, aggs, policy, logger)

	runner := ingest.NewRunner(ctx, logger)
	if err := runner.Add("discovery", cfg.Discovery.Interval.Std(), discovery.RunCycle); err != nil {
		logger.Error("failed to schedule discovery", "error", err)
		os.Exit(1)
	}
	if err := runner.Add("backfill", cfg.Backfill.Interval.Std(), backfill.RunCycle); err != nil {
		logger.Error("failed to schedule backfill", "error", err)
		os.Exit(1)
	}

	exporter := export.NewExporter(tickers, aggs, completions, cfg.Server.ArtifactDir, logger)
	handler := httpapi.NewHandler(tickers, aggs, exporter, cfg.Server.ArtifactDir, logger)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: httpapi.NewRouter(handler, logger),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "port", cfg.Server.Port)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	runner.Start()
	logger.Info("ingestd running",
		"instance_id", cfg.Instance.ID,
		"discovery_interval", cfg.Discovery.Interval.Std(),
		"backfill_interval", cfg.Backfill.Interval.Std(),
	)

	<-ctx.Done()
	logger.Info("shutting down...")

	runner.Stop()
	if err := g.Wait(); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("ingestd stopped")
}
