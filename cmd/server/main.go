package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"cohortcompare/internal/ingest"
	"cohortcompare/internal/platform/config"
	"cohortcompare/internal/platform/httpserver"
	"cohortcompare/internal/platform/logger"
	"cohortcompare/internal/platform/metrics"
	"cohortcompare/internal/platform/middleware"
	"cohortcompare/internal/platform/redis"
	"cohortcompare/internal/reconcile"
	"cohortcompare/internal/report"
	"cohortcompare/internal/store"
	httptransport "cohortcompare/internal/transport/http"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal services packages.
func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	log := logger.New(parseLevel(cfg.LogLevel))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		runs  store.RunStore
		discs store.DiscrepancyStore
	)
	if cfg.DatabaseURL != "" {
		db, err := store.Open(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()
		if err := store.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		runs = store.NewPostgresRunStore(db)
		discs = store.NewPostgresDiscrepancyStore(db)
	} else {
		log.Warn("no database configured, run history is kept in memory")
		runs = store.NewInMemoryRunStore()
		discs = store.NewInMemoryDiscrepancyStore()
	}

	aliases, err := ingest.LoadAliases(cfg.ColumnAliasPath)
	if err != nil {
		return fmt.Errorf("load column aliases: %w", err)
	}
	reader := ingest.NewReader(
		ingest.WithAliases(aliases),
		ingest.WithLogger(log),
	)

	opts := []reconcile.Option{
		reconcile.WithReader(reader),
		reconcile.WithMetrics(metrics.New()),
		reconcile.WithLogger(log),
	}

	redisClient, err := redis.New(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		opts = append(opts, reconcile.WithSummaryCache(
			reconcile.NewRedisSummaryCache(redisClient, cfg.SummaryTTL),
		))
	}

	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := report.NewKafkaPublisher(ctx, cfg.KafkaBrokers, cfg.KafkaTopic, log)
		if err != nil {
			return fmt.Errorf("connect kafka: %w", err)
		}
		defer publisher.Close()
		opts = append(opts, reconcile.WithPublisher(publisher))
	}

	service, err := reconcile.New(runs, discs, opts...)
	if err != nil {
		return fmt.Errorf("build reconcile service: %w", err)
	}

	handler := httptransport.NewHandler(service, httptransport.ExtractPaths{
		CAAS: cfg.CAASExtractPath,
		BSS:  cfg.BSSExtractPath,
	}, log)
	auth := middleware.NewAuthenticator(cfg.JWTSigningKey, cfg.APIKeyHash, log)
	router := httptransport.NewRouter(handler, auth, cfg.RunsPerMinute)

	srv := httpserver.New(cfg.Addr, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting cohortcompare", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
