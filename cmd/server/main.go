package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/quantive/execengine/internal/config"
	"github.com/quantive/execengine/internal/core/ports"
	"github.com/quantive/execengine/internal/core/services/execution"
	"github.com/quantive/execengine/internal/handlers"
	pgstore "github.com/quantive/execengine/internal/infrastructure/postgres"
	redisstore "github.com/quantive/execengine/internal/infrastructure/redis"
	"github.com/quantive/execengine/internal/logging"
	"github.com/quantive/execengine/internal/server"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()

	logger, err := logging.NewLogger(cfg.Log, cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("Starting execution planning server...")

	ctx := context.Background()

	// Optional storage backends. The planning core works without either;
	// persistence and snapshot caching are enabled by configuration.
	var (
		dbPool      *pgxpool.Pool
		redisClient *redis.Client
	)

	g, pingCtx := errgroup.WithContext(ctx)

	if cfg.Database.Host != "" {
		dbURL := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
			cfg.Database.User, cfg.Database.Password,
			cfg.Database.Host, cfg.Database.Port,
			cfg.Database.Name, cfg.Database.SSLMode)

		dbPool, err = pgxpool.New(ctx, dbURL)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer dbPool.Close()

		g.Go(func() error {
			return dbPool.Ping(pingCtx)
		})
	}

	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() {
			_ = redisClient.Close()
		}()

		g.Go(func() error {
			return redisClient.Ping(pingCtx).Err()
		})
	}

	if err := g.Wait(); err != nil {
		logger.Fatal("Backend connectivity check failed", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	metrics := execution.NewMetrics(registry)

	opts := []execution.ServiceOption{
		execution.WithMetrics(metrics),
	}

	if dbPool != nil {
		logger.Info("Plan persistence enabled")
		if err := runMigrations(ctx, dbPool); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
		opts = append(opts, execution.WithPlanRepository(pgstore.NewPlanRepository(dbPool)))
	}

	var snapshotCache ports.SnapshotCache
	if redisClient != nil {
		logger.Info("Snapshot cache enabled", zap.Duration("ttl", cfg.Redis.SnapshotTTL))
		snapshotCache = redisstore.NewSnapshotCacheWithClient(redisClient, cfg.Redis.SnapshotTTL)
	}

	svc := execution.NewService(logger, opts...)
	queueManager := execution.NewOrderQueueManager(execution.NewQueueModel())

	executionHandler := handlers.NewExecutionHandler(svc, queueManager, snapshotCache, logger)

	httpServer := server.New(cfg, &server.Services{
		ExecutionHandler: executionHandler,
		MetricsRegistry:  registry,
	}, logger)
	httpServer.Setup()

	if err := httpServer.Start(); err != nil {
		logger.Fatal("Server failed to start", zap.Error(err))
	}
}

func runMigrations(ctx context.Context, db *pgxpool.Pool) error {
	query := `
	CREATE TABLE IF NOT EXISTS execution_plans (
		id UUID PRIMARY KEY,
		symbol VARCHAR(32) NOT NULL,
		strategy VARCHAR(16) NOT NULL,
		schedule JSONB NOT NULL DEFAULT '{}',
		estimated_completion_minutes DOUBLE PRECISION NOT NULL,
		recommended_order_type VARCHAR(16) NOT NULL,
		reasoning TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_execution_plans_symbol_created
		ON execution_plans (symbol, created_at DESC);
	`

	migCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := db.Exec(migCtx, query); err != nil {
		return fmt.Errorf("failed to create execution_plans table: %w", err)
	}

	return nil
}
