package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tuanngo-dev/backend-delivery/internal/catalog"
	"github.com/tuanngo-dev/backend-delivery/internal/config"
	"github.com/tuanngo-dev/backend-delivery/internal/lock"
	"github.com/tuanngo-dev/backend-delivery/internal/obs"
	"github.com/tuanngo-dev/backend-delivery/internal/tasks"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("component", "worker").Logger()

	obs.MustRegisterDomainMetrics(envOrDefault("OBS_METRICS_NAMESPACE", "delivery"), nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool := mustInitDatabase(ctx, cfg, logger)
	defer pool.Close()

	redisClient, redisOpts := mustInitRedis(ctx, cfg, logger)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()

	catalogSvc, err := catalog.NewService(catalog.ServiceConfig{
		Store:  catalog.PGStore{Pool: pool},
		Cache:  catalog.NewCache(redisClient, cfg.CatalogCacheTTL),
		Logger: logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise catalog service")
	}

	worker := &tasks.CatalogWorker{
		Catalog:   catalogSvc,
		BatchSize: cfg.WarmupBatchSize,
		Lock:      &lock.Locker{R: redisClient},
		Logger:    logger,
	}

	mux := asynq.NewServeMux()
	worker.Register(mux)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisOpts.Addr, Password: redisOpts.Password, DB: redisOpts.DB},
		asynq.Config{
			Concurrency: cfg.QueueConcurrency,
			Logger:      asynqLogger{logger},
		},
	)

	// warm the catalog cache once on boot
	client := asynq.NewClient(asynq.RedisClientOpt{Addr: redisOpts.Addr, Password: redisOpts.Password, DB: redisOpts.DB})
	if err := (tasks.Enqueuer{Client: client}).EnqueueWarmup(ctx); err != nil {
		logger.Warn().Err(err).Msg("enqueue initial warmup")
	}
	if err := client.Close(); err != nil {
		logger.Error().Err(err).Msg("close task client")
	}

	logger.Info().Int("concurrency", cfg.QueueConcurrency).Msg("worker starting")
	if err := srv.Start(mux); err != nil {
		logger.Fatal().Err(err).Msg("start worker")
	}

	<-ctx.Done()
	srv.Shutdown()
	logger.Info().Msg("worker stopped")
}

func mustInitDatabase(ctx context.Context, cfg *config.Config, logger zerolog.Logger) *pgxpool.Pool {
	initCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse database config")
	}
	poolConfig.ConnConfig.Tracer = obs.PGXTracer{}
	pool, err := pgxpool.NewWithConfig(initCtx, poolConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	if err := pool.Ping(initCtx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}
	return pool
}

func mustInitRedis(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*redis.Client, *redis.Options) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	client := redis.NewClient(opts)
	if err := redisotel.InstrumentTracing(client); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}
	return client, opts
}

// asynqLogger adapts zerolog to asynq's logging interface.
type asynqLogger struct {
	l zerolog.Logger
}

func (a asynqLogger) Debug(args ...interface{}) { a.l.Debug().Msgf("%v", args) }
func (a asynqLogger) Info(args ...interface{})  { a.l.Info().Msgf("%v", args) }
func (a asynqLogger) Warn(args ...interface{})  { a.l.Warn().Msgf("%v", args) }
func (a asynqLogger) Error(args ...interface{}) { a.l.Error().Msgf("%v", args) }
func (a asynqLogger) Fatal(args ...interface{}) { a.l.Fatal().Msgf("%v", args) }

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}
