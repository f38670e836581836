package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/daybook-app/daybook-api/internal/bootstrap"
	"github.com/daybook-app/daybook-api/internal/data"
	"github.com/daybook-app/daybook-api/internal/service"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger(slog.LevelInfo)
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	logger = bootstrap.InitLogger(cfg.SlogLevel())

	logger.InfoContext(ctx, "starting daybook api",
		"env", cfg.Env,
		"auth_mode", cfg.Auth.Mode,
		"db_host", cfg.Postgres.Host,
		"db_name", cfg.Postgres.Name,
	)

	pool, err := bootstrap.ConnectDB(ctx, cfg.Postgres, logger)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer pool.Close()

	redisClient, err := bootstrap.ConnectRedis(ctx, cfg.Redis, logger)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer func() {
			if cerr := redisClient.Close(); cerr != nil {
				logger.ErrorContext(ctx, "close redis failed", "error", cerr)
			}
		}()
	}

	authSvc, err := bootstrap.BuildAuthService(ctx, bootstrap.AuthDeps{
		Auth:        cfg.Auth,
		RedisClient: redisClient,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("build auth service: %w", err)
	}

	entrySvc := service.NewEntryService(data.NewEntryRepo(pool))

	metricsClient, err := bootstrap.BuildMetrics(cfg.Statsd, cfg.Env, logger)
	if err != nil {
		return fmt.Errorf("build metrics: %w", err)
	}
	defer func() {
		if cerr := metricsClient.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close statsd failed", "error", cerr)
		}
	}()

	server, err := bootstrap.BuildHTTPServer(bootstrap.HTTPServerDeps{
		Config:  &cfg,
		Auth:    authSvc,
		Entries: entrySvc,
		Metrics: metricsClient,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	return bootstrap.RunServer(ctx, server, logger)
}
