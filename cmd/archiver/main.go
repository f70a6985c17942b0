// Package main is the one-shot archival command. It converts departed
// trips into statistics and purges statistics past the retention window,
// then exits. Run it from cron or a scheduler; the sweep is idempotent,
// so overlapping or repeated runs are harmless.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/ibarry/covoiturage/internal/config"
	"github.com/ibarry/covoiturage/internal/repo"
	"github.com/ibarry/covoiturage/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	svc := service.NewArchiveService(
		repo.NewTripRepo(pool),
		repo.NewStatisticRepo(pool),
		cfg.RetentionDays,
		logger,
	)

	report, err := svc.Run(ctx)
	if err != nil {
		logger.Error("archive run finished with errors",
			"archived", report.Archived, "purged", report.Purged, "error", err)
		os.Exit(1)
	}
	logger.Info("archive run finished", "archived", report.Archived, "purged", report.Purged)
}
