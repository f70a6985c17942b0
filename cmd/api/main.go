// Package main is the entry point for the covoiturage API server.
// Its sole responsibility is wiring dependencies together and starting the
// server. No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/ibarry/covoiturage/internal/config"
	"github.com/ibarry/covoiturage/internal/handler"
	"github.com/ibarry/covoiturage/internal/middleware"
	"github.com/ibarry/covoiturage/internal/notify"
	"github.com/ibarry/covoiturage/internal/repo"
	"github.com/ibarry/covoiturage/internal/service"
)

func main() {
	// --- Config -----------------------------------------------------------
	// .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	// pgxpool manages a pool of Postgres connections.
	// New() does not open connections immediately — the first query does.
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	// --- Notifications ----------------------------------------------------
	var notifier service.Notifier
	if cfg.AMQPURL != "" {
		amqpNotifier, err := notify.NewAMQPNotifier(cfg.AMQPURL)
		if err != nil {
			// Notifications are best-effort; a dead broker at boot must not
			// keep riders from booking seats.
			slog.Warn("amqp unavailable, falling back to log notifications", "error", err)
			notifier = notify.NewLogNotifier(logger)
		} else {
			defer amqpNotifier.Close()
			notifier = amqpNotifier
			slog.Info("amqp notifier connected")
		}
	} else {
		notifier = notify.NewLogNotifier(logger)
	}

	// --- Repositories and services ----------------------------------------
	drivers := repo.NewDriverRepo(pool)
	trips := repo.NewTripRepo(pool)
	reservations := repo.NewReservationRepo(pool)
	stats := repo.NewStatisticRepo(pool)

	driverSvc := service.NewDriverService(drivers)
	tripSvc := service.NewTripService(trips, reservations)
	reservationSvc := service.NewReservationService(trips, drivers, reservations, notifier, logger)
	dashboardSvc := service.NewDashboardService(trips, reservations, stats)
	archiveSvc := service.NewArchiveService(trips, stats, cfg.RetentionDays, logger)

	// --- Rate limiter ------------------------------------------------------
	var rateLimit func(http.Handler) http.Handler
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		rateLimit = middleware.NewRateLimiter(rdb, middleware.RateLimitConfig{
			Capacity:       cfg.RateLimitCapacity,
			RefillTokens:   cfg.RateLimitRefill,
			RefillInterval: time.Second,
			TTL:            10 * time.Minute,
		}, logger)
		slog.Info("reservation rate limiter enabled", "redis", cfg.RedisAddr)
	}

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer.
	// RequestID generates a unique trace ID per request.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe behind a proxy).
	// SlogLogger writes one structured JSON log line per request.
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(1 << 20)) // 1 MiB

	server := handler.NewServer(driverSvc, tripSvc, reservationSvc, dashboardSvc, logger)
	r.Mount("/", server.Routes(rateLimit))

	// --- In-process archival sweep -----------------------------------------
	// Optional; production deployments usually run cmd/archiver from cron
	// instead so exactly one instance sweeps.
	archiveCtx, stopArchive := context.WithCancel(context.Background())
	defer stopArchive()
	if cfg.ArchiveInterval > 0 {
		go runArchiveLoop(archiveCtx, archiveSvc, cfg.ArchiveInterval, logger)
	}

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")
	stopArchive()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// runArchiveLoop runs the archival sweep every interval until ctx is
// cancelled. Errors are logged; the loop never stops on its own.
func runArchiveLoop(ctx context.Context, svc *service.ArchiveService, interval time.Duration, log *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("archive sweep enabled", "interval", interval.String())
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			report, err := svc.Run(ctx)
			if err != nil {
				log.Error("archive sweep finished with errors",
					"archived", report.Archived, "purged", report.Purged, "error", err)
				continue
			}
			log.Info("archive sweep finished", "archived", report.Archived, "purged", report.Purged)
		}
	}
}
