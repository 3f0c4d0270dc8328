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
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"coverflow/internal/audit"
	"coverflow/internal/booking"
	"coverflow/internal/insurer/client"
	"coverflow/internal/insurer/token"
	"coverflow/internal/platform/config"
	"coverflow/internal/platform/httpserver"
	"coverflow/internal/platform/logger"
	"coverflow/internal/platform/metrics"
	"coverflow/internal/platform/middleware"
	platformredis "coverflow/internal/platform/redis"
	"coverflow/internal/submission/handler"
	"coverflow/internal/submission/service"
	"coverflow/internal/submission/store"
)

// syncInterval paces the background reconciliation sweep. Individual
// submissions can still be synced on demand through the API.
const (
	syncInterval        = 5 * time.Minute
	syncBatchLimit      = 100
	syncConcurrency     = 4
	shutdownGracePeriod = 10 * time.Second
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Error("invalid configuration", "error", err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		subStore     store.Store
		bookingStore booking.Store
		auditStore   audit.Store
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("database pool setup failed", "error", err.Error())
			os.Exit(1)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			log.Error("database unreachable", "error", err.Error())
			os.Exit(1)
		}
		subStore = store.NewPostgres(pool)
		bookingStore = booking.NewPostgres(pool)
		auditStore = audit.NewPostgresStore(pool)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		subStore = store.NewInMemory()
		bookingStore = booking.NewInMemory()
		auditStore = audit.NewInMemoryStore()
	}

	var tokenStore token.Store = token.NewMemoryStore()
	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis setup failed", "error", err.Error())
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		tokenStore = token.NewRedisStore(redisClient)
	}

	var publisher audit.Publisher
	if len(cfg.AuditKafkaBrokers) > 0 {
		kafkaPublisher, err := audit.NewKafkaPublisher(cfg.AuditKafkaBrokers, cfg.AuditKafkaTopic, log)
		if err != nil {
			log.Error("kafka publisher setup failed", "error", err.Error())
			os.Exit(1)
		}
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	m := metrics.New()
	tokens := token.NewManager(cfg.Insurer, nil, tokenStore, log)
	insurerClient := client.New(cfg.Insurer, tokens, nil, m, log)
	recorder := audit.NewRecorder(auditStore, publisher, log)

	svc, err := service.New(subStore, bookingStore, insurerClient, recorder, m, log, cfg.Insurer.DefaultProductCode)
	if err != nil {
		log.Error("service setup failed", "error", err.Error())
		os.Exit(1)
	}

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.RequestLog(log))
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())
	handler.New(svc, auditStore, log).Register(router)

	srv := httpserver.New(cfg.Addr, router)

	go runSyncLoop(ctx, svc, log)

	go func() {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err.Error())
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err.Error())
		os.Exit(1)
	}
}

// runSyncLoop reconciles outstanding submissions with the insurer until the
// context is cancelled.
func runSyncLoop(ctx context.Context, svc *service.Service, log *slog.Logger) {
	ticker := time.NewTicker(syncInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := svc.SyncAll(ctx, syncBatchLimit, syncConcurrency); err != nil {
				log.Warn("sync sweep failed", "error", err.Error())
			}
		}
	}
}
