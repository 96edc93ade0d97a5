package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BruksfildServices01/salon-scheduler/internal/archive"
	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/cache"
	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/salon-scheduler/internal/db"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/events"
	infraRepo "github.com/BruksfildServices01/salon-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/salon-scheduler/internal/lock"
	"github.com/BruksfildServices01/salon-scheduler/internal/metrics"
	"github.com/BruksfildServices01/salon-scheduler/internal/routes"
	"github.com/BruksfildServices01/salon-scheduler/internal/session"
	ucAppointment "github.com/BruksfildServices01/salon-scheduler/internal/usecase/appointment"
	"github.com/BruksfildServices01/salon-scheduler/pkg/logging"
)

func main() {

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ======================================================
	// 🗄️ BANCO
	// ======================================================
	db, err := dbpkg.NewDB(cfg, cfg.AutoMigrate)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	schedule, err := domain.NewSchedule(
		cfg.WorkStart,
		cfg.WorkEnd,
		cfg.SlotStepMinutes,
		cfg.TickMinutes,
		cfg.MinServiceMinutes,
		cfg.DefaultServiceMinutes,
	)
	if err != nil {
		log.Fatalf("invalid schedule config: %v", err)
	}

	// ======================================================
	// 🔧 CACHE, LOCKS E NOTIFICAÇÕES
	// ======================================================
	bus := events.NewBus(logger)

	var (
		store  cache.Store
		locker lock.Locker
	)
	if cfg.RedisEnabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("failed to connect redis: %v", err)
		}
		defer func() { _ = rdb.Close() }()

		store = cache.NewRedisStore(rdb)
		locker = lock.NewRedisLocker(rdb, cfg.LockTTL, cfg.LockTTL)

		bus.AddSink(events.NewRedisSink(rdb, cfg.EventsChannel))
		relay := events.NewRelay(rdb, cfg.EventsChannel, bus, logger)
		go func() {
			if err := relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("change relay stopped", "error", err)
			}
		}()
		logger.Info("redis enabled", "addr", cfg.RedisAddr)
	} else {
		store = cache.NewMemoryStore()
		locker = lock.NewKeyedMutex()
		logger.Warn("redis disabled, using in-process cache and locks")
	}

	if cfg.RabbitURL != "" {
		sink, err := events.NewAMQPSink(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			log.Fatalf("failed to connect rabbitmq: %v", err)
		}
		defer func() { _ = sink.Close() }()
		bus.AddSink(sink)
	}

	ucAppointment.NewDayInvalidator(bus, store, logger).Start(ctx)

	// ======================================================
	// 📦 REPOSITÓRIO E FINALIZAÇÃO
	// ======================================================
	repo := infraRepo.NewCachedCatalog(infraRepo.NewAppointmentGormRepository(db), store, cfg.CacheTTL)

	var finalizer domain.Finalizer = infraRepo.NewGormFinalizer(db)
	if cfg.FinalizeViaProcedure {
		pool, err := pgxpool.New(ctx, cfg.DBUrl)
		if err != nil {
			log.Fatalf("failed to open pgx pool: %v", err)
		}
		defer pool.Close()
		finalizer = infraRepo.NewPgxFinalizer(pool)
	}
	logger.Info("finalizer selected", "procedure", cfg.FinalizeViaProcedure)

	// ======================================================
	// 📊 AUDITORIA, MÉTRICAS E RECIBOS
	// ======================================================
	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, logger)
	defer auditDispatcher.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	agendaMetrics := metrics.NewAgendaMetrics(registry)

	var receipts *archive.Store
	if cfg.ArchiveBucket != "" {
		s3Client := archive.NewS3Client(cfg.AWSRegion, cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, cfg.AWSEndpoint)
		receipts = archive.NewStore(s3Client, cfg.ArchiveBucket, logger)
	}

	// ======================================================
	// 🧠 CASOS DE USO
	// ======================================================
	deps := ucAppointment.Deps{
		Repo:        repo,
		Finalizer:   finalizer,
		Schedule:    schedule,
		Locker:      locker,
		Bus:         bus,
		Audit:       auditDispatcher,
		Metrics:     agendaMetrics,
		Log:         logger,
		DayCache:    store,
		DayCacheTTL: cfg.OccupancyTTL,
		Archive:     receipts,
		Timezone:    cfg.Timezone,
	}

	sessions := session.NewService(
		store,
		cfg.SessionTTL,
		repo,
		schedule.Durations(),
		ucAppointment.NewSessionSubmitter(
			ucAppointment.NewCreateAppointment(deps),
			ucAppointment.NewUpdateAppointment(deps),
		),
	)

	// ======================================================
	// 🌐 HTTP
	// ======================================================
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Dependencies{
		DB:          db,
		Config:      cfg,
		Log:         logger,
		Agenda:      deps,
		Sessions:    sessions,
		AuditLogger: auditLogger,
		Metrics:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server running", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
