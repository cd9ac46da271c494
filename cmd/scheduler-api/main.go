package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/gig-scheduler-api/api/swagger"
	"github.com/noah-isme/gig-scheduler-api/internal/handler"
	"github.com/noah-isme/gig-scheduler-api/internal/middleware"
	"github.com/noah-isme/gig-scheduler-api/internal/repository"
	"github.com/noah-isme/gig-scheduler-api/internal/service"
	"github.com/noah-isme/gig-scheduler-api/pkg/cache"
	"github.com/noah-isme/gig-scheduler-api/pkg/calendar"
	"github.com/noah-isme/gig-scheduler-api/pkg/config"
	"github.com/noah-isme/gig-scheduler-api/pkg/database"
	"github.com/noah-isme/gig-scheduler-api/pkg/events"
	"github.com/noah-isme/gig-scheduler-api/pkg/export"
	"github.com/noah-isme/gig-scheduler-api/pkg/jobs"
	"github.com/noah-isme/gig-scheduler-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/gig-scheduler-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/gig-scheduler-api/pkg/middleware/requestid"
	"github.com/noah-isme/gig-scheduler-api/pkg/storage"
)

// @title Gig Scheduler API
// @version 1.0.0
// @description Month calendar, show bookings, artists and travel expenses for a booking agency.
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := database.EnsureSchema(ctx, db); err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, calendar cache disabled", zap.Error(err))
		}
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, cfg.Cache.Enabled && redisClient != nil)

	showRepo := repository.NewShowRepository(db)
	artistRepo := repository.NewArtistRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)

	var publisher interface {
		Publish(ctx context.Context, event events.Event) error
	}
	if cfg.Events.Enabled {
		publisher = events.NewPublisher(cfg.Events.AMQPURL, cfg.Events.Queue, logr)
	}

	dispatcher := service.NewScheduleDispatcher(cacheSvc, publisher, metricsSvc, jobs.QueueConfig{
		Workers:    cfg.Jobs.Workers,
		BufferSize: cfg.Jobs.BufferSize,
		MaxRetries: cfg.Jobs.MaxRetries,
		RetryDelay: cfg.Jobs.RetryDelay,
		Logger:     logr,
	}, logr)
	// Workers outlive the signal context so Stop can drain queued changes.
	dispatcher.Start(context.Background())

	store, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		return fmt.Errorf("init export storage: %w", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)

	validate := validator.New()
	builder := calendar.NewBuilder(cfg.Calendar.Location())

	calendarSvc := service.NewCalendarService(showRepo, builder, cacheSvc, metricsSvc, logr)
	showSvc := service.NewShowService(showRepo, artistRepo, dispatcher, validate, logr)
	artistSvc := service.NewArtistService(artistRepo, dispatcher, validate, logr)
	expenseSvc := service.NewExpenseService(expenseRepo, showRepo, validate, logr)
	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		Shows:   showRepo,
		Artists: artistRepo,
		Builder: builder,
		Metrics: metricsSvc,
		Logger:  logr,
	})
	exportSvc := service.NewExportService(showRepo, store, signer, builder, service.ExportConfig{APIPrefix: cfg.APIPrefix}, logr,
		export.NewCSVExporter(), export.NewPDFExporter())

	checks := []handler.ReadinessCheck{{Name: "postgres", Check: db.PingContext}}
	if redisClient != nil {
		checks = append(checks, handler.ReadinessCheck{Name: "redis", Check: cacheRepo.Ping})
	}
	metricsHandler := handler.NewMetricsHandler(metricsSvc, checks...)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/ready", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.WithResponseMeta())
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.Handlers{
		Calendar:  handler.NewCalendarHandler(calendarSvc),
		Shows:     handler.NewShowHandler(showSvc, expenseSvc),
		Artists:   handler.NewArtistHandler(artistSvc),
		Expenses:  handler.NewExpenseHandler(expenseSvc),
		Exports:   handler.NewExportHandler(exportSvc),
		Metrics:   metricsHandler,
		Dashboard: handler.NewDashboardHandler(dashboardSvc),
	}.Register(r.Group(cfg.APIPrefix))

	go runExportCleanup(ctx, exportSvc, cfg.Exports.CleanupInterval, logr)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "timezone", cfg.Calendar.Location().String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logr.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("http shutdown incomplete", zap.Error(err))
	}
	dispatcher.Stop(shutdownCtx)
	return nil
}

func runExportCleanup(ctx context.Context, exports *service.ExportService, interval time.Duration, logr *zap.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := exports.Cleanup(); err != nil {
				logr.Warn("export cleanup failed", zap.Error(err))
			}
		}
	}
}
