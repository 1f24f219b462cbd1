package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	assetapp "github.com/erp/depreciation/internal/application/asset"
	ledgerapp "github.com/erp/depreciation/internal/application/ledger"
	"github.com/erp/depreciation/internal/domain/shared/valueobject"
	"github.com/erp/depreciation/internal/infrastructure/cache"
	"github.com/erp/depreciation/internal/infrastructure/config"
	"github.com/erp/depreciation/internal/infrastructure/event"
	"github.com/erp/depreciation/internal/infrastructure/logger"
	"github.com/erp/depreciation/internal/infrastructure/migration"
	"github.com/erp/depreciation/internal/infrastructure/persistence"
	"github.com/erp/depreciation/internal/infrastructure/scheduler"
	"github.com/erp/depreciation/internal/infrastructure/telemetry"
	"github.com/erp/depreciation/internal/interfaces/http/handler"
	"github.com/erp/depreciation/internal/interfaces/http/middleware"
	"github.com/erp/depreciation/internal/interfaces/http/router"
	"github.com/erp/depreciation/migrations"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting depreciation service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	// Telemetry: traces, metrics and the OTLP log bridge
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsExportInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	if loggerProvider.IsEnabled() {
		otelCore := telemetry.NewZapOTELCore(cfg.Telemetry.ServiceName, loggerProvider, logger.ParseLevel(cfg.Log.Level))
		log = telemetry.NewBridgedLogger(log, otelCore)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down logger provider", zap.Error(err))
		}
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Database with the zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if cfg.Database.AutoMigrate {
		if err := runMigrations(db, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	dbTracing := telemetry.DefaultDBTracingConfig()
	dbTracing.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled
	dbTracing.LogFullSQL = cfg.Telemetry.DBLogFullSQL
	if cfg.Telemetry.DBSlowQueryThresh > 0 {
		dbTracing.SlowQueryThresh = cfg.Telemetry.DBSlowQueryThresh
	}
	if err := telemetry.RegisterDBTracing(db.DB, dbTracing, log); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}

	company, err := valueobject.ParseCurrency(cfg.Company.Currency)
	if err != nil {
		log.Fatal("Invalid company currency", zap.String("currency", cfg.Company.Currency), zap.Error(err))
	}

	// Repositories
	categoryRepo := persistence.NewGormAssetCategoryRepository(db.DB)
	assetRepo := persistence.NewGormAssetRepository(db.DB)
	lineRepo := persistence.NewGormDepreciationLineRepository(db.DB)
	historyRepo := persistence.NewGormAssetHistoryRepository(db.DB)
	sequenceRepo := persistence.NewGormSequenceRepository(db.DB)
	journalRepo := persistence.NewGormJournalRepository(db.DB)
	periodRepo := persistence.NewGormPeriodRepository(db.DB)
	moveRepo := persistence.NewGormMoveRepository(db.DB)
	rateRepo := persistence.NewGormCurrencyRateRepository(db.DB)
	ledgerStore := persistence.NewGormLedgerStore(db.DB, company)
	txScope := persistence.NewGormTransactionScope(db.DB, company)

	// Per-asset locks
	lockerFactory := cache.NewLockerFactory(cfg.Redis, cfg.Lock, cache.WithLogger(log))
	locker, err := lockerFactory.CreateLocker()
	if err != nil {
		log.Fatal("Failed to create asset locker", zap.Error(err))
	}

	// Depreciation metrics
	tenantProvider := telemetry.NewGormTenantProvider(db.DB)
	var depMetrics *telemetry.DepreciationMetrics
	if meterProvider.IsEnabled() {
		depMetrics, err = telemetry.NewDepreciationMetrics(telemetry.DepreciationMetricsConfig{
			Meter:          meterProvider.Meter("depreciation"),
			Logger:         log,
			AssetProvider:  telemetry.NewGormAssetMetricsProvider(db.DB),
			TenantProvider: tenantProvider,
		})
		if err != nil {
			log.Fatal("Failed to create depreciation metrics", zap.Error(err))
		}
		defer depMetrics.Stop()
	}

	// Application services
	currencyService := ledgerapp.NewCurrencyService(rateRepo, company)
	ledgerService := ledgerapp.NewLedgerService(journalRepo, periodRepo, moveRepo, rateRepo, log)
	categoryService := assetapp.NewCategoryService(categoryRepo, assetRepo, log)
	assetService := assetapp.NewAssetService(
		categoryRepo, assetRepo, lineRepo, historyRepo, ledgerStore, currencyService, sequenceRepo, log,
	)
	postingService := assetapp.NewPostingService(
		categoryRepo, assetRepo, lineRepo, historyRepo, ledgerStore, periodRepo, currencyService, log,
	)

	assetService.SetTransactionScope(txScope)
	assetService.SetLocker(locker, cfg.Lock.TTL)
	postingService.SetTransactionScope(txScope)
	postingService.SetLocker(locker, cfg.Lock.TTL)
	if depMetrics != nil {
		assetService.SetMetrics(depMetrics)
		postingService.SetMetrics(depMetrics)
	}

	// Event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)

	assetClosedHandler := assetapp.NewAssetClosedHandler(assetRepo, historyRepo, log)
	eventBus.Subscribe(assetClosedHandler)

	auditHandler := event.NewAuditLogHandler(event.NewAssetEventSerializer(), log)
	eventBus.Subscribe(auditHandler)

	log.Info("Event handlers registered",
		zap.Strings("asset_closed_events", assetClosedHandler.EventTypes()),
		zap.Strings("audit_events", auditHandler.EventTypes()),
	)

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	assetService.SetEventPublisher(eventBus)
	postingService.SetEventPublisher(eventBus)

	// Period-close posting scheduler
	var postingScheduler *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		schedulerConfig := scheduler.DefaultSchedulerConfig()
		schedulerConfig.MaxConcurrentJobs = cfg.Scheduler.MaxConcurrentJobs
		schedulerConfig.JobTimeout = cfg.Scheduler.JobTimeout
		schedulerConfig.RetryAttempts = cfg.Scheduler.RetryAttempts
		schedulerConfig.RetryDelay = cfg.Scheduler.RetryDelay
		if err := schedulerConfig.Validate(); err != nil {
			log.Fatal("Invalid scheduler configuration", zap.Error(err))
		}

		executor := scheduler.NewPeriodPostingExecutor(postingService, log)
		postingScheduler = scheduler.NewScheduler(schedulerConfig, executor, log)
		if err := postingScheduler.Start(ctx); err != nil {
			log.Fatal("Failed to start posting scheduler", zap.Error(err))
		}
		defer func() {
			if err := postingScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping posting scheduler", zap.Error(err))
			}
		}()

		triggerConfig := scheduler.DefaultCronTriggerConfig()
		if cfg.Scheduler.CronSchedule != "" {
			minute, hour, day, err := scheduler.ParseCronSchedule(cfg.Scheduler.CronSchedule)
			if err != nil {
				log.Fatal("Invalid scheduler cron schedule", zap.String("schedule", cfg.Scheduler.CronSchedule), zap.Error(err))
			}
			triggerConfig.RunMinute, triggerConfig.RunHour, triggerConfig.RunDay = minute, hour, day
		}
		if cfg.Scheduler.CheckInterval > 0 {
			triggerConfig.CheckInterval = cfg.Scheduler.CheckInterval
		}
		trigger := scheduler.NewCronTrigger(triggerConfig, postingScheduler, tenantProvider, ledgerService, log)
		if err := trigger.Start(ctx); err != nil {
			log.Fatal("Failed to start period close trigger", zap.Error(err))
		}
		defer func() {
			if err := trigger.Stop(context.Background()); err != nil {
				log.Error("Error stopping period close trigger", zap.Error(err))
			}
		}()

		log.Info("Posting scheduler started",
			zap.Int("max_concurrent_jobs", schedulerConfig.MaxConcurrentJobs),
			zap.Duration("job_timeout", schedulerConfig.JobTimeout),
		)
	}

	// HTTP handlers
	var schedulerStatus handler.SchedulerStatus
	if postingScheduler != nil {
		schedulerStatus = postingScheduler
	}
	handlers := router.Handlers{
		Category: handler.NewCategoryHandler(categoryService),
		Asset:    handler.NewAssetHandler(assetService),
		Line:     handler.NewDepreciationLineHandler(postingService),
		Ledger:   handler.NewLedgerHandler(ledgerService, postingService),
		Health:   handler.NewHealthHandler(db, schedulerStatus, version),
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order:
	// 1. RequestID
	// 2. Recovery
	// 3. Request logging
	// 4. Security headers
	// 5. CORS
	// 6. BodyLimit
	// 7. Tracing, span status and HTTP metrics
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(meterProvider))

	// Liveness probe outside API versioning
	engine.GET("/health", handlers.Health.Live)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	tenantConfig := middleware.DefaultTenantConfig()
	tenantConfig.Logger = log
	tenantConfig.SkipPaths = append(tenantConfig.SkipPaths, "/api/v1/ping")
	if cfg.Company.DefaultTenantID != "" {
		defaultTenant, err := uuid.Parse(cfg.Company.DefaultTenantID)
		if err != nil {
			log.Fatal("Invalid default tenant id", zap.String("tenant_id", cfg.Company.DefaultTenantID), zap.Error(err))
		}
		tenantConfig.DefaultTenantID = defaultTenant
	}
	r.Use(middleware.TenantMiddlewareWithConfig(tenantConfig))
	r.Use(middleware.TracingAttributeInjector())

	for _, group := range router.DepreciationGroups(handlers) {
		r.Register(group)
	}
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

func runMigrations(db *persistence.Database, log *zap.Logger) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.NewEmbedded(sqlDB, migrations.FS, log)
	if err != nil {
		return err
	}
	return m.Up()
}
