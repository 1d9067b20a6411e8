package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mandir/backend/internal/application/autopost"
	appledger "github.com/mandir/backend/internal/application/ledger"
	"github.com/mandir/backend/internal/domain/shared"
	"github.com/mandir/backend/internal/infrastructure/auth"
	"github.com/mandir/backend/internal/infrastructure/cache"
	"github.com/mandir/backend/internal/infrastructure/config"
	"github.com/mandir/backend/internal/infrastructure/event"
	"github.com/mandir/backend/internal/infrastructure/logger"
	"github.com/mandir/backend/internal/infrastructure/persistence"
	"github.com/mandir/backend/internal/infrastructure/telemetry"
	"github.com/mandir/backend/internal/interfaces/http/handler"
	"github.com/mandir/backend/internal/interfaces/http/middleware"
	"github.com/mandir/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

//	@title			Mandir Ledger API
//	@version		1.0
//	@description	Double-entry ledger backend for temple trust accounting

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

// systemUserID is recorded as the posting user on auto-posted entries
var systemUserID = uuid.MustParse("00000000-0000-0000-0000-0000000000aa")

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
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
		_ = logger.Sync(log)
	}()

	log.Info("Starting Mandir Ledger Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Attach query tracing when enabled
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled: cfg.Telemetry.DBTraceEnabled,
		DBName:  cfg.Database.DBName,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Initialize repositories
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	entryRepo := persistence.NewGormJournalEntryRepository(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)

	// Initialize application services
	accountService := appledger.NewAccountService(accountRepo, entryRepo, reportRepo)
	journalService := appledger.NewJournalService(entryRepo, accountRepo, appledger.NumberingConfig{
		Prefix:               cfg.Ledger.EntryNumberPrefix,
		FiscalYearStartMonth: time.Month(cfg.Ledger.FiscalYearStartMonth),
	})
	reportService := appledger.NewReportService(reportRepo, accountRepo, log)

	// Seed the default chart of accounts for the development tenant
	if cfg.App.Env != "production" {
		seeder := appledger.NewChartSeeder(accountRepo, log)
		devTenantID := uuid.MustParse("00000000-0000-0000-0000-000000000001")
		if err := seeder.SeedDefaultChart(context.Background(), devTenantID); err != nil {
			log.Warn("Failed to seed default chart of accounts", zap.Error(err))
		}
	}

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	accountService.SetEventPublisher(eventBus)
	journalService.SetEventPublisher(eventBus)

	// Idempotency store for the auto-posting adapter: Redis when
	// reachable, in-memory otherwise. The database unique constraint
	// backstops either way.
	storeFactory := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(true),
	)
	idempotencyStore, err := storeFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}

	// Auto-posting adapter: operational events become journal entries
	autopostAdapter := autopost.NewAdapter(
		journalService,
		idempotencyStore,
		shared.IdempotencyConfig{TTL: cfg.Ledger.IdempotencyTTL, Enabled: true},
		systemUserID,
		log,
	)
	eventBus.Subscribe(autopostAdapter)
	log.Info("Auto-posting adapter registered",
		zap.Strings("event_types", autopostAdapter.EventTypes()),
	)

	// Identity
	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize HTTP handlers
	accountHandler := handler.NewAccountHandler(accountService)
	journalHandler := handler.NewJournalHandler(journalService)
	reportHandler := handler.NewReportHandler(reportService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, outermost first
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/system/info",
			"/api/v1/system/health",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Ledger domain
	ledgerRoutes := router.NewDomainGroup("ledger", "/ledger")

	// Chart of accounts routes
	ledgerRoutes.POST("/accounts", accountHandler.Create)
	ledgerRoutes.GET("/accounts", accountHandler.List)
	ledgerRoutes.GET("/accounts/hierarchy", accountHandler.GetHierarchy)
	ledgerRoutes.GET("/accounts/:id", accountHandler.GetByID)
	ledgerRoutes.PUT("/accounts/:id", accountHandler.Update)
	ledgerRoutes.POST("/accounts/:id/deactivate", accountHandler.Deactivate)
	ledgerRoutes.POST("/accounts/:id/reactivate", accountHandler.Reactivate)
	ledgerRoutes.GET("/accounts/:id/balance", accountHandler.GetBalance)

	// Journal entry routes
	ledgerRoutes.POST("/journal-entries", journalHandler.CreateDraft)
	ledgerRoutes.GET("/journal-entries", journalHandler.List)
	ledgerRoutes.GET("/journal-entries/:id", journalHandler.GetByID)
	ledgerRoutes.PUT("/journal-entries/:id", journalHandler.UpdateDraft)
	ledgerRoutes.DELETE("/journal-entries/:id", journalHandler.DiscardDraft)
	ledgerRoutes.POST("/journal-entries/:id/post", journalHandler.Post)
	ledgerRoutes.POST("/journal-entries/:id/cancel", journalHandler.Cancel)

	// Report routes
	ledgerRoutes.GET("/reports/trial-balance", reportHandler.TrialBalance)
	ledgerRoutes.GET("/reports/accounts/:id/ledger", reportHandler.AccountLedger)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/health", systemHandler.Health)

	r.Register(ledgerRoutes).Register(systemRoutes)
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for the liveness endpoint
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
