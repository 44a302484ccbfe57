package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	billapp "github.com/scf/backend/internal/application/bill"
	partyapp "github.com/scf/backend/internal/application/party"
	"github.com/scf/backend/internal/infrastructure/cache"
	"github.com/scf/backend/internal/infrastructure/config"
	"github.com/scf/backend/internal/infrastructure/event"
	"github.com/scf/backend/internal/infrastructure/ledger"
	"github.com/scf/backend/internal/infrastructure/logger"
	"github.com/scf/backend/internal/infrastructure/persistence"
	"github.com/scf/backend/internal/infrastructure/telemetry"
	"github.com/scf/backend/internal/interfaces/http/handler"
	"github.com/scf/backend/internal/interfaces/http/middleware"
	"github.com/scf/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

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

	log.Info("Starting SCF Bill Service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection
	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

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
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	dbTracingCfg := telemetry.DefaultDBTracingConfig()
	dbTracingCfg.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled
	if err := telemetry.NewDBTracing(dbTracingCfg, log).Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Per-bill lock: Redis when reachable, in-memory otherwise. The in-memory
	// locker only serializes within a single process, which is fine for
	// development but not for multi-instance deployments.
	var locker billapp.BillLocker
	redisLocker, err := cache.NewRedisBillLocker(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, cfg.Lock.TTL)
	if err != nil {
		if cfg.App.IsProduction() {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		log.Warn("Redis unavailable, falling back to in-memory bill locker", zap.Error(err))
		locker = cache.NewInMemoryBillLocker(cfg.Lock.TTL)
	} else {
		locker = redisLocker
		log.Info("Redis bill locker initialized", zap.String("addr", cfg.Redis.Addr()))
	}

	// Initialize repositories
	billRepo := persistence.NewGormBillRepository(db.DB)
	endorsementRepo := persistence.NewGormEndorsementRepository(db.DB)
	discountRepo := persistence.NewGormDiscountRecordRepository(db.DB)
	repaymentRepo := persistence.NewGormRepaymentRecordRepository(db.DB)
	partyRepo := persistence.NewGormPartyRepository(db.DB)

	repos := billapp.Repositories{
		Bills:            billRepo,
		Endorsements:     endorsementRepo,
		DiscountRecords:  discountRepo,
		RepaymentRecords: repaymentRepo,
	}
	uow := persistence.NewGormUnitOfWork(db)
	partyRegistry := persistence.NewPartyRegistry(partyRepo)

	// Ledger gateway for the external blockchain node
	ledgerGateway := ledger.NewHTTPLedgerGateway(ledger.Config{
		BaseURL:       cfg.Ledger.BaseURL,
		Timeout:       cfg.Ledger.Timeout,
		MaxRetries:    cfg.Ledger.MaxRetries,
		RetryInterval: cfg.Ledger.RetryInterval,
	}, log)
	log.Info("Ledger gateway initialized", zap.String("base_url", cfg.Ledger.BaseURL))

	// Event bus for post-commit lifecycle notifications
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(billapp.NewBillAuditHandler(log))

	// Initialize application services
	billService := billapp.NewBillService(repos, uow, partyRegistry, ledgerGateway, locker, eventBus, log)
	partyService := partyapp.NewPartyService(partyRepo, log)

	// Initialize HTTP handlers
	billHandler := handler.NewBillHandler(billService)
	partyHandler := handler.NewPartyHandler(partyService)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, in order: request ID, panic recovery, request logging,
	// CORS, tracing.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig()))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())

	// Liveness probe outside API versioning
	engine.GET("/health", func(c *gin.Context) {
		if err := db.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": "error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "database": "ok"})
	})

	// Register API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(billHandler).
		Register(partyHandler).
		Register(systemHandler)
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
