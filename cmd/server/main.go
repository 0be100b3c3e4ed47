package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	allocapp "github.com/batchpay/backend/internal/application/allocation"
	"github.com/batchpay/backend/internal/domain/allocation"
	"github.com/batchpay/backend/internal/domain/currency"
	"github.com/batchpay/backend/internal/domain/shared/valueobject"
	"github.com/batchpay/backend/internal/infrastructure/cache"
	"github.com/batchpay/backend/internal/infrastructure/config"
	"github.com/batchpay/backend/internal/infrastructure/logger"
	"github.com/batchpay/backend/internal/infrastructure/persistence"
	"github.com/batchpay/backend/internal/infrastructure/telemetry"
	"github.com/batchpay/backend/internal/interfaces/http/handler"
	"github.com/batchpay/backend/internal/interfaces/http/middleware"
	"github.com/batchpay/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
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
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting batch payment backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize tracing
	ctx := context.Background()
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

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

	// Initialize repositories
	partnerRepo := persistence.NewGormPartnerRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	journalRepo := persistence.NewGormJournalRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	rateRepo := persistence.NewGormCurrencyRateRepository(db.DB)

	// Exchange rates are read through Redis when available
	var rates currency.RateProvider = rateRepo
	redisClient, err := cache.NewRedisClient(cache.RedisConfig{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, exchange rates will not be cached", zap.Error(err))
	} else {
		rates = cache.NewRateCache(rateRepo, redisClient, cfg.Allocation.RateCacheTTL, log)
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing redis client", zap.Error(err))
			}
		}()
		log.Info("Redis connected, exchange rate cache enabled",
			zap.Duration("ttl", cfg.Allocation.RateCacheTTL))
	}

	companyCurrency := valueobject.Currency(cfg.Allocation.CompanyCurrency)
	converter := currency.NewConverter(companyCurrency, rates)

	policy, err := allocation.NewDefaultAmountPolicy(cfg.Allocation.DefaultAmountPolicy)
	if err != nil {
		log.Fatal("Invalid default amount policy", zap.Error(err))
	}
	log.Info("Allocation configured",
		zap.String("default_amount_policy", policy.Name()),
		zap.Int("max_open_invoices", cfg.Allocation.MaxOpenInvoices),
		zap.String("company_currency", companyCurrency.String()),
	)

	loader := allocation.NewLoader(partnerRepo, invoiceRepo, converter, policy, cfg.Allocation.MaxOpenInvoices)
	engine := allocation.NewSettlementEngine(converter)
	txManager := persistence.NewGormTransactionManager(db.DB)

	allocationService := allocapp.NewService(
		partnerRepo, journalRepo, paymentRepo, loader, engine, converter, txManager, log)

	// Initialize HTTP server
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	ginEngine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := ginEngine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	ginEngine.Use(middleware.RequestID())
	ginEngine.Use(logger.Recovery(log))
	ginEngine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	ginEngine.Use(middleware.CORSWithConfig(corsConfig))

	r := router.NewRouter(ginEngine, router.WithAPIVersion("v1"))
	r.Register(handler.NewSystemHandler(db))
	r.Register(handler.NewPartnerHandler(partnerRepo))
	r.Register(handler.NewJournalHandler(journalRepo))
	r.Register(handler.NewAllocationHandler(allocationService))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        ginEngine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal, then drain in-flight requests
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
