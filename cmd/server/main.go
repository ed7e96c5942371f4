package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	chainapp "github.com/docflow/backend/internal/application/chain"
	ledgerapp "github.com/docflow/backend/internal/application/ledger"
	"github.com/docflow/backend/internal/infrastructure/cache"
	"github.com/docflow/backend/internal/infrastructure/config"
	"github.com/docflow/backend/internal/infrastructure/event"
	"github.com/docflow/backend/internal/infrastructure/logger"
	"github.com/docflow/backend/internal/infrastructure/persistence"
	"github.com/docflow/backend/internal/interfaces/http/handler"
	"github.com/docflow/backend/internal/interfaces/http/middleware"
	"github.com/docflow/backend/internal/interfaces/http/router"
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

	log.Info("Starting docflow backend",
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
	log.Info("Database connected")

	// Initialize repositories
	documentRepo := persistence.NewGormDocumentRepository(db.DB)
	invoiceRepo := persistence.NewGormLedgerInvoiceRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	documentNumbers := persistence.NewGormSequenceRepository(db.DB)
	paymentNumbers := persistence.NewGormPaymentSequenceRepository(db.DB)
	counterpartyRepo := persistence.NewGormCounterpartyRepository(db.DB)
	stockRepo := persistence.NewGormStockMovementRepository(db.DB)
	auditSink := persistence.NewGormAuditSink(db.DB, log)
	uow := persistence.NewGormUnitOfWork(db.DB)

	// Idempotency store: Redis when reachable, in-memory otherwise. The
	// in-memory fallback keeps single-instance deployments working but
	// does not deduplicate across replicas.
	var idempotency ledgerapp.IdempotencyStore
	if redisStore, err := cache.NewRedisIdempotencyStore(cfg.Redis); err != nil {
		log.Warn("Redis unavailable, using in-memory idempotency store", zap.Error(err))
		idempotency = cache.NewInMemoryIdempotencyStore(cfg.Redis.IdempotencyTTL)
	} else {
		log.Info("Redis idempotency store connected", zap.String("addr", cfg.Redis.Addr()))
		idempotency = redisStore
	}

	// Initialize application services
	postingService := ledgerapp.NewPostingService(invoiceRepo, paymentRepo, log)
	knockoffService := ledgerapp.NewKnockoffService(
		paymentRepo, invoiceRepo, paymentNumbers, counterpartyRepo,
		idempotency, uow, auditSink, log,
	)
	transferService := chainapp.NewTransferService(
		documentRepo, documentNumbers, counterpartyRepo,
		postingService, stockRepo, uow, auditSink, log,
	)
	voidService := chainapp.NewVoidService(
		documentRepo, postingService, stockRepo, uow, auditSink, log,
	)

	// Wire the event bus; publishing happens after each commit
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewLoggingHandler(log))
	transferService.SetEventPublisher(eventBus)
	voidService.SetEventPublisher(eventBus)
	knockoffService.SetEventPublisher(eventBus)

	// Initialize HTTP engine and middleware
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(middleware.TenantMiddleware())

	// Probes live outside the versioned API group
	handler.NewSystemHandler(db).RegisterRoutes(engine)

	router.NewRouter(engine).
		Register(handler.NewDocumentHandler(transferService, voidService)).
		Register(handler.NewLedgerHandler(postingService, knockoffService)).
		Register(handler.NewPaymentHandler(knockoffService)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
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

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
