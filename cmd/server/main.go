package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/marketplace/backend/internal/application/catalog"
	orderapp "github.com/marketplace/backend/internal/application/order"
	reviewapp "github.com/marketplace/backend/internal/application/review"
	vendorapp "github.com/marketplace/backend/internal/application/vendor"
	"github.com/marketplace/backend/internal/domain/order"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/cache"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/marketplace/backend/internal/infrastructure/persistence"
	"github.com/marketplace/backend/internal/interfaces/http/handler"
	"github.com/marketplace/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info("starting marketplace backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	if err := db.Migrate(); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}
	log.Info("database migrations applied")

	// Redis is optional: the product count cache degrades to an
	// in-process map when it is unreachable.
	var countCache catalogapp.ProductCountCache
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, using in-memory product count cache", zap.Error(err))
		countCache = cache.NewInMemoryProductCountCache(cfg.Policy.ProductCountCacheTTL)
	} else {
		defer func() {
			_ = redisClient.Close()
		}()
		countCache = cache.NewRedisProductCountCache(redisClient, cfg.Policy.ProductCountCacheTTL)
	}

	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	vendorRepo := persistence.NewGormVendorRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	reviewRepo := persistence.NewGormReviewRepository(db.DB)

	clock := shared.SystemClock{}
	numberGen := order.NewNumberGenerator(clock)

	categoryService := catalogapp.NewCategoryService(categoryRepo, productRepo, countCache, clock,
		catalogapp.WithFeaturedLimit(cfg.Policy.FeaturedCategoryLimit))
	orderService := orderapp.NewOrderService(orderRepo, vendorRepo, numberGen, clock,
		orderapp.WithReturnWindowFallback(cfg.Policy.ReturnWindowDays))
	vendorService := vendorapp.NewVendorService(vendorRepo, clock)
	statsService := vendorapp.NewStatsService(vendorRepo, productRepo, orderRepo, reviewRepo, clock)
	reviewService := reviewapp.NewReviewService(reviewRepo, clock)

	r := router.New(*cfg, log).
		Register(
			handler.NewCategoryHandler(categoryService),
			handler.NewOrderHandler(orderService),
			handler.NewVendorHandler(vendorService, statsService),
			handler.NewReviewHandler(reviewService),
		).
		WithHealthCheck("database", func(ctx context.Context) error {
			return db.Ping()
		})
	if redisClient != nil {
		r.WithHealthCheck("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        r.Build(),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
