package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/store-service/internal/api/http"
	"github.com/spec-kit/store-service/internal/api/http/handlers"
	"github.com/spec-kit/store-service/internal/auth"
	"github.com/spec-kit/store-service/internal/cache"
	"github.com/spec-kit/store-service/internal/config"
	"github.com/spec-kit/store-service/internal/events"
	"github.com/spec-kit/store-service/internal/observability"
	"github.com/spec-kit/store-service/internal/persistence"
	"github.com/spec-kit/store-service/internal/repository"
	"github.com/spec-kit/store-service/internal/repository/memory"
	"github.com/spec-kit/store-service/internal/service"
	"github.com/spec-kit/store-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	privateKey, publicKey, err := auth.LoadKeyPair(cfg.Auth.PrivateKey, cfg.Auth.PublicKey)
	if err != nil {
		logger.Fatal("failed to load signing keys", zap.Error(err))
	}
	tokenManager := auth.NewTokenManager(privateKey, publicKey, cfg.Auth.Issuer(), cfg.Auth.AccessTokenTTLMinutes)

	deps := map[string]handlers.Pinger{"postgres": nil, "redis": nil}

	var (
		userRepo    repository.UserRepository
		productRepo repository.ProductRepository
	)
	if cfg.Postgres.DSN != "" {
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()

		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), persistence.DefaultMigrationsDir, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		userRepo = repository.NewUserRepository(pg.PoolHandle())
		productRepo = repository.NewProductRepository(pg.PoolHandle())
		deps["postgres"] = pg
	} else {
		logger.Warn("no postgres dsn configured; using in-memory storage")
		userRepo = memory.NewUserRepository()
		productRepo = memory.NewProductRepository()
	}

	var productCache *cache.ProductCache
	if cfg.Redis.Addr != "" {
		redis := persistence.NewRedis(cfg.Redis, logger)
		defer redis.Close()
		productCache = cache.NewProductCache(redis.Client, cfg.Redis.ProductTTL())
		deps["redis"] = redis
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger))
	worker.StartCacheInvalidation(dispatcher, productCache, logger)

	authService := service.NewAuthService(cfg.Auth.BcryptCost, service.AuthDependencies{
		UserRepo:     userRepo,
		TokenManager: tokenManager,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	productService := service.NewProductService(service.ProductDependencies{
		ProductRepo: productRepo,
		Cache:       productCache,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})

	app := httptransport.NewApp(cfg.App.Name, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Root:           handlers.NewRootHandler(cfg.App.Version),
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps),
		Users:          handlers.NewUsersHandler(authService),
		Products:       handlers.NewProductsHandler(productService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
		Gatherer:       registry,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()
	logger.Info("listening", zap.String("addr", cfg.App.Addr()))

	waitForShutdown(logger)

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
