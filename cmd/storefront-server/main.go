package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/MorseWayne/storefront/internal/api"
	"github.com/MorseWayne/storefront/internal/catalog"
	"github.com/MorseWayne/storefront/internal/config"
	"github.com/MorseWayne/storefront/internal/fakestore"
	"github.com/MorseWayne/storefront/internal/kvstore"
	"github.com/MorseWayne/storefront/internal/limiter"
	"github.com/MorseWayne/storefront/internal/logger"
	"github.com/MorseWayne/storefront/internal/router"
	"github.com/MorseWayne/storefront/internal/service"
)

// AppDependencies 包含应用的所有依赖
type AppDependencies struct {
	CatalogHandler *api.CatalogHandler
	CartHandler    *api.CartHandler
	CatalogService service.CatalogService
	CartService    service.CartService
	Store          kvstore.Store
}

// initConfigAndLogger 初始化配置和日志器
func initConfigAndLogger() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %v", err)
	}

	// init logger
	lg, err := logger.New(cfg.App.Env, cfg.Log.Level, cfg.Log.Encoding, cfg.App.Name, cfg.App.Version)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %v", err)
	}

	return cfg, lg, nil
}

// initStore 初始化持久化存储实例
func initStore(cfg *config.Config, lg *zap.Logger) kvstore.Store {
	var store kvstore.Store
	if cfg.Persistence.Enabled {
		switch cfg.Persistence.Type {
		case "redis":
			redisStore, err := kvstore.NewRedisStore(cfg.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
			if err != nil {
				lg.Sugar().Warnw("failed to connect to Redis, falling back to memory store", "error", err)
				store = kvstore.NewMemoryStore()
				lg.Sugar().Infow("persistence enabled", "type", "memory (fallback)")
			} else {
				store = redisStore
				lg.Sugar().Infow("persistence enabled", "type", "redis", "addr", cfg.RedisAddr())
			}
		case "memory":
			store = kvstore.NewMemoryStore()
			lg.Sugar().Infow("persistence enabled", "type", "memory")
		default:
			lg.Sugar().Warnw("unknown persistence type, using memory store", "type", cfg.Persistence.Type)
			store = kvstore.NewMemoryStore()
			lg.Sugar().Infow("persistence enabled", "type", "memory (default)")
		}
	} else {
		store = kvstore.NewNullStore()
		lg.Sugar().Infow("persistence disabled")
	}
	return store
}

// initRateLimiter 初始化限流器；未启用或Redis不可达时返回 nil
func initRateLimiter(cfg *config.Config, lg *zap.Logger) limiter.Limiter {
	if !cfg.RateLimit.Enabled {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		lg.Sugar().Warnw("rate limit disabled: failed to connect to Redis", "error", err)
		return nil
	}

	lim, err := limiter.NewTokenBucketLimiter(client, &limiter.Config{
		Rate:   cfg.RateLimit.Rate,
		Window: cfg.RateLimit.Window,
		Burst:  cfg.RateLimit.Burst,
	})
	if err != nil {
		lg.Sugar().Warnw("rate limit disabled: invalid limiter config", "error", err)
		return nil
	}
	lg.Sugar().Infow("rate limit enabled",
		"rate", cfg.RateLimit.Rate, "burst", cfg.RateLimit.Burst, "window", cfg.RateLimit.Window)
	return lim
}

// initDependencies 初始化应用依赖（客户端、目录、服务、处理器）
func initDependencies(cfg *config.Config, store kvstore.Store, lg *zap.Logger) *AppDependencies {
	// 初始化依赖注入链：上游客户端 -> 目录仓库 -> 服务 -> API处理器
	client := fakestore.NewClient(
		fakestore.WithBaseURL(cfg.Catalog.BaseURL),
		fakestore.WithTimeout(cfg.Catalog.RequestTimeout),
	)
	catalogStore := catalog.NewStore()

	catalogService := service.NewCatalogService(client, catalogStore, store, lg)
	cartService := service.NewCartService(client, catalogStore, store, lg)

	catalogHandler := api.NewCatalogHandler(catalogService, lg)
	cartHandler := api.NewCartHandler(cartService, lg)

	return &AppDependencies{
		CatalogHandler: catalogHandler,
		CartHandler:    cartHandler,
		CatalogService: catalogService,
		CartService:    cartService,
		Store:          store,
	}
}

// warmUp 会话恢复与目录预热。
// 上游不可达不应阻止服务启动，失败只记录日志。
func warmUp(cfg *config.Config, deps *AppDependencies, lg *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Catalog.RequestTimeout)
	defer cancel()

	if err := deps.CartService.Restore(ctx); err != nil {
		lg.Sugar().Warnw("failed to restore cart from store", "error", err)
	}

	if _, err := deps.CatalogService.LoadCategories(ctx); err != nil {
		lg.Sugar().Warnw("failed to load categories", "error", err)
	}

	if cfg.Catalog.LoadOnStartup {
		count, err := deps.CatalogService.Refresh(ctx)
		if err != nil {
			lg.Sugar().Warnw("failed to load catalog on startup", "error", err)
		} else {
			lg.Sugar().Infow("catalog loaded", "products", count)
		}
	}
}

// startServer 启动服务器并处理优雅关闭
func startServer(cfg *config.Config, handler http.Handler, lg *zap.Logger) {
	addr := fmt.Sprintf(":%d", cfg.App.Port)
	lg.Sugar().Infow("server starting", "addr", addr)
	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 5 * time.Second}

	// 启动服务器（异步）
	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.ListenAndServe()
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	select {
	case err := <-serverErrCh:
		if err != nil && err != http.ErrServerClosed {
			lg.Sugar().Fatalw("server error", "err", err)
		}
	case <-quit:
		lg.Sugar().Infow("shutdown signal received")
	}

	// 优雅关闭
	ctx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		lg.Sugar().Errorw("server shutdown error", "err", err)
	}
	lg.Sugar().Infow("server exited")
}

// main 为应用入口，协调各个组件的初始化和启动
func main() {
	// 1) 加载配置和初始化日志
	cfg, lg, err := initConfigAndLogger()
	if err != nil {
		log.Fatalf("failed to initialize config and logger: %v", err)
	}

	// 2) 初始化持久化存储
	store := initStore(cfg, lg)
	defer func() {
		if err := store.Close(); err != nil {
			lg.Sugar().Errorw("failed to close store", "err", err)
		}
	}()

	// 3) 初始化应用依赖（客户端、目录、服务、处理器）
	deps := initDependencies(cfg, store, lg)

	// 4) 恢复购物车会话并预热目录
	warmUp(cfg, deps, lg)

	// 5) 设置路由和中间件
	handler := router.New().Setup(cfg, &router.Dependencies{
		CatalogHandler: deps.CatalogHandler,
		CartHandler:    deps.CartHandler,
		Store:          deps.Store,
		RateLimiter:    initRateLimiter(cfg, lg),
	}, lg)

	// 6) 启动 HTTP 服务器
	startServer(cfg, handler, lg)
}
