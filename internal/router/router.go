// Package router 提供 HTTP 路由设置和中间件配置功能
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MorseWayne/storefront/internal/api"
	"github.com/MorseWayne/storefront/internal/config"
	"github.com/MorseWayne/storefront/internal/kvstore"
	"github.com/MorseWayne/storefront/internal/limiter"
	"github.com/MorseWayne/storefront/internal/middleware"
	"github.com/MorseWayne/storefront/internal/resp"
)

// Dependencies 包含路由设置所需的所有依赖
type Dependencies struct {
	CatalogHandler *api.CatalogHandler
	CartHandler    *api.CartHandler

	// Store 用于幂等中间件的请求去重
	Store kvstore.Store
	// RateLimiter 为空时不启用限流
	RateLimiter limiter.Limiter
}

// Router 路由器接口
type Router interface {
	Setup(cfg *config.Config, deps *Dependencies, lg *zap.Logger) http.Handler
}

// GinRouter Gin路由器实现
type GinRouter struct {
	engine *gin.Engine
	deps   *Dependencies
	logger *zap.Logger
}

// New 创建新的路由器实例
func New() Router {
	return &GinRouter{}
}

// Setup 设置路由和中间件
func (r *GinRouter) Setup(cfg *config.Config, deps *Dependencies, lg *zap.Logger) http.Handler {
	// 根据环境设置 Gin 模式
	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	r.engine = gin.New()
	r.deps = deps
	r.logger = lg

	r.setupMiddleware(cfg)
	r.setupRoutes(cfg)

	return r.engine
}

// setupMiddleware 设置 Gin 中间件
func (r *GinRouter) setupMiddleware(cfg *config.Config) {
	// 请求ID必须最先注入，后续中间件和处理器都依赖它
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Recovery(r.logger))
	r.engine.Use(middleware.AccessLog(r.logger))
	r.engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: cfg.CORS.AllowedMethods,
		AllowedHeaders: cfg.CORS.AllowedHeaders,
	}))
	r.engine.Use(middleware.Timeout(cfg.App.RequestTimeout))

	if r.deps.RateLimiter != nil {
		r.engine.Use(limiter.Middleware(&limiter.MiddlewareConfig{
			Limiter:       r.deps.RateLimiter,
			EnableHeaders: true,
		}))
	}
}

// setupRoutes 设置所有路由
func (r *GinRouter) setupRoutes(cfg *config.Config) {
	r.engine.GET("/healthz", r.healthCheck(cfg))

	v1 := r.engine.Group("/api/v1")
	{
		// 商品目录路由（公开，只读）
		products := v1.Group("/products")
		{
			products.GET("", r.wrapHandler(r.deps.CatalogHandler.ListProducts))
			products.GET("/:id", r.wrapHandler(r.deps.CatalogHandler.GetProduct))
		}
		v1.GET("/categories", r.wrapHandler(r.deps.CatalogHandler.ListCategories))
		v1.POST("/catalog/refresh", r.wrapHandler(r.deps.CatalogHandler.RefreshCatalog))

		// 购物车路由；写操作挂幂等中间件防止重复提交
		cart := v1.Group("/cart")
		cart.Use(middleware.Idempotency(r.deps.Store))
		{
			cart.GET("", r.wrapHandler(r.deps.CartHandler.GetCart))
			cart.POST("/items", r.wrapHandler(r.deps.CartHandler.AddItem))
			cart.PUT("/items/:id", r.wrapHandler(r.deps.CartHandler.UpdateItemQuantity))
			cart.POST("/items/:id/decrement", r.wrapHandler(r.deps.CartHandler.DecrementItem))
			cart.POST("/removals", r.wrapHandler(r.deps.CartHandler.RequestRemoval))
			cart.POST("/removals/confirm", r.wrapHandler(r.deps.CartHandler.ConfirmRemoval))
			cart.POST("/removals/cancel", r.wrapHandler(r.deps.CartHandler.CancelRemoval))
			cart.POST("/checkout", r.wrapHandler(r.deps.CartHandler.Checkout))
		}
	}
}

// healthCheck 健康检查处理器
func (r *GinRouter) healthCheck(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := middleware.RequestIDFromContext(c.Request.Context())
		data := map[string]string{
			"status":  "ok",
			"version": cfg.App.Version,
		}
		resp.OK(c.Writer, &data, reqID, "")
	}
}

// wrapHandler 将标准的 http.HandlerFunc 包装为 gin.HandlerFunc
func (r *GinRouter) wrapHandler(handler func(http.ResponseWriter, *http.Request)) gin.HandlerFunc {
	return gin.WrapF(handler)
}
