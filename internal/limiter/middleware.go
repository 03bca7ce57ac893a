// Package limiter 限流中间件实现
package limiter

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MorseWayne/storefront/internal/middleware"
	"github.com/MorseWayne/storefront/internal/resp"
)

// MiddlewareConfig 中间件配置
type MiddlewareConfig struct {
	// 限流器
	Limiter Limiter

	// Key生成函数；默认按客户端IP限流
	KeyGenerator func(*gin.Context) string

	// 是否添加限流响应头
	EnableHeaders bool
}

// DefaultKeyGenerator 默认Key生成器（基于客户端IP）
func DefaultKeyGenerator(c *gin.Context) string {
	return c.ClientIP()
}

// Middleware 创建限流中间件
func Middleware(cfg *MiddlewareConfig) gin.HandlerFunc {
	if cfg.KeyGenerator == nil {
		cfg.KeyGenerator = DefaultKeyGenerator
	}

	return func(c *gin.Context) {
		key := cfg.KeyGenerator(c)
		result, err := cfg.Limiter.Allow(c.Request.Context(), key)
		if err != nil {
			// 限流器不可用时放行请求，避免误伤全部流量
			c.Next()
			return
		}

		if cfg.EnableHeaders {
			c.Writer.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
			if !result.Allowed {
				c.Writer.Header().Set("Retry-After", fmt.Sprintf("%.0f", result.RetryAfter.Seconds()))
			}
		}

		if !result.Allowed {
			reqID := middleware.RequestIDFromContext(c.Request.Context())
			resp.Error(c.Writer, http.StatusTooManyRequests, resp.CodeTooManyRequests, "too many requests", reqID, "")
			c.Abort()
			return
		}
		c.Next()
	}
}
