package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MorseWayne/storefront/internal/kvstore"
	"github.com/MorseWayne/storefront/internal/resp"
)

// IdempotencyConfig 幂等性中间件配置
type IdempotencyConfig struct {
	// 幂等键头名称
	IdempotencyKeyHeader string

	// 跳过幂等检查的请求方法
	SkipMethods []string

	// 幂等键记录的TTL
	CacheTTL time.Duration
}

// DefaultIdempotencyConfig 默认幂等性配置
func DefaultIdempotencyConfig() *IdempotencyConfig {
	return &IdempotencyConfig{
		IdempotencyKeyHeader: "X-Idempotency-Key",
		SkipMethods:          []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		CacheTTL:             24 * time.Hour,
	}
}

// Idempotency 基于键值存储的幂等性中间件。
// 客户端在写操作上携带 X-Idempotency-Key 时，同一个键的重复请求
// 会被拒绝（409），避免重复加购等副作用；不携带键的请求不受影响。
func Idempotency(store kvstore.Store, config ...*IdempotencyConfig) gin.HandlerFunc {
	cfg := DefaultIdempotencyConfig()
	if len(config) > 0 && config[0] != nil {
		cfg = config[0]
	}

	return func(c *gin.Context) {
		method := c.Request.Method
		for _, skip := range cfg.SkipMethods {
			if method == skip {
				c.Next()
				return
			}
		}

		key := c.GetHeader(cfg.IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		reqID := RequestIDFromContext(c.Request.Context())
		ok, err := store.SetNX(c.Request.Context(), kvstore.KeyPrefixIdempotency+key, true, cfg.CacheTTL)
		if err != nil {
			// 存储不可用时放行请求，幂等保护退化为尽力而为
			c.Next()
			return
		}
		if !ok {
			resp.Error(c.Writer, http.StatusConflict, resp.CodeDuplicateRequest, "duplicate request", reqID, "")
			c.Abort()
			return
		}
		c.Next()
	}
}
