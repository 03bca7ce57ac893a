package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"time"

	"github.com/MorseWayne/storefront/internal/resp"
)

// Timeout 为每个请求上下文设置截止时间。
// 处理器内的阻塞调用（目录服务请求、持久化读写）都会随上下文一起取消。
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// HandleTimeout is a helper to write unified timeout response when context expired
func HandleTimeout(w http.ResponseWriter, r *http.Request) bool {
	if err := r.Context().Err(); err == context.DeadlineExceeded || err == context.Canceled {
		reqID := RequestIDFromContext(r.Context())
		resp.Error(w, resp.HTTPStatusFromCode(resp.CodeTimeout), resp.CodeTimeout, "request timeout", reqID, "")
		return true
	}
	return false
}
