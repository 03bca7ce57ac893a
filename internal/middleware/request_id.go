package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-ID"
)

// RequestID 确保每个请求都有请求 ID：
// 1) 优先读取请求头 X-Request-ID；
// 2) 若为空则生成 UUID；
// 3) 将该 ID 写入响应头与请求上下文。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderRequestID)
		if strings.TrimSpace(rid) == "" {
			rid = uuid.New().String()
		}
		c.Writer.Header().Set(HeaderRequestID, rid)
		c.Request = c.Request.WithContext(withRequestID(c.Request.Context(), rid))
		c.Next()
	}
}
