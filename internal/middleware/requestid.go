package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader 是请求 ID 的 HTTP 头
const RequestIDHeader = "X-Request-ID"

// ContextRequestID 是请求 ID 在 Gin 上下文中的键
const ContextRequestID = "request_id"

// RequestID 为每个请求分配一个 ID。客户端已提供时沿用客户端的值。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(ContextRequestID, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}
