package middleware

import (
	"github.com/gin-gonic/gin"
	"workshop-server/pkg/util"
)

// RequestID 为每个请求生成唯一的请求 ID
// 优先使用客户端传入的 X-Request-ID，没有则生成一个新的
// 请求 ID 会写入响应头，方便排查问题时串联日志
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = util.GenerateRequestID()
		}

		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()
	}
}
