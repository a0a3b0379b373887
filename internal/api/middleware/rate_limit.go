package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"stagetrack/pkg/response"
)

// RateLimiter 限流计数器，pkg/redis.Client 已实现
type RateLimiter interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit 按路由与调用方限流：已认证时按用户，否则按客户端 IP
// limiter 为 nil 或出错时降级放行
func RateLimit(limiter RateLimiter, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		caller := "ip:" + c.ClientIP()
		if userID := c.GetString(CtxUserID); userID != "" {
			caller = "user:" + userID
		}
		key := fmt.Sprintf("rate_limit:%s:%s", c.FullPath(), caller)
		allowed, err := limiter.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			c.Next()
			return
		}

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			response.Error(c, http.StatusTooManyRequests, 10004, "Te veel verzoeken, probeer het later opnieuw")
			c.Abort()
			return
		}

		c.Next()
	}
}
