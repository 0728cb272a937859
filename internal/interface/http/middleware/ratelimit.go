package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/biblioteca/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/biblioteca/pkg/metrics"
	"github.com/xiebiao/biblioteca/pkg/response"
)

// RateLimitMiddleware API限流中间件
// 设计说明:
// 1. 固定窗口计数,按客户端IP隔离(默认每IP每小时100次)
// 2. 计数存Redis:多实例部署时共享限额
// 3. Redis故障时放行(限流是保护手段,不能成为单点)
type RateLimitMiddleware struct {
	store  *redis.RateLimitStore
	limit  int64
	window time.Duration
}

// NewRateLimitMiddleware 创建限流中间件
func NewRateLimitMiddleware(store *redis.RateLimitStore, limit int64, window time.Duration) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		store:  store,
		limit:  limit,
		window: window,
	}
}

// Limit 按IP限流
func (m *RateLimitMiddleware) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ip:%s", c.ClientIP())

		count, err := m.store.Incr(c.Request.Context(), key, m.window)
		if err != nil {
			// Redis故障时放行,不阻断业务
			c.Next()
			return
		}

		remaining := m.limit - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", m.limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		if count > m.limit {
			metrics.IncCounter(metrics.RateLimitRejectedTotal)
			response.ErrorWithCode(c, 42900, "请求过于频繁,请稍后再试")
			c.Abort()
			return
		}

		c.Next()
	}
}
