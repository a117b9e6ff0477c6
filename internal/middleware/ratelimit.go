package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// RateLimit 返回一个 Gin 中间件，用于基于客户端 IP 地址进行速率限制。
// redisClient: 用于存储计数器的 Redis 客户端实例，必须提供。
// maxRequests: 在指定时间窗口内允许的最大请求数。
// window: 速率限制的时间窗口。
func RateLimit(redisClient *redis.Client, maxRequests int, window time.Duration) gin.HandlerFunc {
	return newRateLimiter(redisClient, "ratelimit:ip:", maxRequests, window, func(c *gin.Context) string {
		return c.ClientIP()
	})
}

// RateLimitByUser 按已认证用户限流, 必须放在 Auth 之后。
// 未认证的请求退回到按 IP 限流。
func RateLimitByUser(redisClient *redis.Client, scope string, maxRequests int, window time.Duration) gin.HandlerFunc {
	prefix := fmt.Sprintf("ratelimit:%s:", scope)
	return newRateLimiter(redisClient, prefix, maxRequests, window, func(c *gin.Context) string {
		if userID, ok := CurrentUserID(c); ok {
			return "user:" + strconv.FormatUint(uint64(userID), 10)
		}
		return "ip:" + c.ClientIP()
	})
}

func newRateLimiter(redisClient *redis.Client, prefix string, maxRequests int, window time.Duration, keyFn func(*gin.Context) string) gin.HandlerFunc {
	// 启动时检查依赖
	if redisClient == nil {
		panic("Redis client cannot be nil for RateLimit middleware")
	}
	if maxRequests <= 0 {
		panic("maxRequests must be positive for RateLimit middleware")
	}
	if window <= 0 {
		panic("window duration must be positive for RateLimit middleware")
	}

	return func(c *gin.Context) {
		key := prefix + keyFn(c)
		ctx := c.Request.Context()

		// 固定窗口: 只在窗口第一次计数时设置过期时间
		count, err := redisClient.Incr(ctx, key).Result()
		if err != nil {
			logrus.WithError(err).Error("RateLimit: Redis INCR failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Rate limiting error"})
			c.Abort()
			return
		}
		if count == 1 {
			if err := redisClient.Expire(ctx, key, window).Err(); err != nil {
				// 没有 TTL 的计数器会永久生效, 删除后让下一个请求重新开窗
				_ = redisClient.Del(ctx, key).Err()
				logrus.WithError(err).Error("RateLimit: Redis EXPIRE failed")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Rate limiting error"})
				c.Abort()
				return
			}
		}

		remaining := int64(maxRequests) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(maxRequests) {
			logrus.WithField("key", key).Warn("RateLimit: limit exceeded")
			retryAfter := window
			if ttl, err := redisClient.TTL(ctx, key).Result(); err == nil && ttl > 0 {
				retryAfter = ttl
			}
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			c.Abort()
			return
		}

		c.Next()
	}
}
