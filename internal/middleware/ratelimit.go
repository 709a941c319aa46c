package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/akhoa6204/booking-hotel-sub000/internal/common/cache"
	"github.com/akhoa6204/booking-hotel-sub000/internal/common/logger"
	"github.com/akhoa6204/booking-hotel-sub000/internal/common/response"
)

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	RedisClient *redis.Client
	Limit       int
	Window      time.Duration
	KeyFunc     func(*gin.Context) string
}

// RateLimit 固定窗口限流，Redis 不可用时放行
func RateLimit(config *RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := config.KeyFunc(c)
		ctx := c.Request.Context()

		count, err := config.RedisClient.Incr(ctx, key).Result()
		if err != nil {
			logger.Warn("rate limit check skipped", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		if count == 1 {
			config.RedisClient.Expire(ctx, key, config.Window)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))

		if int(count) > config.Limit {
			ttl, _ := config.RedisClient.TTL(ctx, key).Result()
			if ttl < 0 {
				ttl = config.Window
			}
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(ttl).Unix(), 10))
			c.Header("Retry-After", strconv.Itoa(int(ttl.Seconds())))

			response.TooManyRequests(c, "请求过于频繁，请稍后再试")
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(config.Limit-int(count)))
		c.Next()
	}
}

// IPRateLimit 按客户端 IP 与路由限流
func IPRateLimit(redisClient *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return RateLimit(&RateLimitConfig{
		RedisClient: redisClient,
		Limit:       limit,
		Window:      window,
		KeyFunc: func(c *gin.Context) string {
			route := c.FullPath()
			if route == "" {
				route = c.Request.URL.Path
			}
			return cache.BuildKey(cache.KeyPrefixRateLimit, "ip", c.ClientIP(), route)
		},
	})
}

// UserRateLimit 登录用户按 ID 限流，匿名按 IP
func UserRateLimit(redisClient *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return RateLimit(&RateLimitConfig{
		RedisClient: redisClient,
		Limit:       limit,
		Window:      window,
		KeyFunc: func(c *gin.Context) string {
			if userID := GetUserID(c); userID > 0 {
				return cache.BuildKey(cache.KeyPrefixRateLimit, "user", fmt.Sprint(userID))
			}
			return cache.BuildKey(cache.KeyPrefixRateLimit, "ip", c.ClientIP())
		},
	})
}
