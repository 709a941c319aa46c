package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// readyTimeout 依赖检查超时
const readyTimeout = 3 * time.Second

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp int64             `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// healthHandler 健康检查（简单版）
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().Unix(),
	})
}

// pingHandler Ping 检查
func pingHandler(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}

// readyHandler 就绪检查（数据库与 Redis）
func readyHandler(db *gorm.DB, redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
		defer cancel()

		checks := map[string]string{
			"database": checkDatabase(ctx, db),
			"redis":    checkRedis(ctx, redisClient),
		}

		status, text := http.StatusOK, "ready"
		for _, v := range checks {
			if v != "ok" {
				status, text = http.StatusServiceUnavailable, "not ready"
				break
			}
		}

		c.JSON(status, HealthResponse{
			Status:    text,
			Timestamp: time.Now().Unix(),
			Checks:    checks,
		})
	}
}

func checkDatabase(ctx context.Context, db *gorm.DB) string {
	if db == nil {
		return "error: not configured"
	}
	sqlDB, err := db.DB()
	if err != nil {
		return "error: " + err.Error()
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}

func checkRedis(ctx context.Context, client *redis.Client) string {
	if client == nil {
		return "error: not configured"
	}
	if err := client.Ping(ctx).Err(); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}
