package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LoggingConfig 日志配置
type LoggingConfig struct {
	Logger    *zap.Logger
	SkipPaths []string
}

// Logging 请求日志中间件
func Logging(config *LoggingConfig) gin.HandlerFunc {
	skipPaths := make(map[string]struct{}, len(config.SkipPaths))
	for _, path := range config.SkipPaths {
		skipPaths[path] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, ok := skipPaths[path]; ok {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		statusCode := c.Writer.Status()
		fields := []zap.Field{
			zap.String("request_id", GetRequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("route", c.FullPath()),
			zap.Int("status", statusCode),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		}

		// 网关回调的查询串含签名，不落日志
		if c.Request.URL.RawQuery != "" && c.Query("vnp_SecureHash") == "" {
			fields = append(fields, zap.String("query", c.Request.URL.RawQuery))
		}
		if userID := GetUserID(c); userID > 0 {
			fields = append(fields, zap.Int64("user_id", userID))
		}
		if adminID := GetAdminID(c); adminID > 0 {
			fields = append(fields, zap.Int64("staff_id", adminID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case statusCode >= 500:
			config.Logger.Error("HTTP Request", fields...)
		case statusCode >= 400:
			config.Logger.Warn("HTTP Request", fields...)
		default:
			config.Logger.Info("HTTP Request", fields...)
		}
	}
}

// AccessLog 访问日志，跳过健康检查
func AccessLog(logger *zap.Logger) gin.HandlerFunc {
	return Logging(&LoggingConfig{
		Logger:    logger,
		SkipPaths: []string{"/health", "/ping", "/ready", "/metrics"},
	})
}
