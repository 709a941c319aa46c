// Package middleware 提供 HTTP 中间件
package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/akhoa6204/booking-hotel-sub000/internal/common/jwt"
	"github.com/akhoa6204/booking-hotel-sub000/internal/common/response"
)

// AuthConfig 认证配置
type AuthConfig struct {
	JWTManager *jwt.Manager
	UserType   string // 期望的用户类型
}

// 上下文键
const (
	ContextKeyUserID   = "user_id"
	ContextKeyAdminID  = "admin_id"
	ContextKeyUserType = "user_type"
	ContextKeyRole     = "role"
	ContextKeyClaims   = "claims"
)

// Auth 认证中间件
func Auth(config *AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		claims, err := config.JWTManager.ParseToken(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				response.Unauthorized(c, "登录已过期，请重新登录")
			} else {
				response.Unauthorized(c, "无效的令牌")
			}
			c.Abort()
			return
		}

		if config.UserType != "" && claims.UserType != config.UserType {
			response.Forbidden(c, "无权访问")
			c.Abort()
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth 可选认证，令牌无效时按匿名处理
func OptionalAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractToken(c); token != "" {
			if claims, err := jwtManager.ParseToken(token); err == nil && claims.UserType == jwt.UserTypeUser {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

// UserAuth 用户认证中间件
func UserAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return Auth(&AuthConfig{
		JWTManager: jwtManager,
		UserType:   jwt.UserTypeUser,
	})
}

// AdminAuth 员工认证中间件
func AdminAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return Auth(&AuthConfig{
		JWTManager: jwtManager,
		UserType:   jwt.UserTypeAdmin,
	})
}

func setClaims(c *gin.Context, claims *jwt.Claims) {
	if claims.UserType == jwt.UserTypeAdmin {
		c.Set(ContextKeyAdminID, claims.UserID)
	} else {
		c.Set(ContextKeyUserID, claims.UserID)
	}
	c.Set(ContextKeyUserType, claims.UserType)
	c.Set(ContextKeyRole, claims.Role)
	c.Set(ContextKeyClaims, claims)
}

// extractToken 优先 Authorization 头，其次 token 查询参数
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return c.Query("token")
}

// GetUserID 从上下文获取用户 ID，匿名时返回 0
func GetUserID(c *gin.Context) int64 {
	return c.GetInt64(ContextKeyUserID)
}

// GetAdminID 从上下文获取员工 ID
func GetAdminID(c *gin.Context) int64 {
	return c.GetInt64(ContextKeyAdminID)
}

// GetUserType 从上下文获取用户类型
func GetUserType(c *gin.Context) string {
	return c.GetString(ContextKeyUserType)
}

// GetRole 从上下文获取角色
func GetRole(c *gin.Context) string {
	return c.GetString(ContextKeyRole)
}

// GetClaims 从上下文获取完整的 Claims
func GetClaims(c *gin.Context) *jwt.Claims {
	claims, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	return claims.(*jwt.Claims)
}

// IsLoggedIn 判断是否已登录
func IsLoggedIn(c *gin.Context) bool {
	_, exists := c.Get(ContextKeyClaims)
	return exists
}
