// Package jwt 提供 JWT 令牌校验，令牌由外部账号服务签发
package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/akhoa6204/booking-hotel-sub000/internal/common/config"
)

// UserType 用户类型常量
const (
	UserTypeUser  = "user"
	UserTypeAdmin = "admin"
)

// Claims 自定义 JWT 声明
type Claims struct {
	UserID   int64  `json:"user_id"`
	UserType string `json:"user_type"` // user, admin
	Role     string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Config JWT 配置
type Config struct {
	Secret           string
	AccessExpireTime time.Duration
	Issuer           string
}

// Manager JWT 管理器
type Manager struct {
	config *Config
}

// 预定义错误
var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenNotActive = errors.New("token not active yet")
)

// NewManager 创建 JWT 管理器
func NewManager(config *Config) *Manager {
	return &Manager{config: config}
}

// NewManagerFromConfig 从应用配置创建
func NewManagerFromConfig(cfg *config.JWTConfig) *Manager {
	return NewManager(&Config{
		Secret:           cfg.Secret,
		AccessExpireTime: cfg.AccessTokenDuration(),
		Issuer:           cfg.Issuer,
	})
}

// GenerateAccessToken 生成访问令牌，供联调与测试使用
func (m *Manager) GenerateAccessToken(userID int64, userType, role string) (string, int64, error) {
	now := time.Now()
	expireAt := now.Add(m.config.AccessExpireTime)
	claims := &Claims{
		UserID:   userID,
		UserType: userType,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.config.Issuer,
			Subject:   userType,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expireAt),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.config.Secret))
	return token, expireAt.Unix(), err
}

// ParseToken 解析令牌
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(m.config.Secret), nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenNotActive
		}
		return nil, ErrTokenInvalid
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrTokenInvalid
}
