// Package jwt JWT令牌管理单元测试
package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akhoa6204/booking-hotel-sub000/internal/common/config"
)

func setupTestManager() *Manager {
	return NewManager(&Config{
		Secret:           "test-secret-key-for-jwt-token-signing",
		AccessExpireTime: 15 * time.Minute,
		Issuer:           "test-issuer",
	})
}

func TestNewManagerFromConfig(t *testing.T) {
	m := NewManagerFromConfig(&config.JWTConfig{Secret: "s", AccessTokenExpire: 2, Issuer: "booking-hotel"})
	assert.Equal(t, "s", m.config.Secret)
	assert.Equal(t, 2*time.Hour, m.config.AccessExpireTime)
	assert.Equal(t, "booking-hotel", m.config.Issuer)
}

func TestManager_GenerateAndParse(t *testing.T) {
	manager := setupTestManager()

	tests := []struct {
		name     string
		userID   int64
		userType string
		role     string
	}{
		{"住客令牌", 12345, UserTypeUser, ""},
		{"前台员工令牌", 7, UserTypeAdmin, "staff"},
		{"经理令牌", 8, UserTypeAdmin, "manager"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, expiresAt, err := manager.GenerateAccessToken(tt.userID, tt.userType, tt.role)
			require.NoError(t, err)
			assert.Greater(t, expiresAt, time.Now().Unix())

			claims, err := manager.ParseToken(token)
			require.NoError(t, err)
			assert.Equal(t, tt.userID, claims.UserID)
			assert.Equal(t, tt.userType, claims.UserType)
			assert.Equal(t, tt.role, claims.Role)
			assert.Equal(t, "test-issuer", claims.Issuer)
		})
	}
}

func TestManager_ParseToken_Errors(t *testing.T) {
	manager := setupTestManager()

	t.Run("格式错误", func(t *testing.T) {
		_, err := manager.ParseToken("not-a-jwt")
		assert.ErrorIs(t, err, ErrTokenMalformed)
	})

	t.Run("空令牌", func(t *testing.T) {
		_, err := manager.ParseToken("")
		assert.Error(t, err)
	})

	t.Run("密钥不匹配", func(t *testing.T) {
		other := NewManager(&Config{Secret: "another-secret", AccessExpireTime: time.Minute})
		token, _, err := other.GenerateAccessToken(1, UserTypeUser, "")
		require.NoError(t, err)

		_, err = manager.ParseToken(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("已过期", func(t *testing.T) {
		expired := NewManager(&Config{Secret: "test-secret-key-for-jwt-token-signing", AccessExpireTime: -time.Minute})
		token, _, err := expired.GenerateAccessToken(1, UserTypeUser, "")
		require.NoError(t, err)

		_, err = manager.ParseToken(token)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})
}
