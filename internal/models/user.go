// Package models 定义数据模型
package models

import (
	"time"
)

// User 已认证账号，令牌由外部签发
type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Phone     *string   `gorm:"type:varchar(20);index" json:"phone,omitempty"`
	Email     *string   `gorm:"type:varchar(255)" json:"email,omitempty"`
	FullName  string    `gorm:"type:varchar(100);not null;default:''" json:"fullName"`
	Status    int8      `gorm:"type:smallint;not null;default:1" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 表名
func (User) TableName() string {
	return "users"
}

// UserStatus 用户状态
const (
	UserStatusDisabled = 0 // 禁用
	UserStatusActive   = 1 // 正常
)

// Customer 入住客人档案，按手机号唯一
type Customer struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Phone        string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"phone"`
	FullName     string    `gorm:"type:varchar(100);not null;default:''" json:"fullName"`
	Email        *string   `gorm:"type:varchar(255)" json:"email,omitempty"`
	CustomerType string    `gorm:"type:varchar(20);not null" json:"customerType"`
	LinkedUserID *int64    `gorm:"uniqueIndex" json:"linkedUserId,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 表名
func (Customer) TableName() string {
	return "customers"
}

// CustomerType 客人类型
const (
	CustomerTypeGuest      = "GUEST"
	CustomerTypeRegistered = "REGISTERED"
)
