package models

import (
	"time"

	"gorm.io/datatypes"
)

// OperationLog 前台写操作审计
type OperationLog struct {
	ID         int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	StaffID    int64          `gorm:"index;not null" json:"staffId"`
	HotelID    *int64         `gorm:"index" json:"hotelId,omitempty"`
	Module     string         `gorm:"type:varchar(30);not null" json:"module"`
	Action     string         `gorm:"type:varchar(30);not null" json:"action"`
	TargetType *string        `gorm:"type:varchar(30)" json:"targetType,omitempty"`
	TargetID   *int64         `gorm:"index" json:"targetId,omitempty"`
	Status     int            `gorm:"not null" json:"status"`
	IP         string         `gorm:"type:varchar(64)" json:"ip"`
	UserAgent  *string        `gorm:"type:varchar(255)" json:"userAgent,omitempty"`
	Payload    datatypes.JSON `gorm:"type:jsonb" json:"payload,omitempty"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName 表名
func (OperationLog) TableName() string {
	return "operation_logs"
}
