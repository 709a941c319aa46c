package models

import (
	"time"
)

// Hotel 酒店模型（租户）
type Hotel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Address   string    `gorm:"type:varchar(255);not null;default:''" json:"address"`
	Phone     *string   `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Status    int8      `gorm:"type:smallint;not null;default:1" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 表名
func (Hotel) TableName() string {
	return "hotels"
}

// HotelStatus 酒店状态
const (
	HotelStatusDisabled = 0 // 禁用
	HotelStatusActive   = 1 // 正常
)

// RoomType 房型
type RoomType struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	HotelID   int64     `gorm:"index;not null" json:"hotelId"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	BasePrice float64   `gorm:"type:decimal(12,2);not null" json:"basePrice"`
	Capacity  int       `gorm:"not null;default:2" json:"capacity"`
	Status    int8      `gorm:"type:smallint;not null;default:1" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 表名
func (RoomType) TableName() string {
	return "room_types"
}

// RoomTypeStatus 房型状态
const (
	RoomTypeStatusDisabled = 0
	RoomTypeStatusActive   = 1
)

// Room 房间模型，可用性由预订推导，不存状态
type Room struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	HotelID    int64     `gorm:"uniqueIndex:uk_room_hotel_no;not null" json:"hotelId"`
	RoomTypeID int64     `gorm:"index;not null" json:"roomTypeId"`
	RoomNo     string    `gorm:"type:varchar(20);uniqueIndex:uk_room_hotel_no;not null" json:"roomNo"`
	Active     bool      `gorm:"not null" json:"active"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	// 关联
	RoomType *RoomType `gorm:"foreignKey:RoomTypeID" json:"roomType,omitempty"`
}

// TableName 表名
func (Room) TableName() string {
	return "rooms"
}
