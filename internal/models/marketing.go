package models

import (
	"time"
)

// Promotion 促销码
// TotalCodes <= 0 表示不限量
type Promotion struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	HotelID      int64     `gorm:"uniqueIndex:uk_promotion_hotel_code;not null" json:"hotelId"`
	Code         string    `gorm:"type:varchar(50);uniqueIndex:uk_promotion_hotel_code;not null" json:"code"`
	Name         string    `gorm:"type:varchar(100);not null;default:''" json:"name"`
	Scope        string    `gorm:"type:varchar(20);not null" json:"scope"`
	DiscountType string    `gorm:"type:varchar(20);not null" json:"discountType"`
	Value        float64   `gorm:"type:decimal(12,2);not null" json:"value"`
	RoomTypeID   *int64    `gorm:"index" json:"roomTypeId,omitempty"`
	MinTotal     *float64  `gorm:"type:decimal(12,2)" json:"minTotal,omitempty"`
	TotalCodes   int       `gorm:"not null;default:0" json:"totalCodes"`
	TotalUsed    int       `gorm:"not null;default:0" json:"totalUsed"`
	StartDate    time.Time `gorm:"not null" json:"startDate"`
	EndDate      time.Time `gorm:"not null" json:"endDate"`
	Active       bool      `gorm:"not null" json:"active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 表名
func (Promotion) TableName() string {
	return "promotions"
}

// PromotionScope 适用范围
const (
	PromotionScopeGlobal   = "GLOBAL"
	PromotionScopeRoomType = "ROOM_TYPE"
	PromotionScopeMinTotal = "MIN_TOTAL"
)

// DiscountType 折扣方式
const (
	DiscountTypePercent = "PERCENT"
	DiscountTypeFixed   = "FIXED"
)

// IsExhausted 是否已达使用上限
func (p *Promotion) IsExhausted() bool {
	return p.TotalCodes > 0 && p.TotalUsed >= p.TotalCodes
}

// InWindow 判断时间是否在有效期内（含边界）
// EndDate 为零点时视为按日录入，整天有效
func (p *Promotion) InWindow(now time.Time) bool {
	return !now.Before(p.StartDate) && !now.After(p.windowEnd())
}

func (p *Promotion) windowEnd() time.Time {
	h, m, s := p.EndDate.Clock()
	if h == 0 && m == 0 && s == 0 && p.EndDate.Nanosecond() == 0 {
		return p.EndDate.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return p.EndDate
}
