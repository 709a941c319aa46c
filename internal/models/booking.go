package models

import (
	"time"
)

// Booking 预订模型
// AmountPaid 和 PaymentStatus 只由账本写入
type Booking struct {
	ID             int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	BookingNo      string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"bookingNo"`
	HotelID        int64      `gorm:"index;not null" json:"hotelId"`
	RoomID         int64      `gorm:"index:idx_booking_room_dates;not null" json:"roomId"`
	CustomerID     int64      `gorm:"index;not null" json:"customerId"`
	UserID         *int64     `gorm:"index" json:"userId,omitempty"`
	CheckIn        time.Time  `gorm:"type:date;index:idx_booking_room_dates;not null" json:"checkIn"`
	CheckOut       time.Time  `gorm:"type:date;index:idx_booking_room_dates;not null" json:"checkOut"`
	Status         string     `gorm:"type:varchar(20);index;not null" json:"status"`
	TotalPrice     float64    `gorm:"type:decimal(12,2);not null" json:"totalPrice"`
	DiscountAmount float64    `gorm:"type:decimal(12,2);not null;default:0" json:"discountAmount"`
	FinalPrice     float64    `gorm:"type:decimal(12,2);not null" json:"finalPrice"`
	AmountPaid     float64    `gorm:"type:decimal(12,2);not null;default:0" json:"amountPaid"`
	PaymentStatus  string     `gorm:"type:varchar(20);not null" json:"paymentStatus"`
	PromotionID    *int64     `gorm:"index" json:"promotionId,omitempty"`
	Source         string     `gorm:"type:varchar(20);not null" json:"source"`
	ArrivalTime    *string    `gorm:"type:varchar(10)" json:"arrivalTime,omitempty"`
	GuestCount     int        `gorm:"not null;default:1" json:"guestCount"`
	Note           *string    `gorm:"type:varchar(500)" json:"note,omitempty"`
	CheckedInAt    *time.Time `json:"checkedInAt,omitempty"`
	CheckedOutAt   *time.Time `json:"checkedOutAt,omitempty"`
	CancelledAt    *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`

	// 关联
	Room     *Room     `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}

// TableName 表名
func (Booking) TableName() string {
	return "bookings"
}

// BookingStatus 预订状态
const (
	BookingStatusPending    = "PENDING"
	BookingStatusConfirmed  = "CONFIRMED"
	BookingStatusCheckedIn  = "CHECKED_IN"
	BookingStatusCheckedOut = "CHECKED_OUT"
	BookingStatusCancelled  = "CANCELLED"
)

// BookingSource 预订来源
const (
	BookingSourceOnline = "ONLINE"
	BookingSourceStaff  = "STAFF"
)

// PaymentStatus 预订付款状态，由已付金额推导
const (
	PaymentStatusUnpaid  = "UNPAID"
	PaymentStatusPartial = "PARTIAL"
	PaymentStatusPaid    = "PAID"
)

// BlockingStatuses 占用房间的预订状态
var BlockingStatuses = []string{BookingStatusConfirmed, BookingStatusCheckedIn}

// RemainingAmount 剩余应付金额
func (b *Booking) RemainingAmount() float64 {
	return b.FinalPrice - b.AmountPaid
}

// CancelReason 取消记录，每个预订最多一条，写入后不可修改
type CancelReason struct {
	ID              int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	BookingID       int64     `gorm:"uniqueIndex;not null" json:"bookingId"`
	Reason          string    `gorm:"type:varchar(500);not null" json:"reason"`
	CancelledBy     *int64    `json:"cancelledBy,omitempty"`
	CancelledByType string    `gorm:"type:varchar(20);not null" json:"cancelledByType"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName 表名
func (CancelReason) TableName() string {
	return "cancel_reasons"
}

// CancelledByType 取消发起方
const (
	CancelledByUser   = "user"
	CancelledByStaff  = "staff"
	CancelledBySystem = "system"
)
