package hotel

import (
	"time"

	"github.com/akhoa6204/booking-hotel-sub000/internal/common/utils"
	"github.com/akhoa6204/booking-hotel-sub000/internal/models"
	"github.com/akhoa6204/booking-hotel-sub000/internal/service/marketing"
)

// BookingInfo 预订信息
type BookingInfo struct {
	ID              int64         `json:"id"`
	BookingNo       string        `json:"bookingNo"`
	HotelID         int64         `json:"hotelId"`
	Status          string        `json:"status"`
	StatusName      string        `json:"statusName"`
	Source          string        `json:"source"`
	Room            *RoomInfo     `json:"room,omitempty"`
	Customer        *CustomerInfo `json:"customer,omitempty"`
	UserID          *int64        `json:"userId,omitempty"`
	CheckIn         string        `json:"checkIn"`
	CheckOut        string        `json:"checkOut"`
	Nights          int           `json:"nights"`
	TotalPrice      float64       `json:"totalPrice"`
	DiscountAmount  float64       `json:"discountAmount"`
	FinalPrice      float64       `json:"finalPrice"`
	AmountPaid      float64       `json:"amountPaid"`
	RemainingAmount float64       `json:"remainingAmount"`
	PaymentStatus   string        `json:"paymentStatus"`
	PromotionID     *int64        `json:"promotionId,omitempty"`
	ArrivalTime     *string       `json:"arrivalTime,omitempty"`
	GuestCount      int           `json:"guestCount"`
	Note            *string       `json:"note,omitempty"`
	CheckedInAt     *time.Time    `json:"checkedInAt,omitempty"`
	CheckedOutAt    *time.Time    `json:"checkedOutAt,omitempty"`
	CancelledAt     *time.Time    `json:"cancelledAt,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
}

// CustomerInfo 客人信息
type CustomerInfo struct {
	ID           int64   `json:"id"`
	FullName     string  `json:"fullName"`
	Phone        string  `json:"phone"`
	Email        *string `json:"email,omitempty"`
	CustomerType string  `json:"customerType"`
}

// NewBookingInfo 转换预订信息，关联未加载时对应字段为空
func NewBookingInfo(b *models.Booking) *BookingInfo {
	remaining := utils.RoundMoney(b.RemainingAmount())
	if remaining < 0 {
		remaining = 0
	}

	info := &BookingInfo{
		ID:              b.ID,
		BookingNo:       b.BookingNo,
		HotelID:         b.HotelID,
		Status:          b.Status,
		StatusName:      StatusName(b.Status),
		Source:          b.Source,
		UserID:          b.UserID,
		CheckIn:         b.CheckIn.Format(utils.DateLayout),
		CheckOut:        b.CheckOut.Format(utils.DateLayout),
		Nights:          marketing.Nights(b.CheckIn, b.CheckOut),
		TotalPrice:      b.TotalPrice,
		DiscountAmount:  b.DiscountAmount,
		FinalPrice:      b.FinalPrice,
		AmountPaid:      b.AmountPaid,
		RemainingAmount: remaining,
		PaymentStatus:   b.PaymentStatus,
		PromotionID:     b.PromotionID,
		ArrivalTime:     b.ArrivalTime,
		GuestCount:      b.GuestCount,
		Note:            b.Note,
		CheckedInAt:     b.CheckedInAt,
		CheckedOutAt:    b.CheckedOutAt,
		CancelledAt:     b.CancelledAt,
		CreatedAt:       b.CreatedAt,
	}

	if b.Room != nil {
		info.Room = &RoomInfo{ID: b.Room.ID, RoomNo: b.Room.RoomNo, RoomTypeID: b.Room.RoomTypeID}
		if b.Room.RoomType != nil {
			info.Room.RoomTypeName = b.Room.RoomType.Name
			info.Room.BasePrice = b.Room.RoomType.BasePrice
		}
	} else {
		info.Room = &RoomInfo{ID: b.RoomID}
	}

	if b.Customer != nil {
		info.Customer = &CustomerInfo{
			ID:           b.Customer.ID,
			FullName:     b.Customer.FullName,
			Phone:        b.Customer.Phone,
			Email:        b.Customer.Email,
			CustomerType: b.Customer.CustomerType,
		}
	}
	return info
}
