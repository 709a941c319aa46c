package hotel

import (
	"github.com/akhoa6204/booking-hotel-sub000/internal/models"
)

// 合法的状态流转
var transitions = map[string][]string{
	models.BookingStatusPending:   {models.BookingStatusConfirmed, models.BookingStatusCancelled},
	models.BookingStatusConfirmed: {models.BookingStatusCheckedIn, models.BookingStatusCancelled},
	models.BookingStatusCheckedIn: {models.BookingStatusCheckedOut},
}

// CanTransition 判断状态是否可以从 from 变为 to
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// sourcesOf 返回可以流转到 to 的所有状态
func sourcesOf(to string) []string {
	var from []string
	for _, s := range []string{
		models.BookingStatusPending,
		models.BookingStatusConfirmed,
		models.BookingStatusCheckedIn,
	} {
		if CanTransition(s, to) {
			from = append(from, s)
		}
	}
	return from
}

// IsInitialStatus 前台创建预订允许的初始状态
func IsInitialStatus(status string) bool {
	switch status {
	case models.BookingStatusPending, models.BookingStatusConfirmed, models.BookingStatusCheckedIn:
		return true
	}
	return false
}

// StatusName 状态显示名
func StatusName(status string) string {
	switch status {
	case models.BookingStatusPending:
		return "待确认"
	case models.BookingStatusConfirmed:
		return "已确认"
	case models.BookingStatusCheckedIn:
		return "已入住"
	case models.BookingStatusCheckedOut:
		return "已退房"
	case models.BookingStatusCancelled:
		return "已取消"
	default:
		return status
	}
}
