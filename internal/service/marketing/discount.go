// Package marketing 提供报价与促销码服务
package marketing

import (
	"math"
	"time"

	"github.com/akhoa6204/booking-hotel-sub000/internal/common/errors"
	"github.com/akhoa6204/booking-hotel-sub000/internal/models"
)

const day = 24 * time.Hour

// Nights 计算入住晚数，不足一晚按一晚计
func Nights(checkIn, checkOut time.Time) int {
	n := int(math.Ceil(float64(checkOut.Sub(checkIn)) / float64(day)))
	if n < 1 {
		return 1
	}
	return n
}

// Evaluate 校验促销码并计算优惠金额，不修改使用次数
func Evaluate(p *models.Promotion, roomTypeID int64, totalBefore float64, now time.Time) (float64, error) {
	if p == nil || !p.Active || !p.InWindow(now) {
		return 0, errors.ErrPromoInvalidCode
	}
	if p.IsExhausted() {
		return 0, errors.ErrPromoExhausted
	}

	switch p.Scope {
	case models.PromotionScopeRoomType:
		if p.RoomTypeID == nil || *p.RoomTypeID != roomTypeID {
			return 0, errors.ErrPromoNotForRoomType
		}
	case models.PromotionScopeMinTotal:
		if p.MinTotal != nil && totalBefore < *p.MinTotal {
			return 0, errors.ErrPromoMinTotal
		}
	}

	return discountOf(p, totalBefore), nil
}

func discountOf(p *models.Promotion, totalBefore float64) float64 {
	var discount float64
	switch p.DiscountType {
	case models.DiscountTypePercent:
		discount = math.Floor(totalBefore * p.Value / 100)
	default:
		discount = p.Value
	}

	if discount < 0 {
		return 0
	}
	if discount > totalBefore {
		return totalBefore
	}
	return discount
}
