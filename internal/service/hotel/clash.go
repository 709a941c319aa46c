// Package hotel 提供房态、预订状态机与预订服务
package hotel

import (
	"time"

	"github.com/akhoa6204/booking-hotel-sub000/internal/models"
)

// Overlaps 判断两个左闭右开区间 [a1,a2) 与 [b1,b2) 是否重叠
func Overlaps(a1, a2, b1, b2 time.Time) bool {
	return a1.Before(b2) && b1.Before(a2)
}

// Blocks 该状态的预订是否占用房间
func Blocks(status string) bool {
	for _, s := range models.BlockingStatuses {
		if s == status {
			return true
		}
	}
	return false
}
