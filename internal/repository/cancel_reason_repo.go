package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/akhoa6204/booking-hotel-sub000/internal/models"
)

// CancelReasonRepository 取消记录仓储
type CancelReasonRepository struct {
	db *gorm.DB
}

// NewCancelReasonRepository 创建取消记录仓储
func NewCancelReasonRepository(db *gorm.DB) *CancelReasonRepository {
	return &CancelReasonRepository{db: db}
}

// Create 写入取消记录，booking_id 唯一
func (r *CancelReasonRepository) Create(ctx context.Context, reason *models.CancelReason) error {
	return r.db.WithContext(ctx).Create(reason).Error
}

// GetByBookingID 获取预订的取消记录
func (r *CancelReasonRepository) GetByBookingID(ctx context.Context, bookingID int64) (*models.CancelReason, error) {
	var reason models.CancelReason
	err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&reason).Error
	if err != nil {
		return nil, err
	}
	return &reason, nil
}
