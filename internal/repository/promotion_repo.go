package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/akhoa6204/booking-hotel-sub000/internal/models"
)

// PromotionRepository 促销码仓储
type PromotionRepository struct {
	db *gorm.DB
}

// NewPromotionRepository 创建促销码仓储
func NewPromotionRepository(db *gorm.DB) *PromotionRepository {
	return &PromotionRepository{db: db}
}

// Create 创建促销码
func (r *PromotionRepository) Create(ctx context.Context, promotion *models.Promotion) error {
	return r.db.WithContext(ctx).Create(promotion).Error
}

// GetByID 根据 ID 获取促销码
func (r *PromotionRepository) GetByID(ctx context.Context, id int64) (*models.Promotion, error) {
	var promotion models.Promotion
	err := r.db.WithContext(ctx).First(&promotion, id).Error
	if err != nil {
		return nil, err
	}
	return &promotion, nil
}

// GetByCode 按酒店和促销码查找，忽略大小写
// 是否启用、是否在有效期由调用方判断
func (r *PromotionRepository) GetByCode(ctx context.Context, hotelID int64, code string) (*models.Promotion, error) {
	var promotion models.Promotion
	err := r.db.WithContext(ctx).
		Where("hotel_id = ? AND UPPER(code) = ?", hotelID, strings.ToUpper(strings.TrimSpace(code))).
		First(&promotion).Error
	if err != nil {
		return nil, err
	}
	return &promotion, nil
}

// Consume 使用次数加一，已达上限时不更新并返回 false
func (r *PromotionRepository) Consume(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Promotion{}).
		Where("id = ? AND (total_codes <= 0 OR total_used < total_codes)", id).
		UpdateColumn("total_used", gorm.Expr("total_used + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
