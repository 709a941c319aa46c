package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/akhoa6204/booking-hotel-sub000/internal/models"
)

// OperationLogRepository 审计日志仓储
type OperationLogRepository struct {
	db *gorm.DB
}

// NewOperationLogRepository 创建审计日志仓储
func NewOperationLogRepository(db *gorm.DB) *OperationLogRepository {
	return &OperationLogRepository{db: db}
}

// Create 写入审计日志
func (r *OperationLogRepository) Create(ctx context.Context, log *models.OperationLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// ListByTarget 按目标查询，最新在前
func (r *OperationLogRepository) ListByTarget(ctx context.Context, targetType string, targetID int64) ([]*models.OperationLog, error) {
	var logs []*models.OperationLog
	err := r.db.WithContext(ctx).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Order("id DESC").
		Find(&logs).Error
	return logs, err
}
