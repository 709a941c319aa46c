package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/akhoa6204/booking-hotel-sub000/internal/common/database"
	"github.com/akhoa6204/booking-hotel-sub000/internal/models"
)

// BookingRepository 预订仓储
type BookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository 创建预订仓储
func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create 创建预订
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

// GetByID 获取酒店下的预订
func (r *BookingRepository) GetByID(ctx context.Context, hotelID, id int64) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Where("id = ? AND hotel_id = ?", id, hotelID).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// GetByIDAnyHotel 按 ID 获取预订，仅用于网关回调（交易号不含酒店）
func (r *BookingRepository) GetByIDAnyHotel(ctx context.Context, id int64) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).First(&booking, id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// GetByIDWithDetails 获取预订（包含房间、房型和客人）
func (r *BookingRepository) GetByIDWithDetails(ctx context.Context, hotelID, id int64) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Preload("Room").
		Preload("Room.RoomType").
		Preload("Customer").
		Where("id = ? AND hotel_id = ?", id, hotelID).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// GetForUpdate 获取预订并加行锁，账本写入前调用
func (r *BookingRepository) GetForUpdate(ctx context.Context, id int64) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&booking, id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// HasClash 房间在 [checkIn, checkOut) 内是否已有占用预订
// 半开区间：前一单的离店日可作为后一单的入住日
func (r *BookingRepository) HasClash(ctx context.Context, roomID int64, checkIn, checkOut time.Time, excludeID int64) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("room_id = ?", roomID).
		Where("status IN ?", models.BlockingStatuses).
		Where("check_in < ? AND check_out > ?", checkOut, checkIn)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// TransitionStatus 条件更新状态，仅当当前状态属于 from 时生效
// 返回受影响行数，0 表示状态已被并发修改
func (r *BookingRepository) TransitionStatus(ctx context.Context, id int64, from []string, to string, fields map[string]interface{}) (int64, error) {
	updates := map[string]interface{}{"status": to}
	for k, v := range fields {
		updates[k] = v
	}

	result := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// UpdatePaymentState 写入已付金额与付款状态
func (r *BookingRepository) UpdatePaymentState(ctx context.Context, id int64, amountPaid float64, paymentStatus string) error {
	return r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"amount_paid":    amountPaid,
			"payment_status": paymentStatus,
		}).Error
}

// ListByUser 获取用户在酒店的预订列表
func (r *BookingRepository) ListByUser(ctx context.Context, hotelID, userID int64, offset, limit int) ([]*models.Booking, int64, error) {
	var bookings []*models.Booking
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("hotel_id = ? AND user_id = ?", hotelID, userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Room").
		Scopes(database.OrderByCreatedDesc).
		Offset(offset).Limit(limit).
		Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

// ListStalePending 获取超时未付款的待确认预订
func (r *BookingRepository) ListStalePending(ctx context.Context, createdBefore time.Time, limit int) ([]*models.Booking, error) {
	var bookings []*models.Booking
	err := r.db.WithContext(ctx).
		Where("status = ?", models.BookingStatusPending).
		Where("amount_paid = ?", 0).
		Where("created_at < ?", createdBefore).
		Order("id ASC").
		Limit(limit).
		Find(&bookings).Error
	return bookings, err
}
