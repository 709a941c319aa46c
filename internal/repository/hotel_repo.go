// Package repository 提供数据访问层
// 仓储只返回 gorm 原始错误，由服务层翻译为业务错误。
// 事务内使用 NewXxxRepository(tx) 构造绑定事务的仓储。
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/akhoa6204/booking-hotel-sub000/internal/models"
)

// HotelRepository 酒店仓储
type HotelRepository struct {
	db *gorm.DB
}

// NewHotelRepository 创建酒店仓储
func NewHotelRepository(db *gorm.DB) *HotelRepository {
	return &HotelRepository{db: db}
}

// Create 创建酒店
func (r *HotelRepository) Create(ctx context.Context, hotel *models.Hotel) error {
	return r.db.WithContext(ctx).Create(hotel).Error
}

// GetByID 根据 ID 获取酒店
func (r *HotelRepository) GetByID(ctx context.Context, id int64) (*models.Hotel, error) {
	var hotel models.Hotel
	err := r.db.WithContext(ctx).First(&hotel, id).Error
	if err != nil {
		return nil, err
	}
	return &hotel, nil
}

// GetActive 获取启用中的酒店
func (r *HotelRepository) GetActive(ctx context.Context, id int64) (*models.Hotel, error) {
	var hotel models.Hotel
	err := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, models.HotelStatusActive).
		First(&hotel).Error
	if err != nil {
		return nil, err
	}
	return &hotel, nil
}

// RoomTypeRepository 房型仓储
type RoomTypeRepository struct {
	db *gorm.DB
}

// NewRoomTypeRepository 创建房型仓储
func NewRoomTypeRepository(db *gorm.DB) *RoomTypeRepository {
	return &RoomTypeRepository{db: db}
}

// Create 创建房型
func (r *RoomTypeRepository) Create(ctx context.Context, roomType *models.RoomType) error {
	return r.db.WithContext(ctx).Create(roomType).Error
}

// GetByID 获取酒店下的房型
func (r *RoomTypeRepository) GetByID(ctx context.Context, hotelID, id int64) (*models.RoomType, error) {
	var roomType models.RoomType
	err := r.db.WithContext(ctx).
		Where("id = ? AND hotel_id = ?", id, hotelID).
		First(&roomType).Error
	if err != nil {
		return nil, err
	}
	return &roomType, nil
}

// ListByHotel 获取酒店的启用房型
func (r *RoomTypeRepository) ListByHotel(ctx context.Context, hotelID int64) ([]*models.RoomType, error) {
	var roomTypes []*models.RoomType
	err := r.db.WithContext(ctx).
		Where("hotel_id = ? AND status = ?", hotelID, models.RoomTypeStatusActive).
		Order("id ASC").
		Find(&roomTypes).Error
	return roomTypes, err
}
