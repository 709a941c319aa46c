package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/akhoa6204/booking-hotel-sub000/internal/models"
)

// RoomRepository 房间仓储
type RoomRepository struct {
	db *gorm.DB
}

// NewRoomRepository 创建房间仓储
func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// Create 创建房间
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

// GetByID 获取酒店下的房间（包含房型）
func (r *RoomRepository) GetByID(ctx context.Context, hotelID, id int64) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).
		Preload("RoomType").
		Where("id = ? AND hotel_id = ?", id, hotelID).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// GetForUpdate 获取房间并加行锁，同一房间的建单在此串行
func (r *RoomRepository) GetForUpdate(ctx context.Context, hotelID, id int64) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND hotel_id = ?", id, hotelID).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// ListFree 列出房型下在 [checkIn, checkOut) 无冲突的启用房间，按房号排序
func (r *RoomRepository) ListFree(ctx context.Context, hotelID, roomTypeID int64, checkIn, checkOut time.Time) ([]*models.Room, error) {
	clash := r.db.Session(&gorm.Session{NewDB: true}).
		Model(&models.Booking{}).
		Select("1").
		Where("bookings.room_id = rooms.id").
		Where("bookings.status IN ?", models.BlockingStatuses).
		Where("bookings.check_in < ? AND bookings.check_out > ?", checkOut, checkIn)

	var rooms []*models.Room
	err := r.db.WithContext(ctx).
		Where("rooms.hotel_id = ? AND rooms.room_type_id = ? AND rooms.active = ?", hotelID, roomTypeID, true).
		Where("NOT EXISTS (?)", clash).
		Order("rooms.room_no ASC, rooms.id ASC").
		Find(&rooms).Error
	return rooms, err
}
