package hotel

import (
	"context"
	stderrors "errors"
	"time"

	"gorm.io/gorm"

	"github.com/akhoa6204/booking-hotel-sub000/internal/common/errors"
	"github.com/akhoa6204/booking-hotel-sub000/internal/models"
	"github.com/akhoa6204/booking-hotel-sub000/internal/repository"
)

// AvailabilityService 房态服务，可用性由预订区间推导
type AvailabilityService struct {
	db *gorm.DB
}

// NewAvailabilityService 创建房态服务
func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{db: db}
}

// RoomInfo 可用房间
type RoomInfo struct {
	ID           int64   `json:"id"`
	RoomNo       string  `json:"roomNo"`
	RoomTypeID   int64   `json:"roomTypeId"`
	RoomTypeName string  `json:"roomTypeName,omitempty"`
	BasePrice    float64 `json:"basePrice,omitempty"`
}

// IsRoomAvailable 指定房间在区间内是否空闲
func (s *AvailabilityService) IsRoomAvailable(ctx context.Context, hotelID, roomID int64, checkIn, checkOut time.Time) (bool, error) {
	if !checkIn.Before(checkOut) {
		return false, errors.ErrInvalidDateRange
	}

	room, err := repository.NewRoomRepository(s.db).GetByID(ctx, hotelID, roomID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return false, errors.ErrRoomNotFound
		}
		return false, errors.ErrDatabaseError.WithError(err)
	}
	if !room.Active {
		return false, nil
	}

	clash, err := repository.NewBookingRepository(s.db).HasClash(ctx, roomID, checkIn, checkOut, 0)
	if err != nil {
		return false, errors.ErrDatabaseError.WithError(err)
	}
	return !clash, nil
}

// FindAvailableRoom 在事务内找到该房型第一间空闲房间并加行锁
func (s *AvailabilityService) FindAvailableRoom(ctx context.Context, tx *gorm.DB, hotelID, roomTypeID int64, checkIn, checkOut time.Time) (*models.Room, error) {
	if tx == nil {
		tx = s.db
	}
	if !checkIn.Before(checkOut) {
		return nil, errors.ErrInvalidDateRange
	}

	rooms := repository.NewRoomRepository(tx)
	candidates, err := rooms.ListFree(ctx, hotelID, roomTypeID, checkIn, checkOut)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	// 加锁后重新检查，其他事务可能刚提交了同一房间
	for _, candidate := range candidates {
		room, err := s.lockFreeRoom(ctx, tx, hotelID, candidate.ID, checkIn, checkOut, 0)
		if err == nil {
			return room, nil
		}
		if !stderrors.Is(err, errors.ErrRoomUnavailable) {
			return nil, err
		}
	}
	return nil, errors.ErrRoomUnavailable
}

// ReserveRoom 在事务内锁定指定房间并确认区间无冲突，excludeID 为重新校验的预订自身
func (s *AvailabilityService) ReserveRoom(ctx context.Context, tx *gorm.DB, hotelID, roomID int64, checkIn, checkOut time.Time, excludeID int64) (*models.Room, error) {
	if tx == nil {
		tx = s.db
	}
	if !checkIn.Before(checkOut) {
		return nil, errors.ErrInvalidDateRange
	}
	return s.lockFreeRoom(ctx, tx, hotelID, roomID, checkIn, checkOut, excludeID)
}

func (s *AvailabilityService) lockFreeRoom(ctx context.Context, tx *gorm.DB, hotelID, roomID int64, checkIn, checkOut time.Time, excludeID int64) (*models.Room, error) {
	room, err := repository.NewRoomRepository(tx).GetForUpdate(ctx, hotelID, roomID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrRoomNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if !room.Active {
		return nil, errors.ErrRoomUnavailable
	}

	clash, err := repository.NewBookingRepository(tx).HasClash(ctx, room.ID, checkIn, checkOut, excludeID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if clash {
		return nil, errors.ErrRoomUnavailable
	}
	return room, nil
}

// ListAvailableRooms 列出该房型在区间内所有空闲房间
func (s *AvailabilityService) ListAvailableRooms(ctx context.Context, hotelID, roomTypeID int64, checkIn, checkOut time.Time) ([]*RoomInfo, error) {
	if !checkIn.Before(checkOut) {
		return nil, errors.ErrInvalidDateRange
	}

	roomType, err := repository.NewRoomTypeRepository(s.db).GetByID(ctx, hotelID, roomTypeID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrRoomTypeNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	rooms, err := repository.NewRoomRepository(s.db).ListFree(ctx, hotelID, roomTypeID, checkIn, checkOut)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	list := make([]*RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		list = append(list, &RoomInfo{
			ID:           r.ID,
			RoomNo:       r.RoomNo,
			RoomTypeID:   r.RoomTypeID,
			RoomTypeName: roomType.Name,
			BasePrice:    roomType.BasePrice,
		})
	}
	return list, nil
}
