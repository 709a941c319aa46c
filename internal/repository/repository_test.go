package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/akhoa6204/booking-hotel-sub000/internal/common/database"
	"github.com/akhoa6204/booking-hotel-sub000/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// :memory: 每个连接是独立的库
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(database.Models()...))
	return db
}

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

type fixture struct {
	hotel    *models.Hotel
	roomType *models.RoomType
	rooms    []*models.Room
	customer *models.Customer
}

func seedFixture(t *testing.T, db *gorm.DB) *fixture {
	ctx := context.Background()
	f := &fixture{}

	f.hotel = &models.Hotel{Name: "Sông Hàn Hotel", Address: "Đà Nẵng", Status: models.HotelStatusActive}
	require.NoError(t, NewHotelRepository(db).Create(ctx, f.hotel))

	f.roomType = &models.RoomType{HotelID: f.hotel.ID, Name: "Deluxe", BasePrice: 1000000, Capacity: 2, Status: models.RoomTypeStatusActive}
	require.NoError(t, NewRoomTypeRepository(db).Create(ctx, f.roomType))

	for _, no := range []string{"102", "101", "103"} {
		room := &models.Room{HotelID: f.hotel.ID, RoomTypeID: f.roomType.ID, RoomNo: no, Active: true}
		require.NoError(t, NewRoomRepository(db).Create(ctx, room))
		f.rooms = append(f.rooms, room)
	}

	f.customer = &models.Customer{Phone: "0901234567", FullName: "Nguyễn Văn A", CustomerType: models.CustomerTypeGuest}
	require.NoError(t, NewCustomerRepository(db).Create(ctx, f.customer))
	return f
}

func (f *fixture) booking(no string, room *models.Room, checkIn, checkOut, status string) *models.Booking {
	return &models.Booking{
		BookingNo:     no,
		HotelID:       f.hotel.ID,
		RoomID:        room.ID,
		CustomerID:    f.customer.ID,
		CheckIn:       date(checkIn),
		CheckOut:      date(checkOut),
		Status:        status,
		TotalPrice:    2000000,
		FinalPrice:    2000000,
		PaymentStatus: models.PaymentStatusUnpaid,
		Source:        models.BookingSourceOnline,
		GuestCount:    1,
	}
}
