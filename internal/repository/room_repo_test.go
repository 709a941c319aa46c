package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/akhoa6204/booking-hotel-sub000/internal/models"
)

func roomNos(rooms []*models.Room) []string {
	nos := make([]string, 0, len(rooms))
	for _, r := range rooms {
		nos = append(nos, r.RoomNo)
	}
	return nos
}

func TestRoomRepository_Get(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	room, err := repo.GetByID(ctx, f.hotel.ID, f.rooms[0].ID)
	require.NoError(t, err)
	require.NotNil(t, room.RoomType)
	assert.Equal(t, 1000000.0, room.RoomType.BasePrice)

	locked, err := repo.GetForUpdate(ctx, f.hotel.ID, f.rooms[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "102", locked.RoomNo)

	_, err = repo.GetByID(ctx, f.hotel.ID+1, f.rooms[0].ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRoomRepository_ListFree(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	repo := NewRoomRepository(db)
	bookings := NewBookingRepository(db)
	ctx := context.Background()

	t.Run("无预订时按房号排序", func(t *testing.T) {
		rooms, err := repo.ListFree(ctx, f.hotel.ID, f.roomType.ID, date("2024-05-10"), date("2024-05-12"))
		require.NoError(t, err)
		assert.Equal(t, []string{"101", "102", "103"}, roomNos(rooms))
	})

	// 101 被确认单占用，102 只有待确认单
	room101 := f.rooms[1]
	require.NoError(t, bookings.Create(ctx, f.booking("BK1", room101, "2024-05-10", "2024-05-12", models.BookingStatusConfirmed)))
	require.NoError(t, bookings.Create(ctx, f.booking("BK2", f.rooms[0], "2024-05-10", "2024-05-12", models.BookingStatusPending)))

	t.Run("排除冲突房间", func(t *testing.T) {
		rooms, err := repo.ListFree(ctx, f.hotel.ID, f.roomType.ID, date("2024-05-11"), date("2024-05-13"))
		require.NoError(t, err)
		assert.Equal(t, []string{"102", "103"}, roomNos(rooms))
	})

	t.Run("离店日可再入住", func(t *testing.T) {
		rooms, err := repo.ListFree(ctx, f.hotel.ID, f.roomType.ID, date("2024-05-12"), date("2024-05-13"))
		require.NoError(t, err)
		assert.Equal(t, []string{"101", "102", "103"}, roomNos(rooms))
	})

	t.Run("停用房间不返回", func(t *testing.T) {
		require.NoError(t, db.Model(&models.Room{}).Where("id = ?", f.rooms[2].ID).Update("active", false).Error)
		rooms, err := repo.ListFree(ctx, f.hotel.ID, f.roomType.ID, date("2024-06-01"), date("2024-06-02"))
		require.NoError(t, err)
		assert.Equal(t, []string{"101", "102"}, roomNos(rooms))
	})
}

func TestHotelAndRoomTypeRepository(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	ctx := context.Background()

	hotels := NewHotelRepository(db)
	got, err := hotels.GetActive(ctx, f.hotel.ID)
	require.NoError(t, err)
	assert.Equal(t, f.hotel.Name, got.Name)

	disabled := &models.Hotel{Name: "Closed"}
	require.NoError(t, hotels.Create(ctx, disabled))
	// 零值会被列默认值覆盖，单独更新
	require.NoError(t, db.Model(disabled).Update("status", models.HotelStatusDisabled).Error)
	_, err = hotels.GetActive(ctx, disabled.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = hotels.GetByID(ctx, disabled.ID)
	assert.NoError(t, err)

	roomTypes := NewRoomTypeRepository(db)
	rt, err := roomTypes.GetByID(ctx, f.hotel.ID, f.roomType.ID)
	require.NoError(t, err)
	assert.Equal(t, "Deluxe", rt.Name)

	_, err = roomTypes.GetByID(ctx, disabled.ID, f.roomType.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	list, err := roomTypes.ListByHotel(ctx, f.hotel.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
