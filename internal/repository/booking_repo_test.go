// Package repository 预订仓储单元测试
package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/akhoa6204/booking-hotel-sub000/internal/models"
)

func TestBookingRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	b := f.booking("BK001", f.rooms[0], "2024-05-10", "2024-05-12", models.BookingStatusConfirmed)
	require.NoError(t, repo.Create(ctx, b))
	assert.NotZero(t, b.ID)

	t.Run("按酒店获取", func(t *testing.T) {
		got, err := repo.GetByID(ctx, f.hotel.ID, b.ID)
		require.NoError(t, err)
		assert.Equal(t, "BK001", got.BookingNo)
		assert.True(t, got.CheckIn.Equal(date("2024-05-10")))
	})

	t.Run("其他酒店不可见", func(t *testing.T) {
		_, err := repo.GetByID(ctx, f.hotel.ID+1, b.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("包含关联", func(t *testing.T) {
		got, err := repo.GetByIDWithDetails(ctx, f.hotel.ID, b.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Room)
		require.NotNil(t, got.Room.RoomType)
		require.NotNil(t, got.Customer)
		assert.Equal(t, "Deluxe", got.Room.RoomType.Name)
		assert.Equal(t, "0901234567", got.Customer.Phone)
	})

	t.Run("加锁读取", func(t *testing.T) {
		locked, err := repo.GetForUpdate(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, b.ID, locked.ID)

		plain, err := repo.GetByIDAnyHotel(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, b.ID, plain.ID)
	})

	t.Run("预订号唯一", func(t *testing.T) {
		dup := f.booking("BK001", f.rooms[1], "2024-06-01", "2024-06-02", models.BookingStatusPending)
		assert.Error(t, repo.Create(ctx, dup))
	})
}

func TestBookingRepository_HasClash(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	repo := NewBookingRepository(db)
	ctx := context.Background()
	room := f.rooms[0]

	existing := f.booking("BK100", room, "2024-05-10", "2024-05-12", models.BookingStatusConfirmed)
	require.NoError(t, repo.Create(ctx, existing))

	tests := []struct {
		name      string
		checkIn   string
		checkOut  string
		wantClash bool
	}{
		{"完全重叠", "2024-05-10", "2024-05-12", true},
		{"包含", "2024-05-09", "2024-05-13", true},
		{"左侧交叉", "2024-05-09", "2024-05-11", true},
		{"右侧交叉", "2024-05-11", "2024-05-14", true},
		{"离店日入住", "2024-05-12", "2024-05-14", false},
		{"入住日离店", "2024-05-08", "2024-05-10", false},
		{"完全不相交", "2024-06-01", "2024-06-03", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clash, err := repo.HasClash(ctx, room.ID, date(tt.checkIn), date(tt.checkOut), 0)
			require.NoError(t, err)
			assert.Equal(t, tt.wantClash, clash)
		})
	}

	t.Run("排除自身", func(t *testing.T) {
		clash, err := repo.HasClash(ctx, room.ID, date("2024-05-10"), date("2024-05-12"), existing.ID)
		require.NoError(t, err)
		assert.False(t, clash)
	})

	t.Run("其他房间不冲突", func(t *testing.T) {
		clash, err := repo.HasClash(ctx, f.rooms[1].ID, date("2024-05-10"), date("2024-05-12"), 0)
		require.NoError(t, err)
		assert.False(t, clash)
	})

	t.Run("非占用状态不冲突", func(t *testing.T) {
		for i, status := range []string{models.BookingStatusPending, models.BookingStatusCancelled, models.BookingStatusCheckedOut} {
			b := f.booking("BKS"+string(rune('A'+i)), f.rooms[2], "2024-07-01", "2024-07-05", status)
			require.NoError(t, repo.Create(ctx, b))
		}
		clash, err := repo.HasClash(ctx, f.rooms[2].ID, date("2024-07-02"), date("2024-07-03"), 0)
		require.NoError(t, err)
		assert.False(t, clash)
	})

	t.Run("已入住占用", func(t *testing.T) {
		b := f.booking("BK200", f.rooms[1], "2024-08-01", "2024-08-03", models.BookingStatusCheckedIn)
		require.NoError(t, repo.Create(ctx, b))
		clash, err := repo.HasClash(ctx, f.rooms[1].ID, date("2024-08-02"), date("2024-08-04"), 0)
		require.NoError(t, err)
		assert.True(t, clash)
	})
}

func TestBookingRepository_TransitionStatus(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	b := f.booking("BK300", f.rooms[0], "2024-05-10", "2024-05-12", models.BookingStatusConfirmed)
	require.NoError(t, repo.Create(ctx, b))

	now := time.Now()
	rows, err := repo.TransitionStatus(ctx, b.ID,
		[]string{models.BookingStatusPending, models.BookingStatusConfirmed},
		models.BookingStatusCancelled,
		map[string]interface{}{"cancelled_at": now})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	got, err := repo.GetByID(ctx, f.hotel.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, got.Status)
	assert.NotNil(t, got.CancelledAt)

	t.Run("状态已变更时不生效", func(t *testing.T) {
		rows, err := repo.TransitionStatus(ctx, b.ID, []string{models.BookingStatusConfirmed}, models.BookingStatusCheckedIn, nil)
		require.NoError(t, err)
		assert.Zero(t, rows)
	})
}

func TestBookingRepository_UpdatePaymentState(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	b := f.booking("BK400", f.rooms[0], "2024-05-10", "2024-05-12", models.BookingStatusConfirmed)
	require.NoError(t, repo.Create(ctx, b))

	require.NoError(t, repo.UpdatePaymentState(ctx, b.ID, 500000, models.PaymentStatusPartial))

	got, err := repo.GetByID(ctx, f.hotel.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 500000.0, got.AmountPaid)
	assert.Equal(t, models.PaymentStatusPartial, got.PaymentStatus)
}

func TestBookingRepository_ListByUser(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	userID := int64(77)
	for i, day := range []string{"01", "03", "05"} {
		b := f.booking("BKU"+day, f.rooms[i], "2024-09-"+day, "2024-09-2"+day[1:], models.BookingStatusConfirmed)
		b.UserID = &userID
		require.NoError(t, repo.Create(ctx, b))
	}
	other := f.booking("BKX", f.rooms[0], "2024-10-01", "2024-10-02", models.BookingStatusConfirmed)
	require.NoError(t, repo.Create(ctx, other))

	list, total, err := repo.ListByUser(ctx, f.hotel.ID, userID, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, list, 2)
	assert.Equal(t, "BKU05", list[0].BookingNo)
	assert.NotNil(t, list[0].Room)
}

func TestBookingRepository_ListStalePending(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	stale := f.booking("BKP1", f.rooms[0], "2024-05-10", "2024-05-12", models.BookingStatusPending)
	paid := f.booking("BKP2", f.rooms[1], "2024-05-10", "2024-05-12", models.BookingStatusPending)
	paid.AmountPaid = 100000
	confirmed := f.booking("BKP3", f.rooms[2], "2024-05-10", "2024-05-12", models.BookingStatusConfirmed)
	for _, b := range []*models.Booking{stale, paid, confirmed} {
		require.NoError(t, repo.Create(ctx, b))
	}

	list, err := repo.ListStalePending(ctx, time.Now().Add(time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "BKP1", list[0].BookingNo)

	list, err = repo.ListStalePending(ctx, time.Now().Add(-time.Hour), 10)
	require.NoError(t, err)
	assert.Empty(t, list)
}
