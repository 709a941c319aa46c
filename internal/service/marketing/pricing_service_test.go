// Package marketing 报价服务单元测试
package marketing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/akhoa6204/booking-hotel-sub000/internal/common/database"
	appErrors "github.com/akhoa6204/booking-hotel-sub000/internal/common/errors"
	"github.com/akhoa6204/booking-hotel-sub000/internal/common/utils"
	"github.com/akhoa6204/booking-hotel-sub000/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(database.Models()...))
	return db
}

type pricingFixture struct {
	hotel    *models.Hotel
	deluxe   *models.RoomType
	standard *models.RoomType
	room     *models.Room
}

func seedPricing(t *testing.T, db *gorm.DB) *pricingFixture {
	f := &pricingFixture{}
	f.hotel = &models.Hotel{Name: "Hội An Riverside", Status: models.HotelStatusActive}
	require.NoError(t, db.Create(f.hotel).Error)

	f.deluxe = &models.RoomType{HotelID: f.hotel.ID, Name: "Deluxe", BasePrice: 1200000, Capacity: 2, Status: models.RoomTypeStatusActive}
	f.standard = &models.RoomType{HotelID: f.hotel.ID, Name: "Standard", BasePrice: 800000, Capacity: 2, Status: models.RoomTypeStatusActive}
	require.NoError(t, db.Create(f.deluxe).Error)
	require.NoError(t, db.Create(f.standard).Error)

	f.room = &models.Room{HotelID: f.hotel.ID, RoomTypeID: f.deluxe.ID, RoomNo: "201", Active: true}
	require.NoError(t, db.Create(f.room).Error)
	return f
}

func createPromotion(t *testing.T, db *gorm.DB, p *models.Promotion) *models.Promotion {
	if p.StartDate.IsZero() {
		p.StartDate = time.Now().Add(-24 * time.Hour)
	}
	if p.EndDate.IsZero() {
		p.EndDate = time.Now().Add(24 * time.Hour)
	}
	if p.Name == "" {
		p.Name = p.Code
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func mustDate(s string) time.Time {
	d, err := utils.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestNights(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     int
	}{
		{"一晚", mustDate("2024-05-10"), mustDate("2024-05-11"), 1},
		{"三晚", mustDate("2024-05-10"), mustDate("2024-05-13"), 3},
		{"跨月", mustDate("2024-05-30"), mustDate("2024-06-02"), 3},
		{"不足一天按一晚", mustDate("2024-05-10"), mustDate("2024-05-10").Add(5 * time.Hour), 1},
		{"多出几小时向上取整", mustDate("2024-05-10"), mustDate("2024-05-12").Add(time.Hour), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Nights(tt.checkIn, tt.checkOut))
		})
	}
}

func TestEvaluate(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	roomTypeID := int64(7)
	minTotal := 2000000.0

	base := func() *models.Promotion {
		return &models.Promotion{
			Code:         "P",
			Scope:        models.PromotionScopeGlobal,
			DiscountType: models.DiscountTypePercent,
			Value:        15,
			StartDate:    now.Add(-time.Hour),
			EndDate:      now.Add(time.Hour),
			Active:       true,
		}
	}

	tests := []struct {
		name     string
		mutate   func(p *models.Promotion)
		total    float64
		want     float64
		wantErr  error
		wantCode string
	}{
		{"百分比向下取整", nil, 1000001, 150000, nil, ""},
		{"固定金额", func(p *models.Promotion) { p.DiscountType = models.DiscountTypeFixed; p.Value = 300000 }, 1000000, 300000, nil, ""},
		{"固定金额超过总价时截断", func(p *models.Promotion) { p.DiscountType = models.DiscountTypeFixed; p.Value = 5000000 }, 1000000, 1000000, nil, ""},
		{"负值按零", func(p *models.Promotion) { p.DiscountType = models.DiscountTypeFixed; p.Value = -10 }, 1000000, 0, nil, ""},
		{"未启用", func(p *models.Promotion) { p.Active = false }, 1000000, 0, appErrors.ErrPromoInvalidCode, appErrors.ReasonInvalidCode},
		{"未开始", func(p *models.Promotion) { p.StartDate = now.Add(time.Hour) }, 1000000, 0, appErrors.ErrPromoInvalidCode, appErrors.ReasonInvalidCode},
		{"已过期", func(p *models.Promotion) { p.EndDate = now.Add(-time.Minute) }, 1000000, 0, appErrors.ErrPromoInvalidCode, appErrors.ReasonInvalidCode},
		{"已用完", func(p *models.Promotion) { p.TotalCodes = 3; p.TotalUsed = 3 }, 1000000, 0, appErrors.ErrPromoExhausted, appErrors.ReasonPromoExhausted},
		{"不限量", func(p *models.Promotion) { p.TotalCodes = 0; p.TotalUsed = 99 }, 1000000, 150000, nil, ""},
		{"房型不符", func(p *models.Promotion) {
			other := int64(8)
			p.Scope = models.PromotionScopeRoomType
			p.RoomTypeID = &other
		}, 1000000, 0, appErrors.ErrPromoNotForRoomType, appErrors.ReasonCodeNotForRoomType},
		{"房型相符", func(p *models.Promotion) {
			p.Scope = models.PromotionScopeRoomType
			p.RoomTypeID = &roomTypeID
		}, 1000000, 150000, nil, ""},
		{"未达最低消费", func(p *models.Promotion) {
			p.Scope = models.PromotionScopeMinTotal
			p.MinTotal = &minTotal
		}, 1999999, 0, appErrors.ErrPromoMinTotal, appErrors.ReasonNotEnoughMinTotal},
		{"刚好达到最低消费", func(p *models.Promotion) {
			p.Scope = models.PromotionScopeMinTotal
			p.MinTotal = &minTotal
		}, 2000000, 300000, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base()
			if tt.mutate != nil {
				tt.mutate(p)
			}
			got, err := Evaluate(p, roomTypeID, tt.total, now)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.wantCode, appErrors.ReasonOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("空促销", func(t *testing.T) {
		_, err := Evaluate(nil, roomTypeID, 100, now)
		assert.ErrorIs(t, err, appErrors.ErrPromoInvalidCode)
	})
}

func TestPricingService_Quote(t *testing.T) {
	db := setupTestDB(t)
	f := seedPricing(t, db)
	svc := NewPricingService(db, nil, nil)
	ctx := context.Background()

	createPromotion(t, db, &models.Promotion{
		HotelID: f.hotel.ID, Code: "SUMMER10", Scope: models.PromotionScopeGlobal,
		DiscountType: models.DiscountTypePercent, Value: 10, Active: true,
	})
	createPromotion(t, db, &models.Promotion{
		HotelID: f.hotel.ID, Code: "STD50K", Scope: models.PromotionScopeRoomType, RoomTypeID: &f.standard.ID,
		DiscountType: models.DiscountTypeFixed, Value: 50000, Active: true,
	})

	t.Run("按房型无促销码", func(t *testing.T) {
		q, err := svc.Quote(ctx, f.hotel.ID, &QuoteInput{
			RoomTypeID: &f.deluxe.ID, CheckIn: mustDate("2024-05-10"), CheckOut: mustDate("2024-05-13"),
		})
		require.NoError(t, err)
		assert.Equal(t, 3, q.Nights)
		assert.Equal(t, 3600000.0, q.TotalBefore)
		assert.Equal(t, 3600000.0, q.TotalAfter)
		assert.False(t, q.PromoApplied)
		assert.Nil(t, q.PromotionID)
	})

	t.Run("按房间并使用促销码", func(t *testing.T) {
		q, err := svc.Quote(ctx, f.hotel.ID, &QuoteInput{
			RoomID: &f.room.ID, CheckIn: mustDate("2024-05-10"), CheckOut: mustDate("2024-05-12"), PromoCode: " summer10 ",
		})
		require.NoError(t, err)
		assert.Equal(t, f.deluxe.ID, q.RoomTypeID)
		assert.Equal(t, 2400000.0, q.TotalBefore)
		assert.Equal(t, 240000.0, q.Discount)
		assert.Equal(t, 2160000.0, q.TotalAfter)
		assert.True(t, q.PromoApplied)
		require.NotNil(t, q.PromotionID)
		assert.Equal(t, "SUMMER10", q.PromoCode)
	})

	t.Run("报价不占用次数", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			_, err := svc.Quote(ctx, f.hotel.ID, &QuoteInput{
				RoomTypeID: &f.deluxe.ID, CheckIn: mustDate("2024-05-10"), CheckOut: mustDate("2024-05-11"), PromoCode: "SUMMER10",
			})
			require.NoError(t, err)
		}
		var p models.Promotion
		require.NoError(t, db.Where("code = ?", "SUMMER10").First(&p).Error)
		assert.Zero(t, p.TotalUsed)
	})

	t.Run("促销码不存在", func(t *testing.T) {
		_, err := svc.Quote(ctx, f.hotel.ID, &QuoteInput{
			RoomTypeID: &f.deluxe.ID, CheckIn: mustDate("2024-05-10"), CheckOut: mustDate("2024-05-11"), PromoCode: "NOPE",
		})
		assert.Equal(t, appErrors.ReasonInvalidCode, appErrors.ReasonOf(err))
	})

	t.Run("房型促销码用于其他房型", func(t *testing.T) {
		_, err := svc.Quote(ctx, f.hotel.ID, &QuoteInput{
			RoomTypeID: &f.deluxe.ID, CheckIn: mustDate("2024-05-10"), CheckOut: mustDate("2024-05-11"), PromoCode: "STD50K",
		})
		assert.Equal(t, appErrors.ReasonCodeNotForRoomType, appErrors.ReasonOf(err))
	})

	t.Run("其他酒店的促销码无效", func(t *testing.T) {
		other := &models.Hotel{Name: "Other", Status: models.HotelStatusActive}
		require.NoError(t, db.Create(other).Error)
		otherType := &models.RoomType{HotelID: other.ID, Name: "Twin", BasePrice: 500000, Status: models.RoomTypeStatusActive}
		require.NoError(t, db.Create(otherType).Error)

		_, err := svc.Quote(ctx, other.ID, &QuoteInput{
			RoomTypeID: &otherType.ID, CheckIn: mustDate("2024-05-10"), CheckOut: mustDate("2024-05-11"), PromoCode: "SUMMER10",
		})
		assert.ErrorIs(t, err, appErrors.ErrPromoInvalidCode)
	})

	t.Run("日期顺序错误", func(t *testing.T) {
		_, err := svc.Quote(ctx, f.hotel.ID, &QuoteInput{
			RoomTypeID: &f.deluxe.ID, CheckIn: mustDate("2024-05-10"), CheckOut: mustDate("2024-05-10"),
		})
		assert.ErrorIs(t, err, appErrors.ErrInvalidDateRange)
	})

	t.Run("未指定房间或房型", func(t *testing.T) {
		_, err := svc.Quote(ctx, f.hotel.ID, &QuoteInput{CheckIn: mustDate("2024-05-10"), CheckOut: mustDate("2024-05-11")})
		assert.ErrorIs(t, err, appErrors.ErrInvalidParams)
	})

	t.Run("房间属于其他酒店", func(t *testing.T) {
		_, err := svc.Quote(ctx, f.hotel.ID+100, &QuoteInput{
			RoomID: &f.room.ID, CheckIn: mustDate("2024-05-10"), CheckOut: mustDate("2024-05-11"),
		})
		assert.ErrorIs(t, err, appErrors.ErrRoomNotFound)
	})
}

func TestPricingService_ConsumePromotion(t *testing.T) {
	db := setupTestDB(t)
	f := seedPricing(t, db)
	svc := NewPricingService(db, nil, nil)
	ctx := context.Background()

	p := createPromotion(t, db, &models.Promotion{
		HotelID: f.hotel.ID, Code: "LAST1", Scope: models.PromotionScopeGlobal,
		DiscountType: models.DiscountTypeFixed, Value: 100000, TotalCodes: 1, Active: true,
	})

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return svc.ConsumePromotion(ctx, tx, p.ID)
	}))

	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.ConsumePromotion(ctx, tx, p.ID)
	})
	assert.ErrorIs(t, err, appErrors.ErrPromoExhausted)

	usage, err := svc.GetPromotionUsage(ctx, f.hotel.ID, "last1")
	require.NoError(t, err)
	assert.Equal(t, 1, usage.TotalUsed)
	assert.Equal(t, 0, usage.Remaining)
	assert.False(t, usage.Usable)

	_, err = svc.GetPromotionUsage(ctx, f.hotel.ID, "missing")
	assert.ErrorIs(t, err, appErrors.ErrPromotionNotFound)
}

func TestQuoteRequest_ToInput(t *testing.T) {
	req := &QuoteRequest{CheckIn: "2024-05-10", CheckOut: "2024-05-12", PromoCode: "X"}
	in, err := req.ToInput()
	require.NoError(t, err)
	assert.Equal(t, mustDate("2024-05-10"), in.CheckIn)
	assert.Equal(t, "X", in.PromoCode)

	_, err = (&QuoteRequest{CheckIn: "10/05/2024", CheckOut: "2024-05-12"}).ToInput()
	assert.ErrorIs(t, err, appErrors.ErrInvalidParams)
}
