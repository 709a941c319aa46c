package marketing

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/akhoa6204/booking-hotel-sub000/internal/common/errors"
	"github.com/akhoa6204/booking-hotel-sub000/internal/common/metrics"
	"github.com/akhoa6204/booking-hotel-sub000/internal/common/utils"
	"github.com/akhoa6204/booking-hotel-sub000/internal/models"
	"github.com/akhoa6204/booking-hotel-sub000/internal/repository"
)

// PricingService 报价服务
type PricingService struct {
	db      *gorm.DB
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewPricingService 创建报价服务
func NewPricingService(db *gorm.DB, m *metrics.Metrics, log *zap.Logger) *PricingService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PricingService{
		db:      db,
		metrics: m,
		logger:  log.Named("pricing"),
		now:     time.Now,
	}
}

// QuoteRequest 报价请求，RoomID 与 RoomTypeID 二选一
type QuoteRequest struct {
	RoomID     *int64 `json:"roomId" binding:"omitempty,gt=0"`
	RoomTypeID *int64 `json:"roomTypeId" binding:"omitempty,gt=0"`
	CheckIn    string `json:"checkIn" binding:"required,isodate"`
	CheckOut   string `json:"checkOut" binding:"required,isodate"`
	PromoCode  string `json:"promoCode" binding:"omitempty,max=50"`
}

// QuoteInput 报价参数
type QuoteInput struct {
	RoomID     *int64
	RoomTypeID *int64
	CheckIn    time.Time
	CheckOut   time.Time
	PromoCode  string
}

// Quote 报价结果
type Quote struct {
	RoomTypeID   int64   `json:"roomTypeId"`
	Nights       int     `json:"nights"`
	UnitPrice    float64 `json:"unitPrice"`
	TotalBefore  float64 `json:"totalBefore"`
	Discount     float64 `json:"discount"`
	PromoApplied bool    `json:"promoApplied"`
	PromotionID  *int64  `json:"promotionId,omitempty"`
	PromoCode    string  `json:"promoCode,omitempty"`
	TotalAfter   float64 `json:"totalAfter"`
}

// ToInput 解析日期
func (r *QuoteRequest) ToInput() (*QuoteInput, error) {
	checkIn, err := utils.ParseDate(r.CheckIn)
	if err != nil {
		return nil, errors.ErrInvalidParams.WithMessage("入住日期格式错误")
	}
	checkOut, err := utils.ParseDate(r.CheckOut)
	if err != nil {
		return nil, errors.ErrInvalidParams.WithMessage("离店日期格式错误")
	}
	return &QuoteInput{
		RoomID:     r.RoomID,
		RoomTypeID: r.RoomTypeID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		PromoCode:  r.PromoCode,
	}, nil
}

// Quote 计算报价
func (s *PricingService) Quote(ctx context.Context, hotelID int64, in *QuoteInput) (*Quote, error) {
	return s.QuoteTx(ctx, s.db, hotelID, in)
}

// QuoteTx 在给定事务内计算报价
func (s *PricingService) QuoteTx(ctx context.Context, tx *gorm.DB, hotelID int64, in *QuoteInput) (*Quote, error) {
	if !in.CheckIn.Before(in.CheckOut) {
		return nil, errors.ErrInvalidDateRange
	}

	roomType, err := s.resolveRoomType(ctx, tx, hotelID, in)
	if err != nil {
		return nil, err
	}

	nights := Nights(in.CheckIn, in.CheckOut)
	totalBefore := utils.RoundMoney(roomType.BasePrice * float64(nights))
	quote := &Quote{
		RoomTypeID:  roomType.ID,
		Nights:      nights,
		UnitPrice:   roomType.BasePrice,
		TotalBefore: totalBefore,
		TotalAfter:  totalBefore,
	}

	code := strings.TrimSpace(in.PromoCode)
	if code == "" {
		return quote, nil
	}

	promo, err := repository.NewPromotionRepository(tx).GetByCode(ctx, hotelID, code)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			s.reject(code, errors.ErrPromoInvalidCode)
			return nil, errors.ErrPromoInvalidCode
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	discount, err := Evaluate(promo, roomType.ID, totalBefore, s.now())
	if err != nil {
		s.reject(code, err)
		return nil, err
	}

	quote.Discount = discount
	quote.TotalAfter = utils.RoundMoney(totalBefore - discount)
	quote.PromoApplied = true
	quote.PromotionID = &promo.ID
	quote.PromoCode = promo.Code
	return quote, nil
}

func (s *PricingService) resolveRoomType(ctx context.Context, tx *gorm.DB, hotelID int64, in *QuoteInput) (*models.RoomType, error) {
	if in.RoomID != nil {
		room, err := repository.NewRoomRepository(tx).GetByID(ctx, hotelID, *in.RoomID)
		if err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.ErrRoomNotFound
			}
			return nil, errors.ErrDatabaseError.WithError(err)
		}
		if room.RoomType == nil {
			return nil, errors.ErrRoomTypeNotFound
		}
		return room.RoomType, nil
	}

	if in.RoomTypeID == nil {
		return nil, errors.ErrInvalidParams.WithMessage("需要指定房间或房型")
	}
	roomType, err := repository.NewRoomTypeRepository(tx).GetByID(ctx, hotelID, *in.RoomTypeID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrRoomTypeNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return roomType, nil
}

func (s *PricingService) reject(code string, err error) {
	reason := errors.ReasonOf(err)
	s.metrics.RecordPromotionRejection(reason)
	s.logger.Info("promotion rejected", zap.String("code", code), zap.String("reason", reason))
}

// ConsumePromotion 在预订事务内占用一次促销码，用尽时返回 PROMO_EXHAUSTED
func (s *PricingService) ConsumePromotion(ctx context.Context, tx *gorm.DB, promotionID int64) error {
	ok, err := repository.NewPromotionRepository(tx).Consume(ctx, promotionID)
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	if !ok {
		s.metrics.RecordPromotionRejection(errors.ReasonPromoExhausted)
		return errors.ErrPromoExhausted
	}
	return nil
}

// PromotionUsage 促销码使用情况
type PromotionUsage struct {
	ID           int64     `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Scope        string    `json:"scope"`
	DiscountType string    `json:"discountType"`
	Value        float64   `json:"value"`
	TotalCodes   int       `json:"totalCodes"`
	TotalUsed    int       `json:"totalUsed"`
	Remaining    int       `json:"remaining"` // -1 表示不限量
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	Active       bool      `json:"active"`
	Usable       bool      `json:"usable"`
}

// GetPromotionUsage 查询促销码使用情况（前台）
func (s *PricingService) GetPromotionUsage(ctx context.Context, hotelID int64, code string) (*PromotionUsage, error) {
	promo, err := repository.NewPromotionRepository(s.db).GetByCode(ctx, hotelID, code)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrPromotionNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	remaining := -1
	if promo.TotalCodes > 0 {
		remaining = promo.TotalCodes - promo.TotalUsed
		if remaining < 0 {
			remaining = 0
		}
	}

	return &PromotionUsage{
		ID:           promo.ID,
		Code:         promo.Code,
		Name:         promo.Name,
		Scope:        promo.Scope,
		DiscountType: promo.DiscountType,
		Value:        promo.Value,
		TotalCodes:   promo.TotalCodes,
		TotalUsed:    promo.TotalUsed,
		Remaining:    remaining,
		StartDate:    promo.StartDate,
		EndDate:      promo.EndDate,
		Active:       promo.Active,
		Usable:       promo.Active && promo.InWindow(s.now()) && !promo.IsExhausted(),
	}, nil
}
