package hotel

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/akhoa6204/booking-hotel-sub000/internal/common/cache"
	"github.com/akhoa6204/booking-hotel-sub000/internal/common/database"
	"github.com/akhoa6204/booking-hotel-sub000/internal/common/errors"
	"github.com/akhoa6204/booking-hotel-sub000/internal/common/logger"
	"github.com/akhoa6204/booking-hotel-sub000/internal/common/metrics"
	"github.com/akhoa6204/booking-hotel-sub000/internal/common/tracing"
	"github.com/akhoa6204/booking-hotel-sub000/internal/common/utils"
	"github.com/akhoa6204/booking-hotel-sub000/internal/models"
	"github.com/akhoa6204/booking-hotel-sub000/internal/repository"
	"github.com/akhoa6204/booking-hotel-sub000/internal/service/marketing"
	"github.com/akhoa6204/booking-hotel-sub000/internal/service/user"
)

// Locker 跨实例互斥锁
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// GuestType 下单人类型
const (
	GuestTypeSelf  = "self"  // 本人入住
	GuestTypeOther = "other" // 为他人预订
)

const bookingNoPrefix = "BK"

// BookingService 预订服务
type BookingService struct {
	db           *gorm.DB
	availability *AvailabilityService
	pricing      *marketing.PricingService
	customers    *user.CustomerResolver
	locker       Locker
	metrics      *metrics.Metrics
	logger       *zap.Logger
	now          func() time.Time
}

// NewBookingService 创建预订服务，locker 可为空
func NewBookingService(
	db *gorm.DB,
	availability *AvailabilityService,
	pricing *marketing.PricingService,
	customers *user.CustomerResolver,
	locker Locker,
	m *metrics.Metrics,
	log *zap.Logger,
) *BookingService {
	if log == nil {
		log = zap.NewNop()
	}
	return &BookingService{
		db:           db,
		availability: availability,
		pricing:      pricing,
		customers:    customers,
		locker:       locker,
		metrics:      m,
		logger:       log.Named("booking"),
		now:          time.Now,
	}
}

// CreateBookingRequest 线上预订请求
type CreateBookingRequest struct {
	RoomTypeID  int64  `json:"roomTypeId" binding:"required,gt=0"`
	CheckIn     string `json:"checkIn" binding:"required,isodate"`
	CheckOut    string `json:"checkOut" binding:"required,isodate"`
	PromoCode   string `json:"promoCode" binding:"omitempty,max=50"`
	FullName    string `json:"fullName" binding:"required,max=100"`
	Email       string `json:"email" binding:"omitempty,email,max=255"`
	Phone       string `json:"phone" binding:"required,vnphone"`
	GuestType   string `json:"guestType" binding:"omitempty,oneof=self other"`
	ArrivalTime string `json:"arrivalTime" binding:"omitempty,max=10"`
	GuestCount  int    `json:"guestCount" binding:"omitempty,min=1,max=20"`
	Note        string `json:"note" binding:"omitempty,max=500"`
}

// CreateBookingResult 线上预订结果
type CreateBookingResult struct {
	BookingID int64  `json:"bookingId"`
	BookingNo string `json:"bookingNo"`
}

// StaffCustomer 前台录入的客人
type StaffCustomer struct {
	FullName string `json:"fullName" binding:"required,max=100"`
	Phone    string `json:"phone" binding:"required,vnphone"`
	Email    string `json:"email" binding:"omitempty,email,max=255"`
}

// StaffCreateBookingRequest 前台预订请求
type StaffCreateBookingRequest struct {
	Customer      StaffCustomer `json:"customer" binding:"required"`
	RoomID        int64         `json:"roomId" binding:"required,gt=0"`
	CheckIn       string        `json:"checkIn" binding:"required,isodate"`
	CheckOut      string        `json:"checkOut" binding:"required,isodate"`
	Status        string        `json:"status" binding:"omitempty,bookingstatus"`
	PaymentMethod string        `json:"paymentMethod" binding:"omitempty,oneof=CASH CARD BANK_TRANSFER"`
	PromoCode     string        `json:"promoCode" binding:"omitempty,max=50"`
	ArrivalTime   string        `json:"arrivalTime" binding:"omitempty,max=10"`
	GuestCount    int           `json:"guestCount" binding:"omitempty,min=1,max=20"`
	Note          string        `json:"note" binding:"omitempty,max=500"`
}

// StaffCreateBookingResult 前台预订结果
type StaffCreateBookingResult struct {
	Booking *BookingInfo     `json:"booking"`
	Pricing *marketing.Quote `json:"pricing"`
}

// CancelRequest 取消请求
type CancelRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

func parseStay(checkIn, checkOut string) (time.Time, time.Time, error) {
	in, err := utils.ParseDate(checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, errors.ErrInvalidParams.WithMessage("入住日期格式错误")
	}
	out, err := utils.ParseDate(checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, errors.ErrInvalidParams.WithMessage("离店日期格式错误")
	}
	if !in.Before(out) {
		return time.Time{}, time.Time{}, errors.ErrInvalidDateRange
	}
	return in, out, nil
}

// CreateOnline 线上自助预订，直接确认，房间由系统分配
func (s *BookingService) CreateOnline(ctx context.Context, hotelID int64, userID *int64, req *CreateBookingRequest) (result *CreateBookingResult, err error) {
	ctx, span := tracing.Start(ctx, "booking.create",
		tracing.WithHotelID(hotelID), tracing.WithSource(models.BookingSourceOnline))
	defer func() { tracing.End(span, err) }()

	checkIn, checkOut, err := parseStay(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}
	if err := s.ensureHotel(ctx, hotelID); err != nil {
		return nil, err
	}

	var identity user.Identity = user.Guest{FullName: req.FullName, Email: req.Email, Phone: req.Phone}
	if userID != nil && req.GuestType != GuestTypeOther {
		identity = user.Registered{UserID: *userID, FullName: req.FullName, Email: req.Email, Phone: req.Phone}
	}

	release, err := s.lock(ctx, "roomtype", strconv.FormatInt(hotelID, 10), strconv.FormatInt(req.RoomTypeID, 10))
	if err != nil {
		return nil, err
	}
	defer release()

	var booking *models.Booking
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer, err := s.customers.Resolve(ctx, tx, identity)
		if err != nil {
			return err
		}

		roomTypeID := req.RoomTypeID
		quote, err := s.pricing.QuoteTx(ctx, tx, hotelID, &marketing.QuoteInput{
			RoomTypeID: &roomTypeID,
			CheckIn:    checkIn,
			CheckOut:   checkOut,
			PromoCode:  req.PromoCode,
		})
		if err != nil {
			return err
		}

		room, err := s.availability.FindAvailableRoom(ctx, tx, hotelID, roomTypeID, checkIn, checkOut)
		if err != nil {
			return err
		}

		if quote.PromotionID != nil {
			if err := s.pricing.ConsumePromotion(ctx, tx, *quote.PromotionID); err != nil {
				return err
			}
		}

		booking = s.newBooking(hotelID, room.ID, customer.ID, checkIn, checkOut, quote)
		booking.UserID = userID
		booking.Status = models.BookingStatusConfirmed
		booking.Source = models.BookingSourceOnline
		booking.ArrivalTime = utils.OptionalString(req.ArrivalTime)
		booking.Note = utils.OptionalString(req.Note)
		if req.GuestCount > 0 {
			booking.GuestCount = req.GuestCount
		}

		if err := repository.NewBookingRepository(tx).Create(ctx, booking); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, s.createError(err)
	}

	s.metrics.RecordBooking(booking.Source, booking.Status)
	s.logger.Info("booking created",
		logger.HotelID(hotelID),
		logger.BookingID(booking.ID),
		logger.BookingNo(booking.BookingNo),
		logger.RoomID(booking.RoomID),
		zap.String("source", booking.Source),
	)

	return &CreateBookingResult{BookingID: booking.ID, BookingNo: booking.BookingNo}, nil
}

// CreateByStaff 前台为指定房间创建预订，默认待确认
func (s *BookingService) CreateByStaff(ctx context.Context, hotelID, staffID int64, req *StaffCreateBookingRequest) (result *StaffCreateBookingResult, err error) {
	ctx, span := tracing.Start(ctx, "booking.create",
		tracing.WithHotelID(hotelID), tracing.WithSource(models.BookingSourceStaff), tracing.WithRoomID(req.RoomID))
	defer func() { tracing.End(span, err) }()

	checkIn, checkOut, err := parseStay(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.BookingStatusPending
	}
	if !IsInitialStatus(status) {
		return nil, errors.ErrInitialStatusInvalid
	}
	if req.PaymentMethod != "" && !models.IsOfflineMethod(req.PaymentMethod) {
		return nil, errors.ErrPaymentMethodError
	}
	if err := s.ensureHotel(ctx, hotelID); err != nil {
		return nil, err
	}

	release, err := s.lock(ctx, "room", strconv.FormatInt(req.RoomID, 10))
	if err != nil {
		return nil, err
	}
	defer release()

	var booking *models.Booking
	var quote *marketing.Quote
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer, err := s.customers.Resolve(ctx, tx, user.Guest{
			FullName: req.Customer.FullName,
			Email:    req.Customer.Email,
			Phone:    req.Customer.Phone,
		})
		if err != nil {
			return err
		}

		roomID := req.RoomID
		quote, err = s.pricing.QuoteTx(ctx, tx, hotelID, &marketing.QuoteInput{
			RoomID:    &roomID,
			CheckIn:   checkIn,
			CheckOut:  checkOut,
			PromoCode: req.PromoCode,
		})
		if err != nil {
			return err
		}

		room, err := s.availability.ReserveRoom(ctx, tx, hotelID, roomID, checkIn, checkOut, 0)
		if err != nil {
			return err
		}

		if quote.PromotionID != nil {
			if err := s.pricing.ConsumePromotion(ctx, tx, *quote.PromotionID); err != nil {
				return err
			}
		}

		booking = s.newBooking(hotelID, room.ID, customer.ID, checkIn, checkOut, quote)
		booking.Status = status
		booking.Source = models.BookingSourceStaff
		booking.ArrivalTime = utils.OptionalString(req.ArrivalTime)
		booking.Note = utils.OptionalString(deskNote(req.Note, req.PaymentMethod))
		if req.GuestCount > 0 {
			booking.GuestCount = req.GuestCount
		}
		if status == models.BookingStatusCheckedIn {
			now := s.now()
			booking.CheckedInAt = &now
		}

		bookings := repository.NewBookingRepository(tx)
		if err := bookings.Create(ctx, booking); err != nil {
			return err
		}

		booking, err = bookings.GetByIDWithDetails(ctx, hotelID, booking.ID)
		return err
	})
	if err != nil {
		return nil, s.createError(err)
	}

	s.metrics.RecordBooking(booking.Source, booking.Status)
	s.logger.Info("booking created by staff",
		logger.HotelID(hotelID),
		logger.StaffID(staffID),
		logger.BookingID(booking.ID),
		logger.BookingNo(booking.BookingNo),
		logger.RoomID(booking.RoomID),
		zap.String("status", booking.Status),
	)

	return &StaffCreateBookingResult{Booking: NewBookingInfo(booking), Pricing: quote}, nil
}

// deskNote 前台备注，附带线下付款方式
func deskNote(note, paymentMethod string) string {
	note = strings.TrimSpace(note)
	if paymentMethod == "" {
		return note
	}
	method := "payment method: " + paymentMethod
	if note == "" {
		return method
	}
	return note + "; " + method
}

func (s *BookingService) newBooking(hotelID, roomID, customerID int64, checkIn, checkOut time.Time, quote *marketing.Quote) *models.Booking {
	return &models.Booking{
		BookingNo:      utils.GenerateBookingNo(bookingNoPrefix),
		HotelID:        hotelID,
		RoomID:         roomID,
		CustomerID:     customerID,
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		TotalPrice:     quote.TotalBefore,
		DiscountAmount: quote.Discount,
		FinalPrice:     quote.TotalAfter,
		AmountPaid:     0,
		PaymentStatus:  models.PaymentStatusUnpaid,
		PromotionID:    quote.PromotionID,
		GuestCount:     1,
	}
}

// createError 存储层冲突转为业务错误
func (s *BookingService) createError(err error) error {
	if errors.IsAppError(err) {
		return err
	}
	if database.IsExclusionViolation(err) {
		return errors.ErrRoomUnavailable.WithError(err)
	}
	if database.IsUniqueViolation(err) {
		return errors.ErrRoomUnavailable.WithMessage("预订冲突，请重试").WithError(err)
	}
	return errors.ErrDatabaseError.WithError(err)
}

func (s *BookingService) ensureHotel(ctx context.Context, hotelID int64) error {
	_, err := repository.NewHotelRepository(s.db).GetActive(ctx, hotelID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrHotelNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// lock 获取分布式锁；Redis 不可用时退化为仅依赖数据库行锁
func (s *BookingService) lock(ctx context.Context, parts ...string) (func(), error) {
	noop := func() {}
	if s.locker == nil {
		return noop, nil
	}

	key := strings.Join(parts, ":")
	release, err := s.locker.Lock(ctx, key)
	if err != nil {
		if stderrors.Is(err, cache.ErrLockNotAcquired) {
			return nil, errors.ErrBookingBusy
		}
		s.logger.Warn("booking lock unavailable, relying on row lock", zap.String("key", key), zap.Error(err))
		return noop, nil
	}
	return release, nil
}

// Cancel 预订人取消预订
func (s *BookingService) Cancel(ctx context.Context, hotelID, bookingID, userID int64, reason string) (*BookingInfo, error) {
	return s.cancel(ctx, hotelID, bookingID, reason, &userID, models.CancelledByUser)
}

// CancelByStaff 前台取消预订
func (s *BookingService) CancelByStaff(ctx context.Context, hotelID, bookingID, staffID int64, reason string) (*BookingInfo, error) {
	info, err := s.cancel(ctx, hotelID, bookingID, reason, &staffID, models.CancelledByStaff)
	if err == nil {
		s.logger.Info("booking cancelled by staff", logger.HotelID(hotelID), logger.BookingID(bookingID), logger.StaffID(staffID))
	}
	return info, err
}

func (s *BookingService) cancel(ctx context.Context, hotelID, bookingID int64, reason string, actorID *int64, actorType string) (*BookingInfo, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, errors.ErrInvalidParams.WithMessage("取消原因不能为空")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bookings := repository.NewBookingRepository(tx)
		booking, err := s.lockBooking(ctx, bookings, hotelID, bookingID)
		if err != nil {
			return err
		}

		if actorType == models.CancelledByUser {
			if booking.UserID == nil || actorID == nil || *booking.UserID != *actorID {
				return errors.ErrNotBookingOwner
			}
		}
		if !CanTransition(booking.Status, models.BookingStatusCancelled) {
			return errors.ErrInvalidTransition
		}

		// 取消记录先于状态更新写入，重复记录由唯一索引拒绝
		if err := repository.NewCancelReasonRepository(tx).Create(ctx, &models.CancelReason{
			BookingID:       booking.ID,
			Reason:          reason,
			CancelledBy:     actorID,
			CancelledByType: actorType,
		}); err != nil {
			if database.IsUniqueViolation(err) {
				return errors.ErrCancelReasonExists
			}
			return errors.ErrDatabaseError.WithError(err)
		}

		return s.applyTransition(ctx, bookings, booking.ID, models.BookingStatusCancelled, map[string]interface{}{
			"cancelled_at": s.now(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordBooking(actorType, models.BookingStatusCancelled)
	return s.Get(ctx, hotelID, bookingID)
}

// Confirm 前台确认待确认预订，确认后开始占用房间
func (s *BookingService) Confirm(ctx context.Context, hotelID, bookingID, staffID int64) (*BookingInfo, error) {
	return s.occupy(ctx, hotelID, bookingID, staffID, models.BookingStatusConfirmed, nil)
}

// CheckIn 办理入住
func (s *BookingService) CheckIn(ctx context.Context, hotelID, bookingID, staffID int64) (*BookingInfo, error) {
	return s.occupy(ctx, hotelID, bookingID, staffID, models.BookingStatusCheckedIn, map[string]interface{}{
		"checked_in_at": s.now(),
	})
}

// CheckOut 办理退房
func (s *BookingService) CheckOut(ctx context.Context, hotelID, bookingID, staffID int64) (*BookingInfo, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bookings := repository.NewBookingRepository(tx)
		booking, err := s.lockBooking(ctx, bookings, hotelID, bookingID)
		if err != nil {
			return err
		}
		if !CanTransition(booking.Status, models.BookingStatusCheckedOut) {
			return errors.ErrInvalidTransition
		}
		return s.applyTransition(ctx, bookings, booking.ID, models.BookingStatusCheckedOut, map[string]interface{}{
			"checked_out_at": s.now(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking checked out", logger.HotelID(hotelID), logger.BookingID(bookingID), logger.StaffID(staffID))
	return s.Get(ctx, hotelID, bookingID)
}

// occupy 流转到占用状态；从待确认流转时需要重新校验房间冲突
func (s *BookingService) occupy(ctx context.Context, hotelID, bookingID, staffID int64, to string, fields map[string]interface{}) (*BookingInfo, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bookings := repository.NewBookingRepository(tx)
		booking, err := s.lockBooking(ctx, bookings, hotelID, bookingID)
		if err != nil {
			return err
		}
		if !CanTransition(booking.Status, to) {
			return errors.ErrInvalidTransition
		}
		if !Blocks(booking.Status) {
			if _, err := s.availability.ReserveRoom(ctx, tx, hotelID, booking.RoomID, booking.CheckIn, booking.CheckOut, booking.ID); err != nil {
				return err
			}
		}
		return s.applyTransition(ctx, bookings, booking.ID, to, fields)
	})
	if err != nil {
		return nil, s.createError(err)
	}

	s.logger.Info("booking status changed",
		logger.HotelID(hotelID), logger.BookingID(bookingID), logger.StaffID(staffID), zap.String("status", to))
	return s.Get(ctx, hotelID, bookingID)
}

func (s *BookingService) lockBooking(ctx context.Context, bookings *repository.BookingRepository, hotelID, bookingID int64) (*models.Booking, error) {
	booking, err := bookings.GetForUpdate(ctx, bookingID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrBookingNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if booking.HotelID != hotelID {
		return nil, errors.ErrBookingNotFound
	}
	return booking, nil
}

func (s *BookingService) applyTransition(ctx context.Context, bookings *repository.BookingRepository, bookingID int64, to string, fields map[string]interface{}) error {
	rows, err := bookings.TransitionStatus(ctx, bookingID, sourcesOf(to), to, fields)
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	if rows == 0 {
		return errors.ErrInvalidTransition
	}
	return nil
}

// Get 获取预订详情（前台）
func (s *BookingService) Get(ctx context.Context, hotelID, bookingID int64) (*BookingInfo, error) {
	booking, err := repository.NewBookingRepository(s.db).GetByIDWithDetails(ctx, hotelID, bookingID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrBookingNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return NewBookingInfo(booking), nil
}

// GetForOwner 获取本人的预订详情
func (s *BookingService) GetForOwner(ctx context.Context, hotelID, bookingID, userID int64) (*BookingInfo, error) {
	info, err := s.Get(ctx, hotelID, bookingID)
	if err != nil {
		return nil, err
	}
	if info.UserID == nil || *info.UserID != userID {
		return nil, errors.ErrNotBookingOwner
	}
	return info, nil
}

// ListMine 获取本人在酒店的预订列表
func (s *BookingService) ListMine(ctx context.Context, hotelID, userID int64, page *utils.Pagination) ([]*BookingInfo, int64, error) {
	page.Normalize()
	bookings, total, err := repository.NewBookingRepository(s.db).ListByUser(ctx, hotelID, userID, page.GetOffset(), page.GetLimit())
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}

	list := make([]*BookingInfo, 0, len(bookings))
	for _, b := range bookings {
		list = append(list, NewBookingInfo(b))
	}
	return list, total, nil
}

// ExpireStalePending 取消超时且未付款的待确认预订（定时任务调用）
func (s *BookingService) ExpireStalePending(ctx context.Context, olderThan time.Duration) (int, error) {
	stale, err := repository.NewBookingRepository(s.db).ListStalePending(ctx, s.now().Add(-olderThan), 100)
	if err != nil {
		return 0, errors.ErrDatabaseError.WithError(err)
	}

	expired := 0
	for _, b := range stale {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			bookings := repository.NewBookingRepository(tx)
			booking, err := bookings.GetForUpdate(ctx, b.ID)
			if err != nil {
				return err
			}
			// 加锁后状态或付款可能已变化
			if booking.Status != models.BookingStatusPending || booking.AmountPaid > 0 {
				return nil
			}
			if err := repository.NewCancelReasonRepository(tx).Create(ctx, &models.CancelReason{
				BookingID:       booking.ID,
				Reason:          fmt.Sprintf("unpaid for more than %s", olderThan),
				CancelledByType: models.CancelledBySystem,
			}); err != nil {
				return err
			}
			if err := s.applyTransition(ctx, bookings, booking.ID, models.BookingStatusCancelled, map[string]interface{}{
				"cancelled_at": s.now(),
			}); err != nil {
				return err
			}
			expired++
			return nil
		})
		if err != nil {
			s.logger.Error("expire pending booking failed", logger.BookingID(b.ID), zap.Error(err))
		}
	}

	if expired > 0 {
		s.metrics.RecordBooking(models.CancelledBySystem, models.BookingStatusCancelled)
		s.logger.Info("stale pending bookings expired", zap.Int("count", expired))
	}
	return expired, nil
}
