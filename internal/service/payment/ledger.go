// Package payment 提供付款账本与 VNPAY 支付服务
package payment

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/akhoa6204/booking-hotel-sub000/internal/common/database"
	"github.com/akhoa6204/booking-hotel-sub000/internal/common/errors"
	"github.com/akhoa6204/booking-hotel-sub000/internal/common/logger"
	"github.com/akhoa6204/booking-hotel-sub000/internal/common/metrics"
	"github.com/akhoa6204/booking-hotel-sub000/internal/common/tracing"
	"github.com/akhoa6204/booking-hotel-sub000/internal/common/utils"
	"github.com/akhoa6204/booking-hotel-sub000/internal/models"
	"github.com/akhoa6204/booking-hotel-sub000/internal/repository"
)

// Epsilon 金额比较容差
const Epsilon = 0.01

// DerivePaymentStatus 由已付金额推导付款状态
func DerivePaymentStatus(amountPaid, finalPrice float64) string {
	switch {
	case amountPaid <= Epsilon:
		return models.PaymentStatusUnpaid
	case amountPaid >= finalPrice-Epsilon:
		return models.PaymentStatusPaid
	default:
		return models.PaymentStatusPartial
	}
}

// applyAmount 按流水状态调整已付金额，退款不低于 0
func applyAmount(amountPaid float64, status string, amount float64) float64 {
	switch status {
	case models.PaymentRecordPaid:
		amountPaid += amount
	case models.PaymentRecordRefunded:
		amountPaid -= amount
	}
	if amountPaid < 0 {
		amountPaid = 0
	}
	return utils.RoundMoney(amountPaid)
}

// OfflinePaymentInput 前台线下收款
type OfflinePaymentInput struct {
	BookingID int64   `json:"-"`
	Method    string  `json:"method" binding:"required,oneof=CASH CARD BANK_TRANSFER"`
	Status    string  `json:"status" binding:"required,oneof=PAID FAILED REFUNDED"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
	Note      string  `json:"note" binding:"omitempty,max=500"`
}

// GatewayPayment 网关已验签的成功付款
type GatewayPayment struct {
	BookingID   int64
	ProviderTxn string
	TxnRef      string
	Amount      float64
	Raw         map[string]string
}

// ApplyResult 网关付款入账结果，Applied 为 false 表示重复通知
type ApplyResult struct {
	Applied bool
	Booking *models.Booking
	Payment *models.Payment
}

// ReconcileResult 对账结果
type ReconcileResult struct {
	BookingID        int64   `json:"bookingId"`
	StoredAmountPaid float64 `json:"storedAmountPaid"`
	LedgerAmountPaid float64 `json:"ledgerAmountPaid"`
	PaymentStatus    string  `json:"paymentStatus"`
	Drift            bool    `json:"drift"`
}

var errDuplicateTxn = stderrors.New("duplicate provider txn")

// LedgerService 付款账本，booking.amount_paid 只在此处写入
type LedgerService struct {
	db       *gorm.DB
	notifier *Notifier
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewLedgerService 创建账本服务，notifier 可为空
func NewLedgerService(db *gorm.DB, notifier *Notifier, m *metrics.Metrics, log *zap.Logger) *LedgerService {
	if log == nil {
		log = zap.NewNop()
	}
	return &LedgerService{
		db:       db,
		notifier: notifier,
		metrics:  m,
		logger:   log.Named("ledger"),
		now:      time.Now,
	}
}

// RecordOffline 登记线下收款或退款
func (s *LedgerService) RecordOffline(ctx context.Context, hotelID, staffID int64, in *OfflinePaymentInput) (booking *models.Booking, err error) {
	ctx, span := tracing.Start(ctx, "ledger.record_offline",
		tracing.WithHotelID(hotelID), tracing.WithBookingID(in.BookingID))
	defer func() { tracing.End(span, err) }()

	amount := utils.RoundMoney(in.Amount)
	if amount <= 0 {
		return nil, errors.ErrPaymentAmountInvalid
	}
	if !models.IsOfflineMethod(in.Method) {
		return nil, errors.ErrPaymentMethodError
	}
	switch in.Status {
	case models.PaymentRecordPaid, models.PaymentRecordFailed, models.PaymentRecordRefunded:
	default:
		return nil, errors.ErrPaymentStatusInvalid
	}

	now := s.now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bookings := repository.NewBookingRepository(tx)
		locked, err := lockBooking(ctx, bookings, in.BookingID)
		if err != nil {
			return err
		}
		if locked.HotelID != hotelID {
			return errors.ErrBookingNotFound
		}

		payment := &models.Payment{
			PaymentNo:  utils.GeneratePaymentNo(),
			BookingID:  locked.ID,
			Amount:     amount,
			Method:     in.Method,
			Status:     in.Status,
			Provider:   models.PaymentProviderOffline,
			Note:       utils.OptionalString(in.Note),
			OperatorID: &staffID,
		}
		if in.Status == models.PaymentRecordPaid {
			payment.PaidAt = &now
		}
		if err := repository.NewPaymentRepository(tx).Create(ctx, payment); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}

		paid := applyAmount(locked.AmountPaid, in.Status, amount)
		if err := bookings.UpdatePaymentState(ctx, locked.ID, paid, DerivePaymentStatus(paid, locked.FinalPrice)); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}

		booking, err = bookings.GetByIDWithDetails(ctx, hotelID, locked.ID)
		if err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordPayment(models.PaymentProviderOffline, in.Status)
	s.logger.Info("offline payment recorded",
		logger.HotelID(hotelID),
		logger.StaffID(staffID),
		logger.BookingID(booking.ID),
		logger.Amount(amount),
		zap.String("method", in.Method),
		zap.String("status", in.Status),
		zap.String("payment_status", booking.PaymentStatus),
	)

	if in.Status == models.PaymentRecordPaid {
		s.notifier.PaymentReceived(ctx, booking, amount)
	}
	return booking, nil
}

// ApplyGatewayPayment 网关付款入账，同一 providerTxn 只入账一次
func (s *LedgerService) ApplyGatewayPayment(ctx context.Context, in *GatewayPayment) (result *ApplyResult, err error) {
	ctx, span := tracing.Start(ctx, "ledger.apply_gateway",
		tracing.WithBookingID(in.BookingID), tracing.WithTxnRef(in.TxnRef))
	defer func() { tracing.End(span, err) }()

	providerTxn := strings.TrimSpace(in.ProviderTxn)
	if providerTxn == "" {
		return nil, errors.ErrPaymentCallbackError.WithMessage("缺少网关交易号")
	}
	amount := utils.RoundMoney(in.Amount)
	if amount <= 0 {
		return nil, errors.ErrPaymentAmountInvalid
	}

	raw, err := json.Marshal(in.Raw)
	if err != nil {
		return nil, errors.ErrPaymentCallbackError.WithError(err)
	}

	now := s.now()
	result = &ApplyResult{}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bookings := repository.NewBookingRepository(tx)
		payments := repository.NewPaymentRepository(tx)

		locked, err := lockBooking(ctx, bookings, in.BookingID)
		if err != nil {
			return err
		}

		exists, err := payments.ExistsByProviderTxn(ctx, models.PaymentProviderVNPay, providerTxn)
		if err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		if exists {
			return errDuplicateTxn
		}

		// 锁内校验，防止两笔不同交易并发超付
		if amount > utils.RoundMoney(locked.RemainingAmount())+Epsilon {
			return errors.ErrPaymentAmountInvalid.WithMessage("支付金额超过待付金额")
		}

		payment := &models.Payment{
			PaymentNo:   utils.GeneratePaymentNo(),
			BookingID:   locked.ID,
			Amount:      amount,
			Method:      models.PaymentMethodVNPay,
			Status:      models.PaymentRecordPaid,
			Provider:    models.PaymentProviderVNPay,
			ProviderTxn: &providerTxn,
			TxnRef:      utils.OptionalString(in.TxnRef),
			RawPayload:  datatypes.JSON(raw),
			PaidAt:      &now,
		}
		if err := payments.Create(ctx, payment); err != nil {
			if database.IsUniqueViolation(err) {
				return errDuplicateTxn
			}
			return errors.ErrDatabaseError.WithError(err)
		}

		paid := applyAmount(locked.AmountPaid, models.PaymentRecordPaid, amount)
		if err := bookings.UpdatePaymentState(ctx, locked.ID, paid, DerivePaymentStatus(paid, locked.FinalPrice)); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}

		booking, err := bookings.GetByIDWithDetails(ctx, locked.HotelID, locked.ID)
		if err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		result.Applied = true
		result.Booking = booking
		result.Payment = payment
		return nil
	})

	if stderrors.Is(err, errDuplicateTxn) {
		s.logger.Info("duplicate gateway payment ignored",
			logger.BookingID(in.BookingID), logger.TxnRef(in.TxnRef), logger.ProviderTxn(providerTxn))
		booking, err := repository.NewBookingRepository(s.db).GetByIDAnyHotel(ctx, in.BookingID)
		if err != nil {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
		return &ApplyResult{Applied: false, Booking: booking}, nil
	}
	if err != nil {
		return nil, err
	}

	s.metrics.RecordPayment(models.PaymentProviderVNPay, models.PaymentRecordPaid)
	s.logger.Info("gateway payment applied",
		logger.BookingID(result.Booking.ID),
		logger.BookingNo(result.Booking.BookingNo),
		logger.TxnRef(in.TxnRef),
		logger.ProviderTxn(providerTxn),
		logger.Amount(amount),
		zap.String("payment_status", result.Booking.PaymentStatus),
	)
	s.notifier.PaymentReceived(ctx, result.Booking, amount)
	return result, nil
}

// ListPayments 预订的账本流水
func (s *LedgerService) ListPayments(ctx context.Context, hotelID, bookingID int64) ([]*models.Payment, error) {
	if _, err := repository.NewBookingRepository(s.db).GetByID(ctx, hotelID, bookingID); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrBookingNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	payments, err := repository.NewPaymentRepository(s.db).ListByBooking(ctx, bookingID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return payments, nil
}

// Reconcile 按流水重算已付金额，修正偏差
func (s *LedgerService) Reconcile(ctx context.Context, hotelID, bookingID int64) (*ReconcileResult, error) {
	var result *ReconcileResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bookings := repository.NewBookingRepository(tx)
		locked, err := lockBooking(ctx, bookings, bookingID)
		if err != nil {
			return err
		}
		if locked.HotelID != hotelID {
			return errors.ErrBookingNotFound
		}

		sums, err := repository.NewPaymentRepository(tx).SumByStatus(ctx, bookingID)
		if err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		paid := utils.RoundMoney(math.Max(0, sums[models.PaymentRecordPaid]-sums[models.PaymentRecordRefunded]))
		status := DerivePaymentStatus(paid, locked.FinalPrice)

		result = &ReconcileResult{
			BookingID:        locked.ID,
			StoredAmountPaid: locked.AmountPaid,
			LedgerAmountPaid: paid,
			PaymentStatus:    status,
			Drift:            math.Abs(paid-locked.AmountPaid) > Epsilon || status != locked.PaymentStatus,
		}
		if !result.Drift {
			return nil
		}
		if err := bookings.UpdatePaymentState(ctx, locked.ID, paid, status); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Drift {
		s.logger.Warn("payment drift corrected",
			logger.HotelID(hotelID),
			logger.BookingID(bookingID),
			zap.Float64("stored", result.StoredAmountPaid),
			zap.Float64("ledger", result.LedgerAmountPaid),
		)
	}
	return result, nil
}

func lockBooking(ctx context.Context, bookings *repository.BookingRepository, bookingID int64) (*models.Booking, error) {
	booking, err := bookings.GetForUpdate(ctx, bookingID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrBookingNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return booking, nil
}
