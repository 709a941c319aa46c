package payment

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/akhoa6204/booking-hotel-sub000/internal/common/errors"
	"github.com/akhoa6204/booking-hotel-sub000/internal/common/logger"
	"github.com/akhoa6204/booking-hotel-sub000/internal/common/metrics"
	"github.com/akhoa6204/booking-hotel-sub000/internal/common/qrcode"
	"github.com/akhoa6204/booking-hotel-sub000/internal/common/utils"
	"github.com/akhoa6204/booking-hotel-sub000/internal/models"
	"github.com/akhoa6204/booking-hotel-sub000/internal/repository"
	"github.com/akhoa6204/booking-hotel-sub000/pkg/vnpay"
)

// 回调失败原因
const (
	ReasonInvalidSignature = "invalid_signature"
	ReasonBadTxnRef        = "bad_txn_ref"
	ReasonBookingNotFound  = "booking_not_found"
	ReasonAmountMismatch   = "amount_mismatch"
	ReasonPaymentFailed    = "payment_failed"
	ReasonInternalError    = "internal_error"
)

// 回调指标结果
const (
	callbackSuccess   = "success"
	callbackDuplicate = "duplicate"
)

// Options 支付服务配置
type Options struct {
	DepositAmount     float64 // 自助支付的定金上限，<= 0 表示付清
	FrontendReturnURL string
}

// LinkActor 支付链接请求方
type LinkActor struct {
	Staff  bool
	UserID *int64
}

// PaymentLink 支付链接
type PaymentLink struct {
	VnpayURL string  `json:"vnpayUrl"`
	Amount   float64 `json:"amount"`
	TxnRef   string  `json:"txnRef"`
	QRCode   string  `json:"qrCode,omitempty"` // base64 PNG
}

// PaymentService VNPAY 支付服务
type PaymentService struct {
	db      *gorm.DB
	ledger  *LedgerService
	gateway *vnpay.Client
	qr      *qrcode.Generator
	opts    Options
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewPaymentService 创建支付服务，gateway 为空时不能生成支付链接
func NewPaymentService(
	db *gorm.DB,
	ledger *LedgerService,
	gateway *vnpay.Client,
	qr *qrcode.Generator,
	opts Options,
	m *metrics.Metrics,
	log *zap.Logger,
) *PaymentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PaymentService{
		db:      db,
		ledger:  ledger,
		gateway: gateway,
		qr:      qr,
		opts:    opts,
		metrics: m,
		logger:  log.Named("payment"),
		now:     time.Now,
	}
}

// CreatePaymentLink 生成 VNPAY 支付链接；前台付清剩余金额，自助支付不超过定金
func (s *PaymentService) CreatePaymentLink(ctx context.Context, hotelID, bookingID int64, actor LinkActor, clientIP string) (*PaymentLink, error) {
	if s.gateway == nil {
		return nil, errors.ErrPaymentMethodError.WithMessage("VNPAY 未配置")
	}

	booking, err := repository.NewBookingRepository(s.db).GetByID(ctx, hotelID, bookingID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrBookingNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if !actor.Staff && actor.UserID != nil && booking.UserID != nil && *booking.UserID != *actor.UserID {
		return nil, errors.ErrNotBookingOwner
	}
	if booking.Status == models.BookingStatusCancelled || booking.Status == models.BookingStatusCheckedOut {
		return nil, errors.ErrNothingToPay.WithMessage("预订已取消或已退房")
	}

	remaining := utils.RoundMoney(booking.RemainingAmount())
	if remaining <= Epsilon {
		return nil, errors.ErrNothingToPay
	}

	amount := remaining
	if !actor.Staff && s.opts.DepositAmount > 0 && s.opts.DepositAmount < remaining {
		amount = s.opts.DepositAmount
	}

	now := s.now()
	txnRef := vnpay.BuildTxnRef(booking.ID, now)
	payURL, err := s.gateway.BuildPaymentURL(&vnpay.PaymentRequest{
		TxnRef:     txnRef,
		Amount:     amount,
		OrderInfo:  fmt.Sprintf("Thanh toan dat phong %s", booking.BookingNo),
		IPAddr:     clientIP,
		CreateDate: now,
	})
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}

	link := &PaymentLink{VnpayURL: payURL, Amount: amount, TxnRef: txnRef}
	if s.qr != nil {
		if code, err := s.qr.GenerateBase64(payURL); err != nil {
			s.logger.Warn("generate payment qr failed", logger.BookingID(booking.ID), zap.Error(err))
		} else {
			link.QRCode = code
		}
	}

	s.logger.Info("payment link created",
		logger.HotelID(hotelID),
		logger.BookingID(booking.ID),
		logger.TxnRef(txnRef),
		logger.Amount(amount),
		zap.Bool("staff", actor.Staff),
	)
	return link, nil
}

// callbackOutcome 回调处理结果，reason 为空表示成功
type callbackOutcome struct {
	bookingID int64
	reason    string
	duplicate bool
}

// HandleReturn 处理浏览器回跳，总是返回前端跳转地址
func (s *PaymentService) HandleReturn(ctx context.Context, query url.Values) string {
	out := s.process(ctx, query)

	target, err := url.Parse(s.opts.FrontendReturnURL)
	if err != nil {
		target = &url.URL{Path: "/"}
	}
	q := target.Query()
	if out.reason == "" {
		q.Set("result", "success")
	} else {
		q.Set("result", "fail")
		q.Set("reason", out.reason)
	}
	if out.bookingID > 0 {
		q.Set("bookingId", fmt.Sprintf("%d", out.bookingID))
	}
	target.RawQuery = q.Encode()
	return target.String()
}

// HandleIPN 处理服务端通知，按网关约定返回应答码
func (s *PaymentService) HandleIPN(ctx context.Context, query url.Values) *vnpay.IPNResponse {
	out := s.process(ctx, query)

	switch {
	case out.duplicate:
		return &vnpay.IPNResponse{RspCode: vnpay.RspAlreadyConfirmed, Message: "Order already confirmed"}
	case out.reason == "", out.reason == ReasonPaymentFailed:
		return &vnpay.IPNResponse{RspCode: vnpay.RspConfirmSuccess, Message: "Confirm Success"}
	case out.reason == ReasonInvalidSignature:
		return &vnpay.IPNResponse{RspCode: vnpay.RspInvalidSignature, Message: "Invalid signature"}
	case out.reason == ReasonBadTxnRef, out.reason == ReasonBookingNotFound:
		return &vnpay.IPNResponse{RspCode: vnpay.RspOrderNotFound, Message: "Order not found"}
	case out.reason == ReasonAmountMismatch:
		return &vnpay.IPNResponse{RspCode: vnpay.RspInvalidAmount, Message: "Invalid amount"}
	default:
		return &vnpay.IPNResponse{RspCode: vnpay.RspUnknownError, Message: "Unknown error"}
	}
}

// process return 与 IPN 共用的校验与入账流程
func (s *PaymentService) process(ctx context.Context, query url.Values) (out callbackOutcome) {
	defer func() {
		result := out.reason
		switch {
		case out.duplicate:
			result = callbackDuplicate
		case result == "":
			result = callbackSuccess
		}
		s.metrics.RecordGatewayCallback(result)
	}()

	if s.gateway == nil {
		return callbackOutcome{reason: ReasonInternalError}
	}

	res, err := s.gateway.VerifyReturn(query)
	if err != nil {
		s.logger.Warn("vnpay signature invalid", logger.TxnRef(query.Get("vnp_TxnRef")))
		return callbackOutcome{reason: ReasonInvalidSignature}
	}

	bookingID, err := vnpay.ParseTxnRef(res.TxnRef)
	if err != nil {
		s.logger.Warn("vnpay txn ref invalid", logger.TxnRef(res.TxnRef))
		return callbackOutcome{reason: ReasonBadTxnRef}
	}
	out.bookingID = bookingID

	if _, err := repository.NewBookingRepository(s.db).GetByIDAnyHotel(ctx, bookingID); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			out.reason = ReasonBookingNotFound
			return out
		}
		s.logger.Error("load booking for callback failed", logger.BookingID(bookingID), zap.Error(err))
		out.reason = ReasonInternalError
		return out
	}

	if !res.Success() {
		s.logger.Info("vnpay payment not successful",
			logger.BookingID(bookingID),
			logger.TxnRef(res.TxnRef),
			zap.String("response_code", res.ResponseCode),
			zap.String("transaction_status", res.TransactionStatus),
		)
		out.reason = ReasonPaymentFailed
		return out
	}

	providerTxn := res.TransactionNo
	if providerTxn == "" || providerTxn == "0" {
		providerTxn = res.TxnRef
	}

	applied, err := s.ledger.ApplyGatewayPayment(ctx, &GatewayPayment{
		BookingID:   bookingID,
		ProviderTxn: providerTxn,
		TxnRef:      res.TxnRef,
		Amount:      res.Amount,
		Raw:         res.Raw,
	})
	switch {
	case err == nil:
		out.duplicate = !applied.Applied
	case stderrors.Is(err, errors.ErrPaymentAmountInvalid):
		s.logger.Warn("vnpay amount mismatch",
			logger.BookingID(bookingID), logger.TxnRef(res.TxnRef), logger.Amount(res.Amount))
		out.reason = ReasonAmountMismatch
	case stderrors.Is(err, errors.ErrBookingNotFound):
		out.reason = ReasonBookingNotFound
	default:
		s.logger.Error("apply gateway payment failed",
			logger.BookingID(bookingID), logger.TxnRef(res.TxnRef), zap.Error(err))
		out.reason = ReasonInternalError
	}
	return out
}
