package payment

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/akhoa6204/booking-hotel-sub000/internal/common/logger"
	"github.com/akhoa6204/booking-hotel-sub000/internal/common/utils"
	"github.com/akhoa6204/booking-hotel-sub000/internal/models"
	"github.com/akhoa6204/booking-hotel-sub000/pkg/mailer"
	"github.com/akhoa6204/booking-hotel-sub000/pkg/sms"
)

// Notifier 付款成功通知，发送失败只记录日志
type Notifier struct {
	mailer mailer.Mailer
	sms    sms.Sender
	logger *zap.Logger
}

// NewNotifier 创建通知器，mailer 与 sms 均可为空
func NewNotifier(m mailer.Mailer, s sms.Sender, log *zap.Logger) *Notifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Notifier{mailer: m, sms: s, logger: log.Named("notifier")}
}

// PaymentReceived 通知客人已收到付款，booking 需预加载 Customer
func (n *Notifier) PaymentReceived(ctx context.Context, booking *models.Booking, amount float64) {
	if n == nil || booking == nil {
		return
	}
	if booking.Customer == nil {
		n.logger.Warn("payment notification skipped, customer not loaded", logger.BookingID(booking.ID))
		return
	}

	amountText := strconv.FormatFloat(amount, 'f', 0, 64)

	if email := utils.SafeString(booking.Customer.Email); email != "" && n.mailer != nil {
		subject := "Payment received for booking " + booking.BookingNo
		body := fmt.Sprintf(
			"Hello %s,\n\nWe received %s VND for booking %s.\nPaid: %s VND of %s VND.\n",
			booking.Customer.FullName,
			amountText,
			booking.BookingNo,
			strconv.FormatFloat(booking.AmountPaid, 'f', 0, 64),
			strconv.FormatFloat(booking.FinalPrice, 'f', 0, 64),
		)
		if err := n.mailer.Send(ctx, email, subject, body); err != nil {
			n.logger.Error("send payment email failed", logger.BookingID(booking.ID), zap.Error(err))
		}
	}

	if n.sms != nil && booking.Customer.Phone != "" {
		if err := n.sms.SendPaymentSuccess(ctx, booking.Customer.Phone, booking.BookingNo, amountText); err != nil {
			n.logger.Error("send payment sms failed", logger.BookingID(booking.ID), zap.Error(err))
		}
	}
}
