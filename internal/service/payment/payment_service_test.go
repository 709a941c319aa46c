package payment

import (
	"context"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/akhoa6204/booking-hotel-sub000/internal/common/errors"
	"github.com/akhoa6204/booking-hotel-sub000/internal/common/qrcode"
	"github.com/akhoa6204/booking-hotel-sub000/internal/models"
	"github.com/akhoa6204/booking-hotel-sub000/pkg/vnpay"
)

const frontendURL = "http://localhost:3000/payment/result"

func newGateway(t *testing.T) *vnpay.Client {
	c, err := vnpay.NewClient(&vnpay.Config{
		TmnCode:    "DEMO0001",
		HashSecret: "TESTSECRET",
		PayURL:     "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		ReturnURL:  "http://localhost:8080/api/v1/payments/vnpay/return",
	})
	require.NoError(t, err)
	return c
}

func newPaymentService(t *testing.T, f *ledgerFixture, deposit float64) (*PaymentService, *vnpay.Client) {
	gw := newGateway(t)
	svc := NewPaymentService(f.db, f.ledger, gw, qrcode.NewGenerator(qrcode.WithSize(128)), Options{
		DepositAmount:     deposit,
		FrontendReturnURL: frontendURL,
	}, nil, nil)
	return svc, gw
}

// callback 构造网关签名后的回调参数
func callback(gw *vnpay.Client, txnRef string, amount float64, responseCode, txnNo string) url.Values {
	q := url.Values{}
	q.Set("vnp_TmnCode", "DEMO0001")
	q.Set("vnp_TxnRef", txnRef)
	q.Set("vnp_Amount", strconv.FormatInt(int64(amount*100), 10))
	q.Set("vnp_ResponseCode", responseCode)
	q.Set("vnp_TransactionStatus", responseCode)
	q.Set("vnp_TransactionNo", txnNo)
	q.Set("vnp_BankCode", "NCB")
	q.Set("vnp_OrderInfo", "Thanh toan dat phong")
	q.Set("vnp_SecureHash", gw.Sign(q))
	return q
}

func redirectQuery(t *testing.T, redirect string) url.Values {
	u, err := url.Parse(redirect)
	require.NoError(t, err)
	assert.Equal(t, "localhost:3000", u.Host)
	assert.Equal(t, "/payment/result", u.Path)
	return u.Query()
}

func TestPaymentService_CreatePaymentLink(t *testing.T) {
	ctx := context.Background()

	t.Run("自助支付按定金", func(t *testing.T) {
		f := seedLedger(t)
		svc, _ := newPaymentService(t, f, 300000)

		link, err := svc.CreatePaymentLink(ctx, f.hotel.ID, f.booking.ID, LinkActor{}, "10.0.0.8")
		require.NoError(t, err)
		assert.Equal(t, 300000.0, link.Amount)
		assert.NotEmpty(t, link.QRCode)

		id, err := vnpay.ParseTxnRef(link.TxnRef)
		require.NoError(t, err)
		assert.Equal(t, f.booking.ID, id)

		u, err := url.Parse(link.VnpayURL)
		require.NoError(t, err)
		assert.Equal(t, "30000000", u.Query().Get("vnp_Amount"))
		assert.Equal(t, "10.0.0.8", u.Query().Get("vnp_IpAddr"))
		assert.Equal(t, link.TxnRef, u.Query().Get("vnp_TxnRef"))
	})

	t.Run("前台付清剩余", func(t *testing.T) {
		f := seedLedger(t)
		svc, _ := newPaymentService(t, f, 300000)
		require.NoError(t, f.db.Model(&models.Booking{}).Where("id = ?", f.booking.ID).Update("amount_paid", 250000).Error)

		link, err := svc.CreatePaymentLink(ctx, f.hotel.ID, f.booking.ID, LinkActor{Staff: true}, "")
		require.NoError(t, err)
		assert.Equal(t, 750000.0, link.Amount)
	})

	t.Run("剩余少于定金", func(t *testing.T) {
		f := seedLedger(t)
		svc, _ := newPaymentService(t, f, 300000)
		require.NoError(t, f.db.Model(&models.Booking{}).Where("id = ?", f.booking.ID).Update("amount_paid", 900000).Error)

		link, err := svc.CreatePaymentLink(ctx, f.hotel.ID, f.booking.ID, LinkActor{}, "")
		require.NoError(t, err)
		assert.Equal(t, 100000.0, link.Amount)
	})

	t.Run("未配置定金时付清", func(t *testing.T) {
		f := seedLedger(t)
		svc, _ := newPaymentService(t, f, 0)

		link, err := svc.CreatePaymentLink(ctx, f.hotel.ID, f.booking.ID, LinkActor{}, "")
		require.NoError(t, err)
		assert.Equal(t, 1000000.0, link.Amount)
	})

	t.Run("已付清", func(t *testing.T) {
		f := seedLedger(t)
		svc, _ := newPaymentService(t, f, 300000)
		require.NoError(t, f.db.Model(&models.Booking{}).Where("id = ?", f.booking.ID).Update("amount_paid", 1000000).Error)

		_, err := svc.CreatePaymentLink(ctx, f.hotel.ID, f.booking.ID, LinkActor{Staff: true}, "")
		assert.ErrorIs(t, err, appErrors.ErrNothingToPay)
	})

	t.Run("已取消", func(t *testing.T) {
		f := seedLedger(t)
		svc, _ := newPaymentService(t, f, 300000)
		require.NoError(t, f.db.Model(&models.Booking{}).Where("id = ?", f.booking.ID).Update("status", models.BookingStatusCancelled).Error)

		_, err := svc.CreatePaymentLink(ctx, f.hotel.ID, f.booking.ID, LinkActor{}, "")
		assert.ErrorIs(t, err, appErrors.ErrNothingToPay)
	})

	t.Run("他人的预订", func(t *testing.T) {
		f := seedLedger(t)
		svc, _ := newPaymentService(t, f, 300000)
		owner, other := int64(11), int64(12)
		require.NoError(t, f.db.Model(&models.Booking{}).Where("id = ?", f.booking.ID).Update("user_id", owner).Error)

		_, err := svc.CreatePaymentLink(ctx, f.hotel.ID, f.booking.ID, LinkActor{UserID: &other}, "")
		assert.ErrorIs(t, err, appErrors.ErrNotBookingOwner)

		_, err = svc.CreatePaymentLink(ctx, f.hotel.ID, f.booking.ID, LinkActor{UserID: &owner}, "")
		assert.NoError(t, err)
	})

	t.Run("预订不存在", func(t *testing.T) {
		f := seedLedger(t)
		svc, _ := newPaymentService(t, f, 300000)
		_, err := svc.CreatePaymentLink(ctx, f.hotel.ID+1, f.booking.ID, LinkActor{}, "")
		assert.ErrorIs(t, err, appErrors.ErrBookingNotFound)
	})

	t.Run("未配置网关", func(t *testing.T) {
		f := seedLedger(t)
		svc := NewPaymentService(f.db, f.ledger, nil, nil, Options{}, nil, nil)
		_, err := svc.CreatePaymentLink(ctx, f.hotel.ID, f.booking.ID, LinkActor{}, "")
		assert.ErrorIs(t, err, appErrors.ErrPaymentMethodError)
	})
}

func TestPaymentService_HandleReturn(t *testing.T) {
	ctx := context.Background()
	txnRef := func(f *ledgerFixture) string { return vnpay.BuildTxnRef(f.booking.ID, time.Now()) }

	t.Run("支付成功入账", func(t *testing.T) {
		f := seedLedger(t)
		svc, gw := newPaymentService(t, f, 300000)

		q := redirectQuery(t, svc.HandleReturn(ctx, callback(gw, txnRef(f), 300000, "00", "14100001")))
		assert.Equal(t, "success", q.Get("result"))
		assert.Empty(t, q.Get("reason"))
		assert.Equal(t, strconv.FormatInt(f.booking.ID, 10), q.Get("bookingId"))

		b := f.reload(t)
		assert.Equal(t, 300000.0, b.AmountPaid)
		assert.Equal(t, models.PaymentStatusPartial, b.PaymentStatus)
	})

	t.Run("重复回跳仍为成功且不重复入账", func(t *testing.T) {
		f := seedLedger(t)
		svc, gw := newPaymentService(t, f, 300000)
		cb := callback(gw, txnRef(f), 300000, "00", "14100002")

		svc.HandleReturn(ctx, cb)
		q := redirectQuery(t, svc.HandleReturn(ctx, cb))
		assert.Equal(t, "success", q.Get("result"))
		assert.Equal(t, 300000.0, f.reload(t).AmountPaid)
		assert.EqualValues(t, 1, f.countPayments(t))
		assert.Equal(t, 1, f.mail.Count())
	})

	t.Run("付清后重放已知交易", func(t *testing.T) {
		f := seedLedger(t)
		svc, gw := newPaymentService(t, f, 0)
		cb := callback(gw, txnRef(f), 1000000, "00", "14100003")

		svc.HandleReturn(ctx, cb)
		q := redirectQuery(t, svc.HandleReturn(ctx, cb))
		assert.Equal(t, "success", q.Get("result"))
	})

	tests := []struct {
		name   string
		build  func(f *ledgerFixture, gw *vnpay.Client) url.Values
		reason string
		noID   bool
	}{
		{
			name: "签名错误",
			build: func(f *ledgerFixture, gw *vnpay.Client) url.Values {
				q := callback(gw, txnRef(f), 300000, "00", "1")
				q.Set("vnp_Amount", "1")
				return q
			},
			reason: ReasonInvalidSignature,
			noID:   true,
		},
		{
			name: "参考号无法解析",
			build: func(f *ledgerFixture, gw *vnpay.Client) url.Values {
				return callback(gw, "ORDER-1", 300000, "00", "2")
			},
			reason: ReasonBadTxnRef,
			noID:   true,
		},
		{
			name: "预订不存在",
			build: func(f *ledgerFixture, gw *vnpay.Client) url.Values {
				return callback(gw, vnpay.BuildTxnRef(99999, time.Now()), 300000, "00", "3")
			},
			reason: ReasonBookingNotFound,
		},
		{
			name: "金额超过待付",
			build: func(f *ledgerFixture, gw *vnpay.Client) url.Values {
				return callback(gw, txnRef(f), 1500000, "00", "4")
			},
			reason: ReasonAmountMismatch,
		},
		{
			name: "金额为零",
			build: func(f *ledgerFixture, gw *vnpay.Client) url.Values {
				return callback(gw, txnRef(f), 0, "00", "5")
			},
			reason: ReasonAmountMismatch,
		},
		{
			name: "支付失败",
			build: func(f *ledgerFixture, gw *vnpay.Client) url.Values {
				return callback(gw, txnRef(f), 300000, "24", "0")
			},
			reason: ReasonPaymentFailed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := seedLedger(t)
			svc, gw := newPaymentService(t, f, 300000)

			q := redirectQuery(t, svc.HandleReturn(ctx, tt.build(f, gw)))
			assert.Equal(t, "fail", q.Get("result"))
			assert.Equal(t, tt.reason, q.Get("reason"))
			if tt.noID {
				assert.Empty(t, q.Get("bookingId"))
			} else {
				assert.NotEmpty(t, q.Get("bookingId"))
			}

			assert.Zero(t, f.reload(t).AmountPaid)
			assert.Zero(t, f.countPayments(t))
		})
	}
}

func TestPaymentService_HandleIPN(t *testing.T) {
	ctx := context.Background()
	f := seedLedger(t)
	svc, gw := newPaymentService(t, f, 300000)
	ref := vnpay.BuildTxnRef(f.booking.ID, time.Now())

	t.Run("确认成功", func(t *testing.T) {
		rsp := svc.HandleIPN(ctx, callback(gw, ref, 200000, "00", "15000001"))
		assert.Equal(t, vnpay.RspConfirmSuccess, rsp.RspCode)
		assert.Equal(t, 200000.0, f.reload(t).AmountPaid)
	})

	t.Run("重复通知", func(t *testing.T) {
		rsp := svc.HandleIPN(ctx, callback(gw, ref, 200000, "00", "15000001"))
		assert.Equal(t, vnpay.RspAlreadyConfirmed, rsp.RspCode)
		assert.Equal(t, 200000.0, f.reload(t).AmountPaid)
	})

	t.Run("签名错误", func(t *testing.T) {
		q := callback(gw, ref, 200000, "00", "15000002")
		q.Set("vnp_SecureHash", "deadbeef")
		assert.Equal(t, vnpay.RspInvalidSignature, svc.HandleIPN(ctx, q).RspCode)
	})

	t.Run("订单不存在", func(t *testing.T) {
		rsp := svc.HandleIPN(ctx, callback(gw, "BOOK99999_1", 200000, "00", "15000003"))
		assert.Equal(t, vnpay.RspOrderNotFound, rsp.RspCode)
		rsp = svc.HandleIPN(ctx, callback(gw, "garbage", 200000, "00", "15000004"))
		assert.Equal(t, vnpay.RspOrderNotFound, rsp.RspCode)
	})

	t.Run("金额无效", func(t *testing.T) {
		rsp := svc.HandleIPN(ctx, callback(gw, ref, 5000000, "00", "15000005"))
		assert.Equal(t, vnpay.RspInvalidAmount, rsp.RspCode)
	})

	t.Run("支付失败也确认收到", func(t *testing.T) {
		rsp := svc.HandleIPN(ctx, callback(gw, ref, 200000, "11", "0"))
		assert.Equal(t, vnpay.RspConfirmSuccess, rsp.RspCode)
		assert.Equal(t, 200000.0, f.reload(t).AmountPaid)
	})
}
