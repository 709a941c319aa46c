package payment

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/akhoa6204/booking-hotel-sub000/internal/common/database"
	"github.com/akhoa6204/booking-hotel-sub000/internal/models"
	paymentService "github.com/akhoa6204/booking-hotel-sub000/internal/service/payment"
	"github.com/akhoa6204/booking-hotel-sub000/pkg/vnpay"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type gatewayEnv struct {
	db      *gorm.DB
	router  *gin.Engine
	client  *vnpay.Client
	booking *models.Booking
}

func setupGateway(t *testing.T) *gatewayEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(database.Models()...))

	hotel := &models.Hotel{Name: "Nha Trang Pearl", Status: models.HotelStatusActive}
	require.NoError(t, db.Create(hotel).Error)
	rt := &models.RoomType{HotelID: hotel.ID, Name: "Standard", BasePrice: 600000, Capacity: 2, Status: models.RoomTypeStatusActive}
	require.NoError(t, db.Create(rt).Error)
	room := &models.Room{HotelID: hotel.ID, RoomTypeID: rt.ID, RoomNo: "401", Active: true}
	require.NoError(t, db.Create(room).Error)
	customer := &models.Customer{Phone: "0977000111", FullName: "Đỗ Văn F", CustomerType: models.CustomerTypeGuest}
	require.NoError(t, db.Create(customer).Error)

	checkIn := time.Date(2030, 9, 1, 0, 0, 0, 0, time.UTC)
	booking := &models.Booking{
		BookingNo:     "BK-GW-1",
		HotelID:       hotel.ID,
		RoomID:        room.ID,
		CustomerID:    customer.ID,
		CheckIn:       checkIn,
		CheckOut:      checkIn.AddDate(0, 0, 2),
		Status:        models.BookingStatusConfirmed,
		Source:        models.BookingSourceOnline,
		TotalPrice:    1200000,
		FinalPrice:    1200000,
		PaymentStatus: models.PaymentStatusUnpaid,
		GuestCount:    1,
	}
	require.NoError(t, db.Create(booking).Error)

	client, err := vnpay.NewClient(&vnpay.Config{TmnCode: "DEMO", HashSecret: "GATEWAY-SECRET", PayURL: "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html"})
	require.NoError(t, err)

	ledger := paymentService.NewLedgerService(db, nil, nil, nil)
	svc := paymentService.NewPaymentService(db, ledger, client, nil, paymentService.Options{
		FrontendReturnURL: "https://hotel.example.com/payment/result",
	}, nil, nil)

	r := gin.New()
	NewHandler(svc).RegisterCallbackRoutes(r.Group("/api/v1"))
	return &gatewayEnv{db: db, router: r, client: client, booking: booking}
}

func (e *gatewayEnv) signed(amount float64, code, txnNo string) url.Values {
	q := url.Values{}
	q.Set("vnp_TxnRef", vnpay.BuildTxnRef(e.booking.ID, time.Now()))
	q.Set("vnp_Amount", strconv.FormatInt(int64(amount*100), 10))
	q.Set("vnp_ResponseCode", code)
	q.Set("vnp_TransactionStatus", code)
	q.Set("vnp_TransactionNo", txnNo)
	q.Set("vnp_SecureHash", e.client.Sign(q))
	return q
}

func (e *gatewayEnv) get(path string, q url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path+"?"+q.Encode(), nil)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *gatewayEnv) amountPaid(t *testing.T) float64 {
	var b models.Booking
	require.NoError(t, e.db.First(&b, e.booking.ID).Error)
	return b.AmountPaid
}

func TestHandler_VnpayReturn(t *testing.T) {
	t.Run("成功跳转", func(t *testing.T) {
		env := setupGateway(t)
		w := env.get("/api/v1/payments/vnpay/return", env.signed(600000, "00", "9001"))
		require.Equal(t, http.StatusFound, w.Code)

		loc, err := url.Parse(w.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "hotel.example.com", loc.Host)
		assert.Equal(t, "success", loc.Query().Get("result"))
		assert.Equal(t, strconv.FormatInt(env.booking.ID, 10), loc.Query().Get("bookingId"))
		assert.Equal(t, 600000.0, env.amountPaid(t))
	})

	t.Run("篡改参数", func(t *testing.T) {
		env := setupGateway(t)
		q := env.signed(600000, "00", "9002")
		q.Set("vnp_Amount", "120000000")
		w := env.get("/api/v1/payments/vnpay/return", q)
		require.Equal(t, http.StatusFound, w.Code)

		loc, err := url.Parse(w.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "fail", loc.Query().Get("result"))
		assert.Equal(t, paymentService.ReasonInvalidSignature, loc.Query().Get("reason"))
		assert.Zero(t, env.amountPaid(t))
	})
}

func TestHandler_VnpayIPN(t *testing.T) {
	env := setupGateway(t)
	q := env.signed(1200000, "00", "9101")

	decode := func(t *testing.T, w *httptest.ResponseRecorder) vnpay.IPNResponse {
		require.Equal(t, http.StatusOK, w.Code)
		var rsp vnpay.IPNResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rsp))
		return rsp
	}

	t.Run("首次通知", func(t *testing.T) {
		rsp := decode(t, env.get("/api/v1/payments/vnpay/ipn", q))
		assert.Equal(t, vnpay.RspConfirmSuccess, rsp.RspCode)
		assert.Equal(t, 1200000.0, env.amountPaid(t))
	})

	t.Run("重复通知", func(t *testing.T) {
		rsp := decode(t, env.get("/api/v1/payments/vnpay/ipn", q))
		assert.Equal(t, vnpay.RspAlreadyConfirmed, rsp.RspCode)
		assert.Equal(t, 1200000.0, env.amountPaid(t))
	})

	t.Run("签名错误", func(t *testing.T) {
		bad := env.signed(1000, "00", "9102")
		bad.Set("vnp_SecureHash", "00")
		rsp := decode(t, env.get("/api/v1/payments/vnpay/ipn", bad))
		assert.Equal(t, vnpay.RspInvalidSignature, rsp.RspCode)
	})

	t.Run("已付清后新交易金额无效", func(t *testing.T) {
		rsp := decode(t, env.get("/api/v1/payments/vnpay/ipn", env.signed(1000, "00", "9103")))
		assert.Equal(t, vnpay.RspInvalidAmount, rsp.RspCode)
	})
}
