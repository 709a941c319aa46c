package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/akhoa6204/booking-hotel-sub000/internal/common/handler"
	hotelService "github.com/akhoa6204/booking-hotel-sub000/internal/service/hotel"
	paymentService "github.com/akhoa6204/booking-hotel-sub000/internal/service/payment"
)

// PaymentHandler 前台收款处理器
type PaymentHandler struct {
	ledgerService  *paymentService.LedgerService
	paymentService *paymentService.PaymentService
}

// NewPaymentHandler 创建前台收款处理器
func NewPaymentHandler(ledgerSvc *paymentService.LedgerService, paymentSvc *paymentService.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		ledgerService:  ledgerSvc,
		paymentService: paymentSvc,
	}
}

// RecordPaymentResponse 登记收款结果
type RecordPaymentResponse struct {
	Booking *hotelService.BookingInfo `json:"booking"`
}

// RecordPayment 登记线下收款
// @Summary 登记线下收款
// @Description 现金、刷卡或转账，状态为 PAID、FAILED 或 REFUNDED
// @Tags 前台-收款
// @Accept json
// @Produce json
// @Security Bearer
// @Param hotel_id path int true "酒店ID"
// @Param id path int true "预订ID"
// @Param request body paymentService.OfflinePaymentInput true "请求参数"
// @Success 201 {object} response.Response{data=RecordPaymentResponse}
// @Router /api/admin/hotels/{hotel_id}/bookings/{id}/payments [post]
func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	staffID, hotelID, bookingID, ok := hotelAndBooking(c)
	if !ok {
		return
	}

	var in paymentService.OfflinePaymentInput
	if !handler.BindJSON(c, &in) {
		return
	}
	in.BookingID = bookingID

	booking, err := h.ledgerService.RecordOffline(c.Request.Context(), hotelID, staffID, &in)
	if handler.HandleError(c, err) {
		return
	}
	handler.MustCreate(c, nil, &RecordPaymentResponse{Booking: hotelService.NewBookingInfo(booking)})
}

// ListPayments 收款流水
// @Summary 预订收款流水
// @Tags 前台-收款
// @Produce json
// @Security Bearer
// @Param hotel_id path int true "酒店ID"
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response{data=[]models.Payment}
// @Router /api/admin/hotels/{hotel_id}/bookings/{id}/payments [get]
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	_, hotelID, bookingID, ok := hotelAndBooking(c)
	if !ok {
		return
	}

	payments, err := h.ledgerService.ListPayments(c.Request.Context(), hotelID, bookingID)
	handler.MustSucceed(c, err, payments)
}

// Reconcile 对账
// @Summary 按流水重算已付金额
// @Tags 前台-收款
// @Produce json
// @Security Bearer
// @Param hotel_id path int true "酒店ID"
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response{data=paymentService.ReconcileResult}
// @Router /api/admin/hotels/{hotel_id}/bookings/{id}/reconcile [post]
func (h *PaymentHandler) Reconcile(c *gin.Context) {
	_, hotelID, bookingID, ok := hotelAndBooking(c)
	if !ok {
		return
	}

	result, err := h.ledgerService.Reconcile(c.Request.Context(), hotelID, bookingID)
	handler.MustSucceed(c, err, result)
}

// CreatePaymentLink 前台生成支付链接
// @Summary 生成 VNPAY 支付链接（付清剩余）
// @Tags 前台-收款
// @Produce json
// @Security Bearer
// @Param hotel_id path int true "酒店ID"
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response{data=paymentService.PaymentLink}
// @Router /api/admin/hotels/{hotel_id}/bookings/{id}/payment-link [post]
func (h *PaymentHandler) CreatePaymentLink(c *gin.Context) {
	_, hotelID, bookingID, ok := hotelAndBooking(c)
	if !ok {
		return
	}

	link, err := h.paymentService.CreatePaymentLink(c.Request.Context(), hotelID, bookingID,
		paymentService.LinkActor{Staff: true}, c.ClientIP())
	handler.MustSucceed(c, err, link)
}

// RegisterRoutes 注册路由
func (h *PaymentHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings")
	{
		bookings.POST("/:id/payments", h.RecordPayment)
		bookings.GET("/:id/payments", h.ListPayments)
		bookings.POST("/:id/reconcile", h.Reconcile)
		bookings.POST("/:id/payment-link", h.CreatePaymentLink)
	}
}
