package hotel

import (
	"github.com/gin-gonic/gin"

	"github.com/akhoa6204/booking-hotel-sub000/internal/common/handler"
	hotelService "github.com/akhoa6204/booking-hotel-sub000/internal/service/hotel"
	paymentService "github.com/akhoa6204/booking-hotel-sub000/internal/service/payment"
)

// BookingHandler 客人预订处理器
type BookingHandler struct {
	bookingService *hotelService.BookingService
	paymentService *paymentService.PaymentService
}

// NewBookingHandler 创建客人预订处理器
func NewBookingHandler(bookingSvc *hotelService.BookingService, paymentSvc *paymentService.PaymentService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingSvc,
		paymentService: paymentSvc,
	}
}

// CreateBooking 创建预订
// @Summary 线上预订
// @Description 按房型自动分配空房，登录用户可关联账号
// @Tags 预订
// @Accept json
// @Produce json
// @Security Bearer
// @Param hotel_id path int true "酒店ID"
// @Param request body hotelService.CreateBookingRequest true "请求参数"
// @Success 201 {object} response.Response{data=hotelService.CreateBookingResult}
// @Failure 409 {object} response.Response
// @Router /api/v1/hotels/{hotel_id}/bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	hotelID, ok := handler.ParseHotelID(c)
	if !ok {
		return
	}

	var req hotelService.CreateBookingRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	result, err := h.bookingService.CreateOnline(c.Request.Context(), hotelID, handler.GetOptionalUserID(c), &req)
	handler.MustCreate(c, err, result)
}

// GetMyBookings 我的预订
// @Summary 我的预订列表
// @Tags 预订
// @Produce json
// @Security Bearer
// @Param hotel_id path int true "酒店ID"
// @Param page query int false "页码"
// @Param pageSize query int false "每页数量"
// @Success 200 {object} response.Response{data=response.PageData{list=[]hotelService.BookingInfo}}
// @Router /api/v1/hotels/{hotel_id}/bookings/mine [get]
func (h *BookingHandler) GetMyBookings(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}
	hotelID, ok := handler.ParseHotelID(c)
	if !ok {
		return
	}

	p := handler.BindPagination(c)
	list, total, err := h.bookingService.ListMine(c.Request.Context(), hotelID, userID, &p)
	handler.MustSucceedPage(c, err, list, total, p.Page, p.PageSize)
}

// GetBooking 预订详情
// @Summary 预订详情
// @Tags 预订
// @Produce json
// @Security Bearer
// @Param hotel_id path int true "酒店ID"
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response{data=hotelService.BookingInfo}
// @Failure 403 {object} response.Response
// @Router /api/v1/hotels/{hotel_id}/bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	userID, bookingID, ok := handler.RequireUserAndParseID(c, "预订")
	if !ok {
		return
	}
	hotelID, ok := handler.ParseHotelID(c)
	if !ok {
		return
	}

	booking, err := h.bookingService.GetForOwner(c.Request.Context(), hotelID, bookingID, userID)
	handler.MustSucceed(c, err, booking)
}

// CancelBooking 取消预订
// @Summary 取消预订
// @Tags 预订
// @Accept json
// @Produce json
// @Security Bearer
// @Param hotel_id path int true "酒店ID"
// @Param id path int true "预订ID"
// @Param request body hotelService.CancelRequest true "取消原因"
// @Success 200 {object} response.Response{data=hotelService.BookingInfo}
// @Failure 409 {object} response.Response
// @Router /api/v1/hotels/{hotel_id}/bookings/{id}/cancel [post]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	userID, bookingID, ok := handler.RequireUserAndParseID(c, "预订")
	if !ok {
		return
	}
	hotelID, ok := handler.ParseHotelID(c)
	if !ok {
		return
	}

	var req hotelService.CancelRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	booking, err := h.bookingService.Cancel(c.Request.Context(), hotelID, bookingID, userID, req.Reason)
	handler.MustSucceed(c, err, booking)
}

// CreatePaymentLink 生成支付链接
// @Summary 生成 VNPAY 支付链接
// @Description 金额不超过定金与待付金额中的较小值
// @Tags 预订
// @Produce json
// @Security Bearer
// @Param hotel_id path int true "酒店ID"
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response{data=paymentService.PaymentLink}
// @Failure 400 {object} response.Response
// @Router /api/v1/hotels/{hotel_id}/bookings/{id}/payment-link [post]
func (h *BookingHandler) CreatePaymentLink(c *gin.Context) {
	hotelID, ok := handler.ParseHotelID(c)
	if !ok {
		return
	}
	bookingID, ok := handler.ParseID(c, "预订")
	if !ok {
		return
	}

	actor := paymentService.LinkActor{UserID: handler.GetOptionalUserID(c)}
	link, err := h.paymentService.CreatePaymentLink(c.Request.Context(), hotelID, bookingID, actor, c.ClientIP())
	handler.MustSucceed(c, err, link)
}

// RegisterRoutes 注册路由，optionalAuth 与 userAuth 由调用方提供
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup, optionalAuth, userAuth, createLimit gin.HandlerFunc) {
	bookings := r.Group("/bookings")
	{
		bookings.POST("", optionalAuth, createLimit, h.CreateBooking)
		bookings.GET("/mine", userAuth, h.GetMyBookings)
		bookings.GET("/:id", userAuth, h.GetBooking)
		bookings.POST("/:id/cancel", userAuth, h.CancelBooking)
		bookings.POST("/:id/payment-link", optionalAuth, h.CreatePaymentLink)
	}
}
