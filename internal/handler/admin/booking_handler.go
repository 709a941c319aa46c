// Package admin 提供前台员工使用的 HTTP Handler
package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/akhoa6204/booking-hotel-sub000/internal/common/handler"
	hotelService "github.com/akhoa6204/booking-hotel-sub000/internal/service/hotel"
)

// BookingHandler 前台预订处理器
type BookingHandler struct {
	bookingService *hotelService.BookingService
}

// NewBookingHandler 创建前台预订处理器
func NewBookingHandler(bookingSvc *hotelService.BookingService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingSvc,
	}
}

// hotelAndBooking 解析员工、酒店与预订 ID
func hotelAndBooking(c *gin.Context) (staffID, hotelID, bookingID int64, ok bool) {
	staffID, bookingID, ok = handler.RequireAdminAndParseID(c, "预订")
	if !ok {
		return 0, 0, 0, false
	}
	hotelID, ok = handler.ParseHotelID(c)
	if !ok {
		return 0, 0, 0, false
	}
	return staffID, hotelID, bookingID, true
}

// CreateBooking 前台创建预订
// @Summary 前台创建预订
// @Description 指定房间创建预订，初始状态可为 PENDING、CONFIRMED 或 CHECKED_IN
// @Tags 前台-预订
// @Accept json
// @Produce json
// @Security Bearer
// @Param hotel_id path int true "酒店ID"
// @Param request body hotelService.StaffCreateBookingRequest true "请求参数"
// @Success 201 {object} response.Response{data=hotelService.StaffCreateBookingResult}
// @Failure 409 {object} response.Response
// @Router /api/admin/hotels/{hotel_id}/bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	staffID, ok := handler.RequireAdminID(c)
	if !ok {
		return
	}
	hotelID, ok := handler.ParseHotelID(c)
	if !ok {
		return
	}

	var req hotelService.StaffCreateBookingRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	result, err := h.bookingService.CreateByStaff(c.Request.Context(), hotelID, staffID, &req)
	handler.MustCreate(c, err, result)
}

// GetBooking 预订详情
// @Summary 预订详情
// @Tags 前台-预订
// @Produce json
// @Security Bearer
// @Param hotel_id path int true "酒店ID"
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response{data=hotelService.BookingInfo}
// @Router /api/admin/hotels/{hotel_id}/bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	_, hotelID, bookingID, ok := hotelAndBooking(c)
	if !ok {
		return
	}

	booking, err := h.bookingService.Get(c.Request.Context(), hotelID, bookingID)
	handler.MustSucceed(c, err, booking)
}

// ConfirmBooking 确认预订
// @Summary 确认待定预订
// @Tags 前台-预订
// @Produce json
// @Security Bearer
// @Param hotel_id path int true "酒店ID"
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response{data=hotelService.BookingInfo}
// @Failure 409 {object} response.Response
// @Router /api/admin/hotels/{hotel_id}/bookings/{id}/confirm [post]
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	staffID, hotelID, bookingID, ok := hotelAndBooking(c)
	if !ok {
		return
	}

	booking, err := h.bookingService.Confirm(c.Request.Context(), hotelID, bookingID, staffID)
	handler.MustSucceed(c, err, booking)
}

// CheckIn 办理入住
// @Summary 办理入住
// @Tags 前台-预订
// @Produce json
// @Security Bearer
// @Param hotel_id path int true "酒店ID"
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response{data=hotelService.BookingInfo}
// @Failure 409 {object} response.Response
// @Router /api/admin/hotels/{hotel_id}/bookings/{id}/check-in [post]
func (h *BookingHandler) CheckIn(c *gin.Context) {
	staffID, hotelID, bookingID, ok := hotelAndBooking(c)
	if !ok {
		return
	}

	booking, err := h.bookingService.CheckIn(c.Request.Context(), hotelID, bookingID, staffID)
	handler.MustSucceed(c, err, booking)
}

// CheckOut 办理退房
// @Summary 办理退房
// @Tags 前台-预订
// @Produce json
// @Security Bearer
// @Param hotel_id path int true "酒店ID"
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response{data=hotelService.BookingInfo}
// @Failure 409 {object} response.Response
// @Router /api/admin/hotels/{hotel_id}/bookings/{id}/check-out [post]
func (h *BookingHandler) CheckOut(c *gin.Context) {
	staffID, hotelID, bookingID, ok := hotelAndBooking(c)
	if !ok {
		return
	}

	booking, err := h.bookingService.CheckOut(c.Request.Context(), hotelID, bookingID, staffID)
	handler.MustSucceed(c, err, booking)
}

// CancelBooking 取消预订
// @Summary 前台取消预订
// @Tags 前台-预订
// @Accept json
// @Produce json
// @Security Bearer
// @Param hotel_id path int true "酒店ID"
// @Param id path int true "预订ID"
// @Param request body hotelService.CancelRequest true "取消原因"
// @Success 200 {object} response.Response{data=hotelService.BookingInfo}
// @Failure 409 {object} response.Response
// @Router /api/admin/hotels/{hotel_id}/bookings/{id}/cancel [post]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	staffID, hotelID, bookingID, ok := hotelAndBooking(c)
	if !ok {
		return
	}

	var req hotelService.CancelRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	booking, err := h.bookingService.CancelByStaff(c.Request.Context(), hotelID, bookingID, staffID, req.Reason)
	handler.MustSucceed(c, err, booking)
}

// RegisterRoutes 注册路由
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings")
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("/:id", h.GetBooking)
		bookings.POST("/:id/confirm", h.ConfirmBooking)
		bookings.POST("/:id/check-in", h.CheckIn)
		bookings.POST("/:id/check-out", h.CheckOut)
		bookings.POST("/:id/cancel", h.CancelBooking)
	}
}
