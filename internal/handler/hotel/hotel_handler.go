// Package hotel 提供客人端预订相关的 HTTP Handler
package hotel

import (
	"github.com/gin-gonic/gin"

	"github.com/akhoa6204/booking-hotel-sub000/internal/common/handler"
	"github.com/akhoa6204/booking-hotel-sub000/internal/common/utils"
	hotelService "github.com/akhoa6204/booking-hotel-sub000/internal/service/hotel"
	marketingService "github.com/akhoa6204/booking-hotel-sub000/internal/service/marketing"
)

// HotelHandler 报价与空房查询处理器
type HotelHandler struct {
	pricingService      *marketingService.PricingService
	availabilityService *hotelService.AvailabilityService
}

// NewHotelHandler 创建报价与空房查询处理器
func NewHotelHandler(pricingSvc *marketingService.PricingService, availabilitySvc *hotelService.AvailabilityService) *HotelHandler {
	return &HotelHandler{
		pricingService:      pricingSvc,
		availabilityService: availabilitySvc,
	}
}

// Quote 报价
// @Summary 计算报价
// @Description 按房间或房型计算住宿总价，可附带促销码
// @Tags 酒店
// @Accept json
// @Produce json
// @Param hotel_id path int true "酒店ID"
// @Param request body marketingService.QuoteRequest true "请求参数"
// @Success 200 {object} response.Response{data=marketingService.Quote}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/hotels/{hotel_id}/quote [post]
func (h *HotelHandler) Quote(c *gin.Context) {
	hotelID, ok := handler.ParseHotelID(c)
	if !ok {
		return
	}

	var req marketingService.QuoteRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput()
	if handler.HandleError(c, err) {
		return
	}

	quote, err := h.pricingService.Quote(c.Request.Context(), hotelID, in)
	handler.MustSucceed(c, err, quote)
}

// AvailableRoomsQuery 空房查询参数
type AvailableRoomsQuery struct {
	RoomTypeID int64  `form:"roomTypeId" binding:"required,gt=0"`
	CheckIn    string `form:"checkIn" binding:"required,isodate"`
	CheckOut   string `form:"checkOut" binding:"required,isodate"`
}

// ListAvailableRooms 空房列表
// @Summary 查询空房
// @Tags 酒店
// @Produce json
// @Param hotel_id path int true "酒店ID"
// @Param roomTypeId query int true "房型ID"
// @Param checkIn query string true "入住日期 YYYY-MM-DD"
// @Param checkOut query string true "离店日期 YYYY-MM-DD"
// @Success 200 {object} response.Response{data=[]hotelService.RoomInfo}
// @Router /api/v1/hotels/{hotel_id}/rooms/available [get]
func (h *HotelHandler) ListAvailableRooms(c *gin.Context) {
	hotelID, ok := handler.ParseHotelID(c)
	if !ok {
		return
	}

	var q AvailableRoomsQuery
	if !handler.BindQuery(c, &q) {
		return
	}

	checkIn, _ := utils.ParseDate(q.CheckIn)
	checkOut, _ := utils.ParseDate(q.CheckOut)

	rooms, err := h.availabilityService.ListAvailableRooms(c.Request.Context(), hotelID, q.RoomTypeID, checkIn, checkOut)
	handler.MustSucceed(c, err, rooms)
}

// RegisterRoutes 注册路由
func (h *HotelHandler) RegisterRoutes(r *gin.RouterGroup, quoteLimit gin.HandlerFunc) {
	r.POST("/quote", quoteLimit, h.Quote)
	r.GET("/rooms/available", h.ListAvailableRooms)
}
