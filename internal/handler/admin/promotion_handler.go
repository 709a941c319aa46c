package admin

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/akhoa6204/booking-hotel-sub000/internal/common/handler"
	"github.com/akhoa6204/booking-hotel-sub000/internal/common/response"
	marketingService "github.com/akhoa6204/booking-hotel-sub000/internal/service/marketing"
)

// PromotionHandler 促销码查询处理器
type PromotionHandler struct {
	pricingService *marketingService.PricingService
}

// NewPromotionHandler 创建促销码查询处理器
func NewPromotionHandler(pricingSvc *marketingService.PricingService) *PromotionHandler {
	return &PromotionHandler{pricingService: pricingSvc}
}

// GetPromotion 促销码使用情况
// @Summary 促销码使用情况
// @Tags 前台-促销
// @Produce json
// @Security Bearer
// @Param hotel_id path int true "酒店ID"
// @Param code path string true "促销码"
// @Success 200 {object} response.Response{data=marketingService.PromotionUsage}
// @Failure 404 {object} response.Response
// @Router /api/admin/hotels/{hotel_id}/promotions/{code} [get]
func (h *PromotionHandler) GetPromotion(c *gin.Context) {
	hotelID, ok := handler.ParseHotelID(c)
	if !ok {
		return
	}

	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		response.BadRequest(c, "促销码不能为空")
		return
	}

	usage, err := h.pricingService.GetPromotionUsage(c.Request.Context(), hotelID, code)
	handler.MustSucceed(c, err, usage)
}

// RegisterRoutes 注册路由
func (h *PromotionHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/promotions/:code", h.GetPromotion)
}
