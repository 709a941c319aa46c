// Package payment 提供支付网关回调的 HTTP Handler
package payment

import (
	"net/http"

	"github.com/gin-gonic/gin"

	paymentService "github.com/akhoa6204/booking-hotel-sub000/internal/service/payment"
)

// Handler 支付回调处理器
type Handler struct {
	paymentService *paymentService.PaymentService
}

// NewHandler 创建支付回调处理器
func NewHandler(paymentSvc *paymentService.PaymentService) *Handler {
	return &Handler{
		paymentService: paymentSvc,
	}
}

// VnpayReturn 浏览器回跳
// @Summary VNPAY 浏览器回跳
// @Description 验签入账后 302 跳转到前端结果页，result=success|fail
// @Tags 支付
// @Param vnp_TxnRef query string true "交易参考号"
// @Param vnp_SecureHash query string true "签名"
// @Success 302
// @Router /api/v1/payments/vnpay/return [get]
func (h *Handler) VnpayReturn(c *gin.Context) {
	target := h.paymentService.HandleReturn(c.Request.Context(), c.Request.URL.Query())
	c.Redirect(http.StatusFound, target)
}

// VnpayIPN 服务端通知
// @Summary VNPAY IPN
// @Description 返回 {RspCode, Message}，重复通知返回 02
// @Tags 支付
// @Produce json
// @Param vnp_TxnRef query string true "交易参考号"
// @Param vnp_SecureHash query string true "签名"
// @Success 200 {object} vnpay.IPNResponse
// @Router /api/v1/payments/vnpay/ipn [get]
func (h *Handler) VnpayIPN(c *gin.Context) {
	c.JSON(http.StatusOK, h.paymentService.HandleIPN(c.Request.Context(), c.Request.URL.Query()))
}

// RegisterCallbackRoutes 注册回调路由（无需认证）
func (h *Handler) RegisterCallbackRoutes(r *gin.RouterGroup) {
	vnp := r.Group("/payments/vnpay")
	{
		vnp.GET("/return", h.VnpayReturn)
		vnp.GET("/ipn", h.VnpayIPN)
	}
}
