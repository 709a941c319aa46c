// Package errors 定义业务错误码和错误处理
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError 应用错误
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"` // 面向前端的原因码，原样透出
	Status  int    `json:"-"`                // HTTP 状态码
	Err     error  `json:"-"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	msg := e.Message
	if e.Reason != "" {
		msg = e.Message + " (" + e.Reason + ")"
	}
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, msg, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, msg)
}

// Unwrap 实现 errors.Unwrap
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码比较，便于 errors.Is 匹配派生出的错误
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New 创建新的应用错误
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  http.StatusOK,
	}
}

// NewWithStatus 创建带 HTTP 状态码的应用错误
func NewWithStatus(code int, status int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
	}
}

// Wrap 包装错误
func Wrap(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// WithMessage 修改错误消息
func (e *AppError) WithMessage(message string) *AppError {
	c := *e
	c.Message = message
	return &c
}

// WithError 添加原始错误
func (e *AppError) WithError(err error) *AppError {
	c := *e
	c.Err = err
	return &c
}

// WithReason 设置原因码
func (e *AppError) WithReason(reason string) *AppError {
	c := *e
	c.Reason = reason
	return &c
}

// HTTPStatus 返回 HTTP 状态码，未设置时按 200 处理
func (e *AppError) HTTPStatus() int {
	if e.Status == 0 {
		return http.StatusOK
	}
	return e.Status
}

// 通用错误码 (1000-1999)
var (
	ErrUnknown         = NewWithStatus(1000, http.StatusInternalServerError, "未知错误")
	ErrInvalidParams   = NewWithStatus(1001, http.StatusBadRequest, "参数错误")
	ErrNotFound        = NewWithStatus(1002, http.StatusNotFound, "资源不存在")
	ErrAlreadyExists   = NewWithStatus(1003, http.StatusConflict, "资源已存在")
	ErrDatabaseError   = NewWithStatus(1004, http.StatusInternalServerError, "数据库错误")
	ErrCacheError      = NewWithStatus(1005, http.StatusInternalServerError, "缓存错误")
	ErrInternalError   = NewWithStatus(1006, http.StatusInternalServerError, "内部错误")
	ErrExternalService = NewWithStatus(1007, http.StatusBadGateway, "外部服务错误")
	ErrRateLimitExceed = NewWithStatus(1008, http.StatusTooManyRequests, "请求过于频繁")
)

// 认证错误码 (2000-2999)
var (
	ErrUnauthorized     = NewWithStatus(2000, http.StatusUnauthorized, "未登录")
	ErrTokenExpired     = NewWithStatus(2001, http.StatusUnauthorized, "登录已过期")
	ErrTokenInvalid     = NewWithStatus(2002, http.StatusUnauthorized, "无效的令牌")
	ErrPermissionDenied = NewWithStatus(2004, http.StatusForbidden, "权限不足")
)

// 客户身份错误码 (3000-3999)
var (
	ErrUserNotFound            = NewWithStatus(3000, http.StatusNotFound, "用户不存在")
	ErrCustomerNotFound        = NewWithStatus(3001, http.StatusNotFound, "客户不存在")
	ErrPhoneOwnedByAnotherUser = NewWithStatus(3002, http.StatusConflict, "手机号已绑定其他账号").WithReason(ReasonPhoneOwnedByAnotherUser)
	ErrPhoneOwnedByRegistered  = NewWithStatus(3003, http.StatusConflict, "手机号已注册，请登录后预订").WithReason(ReasonPhoneOwnedByRegisteredUser)
	ErrMissingPhoneForCustomer = NewWithStatus(3004, http.StatusBadRequest, "缺少手机号").WithReason(ReasonMissingPhoneForCustomer)
	ErrPhoneInvalid            = NewWithStatus(3005, http.StatusBadRequest, "无效的手机号")
)

// 支付错误码 (6000-6999)
var (
	ErrPaymentNotFound      = NewWithStatus(6000, http.StatusNotFound, "支付记录不存在")
	ErrPaymentFailed        = NewWithStatus(6001, http.StatusOK, "支付失败")
	ErrPaymentAmountInvalid = NewWithStatus(6002, http.StatusBadRequest, "支付金额无效")
	ErrNothingToPay         = NewWithStatus(6003, http.StatusBadRequest, "无待支付金额")
	ErrPaymentMethodError   = NewWithStatus(6006, http.StatusBadRequest, "支付方式错误")
	ErrPaymentCallbackError = NewWithStatus(6007, http.StatusBadRequest, "支付回调错误")
	ErrPaymentDuplicate     = NewWithStatus(6008, http.StatusConflict, "重复的支付通知")
	ErrPaymentStatusInvalid = NewWithStatus(6009, http.StatusBadRequest, "支付状态无效")
)

// 预订错误码 (8000-8999)
var (
	ErrBookingNotFound      = NewWithStatus(8000, http.StatusNotFound, "预订不存在")
	ErrInvalidTransition    = NewWithStatus(8001, http.StatusBadRequest, "预订状态不允许该操作").WithReason(ReasonInvalidTransition)
	ErrRoomUnavailable      = NewWithStatus(8002, http.StatusConflict, "房间已被预订").WithReason(ReasonRoomUnavailable)
	ErrInvalidDateRange     = NewWithStatus(8003, http.StatusBadRequest, "入住日期必须早于离店日期")
	ErrRoomNotFound         = NewWithStatus(8004, http.StatusNotFound, "房间不存在")
	ErrRoomTypeNotFound     = NewWithStatus(8005, http.StatusNotFound, "房型不存在")
	ErrBookingBusy          = NewWithStatus(8006, http.StatusConflict, "预订处理中，请稍后重试")
	ErrCancelReasonExists   = NewWithStatus(8007, http.StatusConflict, "该预订已有取消记录").WithReason(ReasonDuplicateCancelReason)
	ErrNotBookingOwner      = NewWithStatus(8008, http.StatusForbidden, "无权操作该预订")
	ErrHotelNotFound        = NewWithStatus(8009, http.StatusNotFound, "酒店不存在")
	ErrInitialStatusInvalid = NewWithStatus(8010, http.StatusBadRequest, "不支持的初始状态")
)

// 促销错误码 (9000-9999)
var (
	ErrPromotionNotFound   = NewWithStatus(9000, http.StatusNotFound, "促销码不存在")
	ErrPromoInvalidCode    = NewWithStatus(9001, http.StatusBadRequest, "促销码无效").WithReason(ReasonInvalidCode)
	ErrPromoExhausted      = NewWithStatus(9002, http.StatusConflict, "促销码已用完").WithReason(ReasonPromoExhausted)
	ErrPromoNotForRoomType = NewWithStatus(9003, http.StatusBadRequest, "促销码不适用于该房型").WithReason(ReasonCodeNotForRoomType)
	ErrPromoMinTotal       = NewWithStatus(9004, http.StatusBadRequest, "未达到促销最低消费").WithReason(ReasonNotEnoughMinTotal)
)

// 原因码
const (
	ReasonInvalidCode                = "INVALID_CODE"
	ReasonPromoExhausted             = "PROMO_EXHAUSTED"
	ReasonCodeNotForRoomType         = "CODE_NOT_FOR_ROOMTYPE"
	ReasonNotEnoughMinTotal          = "NOT_ENOUGH_MIN_TOTAL"
	ReasonPhoneOwnedByAnotherUser    = "PHONE_OWNED_BY_ANOTHER_USER"
	ReasonPhoneOwnedByRegisteredUser = "PHONE_OWNED_BY_REGISTERED_USER"
	ReasonMissingPhoneForCustomer    = "MISSING_PHONE_FOR_CUSTOMER"
	ReasonRoomUnavailable            = "ROOM_UNAVAILABLE"
	ReasonInvalidTransition          = "INVALID_TRANSITION"
	ReasonDuplicateCancelReason      = "DUPLICATE_CANCEL_REASON"
)

// IsAppError 判断是否为应用错误
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetAppError 获取应用错误
func GetAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return ErrUnknown.WithError(err)
}

// ReasonOf 返回错误携带的原因码
func ReasonOf(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Reason
	}
	return ""
}
