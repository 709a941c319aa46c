// Package handler 提供 API Handler 的通用辅助函数
// 用于减少 Handler 层的代码重复，统一错误处理、认证检查、参数解析等操作
package handler

import (
	stderrors "errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/akhoa6204/booking-hotel-sub000/internal/common/errors"
	"github.com/akhoa6204/booking-hotel-sub000/internal/common/logger"
	"github.com/akhoa6204/booking-hotel-sub000/internal/common/response"
	"github.com/akhoa6204/booking-hotel-sub000/internal/common/utils"
	"github.com/akhoa6204/booking-hotel-sub000/internal/common/validator"
	"github.com/akhoa6204/booking-hotel-sub000/internal/middleware"
)

// ============================================================================
// 统一错误处理
// ============================================================================

// HandleError 处理错误并发送适当的响应
// 如果 err 为 nil，返回 false（表示无错误需要处理）
// 如果 err 不为 nil，发送错误响应并返回 true（调用方应该 return）
//
// 使用示例:
//
//	result, err := service.DoSomething()
//	if HandleError(c, err) {
//	    return
//	}
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		status := appErr.HTTPStatus()
		if status >= 500 {
			logger.Error("request failed",
				logger.RequestID(middleware.GetRequestID(c)),
				zap.String("path", c.FullPath()),
				zap.Error(err),
			)
		}
		response.ErrorWithStatus(c, status, appErr.Code, appErr.Message, appErr.Reason)
		return true
	}

	// 非业务错误不向客户端暴露细节
	logger.Error("unexpected error",
		logger.RequestID(middleware.GetRequestID(c)),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	response.InternalError(c, "")
	return true
}

// MustSucceed 如果有错误则返回错误响应，否则返回成功响应
//
// 使用示例:
//
//	result, err := service.GetData()
//	MustSucceed(c, err, result)
//	return  // 注意：调用 MustSucceed 后必须 return
func MustSucceed(c *gin.Context, err error, data interface{}) {
	if HandleError(c, err) {
		return
	}
	response.Success(c, data)
}

// MustCreate 创建类接口，成功时返回 201
func MustCreate(c *gin.Context, err error, data interface{}) {
	if HandleError(c, err) {
		return
	}
	response.Created(c, data)
}

// MustSucceedPage 分页响应版本
func MustSucceedPage(c *gin.Context, err error, list interface{}, total int64, page, pageSize int) {
	if HandleError(c, err) {
		return
	}
	response.SuccessPage(c, list, total, page, pageSize)
}

// BindJSON 绑定并校验请求体，失败时已发送 400
func BindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.BadRequest(c, validator.FormatError(err))
		return false
	}
	return true
}

// BindQuery 绑定并校验查询参数，失败时已发送 400
func BindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		response.BadRequest(c, validator.FormatError(err))
		return false
	}
	return true
}

// ============================================================================
// 认证检查
// ============================================================================

// RequireUserID 获取当前用户ID，如果未登录则返回401响应
//
//	userID, ok := handler.RequireUserID(c)
//	if !ok {
//	    return
//	}
func RequireUserID(c *gin.Context) (int64, bool) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		response.Unauthorized(c, "请先登录")
		return 0, false
	}
	return userID, true
}

// RequireAdminID 获取当前员工ID，如果未登录则返回401响应
func RequireAdminID(c *gin.Context) (int64, bool) {
	adminID := middleware.GetAdminID(c)
	if adminID == 0 {
		response.Unauthorized(c, "请先登录")
		return 0, false
	}
	return adminID, true
}

// GetOptionalUserID 获取当前用户ID，匿名时返回 nil
func GetOptionalUserID(c *gin.Context) *int64 {
	if userID := middleware.GetUserID(c); userID > 0 {
		return &userID
	}
	return nil
}

// ============================================================================
// ID 参数解析
// ============================================================================

// ParseID 解析路径参数 "id" 为 int64
func ParseID(c *gin.Context, resourceName string) (int64, bool) {
	return ParseParamID(c, "id", resourceName)
}

// ParseHotelID 解析路径参数 "hotel_id"
func ParseHotelID(c *gin.Context) (int64, bool) {
	return ParseParamID(c, "hotel_id", "酒店")
}

// ParseParamID 解析指定路径参数为正整数
//
//	hotelID, ok := handler.ParseParamID(c, "hotel_id", "酒店")
//	if !ok {
//	    return
//	}
func ParseParamID(c *gin.Context, paramName, resourceName string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(paramName), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "无效的"+resourceName+"ID")
		return 0, false
	}
	return id, true
}

// ParseQueryID 解析查询参数中的可选 ID
// 参数为空返回 (nil, true)，解析失败返回 (nil, false)（已发送400响应）
func ParseQueryID(c *gin.Context, paramName, resourceName string) (*int64, bool) {
	idStr := c.Query(paramName)
	if idStr == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "无效的"+resourceName+"ID")
		return nil, false
	}
	return &id, true
}

// ============================================================================
// 日期解析
// ============================================================================

// ParseDate 解析日期字符串 (YYYY-MM-DD)
func ParseDate(s string) (time.Time, error) {
	return utils.ParseDate(s)
}

// ParseRequiredQueryDate 从查询参数解析必填日期
func ParseRequiredQueryDate(c *gin.Context, paramName string) (time.Time, bool) {
	t, err := ParseDate(c.Query(paramName))
	if err != nil {
		response.BadRequest(c, paramName+" 须为 YYYY-MM-DD")
		return time.Time{}, false
	}
	return t, true
}

// ============================================================================
// 分页处理
// ============================================================================

// BindPagination 从查询参数绑定并规范化分页参数
// 默认 page=1, pageSize=10, 最大 pageSize=100
func BindPagination(c *gin.Context) utils.Pagination {
	var p utils.Pagination
	p.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	p.PageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	p.Normalize()
	return p
}

// ============================================================================
// 组合辅助函数
// ============================================================================

// RequireUserAndParseID 组合：检查用户登录 + 解析ID参数
func RequireUserAndParseID(c *gin.Context, resourceName string) (userID, resourceID int64, ok bool) {
	userID, ok = RequireUserID(c)
	if !ok {
		return 0, 0, false
	}
	resourceID, ok = ParseID(c, resourceName)
	if !ok {
		return 0, 0, false
	}
	return userID, resourceID, true
}

// RequireAdminAndParseID 组合：检查员工登录 + 解析ID参数
func RequireAdminAndParseID(c *gin.Context, resourceName string) (adminID, resourceID int64, ok bool) {
	adminID, ok = RequireAdminID(c)
	if !ok {
		return 0, 0, false
	}
	resourceID, ok = ParseID(c, resourceName)
	if !ok {
		return 0, 0, false
	}
	return adminID, resourceID, true
}
