// Package validator 注册业务校验标签并格式化校验错误
package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/akhoa6204/booking-hotel-sub000/internal/common/utils"
	"github.com/akhoa6204/booking-hotel-sub000/internal/models"
)

// 自定义标签
const (
	TagVNPhone       = "vnphone"
	TagISODate       = "isodate"
	TagBookingStatus = "bookingstatus"
)

// 员工建单可选的初始状态
var creatableStatuses = map[string]bool{
	models.BookingStatusPending:   true,
	models.BookingStatusConfirmed: true,
	models.BookingStatusCheckedIn: true,
}

// Register 在给定实例上注册自定义标签
func Register(v *validator.Validate) error {
	rules := map[string]validator.Func{
		TagVNPhone: func(fl validator.FieldLevel) bool {
			return utils.ValidateVNPhone(fl.Field().String())
		},
		TagISODate: func(fl validator.FieldLevel) bool {
			_, err := utils.ParseDate(fl.Field().String())
			return err == nil
		},
		TagBookingStatus: func(fl validator.FieldLevel) bool {
			return creatableStatuses[fl.Field().String()]
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

// RegisterGin 注册到 gin 默认绑定引擎
func RegisterGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	return Register(v)
}

// FormatError 把绑定错误转为可读提示
func FormatError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "请求参数格式错误"
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field(), message(fe)))
	}
	return strings.Join(msgs, "; ")
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return "不能为空"
	case "email":
		return "邮箱格式错误"
	case "gt", "gte", "min":
		return "不能小于 " + fe.Param()
	case "max", "lte":
		return "不能大于 " + fe.Param()
	case "oneof":
		return "取值须为 " + strings.ReplaceAll(fe.Param(), " ", "/")
	case TagVNPhone:
		return "手机号格式错误"
	case TagISODate:
		return "日期格式须为 YYYY-MM-DD"
	case TagBookingStatus:
		return "初始状态须为 PENDING/CONFIRMED/CHECKED_IN"
	default:
		return "校验失败 (" + fe.Tag() + ")"
	}
}
