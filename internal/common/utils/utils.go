// Package utils 提供通用工具函数
package utils

import (
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout 入住/离店日期格式
const DateLayout = "2006-01-02"

var (
	vnPhonePattern = regexp.MustCompile(`^(0|84)(3|5|7|8|9)\d{8}$`)
	emailPattern   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneStripper  = strings.NewReplacer(" ", "", ".", "", "-", "", "(", "", ")", "")
)

// GenerateBookingNo 生成预订号
// 格式: 前缀 + 年月日时分秒 + 6位随机数
func GenerateBookingNo(prefix string) string {
	return fmt.Sprintf("%s%s%s", prefix, time.Now().Format("20060102150405"), GenerateRandomNumber(6))
}

// GeneratePaymentNo 生成流水号
func GeneratePaymentNo() string {
	return "PAY" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:20])
}

// GenerateRandomNumber 生成指定长度的随机数字字符串
func GenerateRandomNumber(length int) string {
	var result strings.Builder
	for i := 0; i < length; i++ {
		n, _ := rand.Int(rand.Reader, big.NewInt(10))
		result.WriteString(strconv.Itoa(int(n.Int64())))
	}
	return result.String()
}

// NormalizePhone 去掉空格、点、横线和括号，+84 前缀转为 84
func NormalizePhone(phone string) string {
	return strings.TrimPrefix(phoneStripper.Replace(strings.TrimSpace(phone)), "+")
}

// ValidateVNPhone 验证越南手机号
func ValidateVNPhone(phone string) bool {
	return vnPhonePattern.MatchString(NormalizePhone(phone))
}

// ValidateEmail 验证邮箱
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ParseDate 解析 YYYY-MM-DD 为 UTC 零点
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// DateOnly 截断为同一日历日的 UTC 零点
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// RoundMoney 金额保留两位小数
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// StringPtr 返回字符串指针
func StringPtr(s string) *string {
	return &s
}

// Int64Ptr 返回 int64 指针
func Int64Ptr(i int64) *int64 {
	return &i
}

// Float64Ptr 返回 float64 指针
func Float64Ptr(f float64) *float64 {
	return &f
}

// TimePtr 返回时间指针
func TimePtr(t time.Time) *time.Time {
	return &t
}

// OptionalString 空串返回 nil
func OptionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// SafeString 安全获取字符串值
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// SafeInt64 安全获取 int64 值
func SafeInt64(i *int64) int64 {
	if i == nil {
		return 0
	}
	return *i
}

// Pagination 分页参数
type Pagination struct {
	Page     int `json:"page" form:"page"`
	PageSize int `json:"pageSize" form:"pageSize"`
}

// GetOffset 获取偏移量
func (p *Pagination) GetOffset() int {
	return (p.Page - 1) * p.PageSize
}

// GetLimit 获取限制数
func (p *Pagination) GetLimit() int {
	return p.PageSize
}

// Normalize 规范化分页参数
func (p *Pagination) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 10
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}
