package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/akhoa6204/booking-hotel-sub000/internal/models"
	"github.com/akhoa6204/booking-hotel-sub000/internal/repository"
)

// 审计写入超时
const operationLogTimeout = 5 * time.Second

// OperationConfig 路由对应的审计信息
type OperationConfig struct {
	Module     string
	Action     string
	TargetType string
}

// 前台写操作映射，键为 "METHOD 相对路由"
var moduleActionMap = map[string]OperationConfig{
	"POST /bookings":                  {Module: "booking", Action: "create", TargetType: "booking"},
	"POST /bookings/:id/confirm":      {Module: "booking", Action: "confirm", TargetType: "booking"},
	"POST /bookings/:id/check-in":     {Module: "booking", Action: "check_in", TargetType: "booking"},
	"POST /bookings/:id/check-out":    {Module: "booking", Action: "check_out", TargetType: "booking"},
	"POST /bookings/:id/cancel":       {Module: "booking", Action: "cancel", TargetType: "booking"},
	"POST /bookings/:id/payments":     {Module: "payment", Action: "record_offline", TargetType: "booking"},
	"POST /bookings/:id/reconcile":    {Module: "payment", Action: "reconcile", TargetType: "booking"},
	"POST /bookings/:id/payment-link": {Module: "payment", Action: "create_link", TargetType: "booking"},
}

var sensitiveFields = []string{"password", "token", "secret", "card_number", "cardnumber", "cvv"}

// OperationLogger 前台操作审计中间件
type OperationLogger struct {
	repo   *repository.OperationLogRepository
	logger *zap.Logger
	async  bool
}

// NewOperationLogger 创建审计中间件，默认异步写入
func NewOperationLogger(repo *repository.OperationLogRepository, log *zap.Logger) *OperationLogger {
	if log == nil {
		log = zap.NewNop()
	}
	return &OperationLogger{repo: repo, logger: log.Named("oplog"), async: true}
}

// Log 记录已认证员工的写操作
func (l *OperationLogger) Log() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isWrite(c.Request.Method) {
			c.Next()
			return
		}

		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
		}

		c.Next()

		// gin.Context 在请求结束后会被复用，先取出所需字段
		record := l.build(c, body)
		if record == nil {
			return
		}
		if l.async {
			go l.save(record)
		} else {
			l.save(record)
		}
	}
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func (l *OperationLogger) build(c *gin.Context, body []byte) *models.OperationLog {
	staffID := c.GetInt64("admin_id")
	if staffID == 0 {
		return nil
	}

	cfg := lookupOperation(c.Request.Method, c.FullPath())
	record := &models.OperationLog{
		StaffID: staffID,
		Module:  cfg.Module,
		Action:  cfg.Action,
		Status:  c.Writer.Status(),
		IP:      c.ClientIP(),
	}
	if ua := c.Request.UserAgent(); ua != "" {
		record.UserAgent = &ua
	}
	if id, err := strconv.ParseInt(c.Param("hotel_id"), 10, 64); err == nil {
		record.HotelID = &id
	}
	if cfg.TargetType != "" {
		targetType := cfg.TargetType
		record.TargetType = &targetType
		if id, err := strconv.ParseInt(c.Param("id"), 10, 64); err == nil {
			record.TargetID = &id
		}
	}

	if len(body) > 0 {
		var data interface{}
		if err := json.Unmarshal(body, &data); err == nil {
			if raw, err := json.Marshal(filterSensitiveData(data)); err == nil {
				record.Payload = datatypes.JSON(raw)
			}
		}
	}
	return record
}

func (l *OperationLogger) save(record *models.OperationLog) {
	ctx, cancel := context.WithTimeout(context.Background(), operationLogTimeout)
	defer cancel()
	if err := l.repo.Create(ctx, record); err != nil {
		l.logger.Warn("save operation log failed",
			zap.Int64("staff_id", record.StaffID),
			zap.String("action", record.Action),
			zap.Error(err),
		)
	}
}

// lookupOperation 按路由匹配审计信息，未知路由按方法推断
func lookupOperation(method, fullPath string) OperationConfig {
	rel := fullPath
	if i := strings.Index(fullPath, "/bookings"); i >= 0 {
		rel = fullPath[i:]
	}
	if cfg, ok := moduleActionMap[method+" "+rel]; ok {
		return cfg
	}

	action := "unknown"
	switch method {
	case http.MethodPost:
		action = "create"
	case http.MethodPut, http.MethodPatch:
		action = "update"
	case http.MethodDelete:
		action = "delete"
	}
	return OperationConfig{Module: "unknown", Action: action}
}

// filterSensitiveData 遮盖敏感字段
func filterSensitiveData(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		result := make(map[string]interface{}, len(v))
		for key, value := range v {
			if isSensitive(key) {
				result[key] = "***"
				continue
			}
			result[key] = filterSensitiveData(value)
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = filterSensitiveData(item)
		}
		return result
	default:
		return data
	}
}

func isSensitive(key string) bool {
	lower := strings.ToLower(key)
	for _, f := range sensitiveFields {
		if strings.Contains(lower, f) {
			return true
		}
	}
	return false
}
