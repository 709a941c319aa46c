package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// PendingExpirer 清理长期未付款的待确认预订
type PendingExpirer interface {
	ExpireStalePending(ctx context.Context, olderThan time.Duration) (int, error)
}

// TaskHandler 任务处理器
type TaskHandler struct {
	bookings   PendingExpirer
	pendingTTL time.Duration
	logger     *zap.Logger
}

// NewTaskHandler 创建任务处理器
func NewTaskHandler(bookings PendingExpirer, pendingTTL time.Duration, log *zap.Logger) *TaskHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &TaskHandler{
		bookings:   bookings,
		pendingTTL: pendingTTL,
		logger:     log.Named("task"),
	}
}

// ExpirePendingBookings 取消超时未付款的待确认预订
func (h *TaskHandler) ExpirePendingBookings(ctx context.Context) error {
	n, err := h.bookings.ExpireStalePending(ctx, h.pendingTTL)
	if err != nil {
		return err
	}
	if n > 0 {
		h.logger.Info("stale pending bookings expired", zap.Int("count", n))
	}
	return nil
}

// RegisterTasks 注册所有定时任务
func (h *TaskHandler) RegisterTasks(s *Scheduler, expireEnabled bool, expireInterval time.Duration) {
	if expireEnabled {
		s.AddTask("expire_pending_bookings", expireInterval, h.ExpirePendingBookings)
	}
}
