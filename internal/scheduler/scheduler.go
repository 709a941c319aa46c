// Package scheduler 提供定时任务调度
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// taskTimeout 单次执行上限
const taskTimeout = 5 * time.Minute

// Scheduler 定时任务调度器
type Scheduler struct {
	tasks  []*Task
	logger *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Task 定时任务
type Task struct {
	Name     string
	Interval time.Duration
	Handler  func(ctx context.Context) error
}

// NewScheduler 创建调度器
func NewScheduler(log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		tasks:  make([]*Task, 0),
		logger: log.Named("scheduler"),
		ctx:    ctx,
		cancel: cancel,
	}
}

// AddTask 添加任务，间隔不为正的任务被忽略
func (s *Scheduler) AddTask(name string, interval time.Duration, handler func(ctx context.Context) error) {
	if interval <= 0 {
		s.logger.Warn("task skipped, interval must be positive", zap.String("task", name))
		return
	}
	s.tasks = append(s.tasks, &Task{
		Name:     name,
		Interval: interval,
		Handler:  handler,
	})
}

// Len 已注册任务数
func (s *Scheduler) Len() int {
	return len(s.tasks)
}

// Start 启动调度器
func (s *Scheduler) Start() {
	s.logger.Info("scheduler starting", zap.Int("tasks", len(s.tasks)))

	for _, task := range s.tasks {
		s.wg.Add(1)
		go s.runTask(task)
	}
}

// Stop 停止调度器并等待运行中的任务结束
func (s *Scheduler) Stop() {
	s.logger.Info("scheduler stopping")
	s.cancel()
	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) runTask(task *Task) {
	defer s.wg.Done()

	s.logger.Info("task started", zap.String("task", task.Name), zap.Duration("interval", task.Interval))

	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	// 立即执行一次
	s.executeTask(task)

	for {
		select {
		case <-s.ctx.Done():
			s.logger.Info("task stopped", zap.String("task", task.Name))
			return
		case <-ticker.C:
			s.executeTask(task)
		}
	}
}

func (s *Scheduler) executeTask(task *Task) {
	ctx, cancel := context.WithTimeout(s.ctx, taskTimeout)
	defer cancel()

	start := time.Now()
	if err := task.Handler(ctx); err != nil {
		s.logger.Error("task failed", zap.String("task", task.Name), zap.Error(err))
		return
	}
	s.logger.Debug("task completed", zap.String("task", task.Name), zap.Duration("elapsed", time.Since(start)))
}
