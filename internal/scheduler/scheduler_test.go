package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeExpirer struct {
	mu        sync.Mutex
	olderThan []time.Duration
	n         int
	err       error
}

func (f *fakeExpirer) ExpireStalePending(_ context.Context, olderThan time.Duration) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.olderThan = append(f.olderThan, olderThan)
	return f.n, f.err
}

func (f *fakeExpirer) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.olderThan)
}

func TestScheduler_RunsImmediatelyAndOnTick(t *testing.T) {
	var runs atomic.Int32
	s := NewScheduler(nil)
	s.AddTask("counter", 20*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})
	s.Start()

	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	s.Stop()

	stopped := runs.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, runs.Load())
}

func TestScheduler_AddTask(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	s := NewScheduler(zap.New(core))

	s.AddTask("bad", 0, func(context.Context) error { return nil })
	assert.Zero(t, s.Len())
	assert.Equal(t, 1, logs.FilterMessage("task skipped, interval must be positive").Len())

	s.AddTask("ok", time.Minute, func(context.Context) error { return nil })
	assert.Equal(t, 1, s.Len())
}

func TestScheduler_LogsFailure(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	s := NewScheduler(zap.New(core))
	s.AddTask("boom", time.Hour, func(context.Context) error { return errors.New("boom") })
	s.Start()

	assert.Eventually(t, func() bool { return logs.FilterMessage("task failed").Len() == 1 }, time.Second, 5*time.Millisecond)
	s.Stop()
}

func TestTaskHandler(t *testing.T) {
	t.Run("按配置时长清理", func(t *testing.T) {
		f := &fakeExpirer{n: 2}
		h := NewTaskHandler(f, 30*time.Minute, nil)
		assert.NoError(t, h.ExpirePendingBookings(context.Background()))
		assert.Equal(t, []time.Duration{30 * time.Minute}, f.olderThan)
	})

	t.Run("错误向上返回", func(t *testing.T) {
		f := &fakeExpirer{err: errors.New("db down")}
		h := NewTaskHandler(f, time.Minute, nil)
		assert.EqualError(t, h.ExpirePendingBookings(context.Background()), "db down")
	})

	t.Run("默认关闭不注册", func(t *testing.T) {
		s := NewScheduler(nil)
		NewTaskHandler(&fakeExpirer{}, time.Minute, nil).RegisterTasks(s, false, time.Minute)
		assert.Zero(t, s.Len())
	})

	t.Run("开启后按间隔执行", func(t *testing.T) {
		f := &fakeExpirer{}
		s := NewScheduler(nil)
		NewTaskHandler(f, time.Minute, nil).RegisterTasks(s, true, time.Hour)
		assert.Equal(t, 1, s.Len())

		s.Start()
		assert.Eventually(t, func() bool { return f.calls() == 1 }, time.Second, 5*time.Millisecond)
		s.Stop()
	})
}
