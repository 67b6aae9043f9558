package service

import (
	"context"
	"quiz_platform_backend/internal/cache"
	"quiz_platform_backend/pkg/logger"
	"sync"
	"time"

	"go.uber.org/zap"
)

// CompleteFunc 倒计时归零时触发的交卷回调
type CompleteFunc func(ctx context.Context, userID uint, quizID, attemptID string) error

// AttemptTimer 按 attempt 维度调度倒计时：每秒递减一次剩余时间并写回缓存，
// 归零时触发且只触发一次自动交卷。每个倒计时持有显式的取消句柄，
// 手动交卷或进程退出时可确定性地停掉，不会留下孤儿计时器重复交卷。
//
// 计时只在进程内进行：标签页关闭或服务重启期间时间不流逝（缓存里的剩余秒数
// 保持不动），续答时从上次的剩余秒数接着数。这是刻意选择的宽松策略。
type AttemptTimer struct {
	cache    *cache.AttemptCache
	complete CompleteFunc
	interval time.Duration

	mu      sync.Mutex
	handles map[string]*timerHandle // attemptID -> handle
}

type timerHandle struct {
	stop     chan struct{}
	stopOnce sync.Once
}

func (h *timerHandle) cancel() {
	h.stopOnce.Do(func() { close(h.stop) })
}

func NewAttemptTimer(attemptCache *cache.AttemptCache, complete CompleteFunc) *AttemptTimer {
	return &AttemptTimer{
		cache:    attemptCache,
		complete: complete,
		interval: time.Second,
		handles:  make(map[string]*timerHandle),
	}
}

// Schedule 启动（或重置）某次作答的倒计时。重复调度同一 attempt 会先停掉旧的，
// 所以 StartOrResume 的幂等语义同样适用于计时器。
func (t *AttemptTimer) Schedule(quizID string, userID uint, attemptID string, remaining int) {
	t.mu.Lock()
	if old, ok := t.handles[attemptID]; ok {
		old.cancel()
	}
	handle := &timerHandle{stop: make(chan struct{})}
	t.handles[attemptID] = handle
	t.mu.Unlock()

	go t.run(handle, quizID, userID, attemptID, remaining)
}

func (t *AttemptTimer) run(handle *timerHandle, quizID string, userID uint, attemptID string, remaining int) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-handle.stop:
			return
		case <-ticker.C:
			remaining--
			if remaining > 0 {
				if err := t.cache.SetRemaining(context.Background(), quizID, userID, remaining); err != nil {
					logger.Log.Warn("failed to persist remaining time", zap.Error(err))
				}
				continue
			}

			// 归零：句柄先摘掉再交卷，保证回调至多触发一次。
			// 与手动交卷的竞争由状态机的条件更新兜底。
			t.remove(attemptID, handle)
			if err := t.cache.SetRemaining(context.Background(), quizID, userID, 0); err != nil {
				logger.Log.Warn("failed to persist remaining time", zap.Error(err))
			}
			if err := t.complete(context.Background(), userID, quizID, attemptID); err != nil {
				logger.Log.Error("timeout completion failed",
					zap.String("attemptId", attemptID),
					zap.Error(err))
			}
			return
		}
	}
}

// Cancel 停掉某次作答的倒计时（手动交卷或离开页面时调用）
func (t *AttemptTimer) Cancel(attemptID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if handle, ok := t.handles[attemptID]; ok {
		handle.cancel()
		delete(t.handles, attemptID)
	}
}

// Shutdown 停掉所有倒计时。重启后的进程不会复原计时器：
// 未完成的作答保持可续答，剩余时间仍在缓存里。
func (t *AttemptTimer) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, handle := range t.handles {
		handle.cancel()
		delete(t.handles, id)
	}
}

// Active 当前在计时的作答数（监控/测试用）
func (t *AttemptTimer) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.handles)
}

func (t *AttemptTimer) remove(attemptID string, handle *timerHandle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if current, ok := t.handles[attemptID]; ok && current == handle {
		handle.cancel()
		delete(t.handles, attemptID)
	}
}
