package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"quiz_platform_backend/internal/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func newTimerEnv(t *testing.T) (*cache.AttemptCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return cache.NewAttemptCache(rdb, time.Hour), mr
}

func TestTimerFiresCompleteOnceAtZero(t *testing.T) {
	c, _ := newTimerEnv(t)

	var calls int32
	done := make(chan struct{}, 1)
	timer := NewAttemptTimer(c, func(ctx context.Context, userID uint, quizID, attemptID string) error {
		atomic.AddInt32(&calls, 1)
		done <- struct{}{}
		return nil
	})
	timer.interval = 5 * time.Millisecond

	timer.Schedule("quiz-1", 7, "attempt-1", 3)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout completion never fired")
	}
	// 再等几拍，确认不会重复触发
	time.Sleep(50 * time.Millisecond)

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("complete fired %d times, want 1", got)
	}
	remaining, ok, err := c.GetRemaining(context.Background(), "quiz-1", 7)
	if err != nil || !ok {
		t.Fatalf("remaining after expiry: ok=%v err=%v", ok, err)
	}
	if remaining != 0 {
		t.Fatalf("expected remaining 0, got %d", remaining)
	}
	if timer.Active() != 0 {
		t.Fatalf("expired timer still tracked, active=%d", timer.Active())
	}
}

func TestTimerTicksDownRemaining(t *testing.T) {
	c, _ := newTimerEnv(t)

	timer := NewAttemptTimer(c, func(ctx context.Context, userID uint, quizID, attemptID string) error {
		return nil
	})
	timer.interval = 10 * time.Millisecond

	timer.Schedule("quiz-1", 7, "attempt-1", 1000)
	defer timer.Shutdown()

	deadline := time.After(2 * time.Second)
	for {
		remaining, ok, err := c.GetRemaining(context.Background(), "quiz-1", 7)
		if err != nil {
			t.Fatalf("get remaining: %v", err)
		}
		if ok && remaining < 1000 {
			return
		}
		select {
		case <-deadline:
			t.Fatal("remaining time never decreased")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestTimerCancelStopsCountdown(t *testing.T) {
	c, _ := newTimerEnv(t)

	var calls int32
	timer := NewAttemptTimer(c, func(ctx context.Context, userID uint, quizID, attemptID string) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	timer.interval = 5 * time.Millisecond

	timer.Schedule("quiz-1", 7, "attempt-1", 2)
	timer.Cancel("attempt-1")

	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt32(&calls); got != 0 {
		t.Fatalf("cancelled timer still completed %d times", got)
	}
	if timer.Active() != 0 {
		t.Fatalf("cancelled timer still tracked, active=%d", timer.Active())
	}
}

func TestTimerRescheduleReplacesOldCountdown(t *testing.T) {
	c, _ := newTimerEnv(t)

	var calls int32
	timer := NewAttemptTimer(c, func(ctx context.Context, userID uint, quizID, attemptID string) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	timer.interval = 5 * time.Millisecond

	timer.Schedule("quiz-1", 7, "attempt-1", 2)
	timer.Schedule("quiz-1", 7, "attempt-1", 2)

	if timer.Active() != 1 {
		t.Fatalf("expected 1 active countdown after reschedule, got %d", timer.Active())
	}

	time.Sleep(100 * time.Millisecond)
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("rescheduled timer completed %d times, want 1", got)
	}
}

func TestTimerShutdownCancelsEverything(t *testing.T) {
	c, _ := newTimerEnv(t)

	var calls int32
	timer := NewAttemptTimer(c, func(ctx context.Context, userID uint, quizID, attemptID string) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	timer.interval = 5 * time.Millisecond

	timer.Schedule("quiz-1", 1, "attempt-1", 100)
	timer.Schedule("quiz-2", 2, "attempt-2", 100)
	timer.Schedule("quiz-3", 3, "attempt-3", 100)
	if timer.Active() != 3 {
		t.Fatalf("expected 3 active countdowns, got %d", timer.Active())
	}

	timer.Shutdown()
	if timer.Active() != 0 {
		t.Fatalf("countdowns survived shutdown, active=%d", timer.Active())
	}
	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt32(&calls); got != 0 {
		t.Fatalf("shutdown timer still completed %d times", got)
	}
}
