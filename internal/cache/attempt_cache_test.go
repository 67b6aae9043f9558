package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func newTestCache(t *testing.T) (*AttemptCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewAttemptCache(rdb, time.Hour), mr
}

func TestSnapshotRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	started := time.Now().UTC().Truncate(time.Second)
	snapshot := &AttemptSnapshot{
		AttemptID: "attempt-1",
		QuizID:    "quiz-1",
		StartedAt: started,
	}
	if err := c.SaveSnapshot(ctx, 7, snapshot); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := c.GetSnapshot(ctx, "quiz-1", 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("snapshot missing after save")
	}
	if got.AttemptID != "attempt-1" || got.QuizID != "quiz-1" || !got.StartedAt.Equal(started) {
		t.Fatalf("snapshot mangled: %+v", got)
	}
}

func TestSnapshotMissingIsNil(t *testing.T) {
	c, _ := newTestCache(t)
	got, err := c.GetSnapshot(context.Background(), "quiz-1", 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing snapshot, got %+v", got)
	}
}

func TestRemainingSecondsExistenceFlag(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	if _, ok, err := c.GetRemaining(ctx, "quiz-1", 7); err != nil || ok {
		t.Fatalf("missing key: ok=%v err=%v", ok, err)
	}
	if err := c.SetRemaining(ctx, "quiz-1", 7, 125); err != nil {
		t.Fatalf("set: %v", err)
	}
	seconds, ok, err := c.GetRemaining(ctx, "quiz-1", 7)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if seconds != 125 {
		t.Fatalf("expected 125, got %d", seconds)
	}
}

func TestQuestionIndexDefaultsToZero(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	index, err := c.GetQuestionIndex(ctx, "quiz-1", 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if index != 0 {
		t.Fatalf("expected 0 for missing index, got %d", index)
	}

	if err := c.SetQuestionIndex(ctx, "quiz-1", 7, 4); err != nil {
		t.Fatalf("set: %v", err)
	}
	index, err = c.GetQuestionIndex(ctx, "quiz-1", 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if index != 4 {
		t.Fatalf("expected 4, got %d", index)
	}
}

func TestUsersAreIsolated(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	if err := c.SetRemaining(ctx, "quiz-1", 7, 100); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok, _ := c.GetRemaining(ctx, "quiz-1", 8); ok {
		t.Fatal("user 8 sees user 7's countdown")
	}
}

func TestClearRemovesAllKeys(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	if err := c.SaveSnapshot(ctx, 7, &AttemptSnapshot{AttemptID: "a", QuizID: "quiz-1", StartedAt: time.Now()}); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}
	if err := c.SetRemaining(ctx, "quiz-1", 7, 30); err != nil {
		t.Fatalf("set remaining: %v", err)
	}
	if err := c.SetQuestionIndex(ctx, "quiz-1", 7, 2); err != nil {
		t.Fatalf("set index: %v", err)
	}

	if err := c.Clear(ctx, "quiz-1", 7); err != nil {
		t.Fatalf("clear: %v", err)
	}

	if snapshot, _ := c.GetSnapshot(ctx, "quiz-1", 7); snapshot != nil {
		t.Fatal("snapshot survived clear")
	}
	if _, ok, _ := c.GetRemaining(ctx, "quiz-1", 7); ok {
		t.Fatal("remaining survived clear")
	}
	if index, _ := c.GetQuestionIndex(ctx, "quiz-1", 7); index != 0 {
		t.Fatalf("index survived clear: %d", index)
	}
}
