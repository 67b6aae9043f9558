package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// AttemptSnapshot 客户端恢复作答所需的最小状态镜像。
// 数据库才是事实来源，这份镜像只用于免查询续答，随时可丢弃。
type AttemptSnapshot struct {
	AttemptID string    `json:"attemptId"`
	QuizID    string    `json:"quizId"`
	StartedAt time.Time `json:"startedAt"`
}

// AttemptCache 把 {作答快照, 剩余秒数, 当前题号} 按 (quiz, user) 镜像到 Redis。
// 键名沿用前端 localStorage 的命名，服务端多挂一层 user 维度。
type AttemptCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewAttemptCache(rdb *redis.Client, ttl time.Duration) *AttemptCache {
	return &AttemptCache{rdb: rdb, ttl: ttl}
}

func snapshotKey(quizID string, userID uint) string {
	return fmt.Sprintf("quiz_attempt_%s:%d", quizID, userID)
}

func timeKey(quizID string, userID uint) string {
	return fmt.Sprintf("quiz_time_%s:%d", quizID, userID)
}

func indexKey(quizID string, userID uint) string {
	return fmt.Sprintf("quiz_question_index_%s:%d", quizID, userID)
}

func (c *AttemptCache) SaveSnapshot(ctx context.Context, userID uint, snapshot *AttemptSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, snapshotKey(snapshot.QuizID, userID), data, c.ttl).Err()
}

// GetSnapshot 不存在时返回 (nil, nil)
func (c *AttemptCache) GetSnapshot(ctx context.Context, quizID string, userID uint) (*AttemptSnapshot, error) {
	data, err := c.rdb.Get(ctx, snapshotKey(quizID, userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snapshot AttemptSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (c *AttemptCache) SetRemaining(ctx context.Context, quizID string, userID uint, seconds int) error {
	return c.rdb.Set(ctx, timeKey(quizID, userID), seconds, c.ttl).Err()
}

// GetRemaining 第二个返回值表示键是否存在
func (c *AttemptCache) GetRemaining(ctx context.Context, quizID string, userID uint) (int, bool, error) {
	seconds, err := c.rdb.Get(ctx, timeKey(quizID, userID)).Int()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return seconds, true, nil
}

func (c *AttemptCache) SetQuestionIndex(ctx context.Context, quizID string, userID uint, index int) error {
	return c.rdb.Set(ctx, indexKey(quizID, userID), index, c.ttl).Err()
}

func (c *AttemptCache) GetQuestionIndex(ctx context.Context, quizID string, userID uint) (int, error) {
	index, err := c.rdb.Get(ctx, indexKey(quizID, userID)).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return index, nil
}

// Clear 三个键一次性删除，只在交卷成功后调用；交卷失败时保留镜像以便重试续答
func (c *AttemptCache) Clear(ctx context.Context, quizID string, userID uint) error {
	return c.rdb.Del(ctx,
		snapshotKey(quizID, userID),
		timeKey(quizID, userID),
		indexKey(quizID, userID),
	).Err()
}
