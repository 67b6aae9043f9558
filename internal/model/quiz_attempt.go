package model

import "time"

// QuizAttempt 一次用户对某个 quiz 的限时作答。
// 同一 (user, quiz) 同时最多存在一条未完成记录；completed 置位后不可再修改。
// swagger:model QuizAttempt
type QuizAttempt struct {
	UUIDBase
	UserID    uint       `gorm:"index;type:bigint unsigned" json:"userId"`
	QuizID    string     `gorm:"index;type:varchar(36)" json:"quizId"`
	StartedAt time.Time  `json:"startedAt"`
	EndedAt   *time.Time `json:"endedAt,omitempty"`
	// 百分制得分，仅在 completed = true 时有值
	Score     *int     `json:"score,omitempty"`
	Completed bool     `gorm:"default:false;index" json:"completed"`
	Answers   []Answer `gorm:"foreignKey:AttemptID" json:"answers,omitempty"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
