package model

// swagger:model Quiz
type Quiz struct {
	UUIDBase
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	// 答题时限，单位秒，必须大于 0
	TimeLimit int        `gorm:"not null" json:"timeLimit"`
	UserID    uint       `gorm:"index;type:bigint unsigned" json:"userId"`
	Questions []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}
