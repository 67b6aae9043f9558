package model

const QuestionTypeMultipleChoice = "multiple_choice"

// swagger:model Question
type Question struct {
	UUIDBase
	QuizID  string `gorm:"index;type:varchar(36)" json:"quizId"`
	Content string `gorm:"type:text;not null" json:"content"`
	// 目前固定为 multiple_choice（单选）
	Type    string   `gorm:"size:50;default:'multiple_choice'" json:"type"`
	Options []Option `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}
