package model

// Answer 某次作答中一道题的选择记录，(attempt, question) 唯一，后提交覆盖先提交。
// swagger:model Answer
type Answer struct {
	UUIDBase
	AttemptID  string `gorm:"index:idx_attempt_question,unique;type:varchar(36)" json:"attemptId"`
	QuestionID string `gorm:"index:idx_attempt_question,unique;type:varchar(36)" json:"questionId"`
	// 可为空：题目可以不作答
	SelectedOptionID *string `gorm:"type:varchar(36)" json:"selectedOptionId"`
	// 提交时由服务端根据选项表计算，不信任客户端
	IsCorrect bool `gorm:"default:false" json:"isCorrect"`
}

func (Answer) TableName() string {
	return "answers"
}
