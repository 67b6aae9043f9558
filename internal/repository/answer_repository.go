package repository

import (
	"quiz_platform_backend/internal/model"

	"gorm.io/gorm"
)

type AnswerRepository struct {
	DB *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) *AnswerRepository {
	return &AnswerRepository{DB: db}
}

// Upsert 以 (attempt, question) 为键写入答案，已存在则覆盖选项与正确性
func (r *AnswerRepository) Upsert(answer *model.Answer) error {
	var existing model.Answer
	err := r.DB.Where("attempt_id = ? AND question_id = ?", answer.AttemptID, answer.QuestionID).
		First(&existing).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return err
	}
	if existing.ID == "" {
		return r.DB.Create(answer).Error
	}
	existing.SelectedOptionID = answer.SelectedOptionID
	existing.IsCorrect = answer.IsCorrect
	if err := r.DB.Save(&existing).Error; err != nil {
		return err
	}
	*answer = existing
	return nil
}

func (r *AnswerRepository) FindByAttemptID(attemptID string) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.DB.Where("attempt_id = ?", attemptID).Find(&answers).Error
	return answers, err
}

func (r *AnswerRepository) CountByAttemptID(attemptID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Answer{}).Where("attempt_id = ?", attemptID).Count(&count).Error
	return count, err
}
