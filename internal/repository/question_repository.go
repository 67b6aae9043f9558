package repository

import (
	"quiz_platform_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

// CreateWithOptions 在一个事务里创建题目和它的所有选项
func (r *QuestionRepository) CreateWithOptions(question *model.Question, options []model.Option) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(question).Error; err != nil {
			return err
		}
		for i := range options {
			options[i].QuestionID = question.ID
		}
		if err := tx.Create(&options).Error; err != nil {
			return err
		}
		question.Options = options
		return nil
	})
}

func (r *QuestionRepository) FindByID(id string) (*model.Question, error) {
	var question model.Question
	if err := r.DB.Preload("Options").First(&question, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *QuestionRepository) FindByQuizID(quizID string) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Preload("Options").
		Where("quiz_id = ?", quizID).
		Order("created_at ASC").
		Find(&questions).Error
	return questions, err
}

// Delete 删除题目及其选项
func (r *QuestionRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.Option{}, "question_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Question{}, "id = ?", id).Error
	})
}

func (r *QuestionRepository) CountByQuizID(quizID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Question{}).Where("quiz_id = ?", quizID).Count(&count).Error
	return count, err
}

func (r *QuestionRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Question{}).Count(&count).Error
	return count, err
}
