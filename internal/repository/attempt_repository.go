package repository

import (
	"quiz_platform_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Create(attempt *model.QuizAttempt) error {
	return r.DB.Create(attempt).Error
}

func (r *AttemptRepository) FindByID(id string) (*model.QuizAttempt, error) {
	var a model.QuizAttempt
	if err := r.DB.First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// FindIncomplete 查找某用户在某 quiz 上未完成的作答，不存在时返回 (nil, nil)
func (r *AttemptRepository) FindIncomplete(userID uint, quizID string) (*model.QuizAttempt, error) {
	var a model.QuizAttempt
	err := r.DB.Where("user_id = ? AND quiz_id = ? AND completed = ?", userID, quizID, false).
		First(&a).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// MarkCompleted 条件更新：仅当记录仍未完成时置位，返回是否真正发生了状态切换。
// 这是超时自动交卷与手动交卷竞争时的唯一仲裁点。
func (r *AttemptRepository) MarkCompleted(id string, score int, endedAt time.Time) (bool, error) {
	res := r.DB.Model(&model.QuizAttempt{}).
		Where("id = ? AND completed = ?", id, false).
		Updates(map[string]interface{}{
			"completed": true,
			"score":     score,
			"ended_at":  endedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FindCompletedByUserAndQuiz 按结束时间倒序返回某用户在某 quiz 上最近完成的作答
func (r *AttemptRepository) FindCompletedByUserAndQuiz(userID uint, quizID string, limit int) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Where("user_id = ? AND quiz_id = ? AND completed = ?", userID, quizID, true).
		Order("ended_at DESC").
		Limit(limit).
		Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) FindCompletedByUser(userID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Preload("Answers").
		Where("user_id = ? AND completed = ?", userID, true).
		Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) FindRecentCompletedByUser(userID uint, limit int) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Where("user_id = ? AND completed = ?", userID, true).
		Order("ended_at DESC").
		Limit(limit).
		Find(&attempts).Error
	return attempts, err
}

// FindRecentCompleted 全站最近完成的作答（管理端动态流）
func (r *AttemptRepository) FindRecentCompleted(limit int) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Where("completed = ?", true).
		Order("ended_at DESC").
		Limit(limit).
		Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuizAttempt{}).Count(&count).Error
	return count, err
}

func (r *AttemptRepository) CountCompleted() (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuizAttempt{}).Where("completed = ?", true).Count(&count).Error
	return count, err
}

func (r *AttemptRepository) CountByQuiz(quizID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuizAttempt{}).Where("quiz_id = ?", quizID).Count(&count).Error
	return count, err
}

func (r *AttemptRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuizAttempt{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// AverageCompletedScore 所有已完成作答的平均分，无记录时返回 0
func (r *AttemptRepository) AverageCompletedScore() (float64, error) {
	var avg *float64
	err := r.DB.Model(&model.QuizAttempt{}).
		Where("completed = ?", true).
		Select("AVG(score)").
		Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}
