package service

import (
	"errors"
	"quiz_platform_backend/internal/model"
	"quiz_platform_backend/internal/repository"
	"quiz_platform_backend/internal/util"

	"gorm.io/gorm"
)

// QuizListItem 列表视图：不带题目内容，只带题目数
type QuizListItem struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	TimeLimit     int    `json:"timeLimit"`
	QuestionCount int    `json:"questionCount"`
}

// QuizService 管理端发布/维护 quiz，用户端只读浏览
type QuizService struct {
	QuizRepo     *repository.QuizRepository
	QuestionRepo *repository.QuestionRepository
	AttemptRepo  *repository.AttemptRepository
}

func NewQuizService(quizRepo *repository.QuizRepository, questionRepo *repository.QuestionRepository, attemptRepo *repository.AttemptRepository) *QuizService {
	return &QuizService{
		QuizRepo:     quizRepo,
		QuestionRepo: questionRepo,
		AttemptRepo:  attemptRepo,
	}
}

func (s *QuizService) CreateQuiz(userID uint, title, description string, timeLimit int) (*model.Quiz, error) {
	if timeLimit <= 0 {
		return nil, errors.New("time limit must be at least 1 second")
	}
	quiz := &model.Quiz{
		Title:       title,
		Description: description,
		TimeLimit:   timeLimit,
		UserID:      userID,
	}
	if err := s.QuizRepo.Create(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) ListQuizzes() ([]QuizListItem, error) {
	quizzes, err := s.QuizRepo.List()
	if err != nil {
		return nil, err
	}
	items := make([]QuizListItem, 0, len(quizzes))
	for _, q := range quizzes {
		count, err := s.QuestionRepo.CountByQuizID(q.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, QuizListItem{
			ID:            q.ID,
			Title:         q.Title,
			Description:   q.Description,
			TimeLimit:     q.TimeLimit,
			QuestionCount: int(count),
		})
	}
	return items, nil
}

func (s *QuizService) GetQuiz(id string) (*QuizListItem, error) {
	quiz, err := s.QuizRepo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	count, err := s.QuestionRepo.CountByQuizID(id)
	if err != nil {
		return nil, err
	}
	return &QuizListItem{
		ID:            quiz.ID,
		Title:         quiz.Title,
		Description:   quiz.Description,
		TimeLimit:     quiz.TimeLimit,
		QuestionCount: int(count),
	}, nil
}

// GetQuizDetail 管理端完整视图：题目与选项（含正确答案标记）
func (s *QuizService) GetQuizDetail(id string) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByIDWithQuestions(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) UpdateQuiz(id, title, description string, timeLimit int) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	if timeLimit <= 0 {
		return nil, errors.New("time limit must be at least 1 second")
	}
	quiz.Title = title
	quiz.Description = description
	quiz.TimeLimit = timeLimit
	if err := s.QuizRepo.Update(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

// DeleteQuiz 已有作答记录的 quiz 不允许删除，否则历史成绩会变成孤儿数据
func (s *QuizService) DeleteQuiz(id string) error {
	if _, err := s.QuizRepo.FindByID(id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrQuizNotFound
		}
		return err
	}
	attempts, err := s.AttemptRepo.CountByQuiz(id)
	if err != nil {
		return err
	}
	if attempts > 0 {
		return util.ErrQuizHasAttempts
	}
	return s.QuizRepo.Delete(id)
}
