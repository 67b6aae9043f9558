package service

import (
	"quiz_platform_backend/internal/model"
	"quiz_platform_backend/internal/repository"
	"quiz_platform_backend/internal/util"

	"gorm.io/gorm"
)

// OptionInput 创建题目时的选项输入
type OptionInput struct {
	Content   string `json:"content" binding:"required"`
	IsCorrect bool   `json:"isCorrect"`
}

// TakerOption / TakerQuestion 答题视图：绝不携带 isCorrect，正确性只在服务端比对
type TakerOption struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

type TakerQuestion struct {
	ID      string        `json:"id"`
	Content string        `json:"content"`
	Type    string        `json:"type"`
	Options []TakerOption `json:"options"`
}

type QuestionService struct {
	QuestionRepo *repository.QuestionRepository
	QuizRepo     *repository.QuizRepository
}

func NewQuestionService(questionRepo *repository.QuestionRepository, quizRepo *repository.QuizRepository) *QuestionService {
	return &QuestionService{
		QuestionRepo: questionRepo,
		QuizRepo:     quizRepo,
	}
}

// AddQuestion 录入一道单选题。强约束：至少 2 个选项，恰好 1 个正确
func (s *QuestionService) AddQuestion(quizID, content string, options []OptionInput) (*model.Question, error) {
	if _, err := s.QuizRepo.FindByID(quizID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	if len(options) < 2 {
		return nil, util.ErrQuestionNeedsOptions
	}
	correctCount := 0
	for _, o := range options {
		if o.IsCorrect {
			correctCount++
		}
	}
	if correctCount != 1 {
		return nil, util.ErrQuestionNeedsCorrect
	}

	question := &model.Question{
		QuizID:  quizID,
		Content: content,
		Type:    model.QuestionTypeMultipleChoice,
	}
	modelOptions := make([]model.Option, 0, len(options))
	for _, o := range options {
		modelOptions = append(modelOptions, model.Option{
			Content:   o.Content,
			IsCorrect: o.IsCorrect,
		})
	}

	if err := s.QuestionRepo.CreateWithOptions(question, modelOptions); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *QuestionService) DeleteQuestion(id string) error {
	if _, err := s.QuestionRepo.FindByID(id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrQuestionNotFound
		}
		return err
	}
	return s.QuestionRepo.Delete(id)
}

// QuestionsForTaker 答题端题目列表，按录入顺序，不暴露正确答案
func (s *QuestionService) QuestionsForTaker(quizID string) ([]TakerQuestion, error) {
	if _, err := s.QuizRepo.FindByID(quizID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	questions, err := s.QuestionRepo.FindByQuizID(quizID)
	if err != nil {
		return nil, err
	}

	views := make([]TakerQuestion, 0, len(questions))
	for _, q := range questions {
		view := TakerQuestion{
			ID:      q.ID,
			Content: q.Content,
			Type:    q.Type,
			Options: make([]TakerOption, 0, len(q.Options)),
		}
		for _, o := range q.Options {
			view.Options = append(view.Options, TakerOption{ID: o.ID, Content: o.Content})
		}
		views = append(views, view)
	}
	return views, nil
}
