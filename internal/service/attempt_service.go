package service

import (
	"context"
	"math"
	"quiz_platform_backend/internal/cache"
	"quiz_platform_backend/internal/model"
	"quiz_platform_backend/internal/repository"
	"quiz_platform_backend/internal/util"
	"quiz_platform_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ScoreSummary 一次作答的最终成绩
// swagger:model ScoreSummary
type ScoreSummary struct {
	AttemptID       string     `json:"attemptId"`
	CorrectCount    int        `json:"correctCount"`
	IncorrectCount  int        `json:"incorrectCount"`
	UnansweredCount int        `json:"unansweredCount"`
	TotalQuestions  int        `json:"totalQuestions"`
	Score           int        `json:"score"`
	EndedAt         *time.Time `json:"endedAt,omitempty"`
}

// AttemptHistoryItem 历史成绩列表项
type AttemptHistoryItem struct {
	ID          string    `json:"id"`
	Score       int       `json:"score"`
	CompletedAt time.Time `json:"completedAt"`
}

// ActiveAttemptState 续答所需的缓存状态
type ActiveAttemptState struct {
	Attempt          *model.QuizAttempt `json:"attempt"`
	RemainingSeconds int                `json:"remainingSeconds"`
	QuestionIndex    int                `json:"questionIndex"`
	Answers          []model.Answer     `json:"answers"`
}

// AttemptService 作答状态机：开始/续答、逐题记录、交卷计分。
// 状态流转 NotStarted → InProgress → Completed，Completed 为终态。
type AttemptService struct {
	AttemptRepo  *repository.AttemptRepository
	AnswerRepo   *repository.AnswerRepository
	QuizRepo     *repository.QuizRepository
	QuestionRepo *repository.QuestionRepository
	Cache        *cache.AttemptCache
	timer        *AttemptTimer
}

func NewAttemptService(
	attemptRepo *repository.AttemptRepository,
	answerRepo *repository.AnswerRepository,
	quizRepo *repository.QuizRepository,
	questionRepo *repository.QuestionRepository,
	attemptCache *cache.AttemptCache,
) *AttemptService {
	return &AttemptService{
		AttemptRepo:  attemptRepo,
		AnswerRepo:   answerRepo,
		QuizRepo:     quizRepo,
		QuestionRepo: questionRepo,
		Cache:        attemptCache,
	}
}

// SetTimer 绑定倒计时调度器（先构造 service 再构造 timer，避免环形依赖）
func (s *AttemptService) SetTimer(t *AttemptTimer) {
	s.timer = t
}

// StartOrResume 幂等：存在未完成作答时原样复用，否则新建。
// 续答时倒计时从缓存的剩余秒数恢复，缓存缺失时退回整个时限。
func (s *AttemptService) StartOrResume(ctx context.Context, userID uint, quizID string) (*model.QuizAttempt, bool, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, false, util.ErrQuizNotFound
		}
		return nil, false, err
	}

	questionCount, err := s.QuestionRepo.CountByQuizID(quizID)
	if err != nil {
		return nil, false, err
	}
	if questionCount == 0 {
		return nil, false, util.ErrQuizNoQuestions
	}

	attempt, err := s.AttemptRepo.FindIncomplete(userID, quizID)
	if err != nil {
		return nil, false, err
	}

	resumed := attempt != nil
	remaining := quiz.TimeLimit

	if resumed {
		// 缓存里的剩余时间只在计时器运行时递减，关页/重启期间不扣（见 AttemptTimer）
		if cached, ok, cerr := s.Cache.GetRemaining(ctx, quizID, userID); cerr == nil && ok {
			remaining = cached
		}
	} else {
		attempt = &model.QuizAttempt{
			UserID:    userID,
			QuizID:    quizID,
			StartedAt: time.Now(),
			Completed: false,
		}
		if err := s.AttemptRepo.Create(attempt); err != nil {
			return nil, false, err
		}
		if err := s.Cache.SetQuestionIndex(ctx, quizID, userID, 0); err != nil {
			logger.Log.Warn("failed to cache question index", zap.Error(err))
		}
	}

	snapshot := &cache.AttemptSnapshot{
		AttemptID: attempt.ID,
		QuizID:    quizID,
		StartedAt: attempt.StartedAt,
	}
	if err := s.Cache.SaveSnapshot(ctx, userID, snapshot); err != nil {
		logger.Log.Warn("failed to cache attempt snapshot", zap.Error(err))
	}
	if err := s.Cache.SetRemaining(ctx, quizID, userID, remaining); err != nil {
		logger.Log.Warn("failed to cache remaining time", zap.Error(err))
	}

	if s.timer != nil {
		s.timer.Schedule(quizID, userID, attempt.ID, remaining)
	}

	return attempt, resumed, nil
}

// loadOwnedOpenAttempt 按固定顺序做前置校验：存在 → 归属 → quiz 匹配 → 未完成
func (s *AttemptService) loadOwnedOpenAttempt(userID uint, quizID, attemptID string) (*model.QuizAttempt, error) {
	attempt, err := s.AttemptRepo.FindByID(attemptID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	if attempt.QuizID != quizID {
		return nil, util.ErrQuizMismatch
	}
	if attempt.Completed {
		return nil, util.ErrAttemptCompleted
	}
	return attempt, nil
}

// RecordAnswer 记录（或覆盖）一道题的选择。正确性由服务端根据选项表计算，
// 客户端传来的任何 isCorrect 一律忽略。同一 (attempt, question) 幂等可重试。
func (s *AttemptService) RecordAnswer(ctx context.Context, userID uint, quizID, attemptID, questionID, selectedOptionID string) (*model.Answer, error) {
	if _, err := s.loadOwnedOpenAttempt(userID, quizID, attemptID); err != nil {
		return nil, err
	}

	question, err := s.QuestionRepo.FindByID(questionID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	if question.QuizID != quizID {
		return nil, util.ErrQuestionNotInQuiz
	}

	var selected *model.Option
	for i := range question.Options {
		if question.Options[i].ID == selectedOptionID {
			selected = &question.Options[i]
			break
		}
	}
	if selected == nil {
		return nil, util.ErrOptionNotFound
	}

	answer := &model.Answer{
		AttemptID:        attemptID,
		QuestionID:       questionID,
		SelectedOptionID: &selectedOptionID,
		IsCorrect:        selected.IsCorrect,
	}
	if err := s.AnswerRepo.Upsert(answer); err != nil {
		return nil, err
	}
	return answer, nil
}

// Complete 终态切换。返回的 fresh 表示本次调用是否真正完成了交卷：
// 超时自动交卷与手动交卷竞争时，输掉的一方拿到已持久化的成绩且 fresh=false，
// 调用方应视为成功而不是错误。
func (s *AttemptService) Complete(ctx context.Context, userID uint, quizID, attemptID string) (*ScoreSummary, bool, error) {
	attempt, err := s.AttemptRepo.FindByID(attemptID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, false, util.ErrAttemptNotFound
		}
		return nil, false, err
	}
	if attempt.UserID != userID {
		return nil, false, util.ErrPermissionDenied
	}
	if attempt.QuizID != quizID {
		return nil, false, util.ErrQuizMismatch
	}

	totalQuestions, err := s.QuestionRepo.CountByQuizID(quizID)
	if err != nil {
		return nil, false, err
	}

	if attempt.Completed {
		summary, err := s.summarize(attempt, int(totalQuestions))
		return summary, false, err
	}

	answers, err := s.AnswerRepo.FindByAttemptID(attemptID)
	if err != nil {
		return nil, false, err
	}

	correct := 0
	for _, a := range answers {
		if a.IsCorrect {
			correct++
		}
	}
	score := scoreOf(correct, int(totalQuestions))
	endedAt := time.Now()

	flipped, err := s.AttemptRepo.MarkCompleted(attemptID, score, endedAt)
	if err != nil {
		return nil, false, err
	}

	if !flipped {
		// 条件更新没命中说明另一路（超时或手动）已经交卷，读回已持久化的结果
		completed, err := s.AttemptRepo.FindByID(attemptID)
		if err != nil {
			return nil, false, err
		}
		summary, err := s.summarize(completed, int(totalQuestions))
		return summary, false, err
	}

	if s.timer != nil {
		s.timer.Cancel(attemptID)
	}
	if err := s.Cache.Clear(ctx, quizID, userID); err != nil {
		logger.Log.Warn("failed to clear attempt cache", zap.Error(err))
	}

	logger.Log.Info("attempt completed",
		zap.String("attemptId", attemptID),
		zap.Uint("userId", userID),
		zap.Int("score", score))

	return &ScoreSummary{
		AttemptID:       attemptID,
		CorrectCount:    correct,
		IncorrectCount:  len(answers) - correct,
		UnansweredCount: int(totalQuestions) - len(answers),
		TotalQuestions:  int(totalQuestions),
		Score:           score,
		EndedAt:         &endedAt,
	}, true, nil
}

// summarize 用已持久化的分数重建成绩摘要（交卷竞争中输掉的一方走这里）
func (s *AttemptService) summarize(attempt *model.QuizAttempt, totalQuestions int) (*ScoreSummary, error) {
	answers, err := s.AnswerRepo.FindByAttemptID(attempt.ID)
	if err != nil {
		return nil, err
	}
	correct := 0
	for _, a := range answers {
		if a.IsCorrect {
			correct++
		}
	}
	score := 0
	if attempt.Score != nil {
		score = *attempt.Score
	}
	return &ScoreSummary{
		AttemptID:       attempt.ID,
		CorrectCount:    correct,
		IncorrectCount:  len(answers) - correct,
		UnansweredCount: totalQuestions - len(answers),
		TotalQuestions:  totalQuestions,
		Score:           score,
		EndedAt:         attempt.EndedAt,
	}, nil
}

// scoreOf 百分制，四舍五入采用 round half away from zero（math.Round）
func scoreOf(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

// History 最近 5 次已完成的作答
func (s *AttemptService) History(userID uint, quizID string) ([]AttemptHistoryItem, error) {
	attempts, err := s.AttemptRepo.FindCompletedByUserAndQuiz(userID, quizID, 5)
	if err != nil {
		return nil, err
	}
	items := make([]AttemptHistoryItem, 0, len(attempts))
	for _, a := range attempts {
		item := AttemptHistoryItem{ID: a.ID}
		if a.Score != nil {
			item.Score = *a.Score
		}
		if a.EndedAt != nil {
			item.CompletedAt = *a.EndedAt
		}
		items = append(items, item)
	}
	return items, nil
}

// ActiveState 刷新页面后的续答状态：未完成作答 + 缓存的剩余时间与题号。
// 没有未完成作答时返回 (nil, nil)。
func (s *AttemptService) ActiveState(ctx context.Context, userID uint, quizID string) (*ActiveAttemptState, error) {
	attempt, err := s.AttemptRepo.FindIncomplete(userID, quizID)
	if err != nil {
		return nil, err
	}
	if attempt == nil {
		return nil, nil
	}

	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		return nil, err
	}

	remaining := quiz.TimeLimit
	if cached, ok, cerr := s.Cache.GetRemaining(ctx, quizID, userID); cerr == nil && ok {
		remaining = cached
	}
	index, err := s.Cache.GetQuestionIndex(ctx, quizID, userID)
	if err != nil {
		logger.Log.Warn("failed to read cached question index", zap.Error(err))
		index = 0
	}
	answers, err := s.AnswerRepo.FindByAttemptID(attempt.ID)
	if err != nil {
		return nil, err
	}

	return &ActiveAttemptState{
		Attempt:          attempt,
		RemainingSeconds: remaining,
		QuestionIndex:    index,
		Answers:          answers,
	}, nil
}

// SaveProgress 记录当前题号，供刷新后恢复到同一位置
func (s *AttemptService) SaveProgress(ctx context.Context, userID uint, quizID, attemptID string, questionIndex int) error {
	if _, err := s.loadOwnedOpenAttempt(userID, quizID, attemptID); err != nil {
		return err
	}
	return s.Cache.SetQuestionIndex(ctx, quizID, userID, questionIndex)
}
