package service

import (
	"math"
	"quiz_platform_backend/internal/model"
	"quiz_platform_backend/internal/repository"
	"time"

	"gorm.io/gorm"
)

// AdminDashboard 管理端总览数据
type AdminDashboard struct {
	Stats     AdminStats     `json:"stats"`
	UserStats AdminUserStats `json:"userStats"`
	QuizStats AdminQuizStats `json:"quizStats"`
}

type AdminStats struct {
	TotalQuizzes   int64 `json:"totalQuizzes"`
	TotalUsers     int64 `json:"totalUsers"`
	TotalQuestions int64 `json:"totalQuestions"`
	TotalAttempts  int64 `json:"totalAttempts"`
	AverageScore   int   `json:"averageScore"`
	CompletionRate int   `json:"completionRate"`
}

type AdminUserStats struct {
	TotalUsers        int64 `json:"totalUsers"`
	ActiveUsers       int64 `json:"activeUsers"`
	NewUsersThisMonth int64 `json:"newUsersThisMonth"`
}

type AdminQuizStats struct {
	TotalQuizzes     int64   `json:"totalQuizzes"`
	MostPopularQuiz  string  `json:"mostPopularQuiz"`
	AverageQuestions float64 `json:"averageQuestions"`
}

// UserDashboard 用户端总览数据
type UserDashboard struct {
	TotalQuizzesCompleted int `json:"totalQuizzesCompleted"`
	AverageScore          int `json:"averageScore"`
	BestScore             int `json:"bestScore"`
	TotalQuestions        int `json:"totalQuestions"`
}

// RecentAttemptItem 最近作答记录（带 quiz 标题）
type RecentAttemptItem struct {
	ID          string    `json:"id"`
	QuizID      string    `json:"quizId"`
	QuizTitle   string    `json:"quizTitle"`
	Score       int       `json:"score"`
	CompletedAt time.Time `json:"completedAt"`
}

type DashboardService struct {
	UserRepo     *repository.UserRepository
	QuizRepo     *repository.QuizRepository
	QuestionRepo *repository.QuestionRepository
	AttemptRepo  *repository.AttemptRepository
}

func NewDashboardService(
	userRepo *repository.UserRepository,
	quizRepo *repository.QuizRepository,
	questionRepo *repository.QuestionRepository,
	attemptRepo *repository.AttemptRepository,
) *DashboardService {
	return &DashboardService{
		UserRepo:     userRepo,
		QuizRepo:     quizRepo,
		QuestionRepo: questionRepo,
		AttemptRepo:  attemptRepo,
	}
}

func (s *DashboardService) AdminOverview() (*AdminDashboard, error) {
	totalQuizzes, err := s.QuizRepo.Count()
	if err != nil {
		return nil, err
	}
	totalUsers, err := s.UserRepo.Count()
	if err != nil {
		return nil, err
	}
	totalQuestions, err := s.QuestionRepo.Count()
	if err != nil {
		return nil, err
	}
	completedAttempts, err := s.AttemptRepo.CountCompleted()
	if err != nil {
		return nil, err
	}
	allAttempts, err := s.AttemptRepo.Count()
	if err != nil {
		return nil, err
	}
	avgScore, err := s.AttemptRepo.AverageCompletedScore()
	if err != nil {
		return nil, err
	}

	completionRate := 0
	if allAttempts > 0 {
		completionRate = int(math.Round(float64(completedAttempts) / float64(allAttempts) * 100))
	}

	// 本月新增用户：从当月 1 号零点起算
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	newUsers, err := s.UserRepo.CountCreatedSince(monthStart)
	if err != nil {
		return nil, err
	}
	activeUsers, err := s.UserRepo.CountActiveSince(now.AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}

	mostPopular := "N/A"
	popular, err := s.QuizRepo.FindMostPopular()
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}
	if popular != nil {
		mostPopular = popular.Title
	}

	averageQuestions := 0.0
	if totalQuizzes > 0 {
		averageQuestions = math.Round(float64(totalQuestions)/float64(totalQuizzes)*10) / 10
	}

	return &AdminDashboard{
		Stats: AdminStats{
			TotalQuizzes:   totalQuizzes,
			TotalUsers:     totalUsers,
			TotalQuestions: totalQuestions,
			TotalAttempts:  completedAttempts,
			AverageScore:   int(math.Round(avgScore)),
			CompletionRate: completionRate,
		},
		UserStats: AdminUserStats{
			TotalUsers:        totalUsers,
			ActiveUsers:       activeUsers,
			NewUsersThisMonth: newUsers,
		},
		QuizStats: AdminQuizStats{
			TotalQuizzes:     totalQuizzes,
			MostPopularQuiz:  mostPopular,
			AverageQuestions: averageQuestions,
		},
	}, nil
}

func (s *DashboardService) UserOverview(userID uint) (*UserDashboard, error) {
	attempts, err := s.AttemptRepo.FindCompletedByUser(userID)
	if err != nil {
		return nil, err
	}

	totalScore, bestScore, answeredQuestions := 0, 0, 0
	for _, a := range attempts {
		score := 0
		if a.Score != nil {
			score = *a.Score
		}
		totalScore += score
		if score > bestScore {
			bestScore = score
		}
		answeredQuestions += len(a.Answers)
	}

	averageScore := 0
	if len(attempts) > 0 {
		averageScore = int(math.Round(float64(totalScore) / float64(len(attempts))))
	}

	return &UserDashboard{
		TotalQuizzesCompleted: len(attempts),
		AverageScore:          averageScore,
		BestScore:             bestScore,
		TotalQuestions:        answeredQuestions,
	}, nil
}

// RecentAttempts 用户最近 5 次完成的作答
func (s *DashboardService) RecentAttempts(userID uint) ([]RecentAttemptItem, error) {
	attempts, err := s.AttemptRepo.FindRecentCompletedByUser(userID, 5)
	if err != nil {
		return nil, err
	}
	return s.withQuizTitles(attempts)
}

// ActivityFeed 管理端全站最近完成的作答
func (s *DashboardService) ActivityFeed(limit int) ([]RecentAttemptItem, error) {
	attempts, err := s.AttemptRepo.FindRecentCompleted(limit)
	if err != nil {
		return nil, err
	}
	return s.withQuizTitles(attempts)
}

func (s *DashboardService) withQuizTitles(attempts []model.QuizAttempt) ([]RecentAttemptItem, error) {
	titles := make(map[string]string)
	items := make([]RecentAttemptItem, 0, len(attempts))

	for _, a := range attempts {
		title, ok := titles[a.QuizID]
		if !ok {
			quiz, err := s.QuizRepo.FindByID(a.QuizID)
			if err != nil && err != gorm.ErrRecordNotFound {
				return nil, err
			}
			if quiz != nil {
				title = quiz.Title
			}
			titles[a.QuizID] = title
		}

		item := RecentAttemptItem{
			ID:        a.ID,
			QuizID:    a.QuizID,
			QuizTitle: title,
		}
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
