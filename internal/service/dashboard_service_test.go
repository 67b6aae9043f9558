package service

import (
	"testing"
	"time"

	"quiz_platform_backend/internal/model"
	"quiz_platform_backend/internal/repository"

	"gorm.io/gorm"
)

func newDashboardService(t *testing.T) (*DashboardService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewDashboardService(
		repository.NewUserRepository(db),
		repository.NewQuizRepository(db),
		repository.NewQuestionRepository(db),
		repository.NewAttemptRepository(db),
	), db
}

func completedAttempt(t *testing.T, db *gorm.DB, userID uint, quizID string, score int, endedAt time.Time) *model.QuizAttempt {
	t.Helper()
	attempt := &model.QuizAttempt{
		UserID:    userID,
		QuizID:    quizID,
		StartedAt: endedAt.Add(-5 * time.Minute),
		EndedAt:   &endedAt,
		Score:     &score,
		Completed: true,
	}
	if err := db.Create(attempt).Error; err != nil {
		t.Fatalf("create attempt: %v", err)
	}
	return attempt
}

func TestUserOverviewAggregates(t *testing.T) {
	svc, db := newDashboardService(t)
	quiz := seedQuiz(t, db, 2)

	now := time.Now()
	completedAttempt(t, db, 7, quiz.ID, 60, now.Add(-2*time.Hour))
	completedAttempt(t, db, 7, quiz.ID, 90, now.Add(-1*time.Hour))
	// 未完成的不计入
	db.Create(&model.QuizAttempt{UserID: 7, QuizID: quiz.ID, StartedAt: now})
	// 别人的不计入
	completedAttempt(t, db, 8, quiz.ID, 10, now)

	overview, err := svc.UserOverview(7)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if overview.TotalQuizzesCompleted != 2 {
		t.Fatalf("expected 2 completed, got %d", overview.TotalQuizzesCompleted)
	}
	if overview.AverageScore != 75 {
		t.Fatalf("expected average 75, got %d", overview.AverageScore)
	}
	if overview.BestScore != 90 {
		t.Fatalf("expected best 90, got %d", overview.BestScore)
	}
}

func TestUserOverviewEmpty(t *testing.T) {
	svc, _ := newDashboardService(t)
	overview, err := svc.UserOverview(7)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if overview.TotalQuizzesCompleted != 0 || overview.AverageScore != 0 || overview.BestScore != 0 {
		t.Fatalf("expected zeroed overview, got %+v", overview)
	}
}

func TestRecentAttemptsCarryQuizTitles(t *testing.T) {
	svc, db := newDashboardService(t)
	quiz := seedQuiz(t, db, 1)

	now := time.Now()
	for i := 0; i < 6; i++ {
		completedAttempt(t, db, 7, quiz.ID, 50+i, now.Add(time.Duration(-i)*time.Hour))
	}

	recent, err := svc.RecentAttempts(7)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 5 {
		t.Fatalf("expected 5 recent attempts, got %d", len(recent))
	}
	for _, item := range recent {
		if item.QuizTitle != quiz.Title {
			t.Fatalf("missing quiz title on %+v", item)
		}
	}
	// 最近的排最前
	if recent[0].Score != 50 {
		t.Fatalf("expected newest attempt (score 50) first, got %d", recent[0].Score)
	}
}

func TestAdminOverviewCounts(t *testing.T) {
	svc, db := newDashboardService(t)

	db.Create(&model.User{Name: "Ada", Email: "ada@example.com", Password: "x", Role: model.RoleUser})
	db.Create(&model.User{Name: "Root", Email: "root@example.com", Password: "x", Role: model.RoleAdmin})

	quiz := seedQuiz(t, db, 2)
	other := seedQuiz(t, db, 4)

	now := time.Now()
	completedAttempt(t, db, 1, quiz.ID, 100, now)
	completedAttempt(t, db, 1, other.ID, 50, now)
	db.Create(&model.QuizAttempt{UserID: 2, QuizID: quiz.ID, StartedAt: now})

	overview, err := svc.AdminOverview()
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if overview.Stats.TotalQuizzes != 2 || overview.Stats.TotalUsers != 2 || overview.Stats.TotalQuestions != 6 {
		t.Fatalf("unexpected totals: %+v", overview.Stats)
	}
	if overview.Stats.TotalAttempts != 2 {
		t.Fatalf("expected 2 completed attempts, got %d", overview.Stats.TotalAttempts)
	}
	if overview.Stats.AverageScore != 75 {
		t.Fatalf("expected average 75, got %d", overview.Stats.AverageScore)
	}
	if overview.Stats.CompletionRate != 67 {
		t.Fatalf("expected completion rate 67, got %d", overview.Stats.CompletionRate)
	}
	if overview.QuizStats.AverageQuestions != 3.0 {
		t.Fatalf("expected 3.0 avg questions, got %v", overview.QuizStats.AverageQuestions)
	}
	if overview.QuizStats.MostPopularQuiz == "N/A" {
		t.Fatal("most popular quiz not resolved")
	}
	if overview.UserStats.NewUsersThisMonth < 2 {
		t.Fatalf("expected new users this month >= 2, got %d", overview.UserStats.NewUsersThisMonth)
	}
}

func TestAdminOverviewEmptyDatabase(t *testing.T) {
	svc, _ := newDashboardService(t)
	overview, err := svc.AdminOverview()
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if overview.Stats.CompletionRate != 0 || overview.Stats.AverageScore != 0 {
		t.Fatalf("expected zero rates, got %+v", overview.Stats)
	}
	if overview.QuizStats.MostPopularQuiz != "N/A" {
		t.Fatalf("expected N/A fallback, got %q", overview.QuizStats.MostPopularQuiz)
	}
}
