package service

import (
	"testing"
	"time"

	"quiz_platform_backend/internal/model"
	"quiz_platform_backend/internal/repository"
	"quiz_platform_backend/internal/util"
)

func newQuizService(t *testing.T) *QuizService {
	t.Helper()
	db := newTestDB(t)
	return NewQuizService(
		repository.NewQuizRepository(db),
		repository.NewQuestionRepository(db),
		repository.NewAttemptRepository(db),
	)
}

func TestCreateQuizRejectsBadTimeLimit(t *testing.T) {
	svc := newQuizService(t)
	for _, limit := range []int{0, -10} {
		if _, err := svc.CreateQuiz(1, "broken", "", limit); err == nil {
			t.Fatalf("time limit %d accepted", limit)
		}
	}
}

func TestQuizLifecycle(t *testing.T) {
	svc := newQuizService(t)

	quiz, err := svc.CreateQuiz(1, "go basics", "syntax and types", 600)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	item, err := svc.GetQuiz(quiz.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if item.Title != "go basics" || item.TimeLimit != 600 || item.QuestionCount != 0 {
		t.Fatalf("unexpected quiz view: %+v", item)
	}

	if _, err := svc.UpdateQuiz(quiz.ID, "go basics v2", "updated", 900); err != nil {
		t.Fatalf("update: %v", err)
	}
	item, err = svc.GetQuiz(quiz.ID)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if item.Title != "go basics v2" || item.TimeLimit != 900 {
		t.Fatalf("update not persisted: %+v", item)
	}

	list, err := svc.ListQuizzes()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 quiz in catalog, got %d", len(list))
	}

	if err := svc.DeleteQuiz(quiz.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetQuiz(quiz.ID); err != util.ErrQuizNotFound {
		t.Fatalf("deleted quiz still readable: %v", err)
	}
	if err := svc.DeleteQuiz(quiz.ID); err != util.ErrQuizNotFound {
		t.Fatalf("double delete: expected ErrQuizNotFound, got %v", err)
	}
}

func TestGetQuizUnknown(t *testing.T) {
	svc := newQuizService(t)
	if _, err := svc.GetQuiz("missing"); err != util.ErrQuizNotFound {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

func TestDeleteQuizWithAttemptsRefused(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(
		repository.NewQuizRepository(db),
		repository.NewQuestionRepository(db),
		repository.NewAttemptRepository(db),
	)

	quiz, err := svc.CreateQuiz(1, "taken quiz", "", 300)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := db.Create(&model.QuizAttempt{UserID: 7, QuizID: quiz.ID, StartedAt: time.Now()}).Error; err != nil {
		t.Fatalf("create attempt: %v", err)
	}

	if err := svc.DeleteQuiz(quiz.ID); err != util.ErrQuizHasAttempts {
		t.Fatalf("expected ErrQuizHasAttempts, got %v", err)
	}
	if _, err := svc.GetQuiz(quiz.ID); err != nil {
		t.Fatalf("quiz vanished despite refused delete: %v", err)
	}
}
