package service

import (
	"testing"

	"quiz_platform_backend/internal/model"
	"quiz_platform_backend/internal/repository"
	"quiz_platform_backend/internal/util"
)

func newQuestionService(t *testing.T) (*QuestionService, *model.Quiz) {
	t.Helper()
	db := newTestDB(t)
	quiz := &model.Quiz{Title: "authoring target", TimeLimit: 120, UserID: 1}
	if err := db.Create(quiz).Error; err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	return NewQuestionService(repository.NewQuestionRepository(db), repository.NewQuizRepository(db)), quiz
}

func TestAddQuestionValidation(t *testing.T) {
	svc, quiz := newQuestionService(t)

	_, err := svc.AddQuestion(quiz.ID, "lonely option", []OptionInput{
		{Content: "only one", IsCorrect: true},
	})
	if err != util.ErrQuestionNeedsOptions {
		t.Fatalf("single option: expected ErrQuestionNeedsOptions, got %v", err)
	}

	_, err = svc.AddQuestion(quiz.ID, "no correct answer", []OptionInput{
		{Content: "a"}, {Content: "b"},
	})
	if err != util.ErrQuestionNeedsCorrect {
		t.Fatalf("zero correct: expected ErrQuestionNeedsCorrect, got %v", err)
	}

	_, err = svc.AddQuestion(quiz.ID, "two correct answers", []OptionInput{
		{Content: "a", IsCorrect: true}, {Content: "b", IsCorrect: true},
	})
	if err != util.ErrQuestionNeedsCorrect {
		t.Fatalf("two correct: expected ErrQuestionNeedsCorrect, got %v", err)
	}

	_, err = svc.AddQuestion("no-such-quiz", "orphan", []OptionInput{
		{Content: "a", IsCorrect: true}, {Content: "b"},
	})
	if err != util.ErrQuizNotFound {
		t.Fatalf("missing quiz: expected ErrQuizNotFound, got %v", err)
	}
}

func TestAddQuestionPersistsOptions(t *testing.T) {
	svc, quiz := newQuestionService(t)

	question, err := svc.AddQuestion(quiz.ID, "what is 2+2?", []OptionInput{
		{Content: "3"},
		{Content: "4", IsCorrect: true},
		{Content: "5"},
	})
	if err != nil {
		t.Fatalf("add question: %v", err)
	}
	if question.ID == "" {
		t.Fatal("question ID not assigned")
	}
	if question.Type != model.QuestionTypeMultipleChoice {
		t.Fatalf("unexpected question type %q", question.Type)
	}

	stored, err := svc.QuestionRepo.FindByID(question.ID)
	if err != nil {
		t.Fatalf("reload question: %v", err)
	}
	if len(stored.Options) != 3 {
		t.Fatalf("expected 3 options, got %d", len(stored.Options))
	}
	correct := 0
	for _, o := range stored.Options {
		if o.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		t.Fatalf("expected exactly 1 correct option, got %d", correct)
	}
}

func TestQuestionsForTakerHidesCorrectness(t *testing.T) {
	svc, quiz := newQuestionService(t)

	if _, err := svc.AddQuestion(quiz.ID, "pick one", []OptionInput{
		{Content: "right", IsCorrect: true},
		{Content: "wrong"},
	}); err != nil {
		t.Fatalf("add question: %v", err)
	}

	views, err := svc.QuestionsForTaker(quiz.ID)
	if err != nil {
		t.Fatalf("taker view: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 question, got %d", len(views))
	}
	if len(views[0].Options) != 2 {
		t.Fatalf("expected 2 options, got %d", len(views[0].Options))
	}
	for _, o := range views[0].Options {
		if o.ID == "" || o.Content == "" {
			t.Fatalf("taker option missing fields: %+v", o)
		}
	}
}

func TestDeleteQuestionRemovesOptions(t *testing.T) {
	svc, quiz := newQuestionService(t)

	question, err := svc.AddQuestion(quiz.ID, "temp", []OptionInput{
		{Content: "a", IsCorrect: true}, {Content: "b"},
	})
	if err != nil {
		t.Fatalf("add question: %v", err)
	}

	if err := svc.DeleteQuestion(question.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.QuestionRepo.FindByID(question.ID); err == nil {
		t.Fatal("question still readable after delete")
	}
	if err := svc.DeleteQuestion(question.ID); err != util.ErrQuestionNotFound {
		t.Fatalf("double delete: expected ErrQuestionNotFound, got %v", err)
	}
}
